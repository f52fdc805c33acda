package telemetry

// DefaultCapacity matches the number of points a chart keeps on screen.
const DefaultCapacity = 200

type Point struct {
	Tick int     `json:"tick"`
	A    int     `json:"a"`
	B    int     `json:"b"`
	AB   int     `json:"ab"`
	Kc   float64 `json:"kc"`
}

// Series is a fixed-capacity FIFO of points. Pushing into a full series
// evicts the oldest point.
type Series struct {
	buf   []Point
	head  int
	count int
}

func NewSeries(capacity int) *Series {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Series{buf: make([]Point, capacity)}
}

func (s *Series) Push(p Point) {
	idx := (s.head + s.count) % len(s.buf)
	if s.count == len(s.buf) {
		s.buf[s.head] = p
		s.head = (s.head + 1) % len(s.buf)
		return
	}
	s.buf[idx] = p
	s.count++
}

func (s *Series) Len() int { return s.count }
func (s *Series) Cap() int { return len(s.buf) }

func (s *Series) Reset() {
	s.head = 0
	s.count = 0
}

// Points returns the buffered points oldest first.
func (s *Series) Points() []Point {
	out := make([]Point, s.count)
	for i := 0; i < s.count; i++ {
		out[i] = s.buf[(s.head+i)%len(s.buf)]
	}
	return out
}

func (s *Series) Last() (Point, bool) {
	if s.count == 0 {
		return Point{}, false
	}
	return s.buf[(s.head+s.count-1)%len(s.buf)], true
}

// Column extracts one value per point, oldest first.
func (s *Series) Column(f func(Point) float64) []float64 {
	pts := s.Points()
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = f(p)
	}
	return out
}

func ColumnA(p Point) float64  { return float64(p.A) }
func ColumnB(p Point) float64  { return float64(p.B) }
func ColumnAB(p Point) float64 { return float64(p.AB) }
func ColumnKc(p Point) float64 { return p.Kc }
