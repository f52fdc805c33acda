package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/equilab/internal/particles"
	"github.com/san-kum/equilab/internal/telemetry"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

var seriesHeader = []string{"tick", "a", "b", "ab", "kc"}

// Store writes finished runs as directories under baseDir. It is an export of
// telemetry only; nothing is ever loaded back into a simulation.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Timestamp time.Time        `json:"timestamp"`
	Seed      int64            `json:"seed"`
	Width     float64          `json:"width"`
	Height    float64          `json:"height"`
	Initial   particles.Counts `json:"initial"`
	TargetKc  float64          `json:"target_kc"`
	Speed     float64          `json:"speed"`
	Tolerance float64          `json:"tolerance"`
	Steps     int              `json:"steps"`
	Reactions int              `json:"reactions"`
	Reached   bool             `json:"reached"`
	ReachedAt int              `json:"reached_at"`
	Final     particles.Counts `json:"final"`
	// Kc is omitted when the final ratio is undefined.
	Kc *float64 `json:"kc,omitempty"`
}

// NewMetadata describes a headless run of a simulation built from cfg.
func NewMetadata(name string, cfg particles.Config, res *particles.RunResult) RunMetadata {
	meta := RunMetadata{
		Name:      name,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Initial:   cfg.Counts,
		TargetKc:  cfg.TargetKc,
		Speed:     cfg.Speed,
		Tolerance: cfg.Tolerance,
		ReachedAt: -1,
	}
	if res != nil {
		meta.Steps = res.Steps
		meta.Reactions = res.Reactions
		meta.Reached = res.Reached
		meta.ReachedAt = res.ReachedAt
		meta.Final = res.Final
		meta.Kc = finitePtr(res.Kc)
	}
	return meta
}

func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Save writes meta and points and returns the run id. meta.ID is assigned
// here.
func (s *Store) Save(meta RunMetadata, points []telemetry.Point) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	name := meta.Name
	if name == "" {
		name = "run"
	}
	runID, runDir, err := s.reserve(name)
	if err != nil {
		return "", err
	}
	meta.ID = runID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), points); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

// reserve creates a fresh run directory, suffixing the id when two runs land
// in the same second.
func (s *Store) reserve(name string) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	for i := 0; i < 1000; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("no free run id for %s", base)
}

// closeFile reports the Close error unless err is already set.
func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); *err == nil {
		*err = cerr
	}
}

func writeMetadata(path string, meta RunMetadata) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(f, &err)

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeSeries(path string, points []telemetry.Point) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(f, &err)
	return WriteCSV(f, points)
}

// WriteCSV writes points in the series.csv layout. Undefined Kc readings are
// written as NaN or +Inf.
func WriteCSV(out io.Writer, points []telemetry.Point) error {
	w := csv.NewWriter(out)
	if err := w.Write(seriesHeader); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			strconv.Itoa(p.Tick),
			strconv.Itoa(p.A),
			strconv.Itoa(p.B),
			strconv.Itoa(p.AB),
			strconv.FormatFloat(p.Kc, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns all readable runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries reads the telemetry of a run. Malformed rows are skipped.
func (s *Store) LoadSeries(runID string) ([]telemetry.Point, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []telemetry.Point{}, nil
	}

	points := make([]telemetry.Point, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(seriesHeader) {
			continue
		}
		p, ok := parsePoint(rec)
		if !ok {
			continue
		}
		points = append(points, p)
	}
	return points, nil
}

func parsePoint(rec []string) (telemetry.Point, bool) {
	var ints [4]int
	for i := range ints {
		v, err := strconv.Atoi(rec[i])
		if err != nil {
			return telemetry.Point{}, false
		}
		ints[i] = v
	}
	kc, err := strconv.ParseFloat(rec[4], 64)
	if err != nil {
		return telemetry.Point{}, false
	}
	return telemetry.Point{Tick: ints[0], A: ints[1], B: ints[2], AB: ints[3], Kc: kc}, true
}
