package notify

import (
	"context"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 512
)

// Chime plays a short decaying two-tone bell when equilibrium is reached.
type Chime struct {
	stream *portaudio.Stream

	mu       sync.Mutex
	position int
	length   int
	playing  bool

	Active bool
}

func NewChime() *Chime {
	return &Chime{length: SampleRate * 2 / 5}
}

func (c *Chime) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 1, SampleRate, BufferSize, c.process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	c.stream = stream
	c.Active = true
	return nil
}

func (c *Chime) Notify(_ context.Context, e Event) error {
	if e.Kind != EquilibriumReached {
		return nil
	}
	c.mu.Lock()
	c.position = 0
	c.playing = true
	c.mu.Unlock()
	return nil
}

func (c *Chime) Close() error {
	if c.stream == nil {
		return nil
	}
	c.stream.Stop()
	err := c.stream.Close()
	portaudio.Terminate()
	c.stream = nil
	c.Active = false
	return err
}

func (c *Chime) process(out []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range out {
		out[i] = 0
		if !c.playing {
			continue
		}
		out[i] = float32(chimeSample(c.position, c.length))
		c.position++
		if c.position >= c.length {
			c.playing = false
		}
	}
}

// chimeSample is an A5/E6 pair under an exponential decay.
func chimeSample(pos, length int) float64 {
	t := float64(pos) / SampleRate
	env := math.Exp(-6 * float64(pos) / float64(length))
	tone := 0.6*math.Sin(2*math.Pi*880*t) + 0.4*math.Sin(2*math.Pi*1318.5*t)
	return 0.3 * env * tone
}
