// ABOUTME: Headless output that consumes samples without a sound device
// ABOUTME: Runs in real time on a ticker, or is pumped by hand in tests
package output

import (
	"sync"
	"time"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
	"github.com/rs/zerolog/log"
)

// nullTick is the period of the real-time pump
const nullTick = 10 * time.Millisecond

// Null output discards samples at the rate a device would consume them
type Null struct {
	manual bool

	mu    sync.Mutex
	sinks []*NullSink
}

// NewNull creates a headless output that plays in real time
func NewNull() *Null {
	return &Null{}
}

// NewManualNull creates a headless output whose sinks only advance on Pump
func NewManualNull() *Null {
	return &Null{manual: true}
}

// NewSink creates a sink; real-time sinks start consuming on the first Append
func (n *Null) NewSink(format audio.Format) (Sink, error) {
	s := &NullSink{
		feeder: newFeeder(format),
		quit:   make(chan struct{}),
		manual: n.manual,
	}

	n.mu.Lock()
	n.sinks = append(n.sinks, s)
	n.mu.Unlock()

	log.Debug().Stringer("format", format).Bool("manual", n.manual).Msg("Null sink created")
	return s, nil
}

// Sinks returns every sink created so far, oldest first
func (n *Null) Sinks() []*NullSink {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*NullSink(nil), n.sinks...)
}

// Last returns the most recently created sink, or nil
func (n *Null) Last() *NullSink {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sinks) == 0 {
		return nil
	}
	return n.sinks[len(n.sinks)-1]
}

// Close stops every sink
func (n *Null) Close() error {
	for _, s := range n.Sinks() {
		s.Stop()
	}
	return nil
}

// NullSink is a Sink with no device behind it
type NullSink struct {
	*feeder
	manual bool

	startOnce sync.Once
	quit      chan struct{}
	quitOnce  sync.Once

	pumpMu sync.Mutex
	buf    []float32
}

// Append queues a stream and starts the real-time pump
func (s *NullSink) Append(stream audio.Stream) {
	s.feeder.Append(stream)
	if !s.manual {
		s.startOnce.Do(func() {
			go s.run()
		})
	}
}

// Pump consumes up to frames frames and returns the samples delivered.
// Exhaustion closes Done.
func (s *NullSink) Pump(frames int) int {
	return len(s.pump(frames))
}

// Capture is Pump returning a copy of the delivered samples
func (s *NullSink) Capture(frames int) []float32 {
	return append([]float32(nil), s.pump(frames)...)
}

func (s *NullSink) pump(frames int) []float32 {
	s.pumpMu.Lock()
	defer s.pumpMu.Unlock()

	size := frames * s.format.Channels
	if cap(s.buf) < size {
		s.buf = make([]float32, size)
	}

	n, live := s.fill(s.buf[:size])
	if !live {
		s.signalDone()
	}
	return s.buf[:n]
}

// Pause halts delivery
func (s *NullSink) Pause() {
	s.setPaused(true)
}

// Resume continues delivery
func (s *NullSink) Resume() {
	s.setPaused(false)
}

// Stop halts playback and ends the pump goroutine
func (s *NullSink) Stop() {
	s.stop()
	s.quitOnce.Do(func() {
		close(s.quit)
	})
}

func (s *NullSink) run() {
	ticker := time.NewTicker(nullTick)
	defer ticker.Stop()

	frames := s.format.SampleRate * int(nullTick) / int(time.Second)
	if frames < 1 {
		frames = 1
	}

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			s.Pump(frames)
			select {
			case <-s.Done():
				return
			default:
			}
		}
	}
}
