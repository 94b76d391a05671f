// ABOUTME: Oto-based audio output implementation
// ABOUTME: One process-wide 16-bit oto context; each sink is an oto player reading from its feeder
package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
	"github.com/Resonate-Protocol/musicplayer/pkg/audio/encode"
	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog/log"
)

const (
	// Device format of the oto context; sinks resample into it
	otoSampleRate = 44100
	otoChannels   = 2

	// otoDrainPoll is how often a sink checks whether oto has played its buffer out
	otoDrainPoll = 20 * time.Millisecond
)

var s16 = encode.MustPCM(encode.S16LE)

// Oto output implementation using oto library.
// oto allows a single context per process, so the device format is fixed.
type Oto struct {
	mu     sync.Mutex
	otoCtx *oto.Context
	format audio.Format
}

// NewOto creates a new Oto output; the device is opened by the first NewSink
func NewOto() *Oto {
	return &Oto{
		format: audio.Format{SampleRate: otoSampleRate, Channels: otoChannels},
	}
}

// open initializes the oto context once
func (o *Oto) open() (*oto.Context, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		return o.otoCtx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   o.format.SampleRate,
		ChannelCount: o.format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create oto context: %v", ErrAudioOutput, err)
	}

	<-readyChan

	o.otoCtx = ctx
	log.Info().Stringer("format", o.format).Msg("Audio output initialized (oto)")
	return ctx, nil
}

// NewSink creates a player on the shared context
func (o *Oto) NewSink(format audio.Format) (Sink, error) {
	ctx, err := o.open()
	if err != nil {
		return nil, err
	}

	s := &otoSink{
		feeder: newFeeder(o.format),
		quit:   make(chan struct{}),
	}
	s.player = ctx.NewPlayer(s)

	log.Debug().Stringer("source", format).Stringer("device", o.format).Msg("Oto sink created")
	return s, nil
}

// Close suspends the context; oto cannot reopen one in the same process
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			return fmt.Errorf("%w: failed to suspend oto context: %v", ErrAudioOutput, err)
		}
	}
	return nil
}

// otoSink feeds an oto player with 16-bit samples
type otoSink struct {
	*feeder
	player *oto.Player

	mu      sync.Mutex
	started bool
	quit    chan struct{}
	closed  bool
	samples []float32
}

// Read implements io.Reader for the oto player
func (s *otoSink) Read(p []byte) (int, error) {
	count := len(p) / 2
	if cap(s.samples) < count {
		s.samples = make([]float32, count)
	}
	samples := s.samples[:count]

	n, live := s.fill(samples)
	if n == 0 && !live {
		return 0, io.EOF
	}

	// Zero padding is written too while paused or waiting for data
	s16.Put(p, samples)

	if !live {
		return n * 2, nil
	}
	return count * 2, nil
}

func (s *otoSink) Append(stream audio.Stream) {
	s.feeder.Append(stream)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true
	s.player.Play()
	go s.watchDrain()
}

// watchDrain closes Done once the feeder is exhausted and oto has played its buffer
func (s *otoSink) watchDrain() {
	ticker := time.NewTicker(otoDrainPoll)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			if s.drained() && !s.Paused() && !s.player.IsPlaying() {
				s.signalDone()
				return
			}
		}
	}
}

func (s *otoSink) Pause() {
	if s.setPaused(true) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.closed {
			s.player.Pause()
		}
	}
}

func (s *otoSink) Resume() {
	if s.setPaused(false) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.started && !s.closed {
			s.player.Play()
		}
	}
}

func (s *otoSink) Stop() {
	s.stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.quit)

	s.player.Pause()
	if err := s.player.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close oto player")
	}
}
