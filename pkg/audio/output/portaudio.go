//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Cross-platform audio output using a PortAudio float32 callback stream per sink
package output

import (
	"fmt"
	"sync"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog/log"
)

// PortAudio output implementation
type PortAudio struct {
	mu          sync.Mutex
	initialized bool
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() Output {
	return &PortAudio{}
}

func (p *PortAudio) initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: failed to initialize portaudio: %v", ErrAudioOutput, err)
	}
	p.initialized = true
	return nil
}

// NewSink opens a default output stream at the stream's format
func (p *PortAudio) NewSink(format audio.Format) (Sink, error) {
	if err := p.initialize(); err != nil {
		return nil, err
	}

	s := &portAudioSink{feeder: newFeeder(format)}

	stream, err := portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), 0, func(out []float32) {
		if n, live := s.fill(out); n == 0 && !live {
			s.signalDone()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open stream: %v", ErrAudioOutput, err)
	}
	s.stream = stream

	log.Debug().Stringer("format", format).Msg("PortAudio sink created")
	return s, nil
}

// Close releases resources
func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}
	p.initialized = false
	return portaudio.Terminate()
}

type portAudioSink struct {
	*feeder

	mu      sync.Mutex
	stream  *portaudio.Stream
	started bool
}

func (s *portAudioSink) Append(stream audio.Stream) {
	s.feeder.Append(stream)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stream == nil {
		return
	}
	s.started = true
	if err := s.stream.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start PortAudio stream")
		s.stop()
	}
}

func (s *portAudioSink) Pause() {
	if !s.setPaused(true) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started && s.stream != nil {
		if err := s.stream.Stop(); err != nil {
			log.Warn().Err(err).Msg("PortAudio stream stop error")
		}
	}
}

func (s *portAudioSink) Resume() {
	if !s.setPaused(false) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started && s.stream != nil {
		if err := s.stream.Start(); err != nil {
			log.Warn().Err(err).Msg("PortAudio stream start error")
		}
	}
}

func (s *portAudioSink) Stop() {
	s.stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return
	}
	if s.started {
		if err := s.stream.Stop(); err != nil {
			log.Warn().Err(err).Msg("PortAudio stream stop error")
		}
	}
	if err := s.stream.Close(); err != nil {
		log.Warn().Err(err).Msg("PortAudio stream close error")
	}
	s.stream = nil
}
