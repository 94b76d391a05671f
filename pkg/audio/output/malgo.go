// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Opens a miniaudio float32 device per sink at the stream's native format
package output

import (
	"fmt"
	"sync"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
	"github.com/Resonate-Protocol/musicplayer/pkg/audio/encode"
	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog/log"
)

var f32 = encode.MustPCM(encode.F32LE)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
}

// NewMalgo creates a new Malgo output; the context is initialized by the first NewSink
func NewMalgo() *Malgo {
	return &Malgo{}
}

func (m *Malgo) context() (*malgo.AllocatedContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to initialize malgo context: %v", ErrAudioOutput, err)
		}
		m.malgoCtx = ctx
	}
	return m.malgoCtx, nil
}

// NewSink opens a playback device for the format; it starts on the first Append
func (m *Malgo) NewSink(format audio.Format) (Sink, error) {
	ctx, err := m.context()
	if err != nil {
		return nil, err
	}

	s := &malgoSink{feeder: newFeeder(format)}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(format.Channels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	onSamples := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		s.dataCallback(pOutputSample, frameCount)
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to initialize playback device: %v", ErrAudioOutput, err)
	}
	s.device = device

	log.Debug().Stringer("format", format).Msg("Malgo sink created")
	return s, nil
}

// Close releases the malgo context
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Warn().Err(err).Msg("Malgo context uninit error")
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}

// malgoSink drives one miniaudio device from its feeder
type malgoSink struct {
	*feeder

	mu      sync.Mutex
	device  *malgo.Device
	started bool

	samples []float32
}

// dataCallback is called by malgo to fill the audio output buffer
func (s *malgoSink) dataCallback(pOutput []byte, frameCount uint32) {
	count := int(frameCount) * s.format.Channels
	if cap(s.samples) < count {
		s.samples = make([]float32, count)
	}
	samples := s.samples[:count]

	n, live := s.fill(samples)
	f32.Put(pOutput, samples)

	// The callback after the last real samples marks the end of playback
	if n == 0 && !live {
		s.signalDone()
	}
}

func (s *malgoSink) Append(stream audio.Stream) {
	s.feeder.Append(stream)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.device == nil {
		return
	}
	s.started = true
	if err := s.device.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start playback device")
		s.stop()
	}
}

func (s *malgoSink) Pause() {
	if !s.setPaused(true) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started && s.device != nil {
		if err := s.device.Stop(); err != nil {
			log.Warn().Err(err).Msg("Device stop error")
		}
	}
}

func (s *malgoSink) Resume() {
	if !s.setPaused(false) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started && s.device != nil {
		if err := s.device.Start(); err != nil {
			log.Warn().Err(err).Msg("Device start error")
		}
	}
}

func (s *malgoSink) Stop() {
	s.stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.device != nil {
		s.device.Uninit()
		s.device = nil
	}
}
