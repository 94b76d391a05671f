// ABOUTME: Audio output interface definitions
// ABOUTME: Common interfaces for playback backends and backend selection by name
package output

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
)

// ErrAudioOutput is returned when the playback device cannot be opened or used
var ErrAudioOutput = errors.New("audio output error")

// Output represents an audio output device
type Output interface {
	// NewSink creates a playback sink for streams of the given format
	NewSink(format audio.Format) (Sink, error)

	// Close releases output resources
	Close() error
}

// Sink plays appended streams in the background
type Sink interface {
	// Format returns the format samples are delivered in
	Format() audio.Format

	// Append queues a stream; playback starts with the first one
	Append(stream audio.Stream)

	// Pause halts delivery, keeping the position
	Pause()

	// Resume continues delivery from where Pause left off
	Resume()

	// Stop halts playback and discards queued streams.
	// No samples are pulled from any stream after Stop returns.
	Stop()

	// SetVolume sets the software gain (1.0 is unity)
	SetVolume(volume float64)

	// Volume returns the current gain
	Volume() float64

	// Paused reports whether delivery is paused
	Paused() bool

	// Played returns the number of samples delivered, in the sink's format
	Played() int64

	// Done is closed once every queued stream is exhausted, or on Stop
	Done() <-chan struct{}
}

// Backend names accepted by Open
const (
	BackendOto       = "oto"
	BackendMalgo     = "malgo"
	BackendPortAudio = "portaudio"
	BackendNull      = "null"
)

// Backends lists the backend names accepted by Open
func Backends() []string {
	return []string{BackendOto, BackendMalgo, BackendPortAudio, BackendNull}
}

// Open returns the output backend with the given name.
// An empty name selects oto.
func Open(backend string) (Output, error) {
	switch backend {
	case BackendOto, "":
		return NewOto(), nil
	case BackendMalgo:
		return NewMalgo(), nil
	case BackendPortAudio:
		return NewPortAudio(), nil
	case BackendNull:
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrAudioOutput, backend)
	}
}
