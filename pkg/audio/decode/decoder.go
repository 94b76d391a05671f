// ABOUTME: Demuxer and decoder interface definitions
// ABOUTME: Container and codec registries keyed by name and codec id
package decode

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrFileNotFound is returned when the track path does not exist
	ErrFileNotFound = errors.New("file not found")

	// ErrDecode covers unrecognized containers, missing decoders and corrupt data
	ErrDecode = errors.New("decode error")

	// ErrNoAudioTracks is returned when a file holds no decodable audio track
	ErrNoAudioTracks = errors.New("no audio tracks")
)

// CodecID identifies a codec in the codec registry
type CodecID string

const (
	CodecPCMU8    CodecID = "pcm_u8"
	CodecPCMS16LE CodecID = "pcm_s16le"
	CodecPCMS24LE CodecID = "pcm_s24le"
	CodecPCMS32LE CodecID = "pcm_s32le"
	CodecPCMF32LE CodecID = "pcm_f32le"
	CodecPCMF64LE CodecID = "pcm_f64le"
	CodecFLAC     CodecID = "flac"
)

// CodecParams describes the encoded stream of a track
type CodecParams struct {
	Codec         CodecID
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// Track is one elementary stream inside a container
type Track struct {
	ID     int
	Params CodecParams
}

// Packet is one container-level chunk of encoded audio.
// Payload carries container-specific data for codecs that need more than
// raw bytes (a parsed FLAC frame, for example).
type Packet struct {
	TrackID int
	Data    []byte
	Payload any
}

// Demuxer reads packets out of a container
type Demuxer interface {
	// Tracks lists the audio tracks found in the container
	Tracks() []Track

	// DefaultTrack returns the track to play
	DefaultTrack() (Track, bool)

	// NextPacket returns the next packet, or io.EOF at end of stream
	NextPacket() (Packet, error)

	// Close releases demuxer resources (not the underlying reader)
	Close() error
}

// Decoder decodes packets of one track to interleaved float32 samples
type Decoder interface {
	// Decode converts one packet to samples
	Decode(p Packet) ([]float32, error)

	// CodecParams returns the parameters the decoder was built for
	CodecParams() CodecParams

	// Close releases decoder resources
	Close() error
}

// Container describes a registered container format
type Container struct {
	Name       string
	Extensions []string
	Open       func(r io.ReadSeeker) (Demuxer, error)
}

// NewDecoderFunc builds a decoder for the given parameters
type NewDecoderFunc func(params CodecParams) (Decoder, error)

var (
	registryMu sync.RWMutex
	containers = map[string]Container{}
	codecs     = map[CodecID]NewDecoderFunc{}
)

// RegisterContainer makes a container format available to Probe
func RegisterContainer(c Container) {
	registryMu.Lock()
	defer registryMu.Unlock()
	containers[c.Name] = c
}

// RegisterCodec makes a codec available to NewDecoder
func RegisterCodec(id CodecID, fn NewDecoderFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	codecs[id] = fn
}

// NewDecoder creates a decoder for the track's codec
func NewDecoder(params CodecParams) (Decoder, error) {
	registryMu.RLock()
	fn, ok := codecs[params.Codec]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: no decoder for codec %q", ErrDecode, params.Codec)
	}
	return fn(params)
}

// Containers returns the names of all registered containers
func Containers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(containers))
	for name := range containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupContainer(name string) (Container, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := containers[name]
	return c, ok
}

// containerForExtension maps a file extension (with or without dot) to a container
func containerForExtension(ext string) (Container, bool) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return Container{}, false
	}

	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, c := range containers {
		for _, e := range c.Extensions {
			if e == ext {
				return c, true
			}
		}
	}
	return Container{}, false
}

// singleTrack implements the track half of Demuxer for one-stream containers
type singleTrack struct {
	track Track
}

func (s singleTrack) Tracks() []Track {
	return []Track{s.track}
}

func (s singleTrack) DefaultTrack() (Track, bool) {
	return s.track, true
}
