// ABOUTME: PCM audio encoder
// ABOUTME: Encodes float32 samples to 16-bit, 24-bit or float little-endian PCM
package encode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
)

// Layout names a PCM sample layout
type Layout string

const (
	S16LE Layout = "s16le"
	S24LE Layout = "s24le"
	F32LE Layout = "f32le"
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	layout Layout
	width  int
}

// NewPCM creates a new PCM encoder
func NewPCM(layout Layout) (*PCMEncoder, error) {
	var width int
	switch layout {
	case S16LE:
		width = 2
	case S24LE:
		width = 3
	case F32LE:
		width = 4
	default:
		return nil, fmt.Errorf("unsupported PCM layout: %q (supported: s16le, s24le, f32le)", layout)
	}

	return &PCMEncoder{layout: layout, width: width}, nil
}

// MustPCM is NewPCM for the built-in layouts
func MustPCM(layout Layout) *PCMEncoder {
	e, err := NewPCM(layout)
	if err != nil {
		panic(err)
	}
	return e
}

// Layout returns the encoder's sample layout
func (e *PCMEncoder) Layout() Layout {
	return e.layout
}

// BytesPerSample returns the encoded width of one sample
func (e *PCMEncoder) BytesPerSample() int {
	return e.width
}

// Put encodes as many samples as fit in dst
func (e *PCMEncoder) Put(dst []byte, samples []float32) int {
	count := len(dst) / e.width
	if count > len(samples) {
		count = len(samples)
	}

	for i, sample := range samples[:count] {
		e.put(dst[i*e.width:], sample)
	}
	return count * e.width
}

// Append encodes samples onto the end of dst
func (e *PCMEncoder) Append(dst []byte, samples []float32) []byte {
	start := len(dst)
	need := start + len(samples)*e.width
	if cap(dst) < need {
		grown := make([]byte, start, need)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:need]
	e.Put(dst[start:], samples)
	return dst
}

func (e *PCMEncoder) put(b []byte, sample float32) {
	switch e.layout {
	case S16LE:
		binary.LittleEndian.PutUint16(b, uint16(audio.SampleToInt16(sample)))
	case S24LE:
		v := sampleToInt24(sample)
		b[0] = byte(v)
		b[1] = byte(v >> 8)
		b[2] = byte(v >> 16)
	case F32LE:
		binary.LittleEndian.PutUint32(b, math.Float32bits(sample))
	}
}

// sampleToInt24 converts a normalized sample to signed 24-bit PCM with clipping
func sampleToInt24(sample float32) int32 {
	s := audio.Clamp(sample)
	if s >= 1 {
		return audio.Max24Bit
	}
	return int32(float64(s) * 8388608)
}
