// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats, the Stream interface and sample conversions
package audio

import (
	"fmt"
	"time"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes an interleaved sample stream
type Format struct {
	SampleRate int
	Channels   int
}

// Valid reports whether both sample rate and channel count are known
func (f Format) Valid() bool {
	return f.SampleRate > 0 && f.Channels > 0
}

// Duration converts a count of interleaved samples to playback time
func (f Format) Duration(samples int64) time.Duration {
	if !f.Valid() {
		return 0
	}
	frames := samples / int64(f.Channels)
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch", f.SampleRate, f.Channels)
}

// Stream is a pull-based source of interleaved float32 samples.
// Read returns io.EOF once the stream is exhausted; exhaustion is terminal.
type Stream interface {
	Format() Format
	Read(samples []float32) (int, error)
}

// SampleFromUint8 converts unsigned 8-bit PCM to a normalized sample
func SampleFromUint8(sample uint8) float32 {
	return float32(int(sample)-128) / 128
}

// SampleFromInt16 converts signed 16-bit PCM to a normalized sample
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / 32768
}

// SampleFromInt24 converts a sign-extended 24-bit value to a normalized sample
func SampleFromInt24(sample int32) float32 {
	return float32(sample) / 8388608
}

// SampleFromInt32 converts signed 32-bit PCM to a normalized sample
func SampleFromInt32(sample int32) float32 {
	return float32(float64(sample) / 2147483648)
}

// SampleFromBits normalizes a signed integer sample of the given bit depth
func SampleFromBits(sample int32, bits int) float32 {
	if bits <= 0 || bits > 32 {
		return 0
	}
	return float32(float64(sample) / float64(int64(1)<<(bits-1)))
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	// Reconstruct 24-bit value and sign-extend to 32-bit
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// SampleToInt16 converts a normalized sample to signed 16-bit PCM with clipping
func SampleToInt16(sample float32) int16 {
	s := Clamp(sample)
	if s >= 1 {
		return 32767
	}
	return int16(s * 32768)
}

// Clamp limits a sample to [-1, 1]
func Clamp(sample float32) float32 {
	if sample > 1 {
		return 1
	}
	if sample < -1 {
		return -1
	}
	return sample
}
