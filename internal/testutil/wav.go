// ABOUTME: Test fixtures for audio files
// ABOUTME: Writes WAV files with go-audio's encoder and FLAC files with mewkiz/flac's
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// flacBlockSize is the number of samples per channel in each written FLAC frame
const flacBlockSize = 4096

// Ramp returns n 16-bit sample values that differ from their neighbours,
// so a sample's value identifies its position
func Ramp(n int) []int {
	data := make([]int, n)
	for i := range data {
		data[i] = i%30000 - 15000
	}
	return data
}

// WriteWAV writes integer PCM to dir/name and returns the path
func WriteWAV(t testing.TB, dir, name string, sampleRate, channels, bitDepth int, data []int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Data: data,
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write WAV data: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finalize WAV: %v", err)
	}
	return path
}

// WriteFLAC writes one slice of samples per channel to dir/name and returns the path.
// All channels must have the same length.
func WriteFLAC(t testing.TB, dir, name string, sampleRate, bitDepth int, channels [][]int32) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}

	nsamples := len(channels[0])
	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(sampleRate),
		NChannels:     uint8(len(channels)),
		BitsPerSample: uint8(bitDepth),
		NSamples:      uint64(nsamples),
	}

	enc, err := flac.NewEncoder(f, info)
	if err != nil {
		f.Close()
		t.Fatalf("failed to create FLAC encoder: %v", err)
	}

	for offset := 0; offset < nsamples; offset += flacBlockSize {
		blockSize := min(flacBlockSize, nsamples-offset)

		fr := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(blockSize),
				SampleRate:        uint32(sampleRate),
				Channels:          frame.Channels(len(channels) - 1),
				BitsPerSample:     uint8(bitDepth),
			},
			Subframes: make([]*frame.Subframe, len(channels)),
		}
		for ch, samples := range channels {
			block := make([]int32, blockSize)
			copy(block, samples[offset:offset+blockSize])
			fr.Subframes[ch] = &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   block,
				NSamples:  blockSize,
			}
		}

		if err := enc.WriteFrame(fr); err != nil {
			f.Close()
			t.Fatalf("failed to write FLAC frame: %v", err)
		}
	}

	// Close rewrites StreamInfo and closes f
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finalize FLAC: %v", err)
	}
	return path
}

// WriteFile writes raw bytes to dir/name and returns the path
func WriteFile(t testing.TB, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// PNGHeader is the start of a PNG image
var PNGHeader = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}
