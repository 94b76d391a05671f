// ABOUTME: Tests decoding of real files per container
// ABOUTME: FLAC round trips, MP3 and Ogg Vorbis fixtures, and extensible WAV subformats
package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/Resonate-Protocol/musicplayer/internal/testutil"
	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
)

// readAll drains a source through Read
func readAll(t *testing.T, src *Source) []float32 {
	t.Helper()

	var all []float32
	buf := make([]float32, 1024)
	for {
		n, err := src.Read(buf)
		all = append(all, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
	}
	if src.Err() != nil {
		t.Fatalf("stream ended on an error: %v", src.Err())
	}
	return all
}

func TestFLACRoundTrip(t *testing.T) {
	const frames = 10000 // spans several 4096-sample FLAC frames
	left := make([]int32, frames)
	right := make([]int32, frames)
	for i := range left {
		left[i] = int32(i%30000 - 15000)
		right[i] = -left[i]
	}
	path := testutil.WriteFLAC(t, t.TempDir(), "ramp.flac", 44100, 16, [][]int32{left, right})

	src, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open FLAC: %v", err)
	}
	defer src.Close()

	if got := src.Format(); got != (audio.Format{SampleRate: 44100, Channels: 2}) {
		t.Errorf("expected 44100Hz/2ch, got %s", got)
	}
	if src.Codec().Codec != CodecFLAC {
		t.Errorf("expected codec %s, got %s", CodecFLAC, src.Codec().Codec)
	}

	samples := readAll(t, src)
	if len(samples) != frames*2 {
		t.Fatalf("expected %d samples, got %d", frames*2, len(samples))
	}

	// Channels come back interleaved left, right
	for i := 0; i < frames; i++ {
		if want := audio.SampleFromInt16(int16(left[i])); samples[2*i] != want {
			t.Fatalf("left sample %d: expected %f, got %f", i, want, samples[2*i])
		}
		if want := audio.SampleFromInt16(int16(right[i])); samples[2*i+1] != want {
			t.Fatalf("right sample %d: expected %f, got %f", i, want, samples[2*i+1])
		}
	}
}

func TestMP3Fixture(t *testing.T) {
	// 48 MPEG-2 layer III frames of mono speech at 22050Hz
	src, err := Open("testdata/speech.mp3")
	if err != nil {
		t.Fatalf("failed to open MP3: %v", err)
	}
	defer src.Close()

	if got := src.Format(); got != (audio.Format{SampleRate: 22050, Channels: 2}) {
		t.Errorf("expected 22050Hz/2ch (go-mp3 always outputs stereo), got %s", got)
	}
	if src.Codec().Codec != CodecPCMS16LE {
		t.Errorf("expected codec %s, got %s", CodecPCMS16LE, src.Codec().Codec)
	}

	samples := readAll(t, src)

	// One granule of 576 frames per MPEG-2 frame, two channels each
	if want := 48 * 576 * 2; len(samples) != want {
		t.Errorf("expected %d samples, got %d", want, len(samples))
	}

	// Mono input is duplicated to both channels
	for i := 0; i+1 < len(samples); i += 2 {
		if samples[i] != samples[i+1] {
			t.Fatalf("frame %d: channels differ (%f vs %f)", i/2, samples[i], samples[i+1])
		}
	}
}

func TestOggVorbisFixture(t *testing.T) {
	// One second of mono audio at 44100Hz
	src, err := Open("testdata/tone.ogg")
	if err != nil {
		t.Fatalf("failed to open Ogg: %v", err)
	}
	defer src.Close()

	if got := src.Format(); got != (audio.Format{SampleRate: 44100, Channels: 1}) {
		t.Errorf("expected 44100Hz/1ch, got %s", got)
	}
	if src.Codec().Codec != CodecPCMF32LE {
		t.Errorf("expected codec %s, got %s", CodecPCMF32LE, src.Codec().Codec)
	}

	samples := readAll(t, src)
	if len(samples) != 44100 {
		t.Fatalf("expected 44100 samples, got %d", len(samples))
	}

	// Reference values decoded by libvorbis
	reference := []struct {
		index int
		value float32
	}{
		{1000, 0.73016357421875},
		{10000, 0.11444091796875},
		{22050, 0},
		{44000, 0.168914794921875},
	}
	for _, ref := range reference {
		if got := samples[ref.index]; math.Abs(float64(got-ref.value)) > 1e-4 {
			t.Errorf("sample %d: expected %f, got %f", ref.index, ref.value, got)
		}
	}
}

// extensibleWAV builds a WAVE_FORMAT_EXTENSIBLE file. guid is the 16-byte SubFormat.
func extensibleWAV(sampleRate, channels, bitDepth int, guid []byte, data []byte) []byte {
	blockAlign := channels * bitDepth / 8

	fmtChunk := new(bytes.Buffer)
	binary.Write(fmtChunk, binary.LittleEndian, uint16(wavFormatExtensible))
	binary.Write(fmtChunk, binary.LittleEndian, uint16(channels))
	binary.Write(fmtChunk, binary.LittleEndian, uint32(sampleRate))
	binary.Write(fmtChunk, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(fmtChunk, binary.LittleEndian, uint16(blockAlign))
	binary.Write(fmtChunk, binary.LittleEndian, uint16(bitDepth))
	binary.Write(fmtChunk, binary.LittleEndian, uint16(22)) // cbSize
	binary.Write(fmtChunk, binary.LittleEndian, uint16(bitDepth))
	binary.Write(fmtChunk, binary.LittleEndian, uint32(0)) // channel mask
	fmtChunk.Write(guid)

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(4+8+fmtChunk.Len()+8+len(data)))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	binary.Write(out, binary.LittleEndian, uint32(fmtChunk.Len()))
	out.Write(fmtChunk.Bytes())
	out.WriteString("data")
	binary.Write(out, binary.LittleEndian, uint32(len(data)))
	out.Write(data)
	return out.Bytes()
}

// subFormatGUID returns the KSDATAFORMAT_SUBTYPE GUID for a format code
func subFormatGUID(code uint16) []byte {
	return append(binary.LittleEndian.AppendUint16(nil, code), wavGUIDTail...)
}

func TestExtensibleWAVSubFormats(t *testing.T) {
	floats := []float32{0.5, -0.25, 0.125, 0}
	var floatData []byte
	for _, f := range floats {
		floatData = binary.LittleEndian.AppendUint32(floatData, math.Float32bits(f))
	}

	ints := []int16{16384, -8192, 4096, 0}
	var intData []byte
	for _, v := range ints {
		intData = binary.LittleEndian.AppendUint16(intData, uint16(v))
	}

	tests := []struct {
		name      string
		bitDepth  int
		guid      []byte
		data      []byte
		wantCodec CodecID
		want      []float32
	}{
		{
			name:      "IEEE float",
			bitDepth:  32,
			guid:      subFormatGUID(wavFormatFloat),
			data:      floatData,
			wantCodec: CodecPCMF32LE,
			want:      floats,
		},
		{
			name:      "integer PCM",
			bitDepth:  16,
			guid:      subFormatGUID(wavFormatPCM),
			data:      intData,
			wantCodec: CodecPCMS16LE,
			want:      []float32{0.5, -0.25, 0.125, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := extensibleWAV(48000, 2, tt.bitDepth, tt.guid, tt.data)
			path := testutil.WriteFile(t, t.TempDir(), "multi.wav", content)

			src, err := Open(path)
			if err != nil {
				t.Fatalf("failed to open: %v", err)
			}
			defer src.Close()

			if src.Codec().Codec != tt.wantCodec {
				t.Errorf("expected codec %s, got %s", tt.wantCodec, src.Codec().Codec)
			}

			got := readAll(t, src)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d samples, got %d", len(tt.want), len(got))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("sample %d: expected %f, got %f", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestExtensibleWAVUnknownSubFormat(t *testing.T) {
	tests := []struct {
		name string
		guid []byte
	}{
		{"unsupported format code", subFormatGUID(0x0055)},
		{"foreign GUID", bytes.Repeat([]byte{0xAB}, 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := extensibleWAV(44100, 1, 32, tt.guid, make([]byte, 16))
			path := testutil.WriteFile(t, t.TempDir(), "odd.wav", content)

			src, err := Open(path)
			if err == nil {
				src.Close()
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})
	}
}
