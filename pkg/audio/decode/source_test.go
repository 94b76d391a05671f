// ABOUTME: Tests for the pull-based decode source
// ABOUTME: Covers WAV decoding end to end, error kinds and the corrupt-packet policy
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/Resonate-Protocol/musicplayer/internal/testutil"
	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
)

func TestOpenWAVMonoSampleCount(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWAV(t, dir, "tone.wav", 44100, 1, 16, testutil.Ramp(88200))

	src, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open source: %v", err)
	}
	defer src.Close()

	format := src.Format()
	if format.SampleRate != 44100 || format.Channels != 1 {
		t.Fatalf("expected 44100Hz/1ch, got %s", format)
	}

	count := 0
	for {
		if _, ok := src.Next(); !ok {
			break
		}
		count++
	}

	if count != 88200 {
		t.Errorf("expected 88200 samples, got %d", count)
	}

	// Exhaustion is terminal
	if _, ok := src.Next(); ok {
		t.Error("expected source to stay exhausted")
	}
	if src.Err() != nil {
		t.Errorf("expected clean end of stream, got %v", src.Err())
	}
}

func TestSourceSampleValues(t *testing.T) {
	dir := t.TempDir()
	data := testutil.Ramp(10000)
	path := testutil.WriteWAV(t, dir, "ramp.wav", 44100, 1, 16, data)

	src, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open source: %v", err)
	}
	defer src.Close()

	for i, want := range data {
		got, ok := src.Next()
		if !ok {
			t.Fatalf("stream ended early at sample %d", i)
		}
		if expected := audio.SampleFromInt16(int16(want)); got != expected {
			t.Fatalf("sample %d: expected %f, got %f", i, expected, got)
		}
	}
}

func TestSourceReadAcrossPackets(t *testing.T) {
	dir := t.TempDir()
	// Stereo, 24-bit, long enough to span several packets
	data := make([]int, 2*(packetFrames*2+100))
	for i := range data {
		data[i] = (i % 1000) * 1000
	}
	path := testutil.WriteWAV(t, dir, "stereo.wav", 48000, 2, 24, data)

	src, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open source: %v", err)
	}
	defer src.Close()

	if src.Codec().Codec != CodecPCMS24LE {
		t.Errorf("expected %s, got %s", CodecPCMS24LE, src.Codec().Codec)
	}

	buf := make([]float32, 3000)
	total := 0
	for {
		n, err := src.Read(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
	}

	if total != len(data) {
		t.Errorf("expected %d samples, got %d", len(data), total)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/track.mp3")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestOpenErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  []byte
		expected error
	}{
		{"image with audio extension", "cover.mp3", testutil.PNGHeader, ErrNoAudioTracks},
		{"video with audio extension", "clip.mp3", append([]byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2avc1mp41"), bytes.Repeat([]byte{0}, 64)...), ErrNoAudioTracks},
		{"text with wav extension", "notes.wav", []byte("these are not the samples you are looking for"), ErrDecode},
		{"unknown extension", "notes.xyz", []byte("plain text"), ErrDecode},
		{"empty file", "empty.flac", nil, ErrDecode},
		{"ogg without audio", "video.ogg", append([]byte("OggS\x00\x02"), bytes.Repeat([]byte{0}, 60)...), ErrNoAudioTracks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), tt.file, tt.content)

			src, err := Open(path)
			if err == nil {
				src.Close()
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestSourceClose(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWAV(t, dir, "short.wav", 8000, 1, 16, testutil.Ramp(100))

	src, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open source: %v", err)
	}

	if err := src.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !src.Closed() {
		t.Error("expected Closed to report true")
	}
	if err := src.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	if _, err := src.Read(make([]float32, 10)); err != io.EOF {
		t.Errorf("expected io.EOF after close, got %v", err)
	}

	// The file handle is released
	if err := os.Remove(path); err != nil {
		t.Errorf("failed to remove closed file: %v", err)
	}
}

// flakyDemuxer yields numbered packets; flakyDecoder fails on one of them
type flakyDemuxer struct {
	singleTrack
	next, total int
}

func (d *flakyDemuxer) NextPacket() (Packet, error) {
	if d.next >= d.total {
		return Packet{}, io.EOF
	}
	d.next++
	return Packet{Data: []byte{byte(d.next)}}, nil
}

func (d *flakyDemuxer) Close() error { return nil }

type flakyDecoder struct {
	params CodecParams
	failAt byte
}

func (d *flakyDecoder) Decode(p Packet) ([]float32, error) {
	if p.Data[0] == d.failAt {
		return nil, fmt.Errorf("corrupt packet %d", p.Data[0])
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (d *flakyDecoder) CodecParams() CodecParams { return d.params }
func (d *flakyDecoder) Close() error             { return nil }

func TestCorruptPacketEndsStream(t *testing.T) {
	params := CodecParams{Codec: "flaky", SampleRate: 8000, Channels: 1}
	RegisterContainer(Container{
		Name:       "flaky",
		Extensions: []string{"flaky"},
		Open: func(r io.ReadSeeker) (Demuxer, error) {
			return &flakyDemuxer{singleTrack: singleTrack{track: Track{Params: params}}, total: 5}, nil
		},
	})
	RegisterCodec("flaky", func(p CodecParams) (Decoder, error) {
		return &flakyDecoder{params: p, failAt: 3}, nil
	})

	src, err := NewSource(bytes.NewReader([]byte("not a known signature")), "test.flaky")
	if err != nil {
		t.Fatalf("failed to open source: %v", err)
	}
	defer src.Close()

	count := 0
	for {
		if _, ok := src.Next(); !ok {
			break
		}
		count++
	}

	// Two good packets of three samples, then the stream stops at the bad one
	if count != 6 {
		t.Errorf("expected 6 samples before the corrupt packet, got %d", count)
	}
	if !errors.Is(src.Err(), ErrDecode) {
		t.Errorf("expected ErrDecode from Err, got %v", src.Err())
	}
}

func TestContainersRegistered(t *testing.T) {
	registered := map[string]bool{}
	for _, name := range Containers() {
		registered[name] = true
	}

	for _, name := range []string{"wav", "mp3", "flac", "ogg"} {
		if !registered[name] {
			t.Errorf("expected container %q to be registered", name)
		}
	}
}
