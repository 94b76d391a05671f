// ABOUTME: Ogg container demuxer
// ABOUTME: Decodes Ogg Vorbis through jfreymuth/oggvorbis and yields f32le packets
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio/encode"
	"github.com/jfreymuth/oggvorbis"
)

var f32 = encode.MustPCM(encode.F32LE)

func init() {
	RegisterContainer(Container{
		Name:       "ogg",
		Extensions: []string{"ogg", "oga"},
		Open:       OpenOgg,
	})
}

// oggHeadSize covers the first page header and the start of its packet
const oggHeadSize = 512

// Codec identification packets found at the start of an Ogg stream
var oggCodecHeads = map[string][]byte{
	"vorbis": []byte("\x01vorbis"),
	"opus":   []byte("OpusHead"),
	"flac":   []byte("\x7fFLAC"),
	"speex":  []byte("Speex   "),
}

// OggDemuxer yields decoded Vorbis audio as PCM packets
type OggDemuxer struct {
	singleTrack
	reader  *oggvorbis.Reader
	samples []float32
	buf     []byte
}

// OpenOgg identifies the first logical stream and opens a Vorbis reader for it
func OpenOgg(r io.ReadSeeker) (Demuxer, error) {
	codec, err := sniffOggCodec(r)
	if err != nil {
		return nil, err
	}
	if codec != "vorbis" {
		return nil, fmt.Errorf("%w: no decoder for Ogg %s", ErrDecode, codec)
	}

	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read Vorbis headers: %v", ErrDecode, err)
	}

	params := CodecParams{
		Codec:         CodecPCMF32LE,
		SampleRate:    reader.SampleRate(),
		Channels:      reader.Channels(),
		BitsPerSample: 32,
	}

	return &OggDemuxer{
		singleTrack: singleTrack{track: Track{Params: params}},
		reader:      reader,
		samples:     make([]float32, packetFrames*params.Channels),
	}, nil
}

// sniffOggCodec reads the first page and rewinds
func sniffOggCodec(r io.ReadSeeker) (string, error) {
	head := make([]byte, oggHeadSize)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("%w: failed to read Ogg page: %v", ErrDecode, err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind: %w", err)
	}

	head = head[:n]
	for name, magic := range oggCodecHeads {
		if bytes.Contains(head, magic) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: Ogg stream has no audio codec header", ErrNoAudioTracks)
}

// NextPacket returns the next block of decoded samples
func (d *OggDemuxer) NextPacket() (Packet, error) {
	n, err := d.reader.Read(d.samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return Packet{}, err
	}

	d.buf = f32.Append(d.buf[:0], d.samples[:n])
	return Packet{Data: d.buf}, nil
}

// Close releases demuxer resources
func (d *OggDemuxer) Close() error {
	return nil
}
