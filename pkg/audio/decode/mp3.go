// ABOUTME: MP3 container demuxer
// ABOUTME: Reads MP3 frames through go-mp3 and yields interleaved s16le stereo packets
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

func init() {
	RegisterContainer(Container{
		Name:       "mp3",
		Extensions: []string{"mp3"},
		Open:       OpenMP3,
	})
}

// mp3FrameBytes is 2 bytes per sample times 2 channels
const mp3FrameBytes = 4

// MP3Demuxer yields decoded MP3 frames as PCM packets. go-mp3 doesn't expose
// raw frames, so frame decoding happens here and packets carry s16le PCM.
type MP3Demuxer struct {
	singleTrack
	decoder *mp3.Decoder
	buf     []byte
}

// OpenMP3 creates an MP3 demuxer
func OpenMP3(r io.ReadSeeker) (Demuxer, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create MP3 decoder: %v", ErrDecode, err)
	}

	params := CodecParams{
		Codec:         CodecPCMS16LE,
		SampleRate:    decoder.SampleRate(),
		Channels:      2, // go-mp3 always outputs stereo
		BitsPerSample: 16,
	}

	return &MP3Demuxer{
		singleTrack: singleTrack{track: Track{Params: params}},
		decoder:     decoder,
		buf:         make([]byte, packetFrames*mp3FrameBytes),
	}, nil
}

// NextPacket returns the next block of decoded PCM
func (d *MP3Demuxer) NextPacket() (Packet, error) {
	n, err := io.ReadFull(d.decoder, d.buf)
	n -= n % mp3FrameBytes

	switch {
	case errors.Is(err, io.EOF):
		return Packet{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		if n == 0 {
			return Packet{}, io.EOF
		}
	case err != nil:
		return Packet{}, fmt.Errorf("mp3 decode error: %w", err)
	}

	return Packet{Data: d.buf[:n]}, nil
}

// Close releases demuxer resources
func (d *MP3Demuxer) Close() error {
	return nil
}
