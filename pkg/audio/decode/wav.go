// ABOUTME: WAV container demuxer
// ABOUTME: Parses the RIFF header with go-audio/wav and yields raw PCM packets
package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
)

// packetFrames is the number of frames per packet for containers that
// don't have natural packet boundaries
const packetFrames = 4096

const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE
)

// wavSubFormatOffset is where the SubFormat GUID starts in an extensible fmt chunk
const wavSubFormatOffset = 24

// wavGUIDTail is the KSDATAFORMAT_SUBTYPE GUID after its leading format code
var wavGUIDTail = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

func init() {
	RegisterContainer(Container{
		Name:       "wav",
		Extensions: []string{"wav", "wave"},
		Open:       OpenWAV,
	})
}

// WAVDemuxer reads PCM packets from a WAV file
type WAVDemuxer struct {
	singleTrack
	pcm        io.Reader
	blockAlign int
	buf        []byte
}

// OpenWAV parses the WAV header and positions r at the PCM data
func OpenWAV(r io.ReadSeeker) (Demuxer, error) {
	// go-audio/wav skips the fmt extension, so the SubFormat is read first
	subFormat, err := wavSubFormat(r)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid WAV file: %v", ErrDecode, err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind: %w", err)
	}

	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV file", ErrDecode)
	}

	// Get format info without reading all samples
	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: failed to seek to PCM data: %v", ErrDecode, err)
	}

	bitDepth := int(decoder.BitDepth)
	channels := int(decoder.NumChans)
	if channels == 0 {
		return nil, fmt.Errorf("%w: WAV header declares no channels", ErrNoAudioTracks)
	}

	formatTag := int(decoder.WavAudioFormat)
	if formatTag == wavFormatExtensible {
		formatTag = subFormat
	}

	params := CodecParams{
		Codec:         wavCodec(formatTag, bitDepth),
		SampleRate:    int(decoder.SampleRate),
		Channels:      channels,
		BitsPerSample: bitDepth,
	}

	blockAlign := channels * ((bitDepth + 7) / 8)

	return &WAVDemuxer{
		singleTrack: singleTrack{track: Track{Params: params}},
		pcm:         io.LimitReader(decoder.PCMChunk, decoder.PCMLen()),
		blockAlign:  blockAlign,
		buf:         make([]byte, packetFrames*blockAlign),
	}, nil
}

// wavSubFormat returns the format code carried in the SubFormat GUID of an
// extensible fmt chunk. Unknown GUIDs map to wavFormatExtensible, which
// wavCodec does not accept. Non-extensible files return 0.
func wavSubFormat(r io.Reader) (int, error) {
	parser := riff.New(r)
	if err := parser.ParseHeaders(); err != nil {
		return 0, err
	}

	for {
		chunk, err := parser.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("fmt chunk not found: %w", err)
		}
		if chunk.ID != riff.FmtID {
			chunk.Drain()
			continue
		}

		body := make([]byte, chunk.Size)
		if _, err := io.ReadFull(chunk, body); err != nil {
			return 0, fmt.Errorf("short fmt chunk: %w", err)
		}
		if len(body) < 2 || binary.LittleEndian.Uint16(body) != wavFormatExtensible {
			return 0, nil
		}

		guid := body[min(len(body), wavSubFormatOffset):]
		if len(guid) < 16 || !bytes.Equal(guid[2:16], wavGUIDTail) {
			return wavFormatExtensible, nil
		}
		return int(binary.LittleEndian.Uint16(guid)), nil
	}
}

// wavCodec picks a codec from the WAVE format tag, or the SubFormat code for
// extensible files. Unknown tags produce a codec id that has no registered decoder.
func wavCodec(formatTag, bitDepth int) CodecID {
	switch formatTag {
	case wavFormatPCM:
		if id, ok := pcmCodec(bitDepth); ok {
			return id
		}
	case wavFormatFloat:
		switch bitDepth {
		case 32:
			return CodecPCMF32LE
		case 64:
			return CodecPCMF64LE
		}
	}
	return CodecID(fmt.Sprintf("wav_0x%04x_%dbit", formatTag, bitDepth))
}

// NextPacket returns up to packetFrames frames of raw PCM
func (d *WAVDemuxer) NextPacket() (Packet, error) {
	n, err := io.ReadFull(d.pcm, d.buf)
	n -= n % d.blockAlign

	switch {
	case errors.Is(err, io.EOF):
		return Packet{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		if n == 0 {
			return Packet{}, io.EOF
		}
	case err != nil:
		return Packet{}, fmt.Errorf("failed to read PCM data: %w", err)
	}

	return Packet{Data: d.buf[:n]}, nil
}

// Close releases demuxer resources
func (d *WAVDemuxer) Close() error {
	return nil
}
