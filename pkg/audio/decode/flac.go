// ABOUTME: FLAC container demuxer and codec
// ABOUTME: Splits frame header parsing (demux) from subframe decoding (codec) using mewkiz/flac
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

func init() {
	RegisterContainer(Container{
		Name:       "flac",
		Extensions: []string{"flac"},
		Open:       OpenFLAC,
	})
	RegisterCodec(CodecFLAC, NewFLAC)
}

// FLACDemuxer yields one packet per FLAC frame
type FLACDemuxer struct {
	singleTrack
	stream *flac.Stream
}

// OpenFLAC parses the FLAC signature and StreamInfo block
func OpenFLAC(r io.ReadSeeker) (Demuxer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode FLAC: %v", ErrDecode, err)
	}

	info := stream.Info
	params := CodecParams{
		Codec:         CodecFLAC,
		SampleRate:    int(info.SampleRate),
		Channels:      int(info.NChannels),
		BitsPerSample: int(info.BitsPerSample),
	}

	return &FLACDemuxer{
		singleTrack: singleTrack{track: Track{Params: params}},
		stream:      stream,
	}, nil
}

// NextPacket parses the next frame header; the samples are left for the codec
func (d *FLACDemuxer) NextPacket() (Packet, error) {
	f, err := d.stream.Next()
	if err != nil {
		return Packet{}, err
	}
	return Packet{Payload: f}, nil
}

// Close releases the stream
func (d *FLACDemuxer) Close() error {
	return d.stream.Close()
}

// FLACDecoder decodes FLAC frames
type FLACDecoder struct {
	params CodecParams
}

// NewFLAC creates a new FLAC decoder
func NewFLAC(params CodecParams) (Decoder, error) {
	if params.Codec != CodecFLAC {
		return nil, fmt.Errorf("invalid codec for FLAC decoder: %s", params.Codec)
	}
	return &FLACDecoder{params: params}, nil
}

// Decode parses the frame's subframes and interleaves them
func (d *FLACDecoder) Decode(p Packet) ([]float32, error) {
	f, ok := p.Payload.(*frame.Frame)
	if !ok || f == nil {
		return nil, fmt.Errorf("flac packet carries no frame")
	}

	// A zero sample size in the frame header defers to StreamInfo
	if f.BitsPerSample == 0 {
		f.BitsPerSample = uint8(d.params.BitsPerSample)
	}

	if err := f.Parse(); err != nil {
		return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
	}

	channels := len(f.Subframes)
	blockSize := int(f.BlockSize)
	bits := int(f.BitsPerSample)

	samples := make([]float32, 0, blockSize*channels)
	for i := 0; i < blockSize; i++ {
		for ch := 0; ch < channels; ch++ {
			samples = append(samples, audio.SampleFromBits(f.Subframes[ch].Samples[i], bits))
		}
	}
	return samples, nil
}

// CodecParams returns the decoder's parameters
func (d *FLACDecoder) CodecParams() CodecParams {
	return d.params
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	return nil
}
