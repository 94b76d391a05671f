// ABOUTME: PCM audio decoder
// ABOUTME: Decodes little-endian integer and float PCM packets to float32 samples
package decode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
)

func init() {
	for _, id := range []CodecID{CodecPCMU8, CodecPCMS16LE, CodecPCMS24LE, CodecPCMS32LE, CodecPCMF32LE, CodecPCMF64LE} {
		RegisterCodec(id, NewPCM)
	}
}

// PCMDecoder decodes PCM audio
type PCMDecoder struct {
	params         CodecParams
	bytesPerSample int
	convert        func(b []byte) float32
}

// NewPCM creates a new PCM decoder
func NewPCM(params CodecParams) (Decoder, error) {
	d := &PCMDecoder{params: params}

	switch params.Codec {
	case CodecPCMU8:
		d.bytesPerSample = 1
		d.convert = func(b []byte) float32 { return audio.SampleFromUint8(b[0]) }
	case CodecPCMS16LE:
		d.bytesPerSample = 2
		d.convert = func(b []byte) float32 {
			return audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(b)))
		}
	case CodecPCMS24LE:
		d.bytesPerSample = 3
		d.convert = func(b []byte) float32 {
			return audio.SampleFromInt24(audio.SampleFrom24Bit([3]byte{b[0], b[1], b[2]}))
		}
	case CodecPCMS32LE:
		d.bytesPerSample = 4
		d.convert = func(b []byte) float32 {
			return audio.SampleFromInt32(int32(binary.LittleEndian.Uint32(b)))
		}
	case CodecPCMF32LE:
		d.bytesPerSample = 4
		d.convert = func(b []byte) float32 {
			return math.Float32frombits(binary.LittleEndian.Uint32(b))
		}
	case CodecPCMF64LE:
		d.bytesPerSample = 8
		d.convert = func(b []byte) float32 {
			return float32(math.Float64frombits(binary.LittleEndian.Uint64(b)))
		}
	default:
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", params.Codec)
	}

	return d, nil
}

// Decode converts PCM bytes to float32 samples
func (d *PCMDecoder) Decode(p Packet) ([]float32, error) {
	if len(p.Data)%d.bytesPerSample != 0 {
		return nil, fmt.Errorf("truncated %s packet: %d bytes", d.params.Codec, len(p.Data))
	}

	numSamples := len(p.Data) / d.bytesPerSample
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		samples[i] = d.convert(p.Data[i*d.bytesPerSample:])
	}
	return samples, nil
}

// CodecParams returns the decoder's parameters
func (d *PCMDecoder) CodecParams() CodecParams {
	return d.params
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}

// pcmCodec maps a sample width to the matching integer PCM codec
func pcmCodec(bitDepth int) (CodecID, bool) {
	switch bitDepth {
	case 8:
		return CodecPCMU8, true
	case 16:
		return CodecPCMS16LE, true
	case 24:
		return CodecPCMS24LE, true
	case 32:
		return CodecPCMS32LE, true
	}
	return "", false
}
