// ABOUTME: Streaming linear resampler over an audio.Stream
// ABOUTME: Converts sample rate and channel count one output frame at a time
package resample

import (
	"errors"
	"io"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
)

// inputFrames is how many source frames are pulled per refill
const inputFrames = 1024

// Resampler converts a stream to another sample rate and channel count
type Resampler struct {
	src   audio.Stream
	from  audio.Format
	to    audio.Format
	ratio float64

	// position is the fractional offset between prev and next
	position float64
	prev     []float32
	next     []float32
	frame    []float32

	in    []float32
	inPos int
	inLen int

	started bool
	eof     bool // source exhausted, next holds a copy of prev
	done    bool
}

// New wraps src so that it reads in the target format
func New(src audio.Stream, to audio.Format) *Resampler {
	from := src.Format()
	return &Resampler{
		src:   src,
		from:  from,
		to:    to,
		ratio: float64(from.SampleRate) / float64(to.SampleRate),
		prev:  make([]float32, from.Channels),
		next:  make([]float32, from.Channels),
		frame: make([]float32, from.Channels),
		in:    make([]float32, inputFrames*from.Channels),
	}
}

// Format returns the output format
func (r *Resampler) Format() audio.Format {
	return r.to
}

// Read fills samples with whole output frames, returning io.EOF once the
// source is exhausted
func (r *Resampler) Read(samples []float32) (int, error) {
	frames := len(samples) / r.to.Channels
	n := 0

	for i := 0; i < frames; i++ {
		if !r.step() {
			break
		}
		MapChannels(r.frame, samples[n:n+r.to.Channels])
		n += r.to.Channels
	}

	if n == 0 && frames > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// step interpolates the next output frame into r.frame
func (r *Resampler) step() bool {
	if r.done {
		return false
	}

	if !r.started {
		r.started = true
		if !r.readFrame(r.prev) {
			r.done = true
			return false
		}
		if !r.readFrame(r.next) {
			copy(r.next, r.prev)
			r.eof = true
		}
	}

	for r.position >= 1 {
		if r.eof {
			r.done = true
			return false
		}
		r.prev, r.next = r.next, r.prev
		if !r.readFrame(r.next) {
			copy(r.next, r.prev)
			r.eof = true
		}
		r.position--
	}

	frac := float32(r.position)
	for ch := range r.frame {
		r.frame[ch] = r.prev[ch]*(1-frac) + r.next[ch]*frac
	}

	r.position += r.ratio
	return true
}

// readFrame copies one source frame into dst
func (r *Resampler) readFrame(dst []float32) bool {
	channels := len(dst)
	if r.inLen-r.inPos < channels {
		if !r.refill() {
			return false
		}
	}
	copy(dst, r.in[r.inPos:r.inPos+channels])
	r.inPos += channels
	return true
}

// refill tops up the input buffer with at least one whole frame
func (r *Resampler) refill() bool {
	// Keep any partial frame left over from the last read
	r.inLen = copy(r.in, r.in[r.inPos:r.inLen])
	r.inPos = 0

	for r.inLen < r.from.Channels {
		n, err := r.src.Read(r.in[r.inLen:])
		r.inLen += n
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return false
			}
			return r.inLen >= r.from.Channels
		}
		if n == 0 {
			return false
		}
	}
	return true
}

// MapChannels converts one frame between channel layouts.
// Mono is duplicated to every output channel, and folding down to mono averages.
// Other layouts keep the channels they share and repeat the rest.
func MapChannels(in, out []float32) {
	switch {
	case len(in) == len(out):
		copy(out, in)
	case len(in) == 1:
		for i := range out {
			out[i] = in[0]
		}
	case len(out) == 1:
		var sum float32
		for _, s := range in {
			sum += s
		}
		out[0] = sum / float32(len(in))
	default:
		for i := range out {
			out[i] = in[i%len(in)]
		}
	}
}
