// ABOUTME: Sample feeder shared by every sink backend
// ABOUTME: Queues streams, applies software volume and tracks pause, stop and exhaustion
package output

import (
	"errors"
	"io"
	"sync"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
	"github.com/Resonate-Protocol/musicplayer/pkg/audio/resample"
	"github.com/rs/zerolog/log"
)

// feeder is the backend-independent half of a Sink. Backends embed it and
// call fill from their playback goroutine or device callback.
type feeder struct {
	mu      sync.Mutex
	format  audio.Format
	streams []audio.Stream

	appended  bool
	paused    bool
	stopped   bool
	exhausted bool
	volume    float64
	played    int64

	done     chan struct{}
	doneOnce sync.Once
}

func newFeeder(format audio.Format) *feeder {
	return &feeder{
		format: format,
		volume: 1.0,
		done:   make(chan struct{}),
	}
}

// Append queues a stream, converting it to the sink format if needed
func (f *feeder) Append(stream audio.Stream) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		return
	}
	if stream.Format() != f.format {
		log.Debug().
			Stringer("from", stream.Format()).
			Stringer("to", f.format).
			Msg("Resampling stream for output")
		stream = resample.New(stream, f.format)
	}
	f.streams = append(f.streams, stream)
	f.appended = true
	f.exhausted = false
}

// fill writes up to len(out) samples and zero-pads the rest.
// It returns the number of real samples and whether the sink is still live.
func (f *feeder) fill(out []float32) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	live := !f.stopped && !f.exhausted

	if live && !f.paused && f.appended {
		for n < len(out) && len(f.streams) > 0 {
			read, err := f.streams[0].Read(out[n:])
			n += read
			if err != nil {
				if !errors.Is(err, io.EOF) {
					log.Warn().Err(err).Msg("Stream read failed")
				}
				f.streams = f.streams[1:]
				continue
			}
			if read == 0 {
				// Less room left than one frame
				break
			}
		}
		applyVolume(out[:n], f.volume)
		f.played += int64(n)

		if len(f.streams) == 0 {
			f.exhausted = true
			live = false
		}
	}

	clear(out[n:])
	return n, live
}

// setPaused records the pause state and reports whether it changed
func (f *feeder) setPaused(paused bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped || f.paused == paused {
		return false
	}
	f.paused = paused
	return true
}

// stop discards queued streams and signals Done.
// Holding mu waits out any fill in progress.
func (f *feeder) stop() bool {
	f.mu.Lock()
	already := f.stopped
	f.stopped = true
	f.streams = nil
	f.mu.Unlock()

	f.signalDone()
	return !already
}

func (f *feeder) signalDone() {
	f.doneOnce.Do(func() {
		close(f.done)
	})
}

func (f *feeder) Format() audio.Format {
	return f.format
}

func (f *feeder) SetVolume(volume float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = volume
}

func (f *feeder) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

func (f *feeder) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *feeder) Played() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.played
}

func (f *feeder) Done() <-chan struct{} {
	return f.done
}

// drained reports whether the queued streams have all been consumed
func (f *feeder) drained() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exhausted || f.stopped
}

// applyVolume scales samples in place with clipping protection
func applyVolume(samples []float32, volume float64) {
	multiplier := getVolumeMultiplier(volume)
	if multiplier == 1 {
		return
	}
	for i, sample := range samples {
		samples[i] = audio.Clamp(sample * multiplier)
	}
}

// getVolumeMultiplier calculates the gain applied to each sample
func getVolumeMultiplier(volume float64) float32 {
	if volume <= 0 {
		return 0
	}
	return float32(volume)
}
