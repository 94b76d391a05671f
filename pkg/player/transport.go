// ABOUTME: Transport serializes commands against a Player
// ABOUTME: Holds the caller-supplied lock per operation and waits on sinks without it
package player

import (
	"context"
	"sync"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio/output"
	"github.com/rs/zerolog/log"
)

// Transport guards a Player with mu, one operation at a time
type Transport struct {
	mu     sync.Locker
	player *Player

	// OnFinish, if set, is called with the track path after a natural end of stream.
	// It runs without the lock held.
	OnFinish func(track string)
}

// NewTransport wraps p; every operation holds mu for its own duration only
func NewTransport(p *Player, mu sync.Locker) *Transport {
	return &Transport{
		mu:     mu,
		player: p,
	}
}

// Play starts path and watches the new sink for end of stream
func (t *Transport) Play(path string, volume float64) error {
	t.mu.Lock()
	err := t.player.Play(path, volume)
	sink := t.player.Sink()
	t.mu.Unlock()

	if err != nil {
		return err
	}

	go t.watch(sink, path)
	return nil
}

// watch returns the player to Idle when sink drains on its own
func (t *Transport) watch(sink output.Sink, path string) {
	<-sink.Done()

	t.mu.Lock()
	finished := t.player.Finish(sink)
	t.mu.Unlock()

	if finished {
		log.Debug().Str("path", path).Msg("Sink drained")
		if t.OnFinish != nil {
			t.OnFinish(path)
		}
	}
}

func (t *Transport) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.player.Pause()
}

func (t *Transport) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.player.Resume()
}

func (t *Transport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.player.Stop()
}

func (t *Transport) SetVolume(level float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.player.SetVolume(level)
}

func (t *Transport) Volume() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.player.Volume()
}

func (t *Transport) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.player.Status()
}

// Wait blocks until the current track ends or ctx is done, without holding
// the lock. It returns nil immediately when Idle.
func (t *Transport) Wait(ctx context.Context) error {
	t.mu.Lock()
	sink := t.player.Sink()
	t.mu.Unlock()

	if sink == nil {
		return nil
	}

	select {
	case <-sink.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
