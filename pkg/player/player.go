// ABOUTME: Player state over one decode session and one output sink
// ABOUTME: Implements play, pause, resume, stop and volume with the Idle/Playing/Paused state machine
package player

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
	"github.com/Resonate-Protocol/musicplayer/pkg/audio/decode"
	"github.com/Resonate-Protocol/musicplayer/pkg/audio/output"
	"github.com/rs/zerolog/log"
)

// ErrInvalidVolume is returned for volume levels outside [0.0, 1.0]
var ErrInvalidVolume = errors.New("invalid volume")

// DefaultVolume is the level used until one is set
const DefaultVolume = 1.0

// State is the transport state of a Player
type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status is a snapshot of the player
type Status struct {
	State    State
	Track    string
	Volume   float64
	Position time.Duration
	Format   audio.Format
	Codec    decode.CodecID
}

// Player owns the active sink and decode session.
// The sink is non-nil exactly when a track is loaded.
type Player struct {
	out     output.Output
	sink    output.Sink
	session *decode.Source
	track   string
	volume  float64
}

// New creates an idle player that plays through out
func New(out output.Output) *Player {
	return &Player{
		out:    out,
		volume: DefaultVolume,
	}
}

// Play replaces the current track with path at the given volume.
// volume is applied as given. On failure the player is left Idle.
func (p *Player) Play(path string, volume float64) error {
	p.teardown()

	session, err := decode.Open(path)
	if err != nil {
		return err
	}

	sink, err := p.out.NewSink(session.Format())
	if err != nil {
		session.Close()
		if !errors.Is(err, output.ErrAudioOutput) {
			err = fmt.Errorf("%w: %v", output.ErrAudioOutput, err)
		}
		return err
	}

	sink.SetVolume(volume)
	sink.Append(session)

	p.sink = sink
	p.session = session
	p.track = path
	p.volume = volume

	log.Info().
		Str("session", session.ID()).
		Str("path", path).
		Stringer("format", session.Format()).
		Float64("volume", volume).
		Msg("Playback started")

	return nil
}

// Pause pauses the active sink; without one it does nothing
func (p *Player) Pause() {
	if p.sink == nil {
		return
	}
	p.sink.Pause()
	log.Debug().Str("path", p.track).Msg("Playback paused")
}

// Resume resumes the active sink; without one it does nothing
func (p *Player) Resume() {
	if p.sink == nil {
		return
	}
	p.sink.Resume()
	log.Debug().Str("path", p.track).Msg("Playback resumed")
}

// Stop halts playback and releases the decode session. It is idempotent.
func (p *Player) Stop() {
	if p.sink == nil {
		return
	}
	log.Info().Str("path", p.track).Msg("Playback stopped")
	p.teardown()
}

// SetVolume validates level and applies it to the active sink.
// Without a sink the level is remembered for the caller's next Play.
func (p *Player) SetVolume(level float64) error {
	if math.IsNaN(level) || level < 0 || level > 1 {
		return fmt.Errorf("%w: %v (must be between 0.0 and 1.0)", ErrInvalidVolume, level)
	}

	p.volume = level
	if p.sink != nil {
		p.sink.SetVolume(level)
	}
	return nil
}

// Volume returns the active sink's level, or the remembered level when Idle
func (p *Player) Volume() float64 {
	if p.sink != nil {
		return p.sink.Volume()
	}
	return p.volume
}

// Track returns the loaded track path, or "" when Idle
func (p *Player) Track() string {
	return p.track
}

// Sink returns the active sink, or nil when Idle
func (p *Player) Sink() output.Sink {
	return p.sink
}

// State derives the transport state from the sink
func (p *Player) State() State {
	switch {
	case p.sink == nil:
		return Idle
	case p.sink.Paused():
		return Paused
	default:
		return Playing
	}
}

// Status returns a snapshot of the player
func (p *Player) Status() Status {
	status := Status{
		State:  p.State(),
		Track:  p.track,
		Volume: p.Volume(),
	}
	if p.sink != nil {
		status.Position = p.sink.Format().Duration(p.sink.Played())
		status.Format = p.session.Format()
		status.Codec = p.session.Codec().Codec
	}
	return status
}

// Finish handles the end of stream of sink. If sink is still the active
// sink the player returns to Idle and Finish reports true.
func (p *Player) Finish(sink output.Sink) bool {
	if sink == nil || p.sink != sink {
		return false
	}

	if err := p.session.Err(); err != nil {
		log.Warn().Err(err).Str("path", p.track).Msg("Playback ended on a decode error")
	} else {
		log.Info().Str("path", p.track).Msg("Playback finished")
	}

	p.teardown()
	return true
}

// teardown stops the sink before closing the session so no samples are
// pulled from a closed decoder
func (p *Player) teardown() {
	if p.sink != nil {
		p.sink.Stop()
	}
	if p.session != nil {
		if err := p.session.Close(); err != nil {
			log.Warn().Err(err).Str("session", p.session.ID()).Msg("Failed to close decode session")
		}
	}
	p.sink = nil
	p.session = nil
	p.track = ""
}
