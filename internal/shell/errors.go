// ABOUTME: User-facing messages for every error the shell can hit
// ABOUTME: Each error kind maps to its own message
package shell

import (
	"errors"
	"io/fs"

	"github.com/Resonate-Protocol/musicplayer/internal/library"
	"github.com/Resonate-Protocol/musicplayer/pkg/audio/decode"
	"github.com/Resonate-Protocol/musicplayer/pkg/audio/output"
	"github.com/Resonate-Protocol/musicplayer/pkg/player"
)

// ErrorMessage describes err for the user
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingTrack):
		return "Please provide a song index"
	case errors.Is(err, library.ErrInvalidIndex):
		return "Invalid song index"
	case errors.Is(err, ErrMissingVolume):
		return "Missing volume value"
	case errors.Is(err, ErrInvalidVolumeValue):
		return "Invalid volume value"
	case errors.Is(err, player.ErrInvalidVolume):
		return "Volume must be 0.0 to 1.0"
	case errors.Is(err, ErrUnknownCommand):
		return "Invalid command - type 'help' for instructions"
	case errors.Is(err, decode.ErrFileNotFound):
		return "File not found"
	case errors.Is(err, decode.ErrNoAudioTracks):
		return "File contains no audio tracks"
	case errors.Is(err, decode.ErrDecode):
		return "Unsupported or corrupt audio file"
	case errors.Is(err, output.ErrAudioOutput):
		return "Audio output device unavailable"
	case errors.Is(err, fs.ErrPermission):
		return "Permission denied reading file"
	default:
		return err.Error()
	}
}
