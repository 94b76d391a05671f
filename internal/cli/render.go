// ABOUTME: Rendering of the track listing, player status and command reference
// ABOUTME: Plain text layout styled with lipgloss
package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Resonate-Protocol/musicplayer/internal/library"
	"github.com/Resonate-Protocol/musicplayer/pkg/player"
)

// PrintWelcome prints the greeting shown when the shell starts
func PrintWelcome(w io.Writer, lib *library.Library) {
	fmt.Fprintf(w, "\n%s\n", TitleStyle.Render("Welcome to Music Player!"))
	fmt.Fprintf(w, "Loaded directory: %s\n", InfoStyle.Render(lib.Dir))
	fmt.Fprintf(w, "Found %s songs.\n\n", WarningStyle.Render(fmt.Sprint(lib.Len())))
}

// PrintList prints the numbered track listing, marking the current track
func PrintList(w io.Writer, lib *library.Library, current string) {
	fmt.Fprintf(w, "\n%s\n", TitleStyle.Render("Available Songs:"))
	fmt.Fprintln(w, SuccessStyle.Render(strings.Repeat("-", 31)))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(fmt.Sprintf("%-6s", "Index")), KeyStyle.Render("Filename"))

	for _, track := range lib.Tracks {
		index := fmt.Sprintf("%-6d", track.Index)
		if current != "" && track.Path == current {
			fmt.Fprintf(w, "%s %s %s\n", CurrentStyle.Render(index), CurrentStyle.Render(track.Name), CurrentStyle.Render("▶"))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", index, track.Name)
	}
	fmt.Fprintln(w)
}

// PrintStatus prints a player status snapshot
func PrintStatus(w io.Writer, status player.Status) {
	fmt.Fprintf(w, "\n%s\n", HeaderStyle.Render("Player Status:"))
	fmt.Fprintln(w, HeaderStyle.Render(strings.Repeat("-", 14)))

	if status.Track == "" {
		fmt.Fprintf(w, "  %s: No song playing\n", KeyStyle.Render("Song"))
	} else {
		fmt.Fprintf(w, "  %s: %s\n", KeyStyle.Render("Song"), InfoStyle.Render(filepath.Base(status.Track)))
		fmt.Fprintf(w, "  %s: %s\n", KeyStyle.Render("State"), stateLabel(status.State))
		fmt.Fprintf(w, "  %s: %s seconds\n", KeyStyle.Render("Elapsed"), ValueStyle.Render(fmt.Sprint(int64(status.Position/time.Second))))
		if status.Format.Valid() {
			fmt.Fprintf(w, "  %s: %s %s\n", KeyStyle.Render("Format"), status.Codec, MutedStyle.Render(status.Format.String()))
		}
	}
	fmt.Fprintf(w, "  %s: %.1f\n", KeyStyle.Render("Volume"), status.Volume)
}

func stateLabel(state player.State) string {
	switch state {
	case player.Playing:
		return SuccessStyle.Render("Playing")
	case player.Paused:
		return WarningStyle.Render("Paused")
	default:
		return ErrorStyle.Render("Stopped")
	}
}

// PrintHowTo prints the shell command reference
func PrintHowTo(w io.Writer) {
	commands := []struct {
		name  string
		arg   string
		help  string
		style func(...string) string
	}{
		{"play", "<number>", "Play the track with the given number (or a file path)", SuccessStyle.Render},
		{"pause", "", "Pause the current track", WarningStyle.Render},
		{"resume", "", "Resume the paused track", SuccessStyle.Render},
		{"stop", "", "Stop the current playback", ErrorStyle.Render},
		{"volume", "<0.0-1.0>", "Set playback volume", ValueStyle.Render},
		{"status", "", "Show player status", InfoStyle.Render},
		{"list", "", "Show available tracks", ValueStyle.Render},
		{"help", "", "Show this help message", WarningStyle.Render},
		{"exit", "", "Exit the program", ErrorStyle.Render},
	}

	fmt.Fprintf(w, "\n%s\n", HeaderStyle.Render("Music Player Usage Instructions:"))
	fmt.Fprintln(w, HeaderStyle.Render(strings.Repeat("-", 32)))
	fmt.Fprintf(w, "%s:\n", HeaderStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(w, "  %s %-10s - %s\n", c.style(fmt.Sprintf("%-6s", c.name)), c.arg, c.help)
	}
	fmt.Fprintf(w, "\n%s:\n", HeaderStyle.Render("Example"))
	fmt.Fprintln(w, "  musicplayer --dir /path/to/music/directory")
	fmt.Fprintln(w)
}
