// ABOUTME: Tests for the interactive shell
// ABOUTME: Drives scripted sessions against a headless output
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Resonate-Protocol/musicplayer/internal/library"
	"github.com/Resonate-Protocol/musicplayer/internal/testutil"
	"github.com/Resonate-Protocol/musicplayer/pkg/audio/decode"
	"github.com/Resonate-Protocol/musicplayer/pkg/audio/output"
	"github.com/Resonate-Protocol/musicplayer/pkg/player"
)

func newTestShell(t *testing.T, script string) (*Shell, *player.Transport, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteWAV(t, dir, "tone.wav", 8000, 1, 16, testutil.Ramp(8000))
	testutil.WriteFile(t, dir, "cover.mp3", testutil.PNGHeader)

	lib, err := library.Scan(dir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	out := output.NewManualNull()
	t.Cleanup(func() { out.Close() })

	tr := player.NewTransport(player.New(out), &sync.Mutex{})
	var buf bytes.Buffer
	return New(tr, lib, strings.NewReader(script), &buf), tr, &buf
}

// trackIndex finds a file's number in the shell's listing
func trackIndex(t *testing.T, s *Shell, name string) int {
	t.Helper()
	for _, track := range s.library.Tracks {
		if track.Name == name {
			return track.Index
		}
	}
	t.Fatalf("%s not in listing", name)
	return 0
}

func TestErrorMessagesAreDistinct(t *testing.T) {
	errs := []error{
		ErrMissingTrack,
		library.ErrInvalidIndex,
		ErrMissingVolume,
		ErrInvalidVolumeValue,
		player.ErrInvalidVolume,
		ErrUnknownCommand,
		decode.ErrFileNotFound,
		decode.ErrNoAudioTracks,
		decode.ErrDecode,
		output.ErrAudioOutput,
		fs.ErrPermission,
	}

	seen := map[string]error{}
	for _, err := range errs {
		wrapped := fmt.Errorf("context: %w", err)
		msg := ErrorMessage(wrapped)
		if prev, ok := seen[msg]; ok {
			t.Errorf("%v and %v share the message %q", prev, err, msg)
		}
		seen[msg] = err
	}

	if got := ErrorMessage(errors.New("something else")); got != "something else" {
		t.Errorf("expected unknown errors to pass through, got %q", got)
	}
}

func TestShellSession(t *testing.T) {
	s, tr, buf := newTestShell(t, "")
	tone := trackIndex(t, s, "tone.wav")

	steps := []struct {
		line string
		want string
	}{
		{"list", "tone.wav"},
		{fmt.Sprintf("play %d", tone), "Now playing"},
		{"status", "Playing"},
		{"pause", "Playback paused"},
		{"status", "Paused"},
		{"resume", "Playback resumed"},
		{"volume 0.5", "Volume set to 0.5"},
		{"volume 1.5", "Volume must be 0.0 to 1.0"},
		{"volume loud", "Invalid volume value"},
		{"volume", "Missing volume value"},
		{"play 99", "Invalid song index"},
		{"play", "Please provide a song index"},
		{"dance", "Invalid command"},
		{"help", "Usage Instructions"},
		{"stop", "Playback stopped"},
		{"status", "No song playing"},
	}

	for _, step := range steps {
		buf.Reset()
		if quit := s.Handle(step.line); quit {
			t.Fatalf("%q: shell quit unexpectedly", step.line)
		}
		if !strings.Contains(buf.String(), step.want) {
			t.Errorf("%q: expected output to contain %q, got:\n%s", step.line, step.want, buf.String())
		}
	}

	if tr.Status().State != player.Idle {
		t.Errorf("expected idle at the end, got %s", tr.Status().State)
	}
}

func TestShellVolumeCarriesToNextPlay(t *testing.T) {
	s, tr, _ := newTestShell(t, "")
	tone := trackIndex(t, s, "tone.wav")

	s.Handle("volume 0.3")
	s.Handle(fmt.Sprintf("play %d", tone))
	defer tr.Stop()

	if got := tr.Volume(); got != 0.3 {
		t.Errorf("expected new track at volume 0.3, got %v", got)
	}
}

func TestShellPlayErrorsDoNotQuit(t *testing.T) {
	s, tr, buf := newTestShell(t, "")
	cover := trackIndex(t, s, "cover.mp3")

	if quit := s.Handle(fmt.Sprintf("play %d", cover)); quit {
		t.Fatal("shell quit on a failed play")
	}
	if !strings.Contains(buf.String(), "no audio tracks") {
		t.Errorf("expected no-audio-tracks message, got:\n%s", buf.String())
	}

	buf.Reset()
	s.Handle("play /does/not/exist.wav")
	if !strings.Contains(buf.String(), "File not found") {
		t.Errorf("expected file-not-found message, got:\n%s", buf.String())
	}

	if tr.Status().State != player.Idle {
		t.Errorf("expected idle, got %s", tr.Status().State)
	}
}

func TestShellIdleCommandsAreSilent(t *testing.T) {
	s, _, buf := newTestShell(t, "")

	for _, line := range []string{"pause", "resume", "stop", ""} {
		s.Handle(line)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output for idle no-ops, got:\n%s", buf.String())
	}
}

func TestRunStopsAtExit(t *testing.T) {
	s, tr, buf := newTestShell(t, "play 1\nexit\nstatus\n")
	s.Prompt = true

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if strings.Contains(buf.String(), "Player Status") {
		t.Error("commands after exit were run")
	}
	if !strings.Contains(buf.String(), "musicplayer>") {
		t.Error("expected the prompt to be printed")
	}
	if tr.Status().State != player.Idle {
		t.Errorf("expected exit to stop playback, got %s", tr.Status().State)
	}
}

func TestRunEndsAtEndOfInput(t *testing.T) {
	s, _, buf := newTestShell(t, "help\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if strings.Contains(buf.String(), "musicplayer>") {
		t.Error("prompt printed without a terminal")
	}
	if !strings.Contains(buf.String(), "Usage Instructions") {
		t.Error("expected help output")
	}
}

func TestRunReturnsWhenCancelledWithBlockedInput(t *testing.T) {
	s, _, _ := newTestShell(t, "")
	pr, pw := io.Pipe()
	s.in = pr

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("expected nil after cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// The reader still drains one line, then exits instead of delivering it
	written := make(chan error, 1)
	go func() {
		_, err := pw.Write([]byte("status\n"))
		written <- err
	}()
	select {
	case err := <-written:
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reader goroutine was not released by input")
	}
	pw.Close()
}
