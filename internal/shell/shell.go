// ABOUTME: Interactive command shell
// ABOUTME: Reads commands line by line and drives the transport
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Resonate-Protocol/musicplayer/internal/cli"
	"github.com/Resonate-Protocol/musicplayer/internal/library"
	"github.com/Resonate-Protocol/musicplayer/pkg/player"
	"github.com/rs/zerolog/log"
)

// Shell runs player commands typed on in and reports on out
type Shell struct {
	transport *player.Transport
	library   *library.Library
	in        io.Reader
	out       io.Writer

	// Prompt enables the prompt; it is only useful on a terminal
	Prompt bool
}

// New creates a shell over a transport and a scanned library
func New(t *player.Transport, lib *library.Library, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		transport: t,
		library:   lib,
		in:        in,
		out:       out,
	}
}

// Run reads commands until exit, end of input or ctx is done.
// A read blocked on in cannot be interrupted: when ctx ends first, Run returns
// and the reading goroutine exits once in delivers a line, reaches EOF or is
// closed. Callers that reuse the process should close in after Run returns.
func (s *Shell) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if s.Prompt {
			fmt.Fprint(s.out, cli.Prompt())
		}

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("failed to read command: %w", err)
					}
				default:
				}
				return nil
			}

			if quit := s.Handle(line); quit {
				return nil
			}
		}
	}
}

// Handle parses and runs one line, reporting errors on out.
// It returns true when the shell should exit.
func (s *Shell) Handle(line string) bool {
	cmd, err := Parse(line)
	if err != nil {
		cli.PrintError(s.out, ErrorMessage(err))
		return false
	}

	if cmd.Kind != CmdNone {
		log.Debug().Str("line", line).Msg("Command")
	}
	return s.Execute(cmd)
}

// Execute runs a parsed command
func (s *Shell) Execute(cmd Command) bool {
	switch cmd.Kind {
	case CmdPlay:
		s.play(cmd.Arg)

	case CmdPause:
		if s.transport.Status().State == player.Playing {
			s.transport.Pause()
			cli.PrintInfo(s.out, "Playback paused")
		}

	case CmdResume:
		if s.transport.Status().State == player.Paused {
			s.transport.Resume()
			cli.PrintInfo(s.out, "Playback resumed")
		}

	case CmdStop:
		if s.transport.Status().State != player.Idle {
			s.transport.Stop()
			cli.PrintInfo(s.out, "Playback stopped")
		}

	case CmdVolume:
		if err := s.transport.SetVolume(cmd.Volume); err != nil {
			cli.PrintError(s.out, ErrorMessage(err))
			return false
		}
		cli.PrintSuccess(s.out, fmt.Sprintf("Volume set to %.1f", cmd.Volume))

	case CmdStatus:
		cli.PrintStatus(s.out, s.transport.Status())

	case CmdList:
		cli.PrintList(s.out, s.library, s.transport.Status().Track)

	case CmdHelp:
		cli.PrintHowTo(s.out)

	case CmdExit:
		s.transport.Stop()
		return true
	}

	return false
}

func (s *Shell) play(arg string) {
	path, err := s.library.Resolve(arg)
	if err != nil {
		cli.PrintError(s.out, ErrorMessage(err))
		return
	}

	// The level set with volume carries over to the next track
	if err := s.transport.Play(path, s.transport.Volume()); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Play failed")
		cli.PrintError(s.out, ErrorMessage(err))
		return
	}

	name := filepath.Base(path)
	if track, ok := s.library.Find(path); ok {
		name = track.Name
	}
	cli.PrintNowPlaying(s.out, name)
}
