// ABOUTME: Entry point for the musicplayer command
// ABOUTME: Parses CLI flags with kong and runs the shell, play or list command
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/Resonate-Protocol/musicplayer/internal/cli"
	"github.com/Resonate-Protocol/musicplayer/internal/config"
	"github.com/Resonate-Protocol/musicplayer/internal/library"
	"github.com/Resonate-Protocol/musicplayer/internal/logging"
	"github.com/Resonate-Protocol/musicplayer/internal/shell"
	"github.com/Resonate-Protocol/musicplayer/internal/version"
	"github.com/Resonate-Protocol/musicplayer/pkg/audio/output"
	"github.com/Resonate-Protocol/musicplayer/pkg/player"
	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Globals are flags shared by every command
type Globals struct {
	Backend    string      `help:"Audio output backend (oto, malgo, portaudio, null)." default:"${backend}" enum:"oto,malgo,portaudio,null" env:"MUSICPLAYER_BACKEND"`
	LogFile    string      `help:"Log file path; empty disables file logging." default:"${log_file}" env:"MUSICPLAYER_LOG_FILE"`
	LogLevel   string      `help:"Log level." default:"${log_level}" enum:"debug,info,warn,error" env:"MUSICPLAYER_LOG_LEVEL"`
	LogConsole bool        `help:"Also write logs to stderr." env:"MUSICPLAYER_LOG_CONSOLE"`
	HowTo      howToFlag   `name:"how-to" help:"Show operation commands and how to use the application."`
	Version    versionFlag `help:"Show version information."`
}

// ShellCmd runs the interactive player
type ShellCmd struct {
	Dir string `short:"d" help:"Sets the music directory." placeholder:"DIRECTORY" env:"MUSICPLAYER_DIR"`
}

// PlayCmd plays a file, or a directory's tracks in order
type PlayCmd struct {
	Path   string  `arg:"" help:"Audio file or directory of audio files." type:"path"`
	Volume float64 `help:"Playback volume (0.0-1.0)." default:"${volume}" env:"MUSICPLAYER_VOLUME"`
}

// ListCmd prints the playable tracks of a directory
type ListCmd struct {
	Dir string `arg:"" help:"Music directory." type:"existingdir"`
}

var CLI struct {
	Globals

	Shell ShellCmd `cmd:"" default:"withargs" help:"Interactive player over a music directory."`
	Play  PlayCmd  `cmd:"" help:"Play a file, or every track in a directory in order."`
	List  ListCmd  `cmd:"" help:"List the playable tracks in a directory."`
}

type howToFlag bool

func (howToFlag) BeforeReset(app *kong.Kong) error {
	cli.PrintHowTo(app.Stdout)
	app.Exit(0)
	return nil
}

type versionFlag bool

func (versionFlag) BeforeReset(app *kong.Kong) error {
	cli.PrintVersion(app.Stdout, version.Product, version.Version, version.Manufacturer)
	app.Exit(0)
	return nil
}

func main() {
	if err := config.LoadEnv(); err != nil {
		cli.PrintError(os.Stderr, fmt.Sprintf("loading %s: %v", config.EnvFile, err))
		os.Exit(1)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(config.AppName),
		kong.Description(config.Description),
		kong.Vars{
			"backend":   config.DefaultBackend,
			"log_file":  config.DefaultLogFile,
			"log_level": config.DefaultLogLevel,
			"volume":    fmt.Sprint(config.DefaultVolume),
		},
		kong.Configuration(kong.JSON, config.ConfigFiles...),
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	closer, err := logging.Setup(logging.Options{
		File:    CLI.LogFile,
		Level:   CLI.LogLevel,
		Console: CLI.LogConsole,
	})
	if err != nil {
		cli.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
	defer closer.Close()

	log.Info().
		Str("version", version.String()).
		Str("command", ctx.Command()).
		Str("backend", CLI.Backend).
		Msg("Starting musicplayer")

	if err := ctx.Run(&CLI.Globals); err != nil {
		log.Error().Err(err).Msg("Command failed")
		cli.PrintError(os.Stderr, err.Error())
		closer.Close()
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openTransport opens the output backend and wraps a new player
func openTransport(backend string) (*player.Transport, io.Closer, error) {
	out, err := output.Open(backend)
	if err != nil {
		return nil, nil, err
	}
	return player.NewTransport(player.New(out), &sync.Mutex{}), out, nil
}

func (c *ShellCmd) Run(g *Globals) error {
	if c.Dir == "" {
		return errors.New("missing music directory: use --dir DIRECTORY, or --how-to for usage")
	}

	lib, err := library.Scan(c.Dir)
	if err != nil {
		return err
	}

	transport, out, err := openTransport(g.Backend)
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, stop := signalContext()
	defer stop()

	cli.PrintWelcome(os.Stdout, lib)
	cli.PrintList(os.Stdout, lib, "")

	sh := shell.New(transport, lib, os.Stdin, os.Stdout)
	sh.Prompt = term.IsTerminal(int(os.Stdin.Fd()))

	err = sh.Run(ctx)
	transport.Stop()

	if ctx.Err() != nil {
		fmt.Fprintln(os.Stdout)
		cli.PrintInfo(os.Stdout, "Exiting...")
	}
	return err
}

func (c *PlayCmd) Run(g *Globals) error {
	paths, err := c.tracks()
	if err != nil {
		return err
	}

	transport, out, err := openTransport(g.Backend)
	if err != nil {
		return err
	}
	defer out.Close()

	// Validate the level before anything starts playing
	if err := transport.SetVolume(c.Volume); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	var failed int
	for _, path := range paths {
		if err := transport.Play(path, c.Volume); err != nil {
			log.Error().Err(err).Str("path", path).Msg("Play failed")
			cli.PrintError(os.Stderr, fmt.Sprintf("%s: %s", filepath.Base(path), shell.ErrorMessage(err)))
			failed++
			continue
		}
		cli.PrintNowPlaying(os.Stdout, filepath.Base(path))

		if err := transport.Wait(ctx); err != nil {
			transport.Stop()
			cli.PrintInfo(os.Stdout, "Exiting...")
			return nil
		}
	}

	if failed == len(paths) {
		return errors.New("nothing could be played")
	}
	return nil
}

// tracks expands the path argument into the files to play
func (c *PlayCmd) tracks() ([]string, error) {
	info, err := os.Stat(c.Path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{c.Path}, nil
	}

	lib, err := library.Scan(c.Path)
	if err != nil {
		return nil, err
	}
	if lib.Len() == 0 {
		return nil, fmt.Errorf("no playable files in %s", c.Path)
	}

	paths := make([]string, 0, lib.Len())
	for _, track := range lib.Tracks {
		paths = append(paths, track.Path)
	}
	return paths, nil
}

func (c *ListCmd) Run() error {
	lib, err := library.Scan(c.Dir)
	if err != nil {
		return err
	}
	cli.PrintList(os.Stdout, lib, "")
	return nil
}
