// ABOUTME: Shell command parsing
// ABOUTME: Turns an input line into a typed command or a parse error
package shell

import (
	"errors"
	"strconv"
	"strings"
)

// Kind identifies a shell command
type Kind int

const (
	CmdNone Kind = iota
	CmdPlay
	CmdPause
	CmdResume
	CmdStop
	CmdVolume
	CmdStatus
	CmdList
	CmdHelp
	CmdExit
)

var (
	ErrMissingTrack       = errors.New("missing song index")
	ErrMissingVolume      = errors.New("missing volume value")
	ErrInvalidVolumeValue = errors.New("invalid volume value")
	ErrUnknownCommand     = errors.New("unknown command")
)

// Command is a parsed shell command
type Command struct {
	Kind   Kind
	Arg    string
	Volume float64
}

var commandNames = map[string]Kind{
	"play":   CmdPlay,
	"pause":  CmdPause,
	"resume": CmdResume,
	"stop":   CmdStop,
	"volume": CmdVolume,
	"status": CmdStatus,
	"list":   CmdList,
	"help":   CmdHelp,
	"exit":   CmdExit,
	"quit":   CmdExit,
}

// Parse reads one input line. A blank line yields CmdNone.
// Command names are case-insensitive; arguments are kept as typed.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Kind: CmdNone}, nil
	}

	kind, ok := commandNames[strings.ToLower(fields[0])]
	if !ok {
		return Command{}, ErrUnknownCommand
	}
	cmd := Command{Kind: kind}

	switch kind {
	case CmdPlay:
		if len(fields) < 2 {
			return Command{}, ErrMissingTrack
		}
		// Paths may contain spaces
		cmd.Arg = strings.Join(fields[1:], " ")

	case CmdVolume:
		if len(fields) < 2 {
			return Command{}, ErrMissingVolume
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Command{}, ErrInvalidVolumeValue
		}
		cmd.Volume = v
	}

	return cmd, nil
}
