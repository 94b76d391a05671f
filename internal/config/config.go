// ABOUTME: Application defaults and environment loading
// ABOUTME: Constants for flag defaults plus .env support through godotenv
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Application identity
const (
	AppName     = "musicplayer"
	Description = "Command-line music player"
	EnvPrefix   = "MUSICPLAYER_"
)

// Playback defaults
const (
	DefaultBackend = "oto"
	DefaultVolume  = 1.0
)

// Logging defaults
const (
	DefaultLogFile  = "musicplayer.log"
	DefaultLogLevel = "info"
)

// ConfigFiles are the JSON config files kong reads flag defaults from, in order
var ConfigFiles = []string{
	"~/.config/musicplayer/config.json",
	"./musicplayer.json",
}

// EnvFile is the dotenv file loaded before flags are parsed
const EnvFile = ".env"

// LoadEnv loads dotenv files into the process environment.
// Missing files are skipped; variables already set are left alone.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{EnvFile}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		existing = append(existing, f)
	}

	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}
