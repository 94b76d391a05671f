// ABOUTME: Tests for logger setup
// ABOUTME: Checks level parsing and file and console destinations
package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func restoreLogger(t *testing.T) {
	t.Helper()
	logger := log.Logger
	level := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = logger
		zerolog.SetGlobalLevel(level)
	})
}

func TestSetupWritesFile(t *testing.T) {
	restoreLogger(t)
	path := filepath.Join(t.TempDir(), "test.log")

	closer, err := Setup(Options{File: path, Level: "debug"})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	log.Debug().Str("session", "abc").Msg("Decode session opened")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	for _, want := range []string{`"session":"abc"`, "Decode session opened", `"level":"debug"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected log to contain %s, got %s", want, data)
		}
	}
}

func TestSetupLevelFilters(t *testing.T) {
	restoreLogger(t)
	var stderr bytes.Buffer

	closer, err := Setup(Options{Level: "warn", Console: true, Stderr: &stderr})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	defer closer.Close()

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	if strings.Contains(stderr.String(), "hidden") {
		t.Error("info line passed a warn level")
	}
	if !strings.Contains(stderr.String(), "shown") {
		t.Errorf("expected warn line on console, got %q", stderr.String())
	}
}

func TestSetupInvalidLevel(t *testing.T) {
	restoreLogger(t)
	if _, err := Setup(Options{Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
}
