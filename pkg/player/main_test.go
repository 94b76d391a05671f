// ABOUTME: Test setup for the player tests
// ABOUTME: Silences the global zerolog logger so test output stays readable
package player

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}
