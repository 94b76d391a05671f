// ABOUTME: Test setup for the library scanning tests
// ABOUTME: Silences the global zerolog logger so test output stays readable
package library

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}
