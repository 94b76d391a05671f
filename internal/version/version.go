// ABOUTME: Version and product identity
// ABOUTME: Reported by --version and written to the log at startup
package version

import "fmt"

const (
	// Version is the release version
	Version = "0.1.0"

	// Product is the program name
	Product = "musicplayer"

	// Manufacturer is the publisher
	Manufacturer = "Resonate Protocol"
)

// String returns the one-line identity shown by --version
func String() string {
	return fmt.Sprintf("%s %s (%s)", Product, Version, Manufacturer)
}
