// ABOUTME: Music directory scanning
// ABOUTME: Lists playable files in directory order and resolves shell arguments to paths
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNotDirectory is returned when the music directory is not a directory
	ErrNotDirectory = errors.New("not a directory")

	// ErrInvalidIndex is returned for track numbers outside the listing
	ErrInvalidIndex = errors.New("invalid song index")
)

// Extensions are the file extensions the player can decode
var Extensions = []string{"mp3", "wav", "flac", "ogg"}

// Track is one playable file, numbered from 1
type Track struct {
	Index int
	Name  string
	Path  string
}

// Library is the listing of a music directory
type Library struct {
	Dir    string
	Tracks []Track
}

// IsAudioFile reports whether name has a playable extension
func IsAudioFile(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan lists the playable files directly inside dir.
// Files keep the order the directory returns them in; they are not sorted.
func Scan(dir string) (*Library, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open music directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open music directory: %w", err)
	}
	defer f.Close()

	// os.ReadDir would sort by name
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read music directory: %w", err)
	}

	lib := &Library{Dir: dir}
	for _, entry := range entries {
		if !IsAudioFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if !isRegular(entry.Type(), path) {
			continue
		}

		lib.Tracks = append(lib.Tracks, Track{
			Index: len(lib.Tracks) + 1,
			Name:  entry.Name(),
			Path:  path,
		})
	}

	log.Debug().Str("dir", dir).Int("tracks", len(lib.Tracks)).Msg("Scanned music directory")
	return lib, nil
}

// isRegular follows symlinks so linked files are listed too
func isRegular(mode os.FileMode, path string) bool {
	if mode.IsRegular() {
		return true
	}
	if mode&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Len returns the number of tracks
func (l *Library) Len() int {
	return len(l.Tracks)
}

// Lookup returns the track with the given 1-based index
func (l *Library) Lookup(index int) (Track, error) {
	if index < 1 || index > len(l.Tracks) {
		return Track{}, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	return l.Tracks[index-1], nil
}

// Resolve turns a shell argument into a track path.
// A number selects from the listing; anything else is taken as a path.
func (l *Library) Resolve(arg string) (string, error) {
	if index, err := strconv.Atoi(arg); err == nil {
		track, err := l.Lookup(index)
		if err != nil {
			return "", err
		}
		return track.Path, nil
	}
	return arg, nil
}

// Find returns the track at path, if it is in the listing
func (l *Library) Find(path string) (Track, bool) {
	for _, t := range l.Tracks {
		if t.Path == path {
			return t, true
		}
	}
	return Track{}, false
}
