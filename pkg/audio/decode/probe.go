// ABOUTME: Container probing
// ABOUTME: Identifies a container from its leading bytes, falling back to the file extension
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/h2non/filetype"
)

// probeSize is the number of leading bytes filetype needs to match every signature
const probeSize = 262

// Probe identifies the container of r and opens a demuxer for it.
// hint is the file extension and is only consulted when the content
// signature is not recognized.
func Probe(r io.ReadSeeker, hint string) (Demuxer, error) {
	head := make([]byte, probeSize)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	head = head[:n]

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind: %w", err)
	}

	c, err := identify(head, hint)
	if err != nil {
		return nil, err
	}

	return c.Open(r)
}

func identify(head []byte, hint string) (Container, error) {
	if len(head) == 0 {
		return Container{}, fmt.Errorf("%w: empty file", ErrDecode)
	}

	// Recognizably non-audio content has a container, just no audio in it
	if filetype.IsImage(head) || filetype.IsVideo(head) || filetype.IsDocument(head) || filetype.IsArchive(head) || filetype.IsFont(head) {
		kind, _ := filetype.Match(head)
		return Container{}, fmt.Errorf("%w: file contains %s data", ErrNoAudioTracks, kind.MIME.Value)
	}

	kind, _ := filetype.Match(head)
	if kind != filetype.Unknown {
		if c, ok := lookupContainer(kind.Extension); ok {
			return c, nil
		}
		return Container{}, fmt.Errorf("%w: unsupported container %s", ErrDecode, kind.MIME.Value)
	}

	if c, ok := containerForExtension(hint); ok {
		return c, nil
	}

	return Container{}, fmt.Errorf("%w: unrecognized container", ErrDecode)
}
