// ABOUTME: Pull-based sample source over a demuxer/decoder pair
// ABOUTME: Buffers one decoded packet and dispenses it one sample at a time
package decode

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Resonate-Protocol/musicplayer/pkg/audio"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Source is a decode session: an open file, its demuxer and its codec decoder.
// It is not safe for concurrent use.
type Source struct {
	id      string
	path    string
	file    io.Closer
	demuxer Demuxer
	decoder Decoder
	track   Track
	format  audio.Format

	buf []float32
	pos int

	done   bool
	closed bool
	err    error
}

// Open starts a decode session for the file at path
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	src, err := newSource(f, f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

// NewSource starts a decode session over an in-memory or already open reader.
// name is used for logging and as the extension hint.
func NewSource(r io.ReadSeeker, name string) (*Source, error) {
	return newSource(r, nil, name)
}

func newSource(r io.ReadSeeker, closer io.Closer, name string) (*Source, error) {
	demuxer, err := Probe(r, filepath.Ext(name))
	if err != nil {
		return nil, err
	}

	track, ok := demuxer.DefaultTrack()
	if !ok {
		demuxer.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoAudioTracks, name)
	}

	decoder, err := NewDecoder(track.Params)
	if err != nil {
		demuxer.Close()
		return nil, err
	}

	params := decoder.CodecParams()
	format := audio.Format{SampleRate: params.SampleRate, Channels: params.Channels}
	if !format.Valid() {
		decoder.Close()
		demuxer.Close()
		return nil, fmt.Errorf("%w: unknown sample rate or channel count (%s)", ErrDecode, format)
	}

	s := &Source{
		id:      uuid.New().String(),
		path:    name,
		file:    closer,
		demuxer: demuxer,
		decoder: decoder,
		track:   track,
		format:  format,
	}

	log.Debug().
		Str("session", s.id).
		Str("path", name).
		Str("codec", string(params.Codec)).
		Int("sample_rate", format.SampleRate).
		Int("channels", format.Channels).
		Msg("Decode session opened")

	return s, nil
}

// ID returns the session id used in log lines
func (s *Source) ID() string { return s.id }

// Path returns the track path
func (s *Source) Path() string { return s.path }

// Format returns the channel count and sample rate
func (s *Source) Format() audio.Format { return s.format }

// Codec returns the codec parameters of the playing track
func (s *Source) Codec() CodecParams { return s.decoder.CodecParams() }

// Err returns the failure that ended the stream early, if any.
// A clean end of stream leaves it nil.
func (s *Source) Err() error { return s.err }

// Closed reports whether the session has been released
func (s *Source) Closed() bool { return s.closed }

// Next returns the next interleaved sample, or false once the stream is exhausted
func (s *Source) Next() (float32, bool) {
	if s.pos >= len(s.buf) && !s.fill() {
		return 0, false
	}
	sample := s.buf[s.pos]
	s.pos++
	return sample, true
}

// Read copies up to len(samples) interleaved samples, returning io.EOF once exhausted
func (s *Source) Read(samples []float32) (int, error) {
	n := 0
	for n < len(samples) {
		if s.pos >= len(s.buf) && !s.fill() {
			break
		}
		c := copy(samples[n:], s.buf[s.pos:])
		s.pos += c
		n += c
	}

	if n == 0 && len(samples) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// fill decodes the next packet of the selected track into the buffer
func (s *Source) fill() bool {
	for !s.done {
		pkt, err := s.demuxer.NextPacket()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				err = fmt.Errorf("%w: %v", ErrDecode, err)
			}
			s.finish(err)
			return false
		}
		if pkt.TrackID != s.track.ID {
			continue
		}

		samples, err := s.decoder.Decode(pkt)
		if err != nil {
			// A corrupt packet ends the stream; it is not skipped
			s.finish(fmt.Errorf("%w: %v", ErrDecode, err))
			return false
		}
		if len(samples) == 0 {
			continue
		}

		s.buf = samples
		s.pos = 0
		return true
	}
	return false
}

func (s *Source) finish(err error) {
	s.done = true
	s.buf = nil
	s.pos = 0

	if errors.Is(err, io.EOF) {
		log.Debug().Str("session", s.id).Msg("End of stream")
		return
	}

	s.err = err
	log.Warn().Err(err).Str("session", s.id).Str("path", s.path).Msg("Stream ended early")
}

// Close releases the decoder, the demuxer and the file. It is idempotent.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.done = true
	s.buf = nil

	var errs []error
	if err := s.decoder.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.demuxer.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.file != nil {
		// Some demuxers close the reader themselves
		if err := s.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}

	log.Debug().Str("session", s.id).Msg("Decode session closed")
	return errors.Join(errs...)
}
