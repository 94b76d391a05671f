// ABOUTME: Audio decoder package for file playback
// ABOUTME: Provides container/codec registries and the pull-based Source adapter
// Package decode turns audio files into a pull-based stream of samples.
//
// Supported containers: WAV, MP3, FLAC, Ogg Vorbis
//
// A container is demultiplexed into packets by a Demuxer; each packet is
// decoded as a unit into interleaved float32 samples by a Decoder. Both are
// selected at runtime from registries keyed by container name and codec id.
// Source buffers one decoded packet at a time and hands it out sample by
// sample.
//
// Example:
//
//	src, err := decode.Open("track.flac")
//	defer src.Close()
//	for {
//	    sample, ok := src.Next()
//	    if !ok {
//	        break
//	    }
//	    ...
//	}
package decode
