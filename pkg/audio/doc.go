// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, the Stream pull interface and sample conversion functions
// Package audio provides the fundamental audio types shared by the decoder,
// resampler and output packages.
//
// This package defines:
//   - Format: Describes a sample stream (sample rate, channels)
//   - Stream: A pull-based source of interleaved float32 samples
//
// Samples are normalized float32 values in [-1, 1]. Conversion helpers turn
// signed/unsigned integer PCM of common bit depths into that range.
//
// Example:
//
//	format := audio.Format{SampleRate: 44100, Channels: 2}
//	n, err := stream.Read(buf)
package audio
