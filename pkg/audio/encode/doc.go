// ABOUTME: Audio encoder package for turning float32 samples into PCM bytes
// ABOUTME: Provides the Encoder interface and little-endian PCM layouts
// Package encode converts normalized float32 samples into the byte layouts
// audio devices consume.
//
// Supports: 16-bit and 24-bit signed PCM, 32-bit float PCM (little-endian)
//
// Samples outside [-1, 1] are clipped for the integer layouts.
//
// Example:
//
//	encoder, err := encode.NewPCM(encode.S16LE)
//	n := encoder.Put(buf, samples)
package encode
