// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts streams between sample rates and channel layouts
// Package resample provides sample rate and channel conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling, and maps mono, stereo and
// wider layouts onto the channel count an output device wants.
//
// Example:
//
//	r := resample.New(src, audio.Format{SampleRate: 48000, Channels: 2})
//	n, err := r.Read(samples)
package resample
