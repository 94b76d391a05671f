// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides the Output and Sink interfaces and their device backends
// Package output provides audio playback targets.
//
// An Output is a playback device; each track gets its own Sink, which
// pulls samples from an audio.Stream on the backend's own goroutine or
// callback. Supported backends are oto (default), malgo, PortAudio
// (build with -tags portaudio) and a headless null device.
//
// Example:
//
//	out, err := output.Open("oto")
//	sink, err := out.NewSink(src.Format())
//	sink.Append(src)
//	<-sink.Done()
package output
