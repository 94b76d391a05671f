// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for all sample encoders
package encode

// Encoder encodes normalized float32 samples to a byte layout
type Encoder interface {
	// BytesPerSample is the encoded width of one sample
	BytesPerSample() int

	// Put encodes as many samples as fit in dst and returns the bytes written
	Put(dst []byte, samples []float32) int

	// Append encodes samples onto the end of dst
	Append(dst []byte, samples []float32) []byte
}
