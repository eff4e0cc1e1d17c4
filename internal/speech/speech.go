// Package speech turns text into playable WAV audio via an external
// synthesis provider.
package speech

import (
	"context"
	"io"
)

// Synthesizer produces a complete WAV (linear PCM-16) waveform for a text
// string. Implementations make exactly one provider call per invocation;
// retry is deliberately left to callers.
type Synthesizer interface {
	// Name returns the provider identifier
	Name() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Synthesize returns the full audio for the text as WAV bytes
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// readChunkSize is the buffer size used when draining a provider stream
const readChunkSize = 32 * 1024

// ReadStream drains a provider byte stream incrementally and concatenates
// the chunks into one contiguous buffer, preserving byte order. The stream
// is consumed to EOF before returning; there is no partial-playback contract
// at this layer.
func ReadStream(r io.Reader) ([]byte, error) {
	var out []byte
	buf := make([]byte, readChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
