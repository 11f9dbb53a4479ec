// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for all audio encoders
package encode

import "github.com/Resonate-Protocol/couch-go/pkg/audio"

// Encoder encodes decoded float buffers to various formats
type Encoder interface {
	// Encode converts a decoded buffer to encoded audio data
	Encode(buf *audio.Buffer) ([]byte, error)

	// Close releases encoder resources
	Close() error
}
