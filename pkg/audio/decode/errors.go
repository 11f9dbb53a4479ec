// ABOUTME: Decode error type
// ABOUTME: Reports malformed base64 or mis-framed sample data
package decode

import "fmt"

// DecodeError reports input that cannot be turned into samples. It is
// deterministic for a given input, so callers should not retry.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
