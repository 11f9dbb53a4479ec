// ABOUTME: Audio decoder package for multiple codec support
// ABOUTME: Provides Decoder interface and implementations for PCM, Opus, FLAC, MP3
// Package decode provides audio decoders for various codecs.
//
// Supports: headerless PCM (16-bit and 24-bit), Opus, FLAC, MP3
//
// All decoders implement the Decoder interface and output an audio.Buffer
// of de-interleaved float samples in [-1.0, 1.0]. Decoding is pure: inputs
// are never modified.
//
// Example:
//
//	buf, err := decode.DecodeSpeech(blob)
//	var derr *decode.DecodeError
//	if errors.As(err, &derr) {
//	    // malformed blob, do not retry
//	}
package decode
