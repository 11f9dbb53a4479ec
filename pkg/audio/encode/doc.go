// ABOUTME: Audio encoder package
// ABOUTME: Provides Encoder interface plus PCM and WAV writers
// Package encode turns decoded audio buffers back into bytes.
//
// PCM16 feeds byte-oriented output backends (oto), and WriteWAV exports
// spoken replies to disk.
//
// Example:
//
//	raw := encode.PCM16(buf.Interleaved())
package encode
