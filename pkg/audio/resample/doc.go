// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling.
//
// Example:
//
//	r := resample.New(24000, 48000, 1)
//	n := r.Resample(inputSamples, outputSamples)
//
//	// or for a whole decoded buffer
//	out := resample.Buffer(buf, 48000)
package resample
