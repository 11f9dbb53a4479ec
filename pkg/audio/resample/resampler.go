// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Used when an output device cannot run at the speech sample rate
package resample

import "github.com/Resonate-Protocol/couch-go/pkg/audio"

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
		position:   0.0,
	}
}

// Resample converts input samples to output sample rate using linear interpolation
// input: interleaved samples at inputRate
// output: interleaved samples at outputRate
func (r *Resampler) Resample(input []float32, output []float32) int {
	if len(input) == 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	outIdx := 0

	for outIdx < outputFrames {
		inputPos := r.position
		inputIdx := int(inputPos)

		// If we've consumed all input, stop
		if inputIdx >= inputFrames-1 {
			break
		}

		frac := float32(inputPos - float64(inputIdx))

		for ch := 0; ch < r.channels; ch++ {
			sample1 := input[inputIdx*r.channels+ch]
			sample2 := input[(inputIdx+1)*r.channels+ch]
			output[outIdx*r.channels+ch] = sample1*(1.0-frac) + sample2*frac
		}

		outIdx++
		r.position += r.ratio
	}

	// Reset position for next chunk, keeping fractional part
	r.position -= float64(int(r.position))

	return outIdx * r.channels
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0.0
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(float64(inputFrames) / r.ratio)
	return outputFrames * r.channels
}

// InputSamplesNeeded calculates how many input samples are needed to produce output samples
func (r *Resampler) InputSamplesNeeded(outputSamples int) int {
	outputFrames := outputSamples / r.channels
	inputFrames := int(float64(outputFrames) * r.ratio)
	return inputFrames * r.channels
}

// Buffer returns buf converted to outputRate. buf itself is not modified;
// when the rates already match it is returned as is.
func Buffer(buf *audio.Buffer, outputRate int) *audio.Buffer {
	if buf.Format.SampleRate == outputRate || buf.Frames() == 0 {
		return buf
	}

	channels := len(buf.Channels)
	r := New(buf.Format.SampleRate, outputRate, channels)

	out := make([]float32, r.OutputSamplesNeeded(buf.Frames()*channels)+channels)
	n := r.Resample(buf.Interleaved(), out)
	frames := n / channels

	format := buf.Format
	format.SampleRate = outputRate
	result := audio.NewBuffer(format, frames)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			result.Channels[c][i] = out[i*channels+c]
		}
	}
	return result
}
