// ABOUTME: Software volume control shared by all backends
// ABOUTME: Applies gain and mute to float samples with clipping protection
package output

import (
	"log"
	"sync"
)

// volumeControl holds software gain state
type volumeControl struct {
	mu     sync.Mutex
	volume int
	muted  bool
}

// SetVolume sets the volume (0-100)
func (v *volumeControl) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	v.mu.Lock()
	v.volume = volume
	v.mu.Unlock()
	log.Printf("Volume set to %d", volume)
}

// SetMuted sets mute state
func (v *volumeControl) SetMuted(muted bool) {
	v.mu.Lock()
	v.muted = muted
	v.mu.Unlock()
	log.Printf("Muted: %v", muted)
}

// GetVolume returns current volume
func (v *volumeControl) GetVolume() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.volume
}

// IsMuted returns mute state
func (v *volumeControl) IsMuted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.muted
}

// scaled returns interleaved samples with the current gain applied
func (v *volumeControl) scaled(samples []float32) []float32 {
	v.mu.Lock()
	volume, muted := v.volume, v.muted
	v.mu.Unlock()
	return applyVolume(samples, volume, muted)
}

// applyVolume applies volume and mute to samples with clipping protection
func applyVolume(samples []float32, volume int, muted bool) []float32 {
	multiplier := float32(getVolumeMultiplier(volume, muted))

	result := make([]float32, len(samples))
	for i, sample := range samples {
		scaled := sample * multiplier
		if scaled > 1 {
			scaled = 1
		} else if scaled < -1 {
			scaled = -1
		}
		result[i] = scaled
	}

	return result
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
