// Package signal provides the sample buffers exchanged by graph nodes. It allows to:
// 	- hold a multi-channel block of samples in a Bus
// 	- up-mix and down-mix buses between channel layouts
// 	- convert float samples to interleaved ints for encoders
package signal

import (
	"math"
	"time"
)

// MaxChannels is the maximum number of channels a bus can hold.
const MaxChannels = 32

// Float64 is a non-interleaved float64 signal.
type Float64 [][]float64

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth24 is 24 bit depth.
	BitDepth24 = BitDepth(24)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// BitDepth contains values required for float-to-int conversion.
type BitDepth int

// multiplier is used when float to int conversion is done.
func (bitDepth BitDepth) multiplier() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8 - 1
	case BitDepth16:
		return math.MaxInt16 - 1
	case BitDepth24:
		return 1<<23 - 2
	case BitDepth32:
		return math.MaxInt32 - 1
	default:
		return 1
	}
}

// DurationOf returns time duration of passed samples for this sample rate.
func DurationOf(sampleRate int, samples int64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// AsInterInt converts float64 signal to interleaved int. Samples are
// clipped to [-1, 1] before conversion.
func (floats Float64) AsInterInt(bitDepth BitDepth, ints []int) []int {
	var numChannels int
	if numChannels = len(floats); numChannels == 0 {
		return nil
	}

	// determine the multiplier for bit depth conversion
	multiplier := float64(bitDepth.multiplier())

	size := len(floats[0]) * numChannels
	if cap(ints) < size {
		ints = make([]int, size)
	}
	ints = ints[:size]
	for j := range floats {
		for i := range floats[j] {
			ints[i*numChannels+j] = int(clip(floats[j][i]) * multiplier)
		}
	}
	return ints
}

func clip(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}

// ClampChannels clamps channel count into [1, max].
func ClampChannels(n, max int) int {
	if max > MaxChannels || max < 1 {
		max = MaxChannels
	}
	switch {
	case n < 1:
		return 1
	case n > max:
		return max
	}
	return n
}
