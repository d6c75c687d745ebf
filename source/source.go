// Package source provides test signal processors for source nodes.
package source

import (
	"math/rand"

	"github.com/pipelined/audiograph/signal"
)

// Constant fills every output channel with the same value.
type Constant struct {
	Value float64
}

// Process implements audiograph.Processor.
func (c *Constant) Process(_, outputs []*signal.Bus) {
	for _, out := range outputs {
		for _, samples := range out.MutableData() {
			for i := range samples {
				samples[i] = c.Value
			}
		}
	}
}

// Noise fills every output channel with uniform white noise in
// [-Amplitude, Amplitude].
type Noise struct {
	Amplitude float64
	rand      *rand.Rand
}

// NewNoise returns noise source with deterministic seed.
func NewNoise(amplitude float64, seed int64) *Noise {
	return &Noise{
		Amplitude: amplitude,
		rand:      rand.New(rand.NewSource(seed)),
	}
}

// Process implements audiograph.Processor.
func (n *Noise) Process(_, outputs []*signal.Bus) {
	for _, out := range outputs {
		for _, samples := range out.MutableData() {
			for i := range samples {
				samples[i] = n.Amplitude * (2*n.rand.Float64() - 1)
			}
		}
	}
}
