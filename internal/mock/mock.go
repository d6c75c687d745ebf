// Package mock provides processors that count calls and record signal,
// allowing to test graph rendering.
package mock

import (
	"github.com/pipelined/audiograph/signal"
)

// Processor counts calls and optionally writes Value into all outputs.
// It records the mix of the first input after every call.
type Processor struct {
	counter
	// Fill enables writing Value into outputs.
	Fill  bool
	Value float64
	// Passthrough copies first input into every output.
	Passthrough bool
	// Record enables appending the first input to the recorded buffer.
	Record bool
	buffer signal.Float64
}

// Process implements audiograph.Processor.
func (m *Processor) Process(inputs, outputs []*signal.Bus) {
	m.advance(blockSize(inputs, outputs))
	if m.Record && len(inputs) > 0 {
		m.record(inputs[0])
	}
	for _, out := range outputs {
		switch {
		case m.Passthrough && len(inputs) > 0:
			out.SetNumberOfChannels(inputs[0].NumChannels())
			for i, samples := range inputs[0].ChannelData() {
				copy(out.MutableData()[i], samples)
			}
		case m.Fill:
			for _, samples := range out.MutableData() {
				for i := range samples {
					samples[i] = m.Value
				}
			}
		}
	}
}

func (m *Processor) record(in *signal.Bus) {
	data := in.ChannelData()
	if m.buffer == nil {
		m.buffer = make([][]float64, len(data))
	}
	for i := range m.buffer {
		if i < len(data) {
			m.buffer[i] = append(m.buffer[i], data[i]...)
		} else {
			m.buffer[i] = append(m.buffer[i], make([]float64, in.Length())...)
		}
	}
}

// Buffer returns recorded signal.
func (m *Processor) Buffer() signal.Float64 {
	return m.buffer
}

// Reset resets counters and recorded signal.
func (m *Processor) Reset() {
	m.reset()
	m.buffer = nil
}

func blockSize(inputs, outputs []*signal.Bus) int {
	switch {
	case len(outputs) > 0:
		return outputs[0].Length()
	case len(inputs) > 0:
		return inputs[0].Length()
	}
	return 0
}

// counter counts calls and samples.
type counter struct {
	calls   int
	samples int
}

func (c *counter) advance(size int) {
	c.calls++
	c.samples = c.samples + size
}

func (c *counter) reset() {
	c.calls, c.samples = 0, 0
}

// Count returns calls and samples metrics.
func (c *counter) Count() (int, int) {
	return c.calls, c.samples
}
