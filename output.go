package audiograph

import (
	"github.com/sirupsen/logrus"

	"github.com/pipelined/audiograph/signal"
)

// Output is an output slot of a node. It owns a bus with the node's output
// signal and tracks inputs it's connected to.
type Output struct {
	node         *Node
	index        int
	bus          *signal.Bus
	enabled      bool
	destinations []*Input
}

func newOutput(n *Node, index, numChannels int) *Output {
	return &Output{
		node:  n,
		index: index,
		bus:   signal.NewBus(numChannels, n.ctx.blockSize),
	}
}

// Node returns owner of the output.
func (o *Output) Node() *Node {
	return o.node
}

// Index returns index of the output in the node.
func (o *Output) Index() int {
	return o.index
}

// Bus returns the output bus.
func (o *Output) Bus() *signal.Bus {
	return o.bus
}

// NumberOfChannels returns number of channels of the output bus.
func (o *Output) NumberOfChannels() int {
	return o.bus.NumChannels()
}

// SetNumberOfChannels changes number of channels of the output bus. Value
// is clamped into [1, max channels of context].
func (o *Output) SetNumberOfChannels(n int) {
	o.bus.SetNumberOfChannels(signal.ClampChannels(n, o.node.ctx.maxChannels))
}

// Enable makes the output and all nodes reachable through its connections
// active.
func (o *Output) Enable() {
	o.setEnabled(true)
}

// Disable clears the enabled flag. Output stays active if its node is
// reachable from another enabled output.
func (o *Output) Disable() {
	o.setEnabled(false)
}

func (o *Output) setEnabled(enabled bool) {
	if o.enabled == enabled {
		return
	}
	o.enabled = enabled
	o.node.ctx.changed()
	o.node.ctx.log.WithFields(logrus.Fields{
		"node":    o.node,
		"output":  o.index,
		"enabled": enabled,
	}).Debug("output toggled")
}

// IsEnabled returns true if the output was explicitly enabled.
func (o *Output) IsEnabled() bool {
	return o.enabled
}

// IsActive returns true if the output contributes to connected inputs: it
// is enabled or its node is reachable from an enabled output.
func (o *Output) IsActive() bool {
	return o.enabled || o.node.isActivated()
}

// Inputs returns all inputs the output is connected to, regardless of
// activation.
func (o *Output) Inputs() []*Input {
	inputs := make([]*Input, len(o.destinations))
	copy(inputs, o.destinations)
	return inputs
}

// IsConnectedTo returns true if output is connected to any input of the
// node.
func (o *Output) IsConnectedTo(n *Node) bool {
	for _, in := range o.destinations {
		if in.node == n {
			return true
		}
	}
	return false
}

// Pull produces the node for the current quantum and returns the output
// bus.
func (o *Output) Pull() *signal.Bus {
	o.node.Process()
	return o.bus
}

// connect registers connection on both sides. Returns false if it already
// exists.
func (o *Output) connect(in *Input) bool {
	for _, dest := range o.destinations {
		if dest == in {
			return false
		}
	}
	o.destinations = append(o.destinations, in)
	in.sources = append(in.sources, o)
	return true
}

// disconnect removes connection on both sides. Returns false if it
// doesn't exist.
func (o *Output) disconnect(in *Input) bool {
	var ok bool
	if o.destinations, ok = removeInput(o.destinations, in); !ok {
		return false
	}
	in.sources, _ = removeOutput(in.sources, o)
	return true
}

func removeInput(inputs []*Input, in *Input) ([]*Input, bool) {
	for i := range inputs {
		if inputs[i] == in {
			copy(inputs[i:], inputs[i+1:])
			inputs[len(inputs)-1] = nil
			return inputs[:len(inputs)-1], true
		}
	}
	return inputs, false
}

func removeOutput(outputs []*Output, out *Output) ([]*Output, bool) {
	for i := range outputs {
		if outputs[i] == out {
			copy(outputs[i:], outputs[i+1:])
			outputs[len(outputs)-1] = nil
			return outputs[:len(outputs)-1], true
		}
	}
	return outputs, false
}
