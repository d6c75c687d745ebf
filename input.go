package audiograph

import (
	"github.com/pipelined/audiograph/signal"
)

// Input is an input slot of a node. It owns a bus that holds the mix of
// all active connections and the channel configuration used to compute
// the number of channels of that mix.
type Input struct {
	node  *Node
	index int
	bus   *signal.Bus

	// sources in connection order.
	sources []*Output
	// active is reused by pull to avoid allocations.
	active []*Output

	channelCount          int
	channelCountMode      ChannelCountMode
	channelInterpretation ChannelInterpretation
}

func newInput(n *Node, index, channelCount int) *Input {
	return &Input{
		node:                  n,
		index:                 index,
		bus:                   signal.NewBus(channelCount, n.ctx.blockSize),
		channelCount:          channelCount,
		channelCountMode:      Max,
		channelInterpretation: Speakers,
	}
}

// Node returns owner of the input.
func (in *Input) Node() *Node {
	return in.node
}

// Index returns index of the input in the node.
func (in *Input) Index() int {
	return in.index
}

// Bus returns the input bus. It contains the mix produced by the last
// pull.
func (in *Input) Bus() *signal.Bus {
	return in.bus
}

// ChannelCount returns channel count property of the input.
func (in *Input) ChannelCount() int {
	return in.channelCount
}

// SetChannelCount sets channel count property. Value is clamped into
// [1, max channels of context].
func (in *Input) SetChannelCount(n int) {
	in.channelCount = signal.ClampChannels(n, in.node.ctx.maxChannels)
}

// ChannelCountMode returns channel count mode of the input.
func (in *Input) ChannelCountMode() ChannelCountMode {
	return in.channelCountMode
}

// SetChannelCountMode sets channel count mode. Invalid values are ignored.
func (in *Input) SetChannelCountMode(mode ChannelCountMode) {
	if m, ok := ParseChannelCountMode(string(mode)); ok {
		in.channelCountMode = m
	}
}

// ChannelInterpretation returns channel interpretation of the input.
func (in *Input) ChannelInterpretation() ChannelInterpretation {
	return in.channelInterpretation
}

// SetChannelInterpretation sets channel interpretation. Invalid values
// are ignored.
func (in *Input) SetChannelInterpretation(interpretation ChannelInterpretation) {
	if i, ok := ParseChannelInterpretation(string(interpretation)); ok {
		in.channelInterpretation = i
	}
}

// Outputs returns active outputs connected to the input in connection
// order.
func (in *Input) Outputs() []*Output {
	active := in.activeSources()
	outputs := make([]*Output, len(active))
	copy(outputs, active)
	return outputs
}

// IsEnabled returns true if input has at least one active connection.
func (in *Input) IsEnabled() bool {
	for _, out := range in.sources {
		if out.IsActive() {
			return true
		}
	}
	return false
}

// IsConnectedFrom returns true if any output of the node is connected to
// the input, regardless of activation. Nil node is never connected.
func (in *Input) IsConnectedFrom(n *Node) bool {
	if n == nil {
		return false
	}
	for _, out := range in.sources {
		if out.node == n {
			return true
		}
	}
	return false
}

// ComputeNumberOfChannels returns number of channels of the mix according
// to channel count mode and active connections.
func (in *Input) ComputeNumberOfChannels() int {
	return in.numberOfChannels(in.activeSources())
}

func (in *Input) numberOfChannels(active []*Output) int {
	if in.channelCountMode == Explicit {
		return in.channelCount
	}
	max := 1
	for _, out := range active {
		if c := out.bus.NumChannels(); c > max {
			max = c
		}
	}
	if in.channelCountMode == ClampedMax && max > in.channelCount {
		return in.channelCount
	}
	return max
}

// Pull produces all active connections for the current quantum and mixes
// them into the input bus. Previous contents of the bus are discarded.
// Sources are produced before mixing starts, so a cycle that pulls this
// input again can't leave partial sums in the bus.
func (in *Input) Pull() *signal.Bus {
	active := in.activeSources()
	for _, out := range active {
		out.node.Process()
	}
	in.bus.SetNumberOfChannels(in.numberOfChannels(active))
	interpretation := in.channelInterpretation.signal()
	switch len(active) {
	case 0:
		in.bus.Zero()
	case 1:
		in.bus.CopyFrom(active[0].bus, interpretation)
	default:
		in.bus.Zero()
		for _, out := range active {
			in.bus.SumFrom(out.bus, interpretation)
		}
	}
	return in.bus
}

func (in *Input) activeSources() []*Output {
	in.active = in.active[:0]
	for _, out := range in.sources {
		if out.IsActive() {
			in.active = append(in.active, out)
		}
	}
	return in.active
}
