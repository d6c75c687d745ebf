package audiograph

import (
	"fmt"
	"reflect"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/pipelined/audiograph/metric"
	"github.com/pipelined/audiograph/signal"
)

// Processor produces one block of node output. It's called at most once
// per render quantum, after all inputs are pulled. Input buses must not be
// modified. Output buses keep their contents between calls, so processor
// that doesn't write them keeps the previous block.
type Processor interface {
	Process(inputs, outputs []*signal.Bus)
}

// ProcessorFunc is an adapter to use ordinary functions as processors.
type ProcessorFunc func(inputs, outputs []*signal.Bus)

// Process calls f(inputs, outputs).
func (f ProcessorFunc) Process(inputs, outputs []*signal.Bus) {
	f(inputs, outputs)
}

// Layout declares slots of the node. Every element of Inputs is the
// initial channel count of the input, every element of Outputs is the
// number of channels of the output.
type Layout struct {
	Inputs  []int
	Outputs []int
}

// Node is a vertex of the graph. Number of inputs and outputs is fixed
// when node is created. Node with no inputs is a source, node with no
// outputs is a sink.
type Node struct {
	id        string
	name      string
	ctx       *Context
	processor Processor
	inputs    []*Input
	outputs   []*Output

	// buses passed to processor.
	inputBuses  []*signal.Bus
	outputBuses []*signal.Bus

	// quantum when node produced last time.
	produced uint64
	// derived activation and the revision it's computed for.
	activated   bool
	activatedAt uint64

	meter *metric.Meter
}

// NodeOption provides a way to set functional parameters to node.
type NodeOption func(*Node)

// WithName sets name to node.
func WithName(name string) NodeOption {
	return func(n *Node) {
		n.name = name
	}
}

// NewNode creates a node with provided layout. Processor can be nil, such
// node doesn't touch its output buses. Typed nil pointers are treated as
// nil processor.
func (c *Context) NewNode(layout Layout, p Processor, options ...NodeOption) (*Node, error) {
	if p != nil {
		if rv := reflect.ValueOf(p); rv.Kind() == reflect.Ptr && rv.IsNil() {
			p = nil
		}
	}
	n := &Node{
		id:          xid.New().String(),
		ctx:         c,
		processor:   p,
		inputs:      make([]*Input, 0, len(layout.Inputs)),
		outputs:     make([]*Output, 0, len(layout.Outputs)),
		inputBuses:  make([]*signal.Bus, len(layout.Inputs)),
		outputBuses: make([]*signal.Bus, len(layout.Outputs)),
	}
	for i, channels := range layout.Inputs {
		if err := c.validChannels(channels); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		in := newInput(n, i, channels)
		n.inputs = append(n.inputs, in)
		n.inputBuses[i] = in.bus
	}
	for i, channels := range layout.Outputs {
		if err := c.validChannels(channels); err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		out := newOutput(n, i, channels)
		n.outputs = append(n.outputs, out)
		n.outputBuses[i] = out.bus
	}
	for _, option := range options {
		option(n)
	}
	n.meter = metric.New(n.String(), p, c.sampleRate)
	c.log.WithFields(logrus.Fields{
		"node":    n,
		"inputs":  len(n.inputs),
		"outputs": len(n.outputs),
	}).Debug("node created")
	return n, nil
}

func (c *Context) validChannels(channels int) error {
	if channels < 1 || channels > c.maxChannels {
		return fmt.Errorf("%d channels of max %d: %w", channels, c.maxChannels, ErrInvalidChannels)
	}
	return nil
}

// ID returns unique id of the node.
func (n *Node) ID() string {
	return n.id
}

// Name returns name of the node.
func (n *Node) Name() string {
	return n.name
}

// String returns name of the node if set and id otherwise.
func (n *Node) String() string {
	if n.name != "" {
		return n.name
	}
	return n.id
}

// Context returns context of the node.
func (n *Node) Context() *Context {
	return n.ctx
}

// Processor returns processor of the node.
func (n *Node) Processor() Processor {
	return n.processor
}

// Inputs returns inputs of the node.
func (n *Node) Inputs() []*Input {
	return n.inputs
}

// Outputs returns outputs of the node.
func (n *Node) Outputs() []*Output {
	return n.outputs
}

// Input returns input with provided index or nil if it doesn't exist.
func (n *Node) Input(i int) *Input {
	if i < 0 || i >= len(n.inputs) {
		return nil
	}
	return n.inputs[i]
}

// Output returns output with provided index or nil if it doesn't exist.
func (n *Node) Output(i int) *Output {
	if i < 0 || i >= len(n.outputs) {
		return nil
	}
	return n.outputs[i]
}

func (n *Node) input(i int) (*Input, error) {
	if in := n.Input(i); in != nil {
		return in, nil
	}
	return nil, fmt.Errorf("node %v input %d of %d: %w", n, i, len(n.inputs), ErrIndexOutOfRange)
}

func (n *Node) output(i int) (*Output, error) {
	if out := n.Output(i); out != nil {
		return out, nil
	}
	return nil, fmt.Errorf("node %v output %d of %d: %w", n, i, len(n.outputs), ErrIndexOutOfRange)
}

// SetChannelCount sets channel count of all node inputs.
func (n *Node) SetChannelCount(count int) {
	for _, in := range n.inputs {
		in.SetChannelCount(count)
	}
}

// SetChannelCountMode sets channel count mode of all node inputs.
func (n *Node) SetChannelCountMode(mode ChannelCountMode) {
	for _, in := range n.inputs {
		in.SetChannelCountMode(mode)
	}
}

// SetChannelInterpretation sets channel interpretation of all node inputs.
func (n *Node) SetChannelInterpretation(interpretation ChannelInterpretation) {
	for _, in := range n.inputs {
		in.SetChannelInterpretation(interpretation)
	}
}

// Connect connects output of the node to input of destination node.
// Connecting already connected pair is a no-op.
func (n *Node) Connect(dest *Node, output, input int) error {
	if dest == nil {
		return ErrNilNode
	}
	if dest.ctx != n.ctx {
		return ErrContextMismatch
	}
	out, err := n.output(output)
	if err != nil {
		return err
	}
	in, err := dest.input(input)
	if err != nil {
		return err
	}
	if out.connect(in) {
		n.ctx.changed()
		n.logEdge("connected", out, in)
	}
	return nil
}

// Disconnect removes all outgoing connections of all node outputs.
func (n *Node) Disconnect() {
	for _, out := range n.outputs {
		for len(out.destinations) > 0 {
			n.disconnect(out, out.destinations[0])
		}
	}
}

// DisconnectNode removes all connections from the node to any input of
// destination node.
func (n *Node) DisconnectNode(dest *Node) {
	if dest == nil {
		return
	}
	for _, out := range n.outputs {
		for _, in := range dest.inputs {
			n.disconnect(out, in)
		}
	}
}

// DisconnectInput removes connections from any output of the node to the
// input of destination node.
func (n *Node) DisconnectInput(dest *Node, input int) error {
	if dest == nil {
		return ErrNilNode
	}
	in, err := dest.input(input)
	if err != nil {
		return err
	}
	for _, out := range n.outputs {
		n.disconnect(out, in)
	}
	return nil
}

// DisconnectOutput removes connections from the output of the node to
// any input of destination node.
func (n *Node) DisconnectOutput(dest *Node, output int) error {
	if dest == nil {
		return ErrNilNode
	}
	out, err := n.output(output)
	if err != nil {
		return err
	}
	for _, in := range dest.inputs {
		n.disconnect(out, in)
	}
	return nil
}

// DisconnectEdge removes a single connection between output of the node
// and input of destination node.
func (n *Node) DisconnectEdge(dest *Node, output, input int) error {
	if dest == nil {
		return ErrNilNode
	}
	out, err := n.output(output)
	if err != nil {
		return err
	}
	in, err := dest.input(input)
	if err != nil {
		return err
	}
	n.disconnect(out, in)
	return nil
}

func (n *Node) disconnect(out *Output, in *Input) {
	if out.disconnect(in) {
		n.ctx.changed()
		n.logEdge("disconnected", out, in)
	}
}

func (n *Node) logEdge(msg string, out *Output, in *Input) {
	n.ctx.log.WithFields(logrus.Fields{
		"node":        n,
		"output":      out.index,
		"destination": in.node,
		"input":       in.index,
	}).Debug(msg)
}

// Process produces node outputs for the current render quantum: pulls all
// inputs and calls processor. Repeated calls within the same quantum are
// no-ops, so outputs keep the block that's already produced. The node is
// marked before its inputs are pulled, so cycles terminate.
func (n *Node) Process() {
	if n.produced == n.ctx.quantum {
		n.meter.Cached()
		return
	}
	n.produced = n.ctx.quantum
	for _, in := range n.inputs {
		in.Pull()
	}
	start := time.Now()
	if n.processor != nil {
		n.processor.Process(n.inputBuses, n.outputBuses)
	}
	n.meter.Produced(n.ctx.blockSize, time.Since(start))
}

// isActivated returns true if the node is reachable from any enabled
// output through existing connections. Result is cached until graph
// revision changes.
func (n *Node) isActivated() bool {
	if n.activatedAt != n.ctx.revision {
		n.activated = n.reachable(map[*Node]struct{}{})
		n.activatedAt = n.ctx.revision
	}
	return n.activated
}

// reachable walks connections backwards looking for enabled output.
func (n *Node) reachable(visited map[*Node]struct{}) bool {
	visited[n] = struct{}{}
	for _, in := range n.inputs {
		for _, out := range in.sources {
			if out.enabled {
				return true
			}
			src := out.node
			// cached values are computed with the full walk
			if src.activatedAt == n.ctx.revision {
				if src.activated {
					return true
				}
				continue
			}
			if _, ok := visited[src]; ok {
				continue
			}
			if src.reachable(visited) {
				return true
			}
		}
	}
	return false
}
