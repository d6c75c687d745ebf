package audiograph_test

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/internal/mock"
	"github.com/pipelined/audiograph/log"
	"github.com/pipelined/audiograph/signal"
	"github.com/pipelined/audiograph/source"
)

func TestNewNode(t *testing.T) {
	ctx := newContext(t)
	n, err := ctx.NewNode(audiograph.Layout{Inputs: []int{1, 2}, Outputs: []int{6}}, nil, audiograph.WithName("mixer"))
	require.NoError(t, err)

	assert.Equal(t, "mixer", n.Name())
	assert.Equal(t, "mixer", n.String())
	assert.NotEmpty(t, n.ID())
	assert.Equal(t, ctx, n.Context())
	assert.Nil(t, n.Processor())
	assert.Len(t, n.Inputs(), 2)
	assert.Len(t, n.Outputs(), 1)
	assert.Equal(t, 2, n.Input(1).ChannelCount())
	assert.Equal(t, 1, n.Input(1).Index())
	assert.Equal(t, n, n.Input(1).Node())
	assert.Equal(t, 6, n.Output(0).NumberOfChannels())
	assert.Equal(t, blockSize, n.Output(0).Bus().Length())
	assert.Nil(t, n.Input(2))
	assert.Nil(t, n.Output(-1))
	assert.False(t, n.Output(0).IsEnabled())
	assert.False(t, n.Output(0).IsActive())

	other := newNode(t, ctx, nil, nil, nil)
	assert.NotEqual(t, n.ID(), other.ID())
	assert.Equal(t, other.ID(), other.String())
}

func TestNewNodeInvalidChannels(t *testing.T) {
	ctx := newContext(t)
	tests := []audiograph.Layout{
		{Inputs: []int{0}},
		{Outputs: []int{33}},
		{Inputs: []int{1}, Outputs: []int{1, -1}},
	}
	for _, layout := range tests {
		n, err := ctx.NewNode(layout, nil)
		assert.Nil(t, n)
		assert.True(t, errors.Is(err, audiograph.ErrInvalidChannels), "%v", err)
	}
}

func TestNewNodeTypedNilProcessor(t *testing.T) {
	ctx := newContext(t)
	n, err := ctx.NewNode(audiograph.Layout{Outputs: []int{1}}, (*mock.Processor)(nil))
	require.NoError(t, err)
	assert.Nil(t, n.Processor())
	assert.NotPanics(t, func() { ctx.Render(n) })
	assert.True(t, n.Output(0).Bus().IsSilent())
}

func TestConnectErrors(t *testing.T) {
	ctx := newContext(t)
	node1 := newNode(t, ctx, []int{1}, []int{1}, nil)
	node2 := newNode(t, ctx, []int{1}, []int{1}, nil)

	tests := []struct {
		output   int
		input    int
		expected error
	}{
		{output: 1, input: 0, expected: audiograph.ErrIndexOutOfRange},
		{output: 0, input: 1, expected: audiograph.ErrIndexOutOfRange},
		{output: -1, input: 0, expected: audiograph.ErrIndexOutOfRange},
		{output: 0, input: -1, expected: audiograph.ErrIndexOutOfRange},
	}
	for _, test := range tests {
		err := node1.Connect(node2, test.output, test.input)
		assert.True(t, errors.Is(err, test.expected), "%v", err)
	}
	assert.Len(t, node1.Output(0).Inputs(), 0)

	assert.Equal(t, audiograph.ErrNilNode, node1.Connect(nil, 0, 0))

	other := newContext(t)
	foreign := newNode(t, other, []int{1}, nil, nil)
	assert.Equal(t, audiograph.ErrContextMismatch, node1.Connect(foreign, 0, 0))
}

func TestDisconnectErrors(t *testing.T) {
	ctx := newContext(t)
	node1 := newNode(t, ctx, nil, []int{1}, nil)
	node2 := newNode(t, ctx, []int{1}, nil, nil)
	require.NoError(t, node1.Connect(node2, 0, 0))

	assert.True(t, errors.Is(node1.DisconnectInput(node2, 1), audiograph.ErrIndexOutOfRange))
	assert.True(t, errors.Is(node1.DisconnectOutput(node2, 1), audiograph.ErrIndexOutOfRange))
	assert.True(t, errors.Is(node1.DisconnectEdge(node2, 0, 3), audiograph.ErrIndexOutOfRange))
	assert.True(t, errors.Is(node1.DisconnectEdge(node2, 2, 0), audiograph.ErrIndexOutOfRange))
	assert.Equal(t, audiograph.ErrNilNode, node1.DisconnectInput(nil, 0))
	assert.Equal(t, audiograph.ErrNilNode, node1.DisconnectOutput(nil, 0))
	assert.Equal(t, audiograph.ErrNilNode, node1.DisconnectEdge(nil, 0, 0))

	// failed calls don't change the graph
	assert.True(t, node1.Output(0).IsConnectedTo(node2))
}

func TestActivationChain(t *testing.T) {
	ctx := newContext(t)
	a := newNode(t, ctx, []int{1}, []int{1}, nil)
	b := newNode(t, ctx, []int{1}, []int{1}, nil)
	c := newNode(t, ctx, []int{1}, []int{1}, nil)
	d := newNode(t, ctx, []int{1}, nil, nil)

	require.NoError(t, a.Connect(b, 0, 0))
	require.NoError(t, b.Connect(c, 0, 0))
	require.NoError(t, c.Connect(d, 0, 0))

	a.Output(0).Enable()
	assert.True(t, b.Input(0).IsEnabled())
	assert.True(t, c.Input(0).IsEnabled())
	assert.True(t, d.Input(0).IsEnabled())
	assert.True(t, c.Output(0).IsActive())
	assert.False(t, c.Output(0).IsEnabled())

	// connections made after enable are active too
	e := newNode(t, ctx, []int{1}, nil, nil)
	require.NoError(t, c.Connect(e, 0, 0))
	assert.True(t, e.Input(0).IsEnabled())

	// removing the only path in the middle of the chain
	require.NoError(t, b.DisconnectEdge(c, 0, 0))
	assert.True(t, b.Input(0).IsEnabled())
	assert.False(t, c.Input(0).IsEnabled())
	assert.False(t, d.Input(0).IsEnabled())
	assert.False(t, e.Input(0).IsEnabled())

	// another enabled path restores it
	c.Output(0).Enable()
	assert.True(t, d.Input(0).IsEnabled())
	c.Output(0).Disable()
	assert.False(t, d.Input(0).IsEnabled())

	require.NoError(t, b.Connect(c, 0, 0))
	assert.True(t, d.Input(0).IsEnabled())
	a.Output(0).Disable()
	assert.False(t, b.Input(0).IsEnabled())
	assert.False(t, d.Input(0).IsEnabled())
}

func TestActivationCycle(t *testing.T) {
	ctx := newContext(t)
	a := newNode(t, ctx, []int{1}, []int{1}, nil)
	b := newNode(t, ctx, []int{1}, []int{1}, nil)
	src := newNode(t, ctx, nil, []int{1}, nil)

	require.NoError(t, a.Connect(b, 0, 0))
	require.NoError(t, b.Connect(a, 0, 0))
	require.NoError(t, src.Connect(a, 0, 0))

	// cycle alone doesn't activate itself
	assert.False(t, a.Input(0).IsEnabled())
	assert.False(t, b.Input(0).IsEnabled())

	src.Output(0).Enable()
	assert.True(t, a.Input(0).IsEnabled())
	assert.True(t, b.Input(0).IsEnabled())
	assert.Len(t, a.Input(0).Outputs(), 2)

	src.Disconnect()
	assert.False(t, a.Input(0).IsEnabled())
	assert.False(t, b.Input(0).IsEnabled())
}

func TestProcessOncePerQuantum(t *testing.T) {
	ctx := newContext(t)
	srcProcessor := &mock.Processor{Fill: true, Value: 0.25}
	src := newNode(t, ctx, nil, []int{1}, srcProcessor)
	// diamond: src feeds two nodes that are mixed in dest
	left := newNode(t, ctx, []int{1}, []int{1}, &mock.Processor{Passthrough: true})
	right := newNode(t, ctx, []int{1}, []int{1}, &mock.Processor{Passthrough: true})
	destProcessor := &mock.Processor{Record: true}
	dest := newNode(t, ctx, []int{1}, nil, destProcessor)

	require.NoError(t, src.Connect(left, 0, 0))
	require.NoError(t, src.Connect(right, 0, 0))
	require.NoError(t, left.Connect(dest, 0, 0))
	require.NoError(t, right.Connect(dest, 0, 0))
	src.Output(0).Enable()

	quantum := ctx.Quantum()
	ctx.Render(dest)
	assert.Equal(t, quantum+1, ctx.Quantum())
	// repeated process in the same quantum is a no-op
	dest.Process()
	ctx.Render(dest)

	calls, samples := srcProcessor.Count()
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2*blockSize, samples)
	calls, _ = destProcessor.Count()
	assert.Equal(t, 2, calls)

	buffer := destProcessor.Buffer()
	require.Len(t, buffer, 1)
	require.Len(t, buffer[0], 2*blockSize)
	for _, v := range buffer[0] {
		assert.Equal(t, 0.5, v)
	}
}

func TestProcessCycle(t *testing.T) {
	// src -> a -> b -> a, b -> dest
	ctx := newContext(t)
	src := newNode(t, ctx, nil, []int{1}, &source.Constant{Value: 1})
	aProcessor := &mock.Processor{Passthrough: true}
	a := newNode(t, ctx, []int{1}, []int{1}, aProcessor)
	bProcessor := &mock.Processor{Passthrough: true}
	b := newNode(t, ctx, []int{1}, []int{1}, bProcessor)
	destProcessor := &mock.Processor{Record: true}
	dest := newNode(t, ctx, []int{1}, nil, destProcessor)

	require.NoError(t, src.Connect(a, 0, 0))
	require.NoError(t, a.Connect(b, 0, 0))
	require.NoError(t, b.Connect(a, 0, 0))
	require.NoError(t, b.Connect(dest, 0, 0))
	src.Output(0).Enable()

	blocks := 4
	for i := 0; i < blocks; i++ {
		ctx.Render(dest)
	}

	calls, _ := aProcessor.Count()
	assert.Equal(t, blocks, calls)
	calls, _ = bProcessor.Count()
	assert.Equal(t, blocks, calls)

	// feedback reads the previous block of b: 1, 1+1, 1+2, ...
	buffer := destProcessor.Buffer()
	require.Len(t, buffer[0], blocks*blockSize)
	for i := 0; i < blocks; i++ {
		assert.Equal(t, float64(i+1), buffer[0][i*blockSize], "block %d", i)
	}
}

func TestPullInputInCycle(t *testing.T) {
	ctx := newContext(t)
	a := newNode(t, ctx, []int{1}, []int{1}, &mock.Processor{Passthrough: true})
	b := newNode(t, ctx, []int{1}, []int{1}, &mock.Processor{Passthrough: true})
	src := newNode(t, ctx, nil, []int{1}, &source.Constant{Value: 0.5})
	require.NoError(t, src.Connect(a, 0, 0))
	require.NoError(t, a.Connect(b, 0, 0))
	require.NoError(t, b.Connect(a, 0, 0))
	src.Output(0).Enable()

	// pulling the input directly reenters it through the cycle
	bus := a.Input(0).Pull()
	for _, v := range bus.ChannelData()[0] {
		assert.Equal(t, 1.0, v)
	}
}

func TestOutputPull(t *testing.T) {
	ctx := newContext(t)
	p := &mock.Processor{Fill: true, Value: 0.75}
	n := newNode(t, ctx, nil, []int{2}, p)
	bus := n.Output(0).Pull()
	assert.Equal(t, 2, bus.NumChannels())
	assert.Equal(t, 0.75, bus.ChannelData()[1][blockSize-1])
	n.Output(0).Pull()
	calls, _ := p.Count()
	assert.Equal(t, 1, calls)
}

func TestProcessorFunc(t *testing.T) {
	ctx := newContext(t)
	var got int
	gain := audiograph.ProcessorFunc(func(inputs, outputs []*signal.Bus) {
		got = len(inputs)
		outputs[0].CopyFrom(inputs[0], signal.Speakers)
		for _, samples := range outputs[0].MutableData() {
			for i := range samples {
				samples[i] *= 2
			}
		}
	})
	src := newNode(t, ctx, nil, []int{1}, &source.Constant{Value: 0.25})
	n := newNode(t, ctx, []int{1, 1}, []int{1}, gain)
	require.NoError(t, src.Connect(n, 0, 0))
	src.Output(0).Enable()

	ctx.Render(n)
	assert.Equal(t, 2, got)
	assert.Equal(t, 0.5, n.Output(0).Bus().ChannelData()[0][0])
	assert.True(t, n.Input(1).Bus().IsSilent())
}

func TestStructuralLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	ctx, err := audiograph.NewContext(audiograph.WithLogger(logger))
	require.NoError(t, err)

	node1 := newNode(t, ctx, nil, []int{1}, nil)
	node2 := newNode(t, ctx, []int{1}, nil, nil)
	hook.Reset()

	require.NoError(t, node1.Connect(node2, 0, 0))
	require.NoError(t, node1.Connect(node2, 0, 0))
	node1.Output(0).Enable()
	node1.Disconnect()

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "connected", entries[0].Message)
	assert.Equal(t, node2, entries[0].Data["destination"])
	assert.Equal(t, "output toggled", entries[1].Message)
	assert.Equal(t, true, entries[1].Data["enabled"])
	assert.Equal(t, "disconnected", entries[2].Message)
}

func TestContextOptions(t *testing.T) {
	ctx, err := audiograph.NewContext(audiograph.WithLogger(log.Silent()))
	require.NoError(t, err)
	assert.Equal(t, audiograph.DefaultBlockSize, ctx.BlockSize())
	assert.Equal(t, audiograph.DefaultSampleRate, ctx.SampleRate())
	assert.Equal(t, signal.MaxChannels, ctx.MaxChannels())

	tests := []audiograph.Option{
		audiograph.WithBlockSize(0),
		audiograph.WithSampleRate(-1),
		audiograph.WithMaxChannels(0),
		audiograph.WithMaxChannels(33),
	}
	for _, option := range tests {
		ctx, err := audiograph.NewContext(option)
		assert.Nil(t, ctx)
		assert.True(t, errors.Is(err, audiograph.ErrInvalidConfig), "%v", err)
	}
}

func TestAdvance(t *testing.T) {
	ctx := newContext(t)
	q := ctx.Quantum()
	assert.Equal(t, q+1, ctx.Advance())
	assert.Equal(t, q+1, ctx.Quantum())
}
