/*
Package audiograph is the signal-routing core of an audio processing graph
modeled on the Web Audio API.

Concept

The graph consists of nodes. Each node has a fixed number of inputs and
outputs and an optional Processor that produces one block of output:

    Source - node without inputs, the origin of signal;
    Processor - node with inputs and outputs;
    Sink - node without outputs, the destination of signal.

Outputs connect to inputs. Every input and output owns a Bus that holds
exactly one block of samples. Graph is rendered by pull: the render driver
asks a destination node to process, the node pulls its inputs, inputs pull
connected outputs and so on until source nodes are reached.

Context

All nodes are created with a Context. It holds block size, sample rate,
channel ceiling and the number of the current render quantum:

    ctx, err := audiograph.NewContext(
        audiograph.WithBlockSize(128),
        audiograph.WithSampleRate(48000),
    )

Every node produces at most once per quantum. A node pulled twice in the
same quantum keeps the block it already produced, which also makes cyclic
graphs terminate.

Routing

Nodes are connected by output and input index:

    osc, _ := ctx.NewNode(audiograph.Layout{Outputs: []int{1}}, &source.Constant{Value: 0.5})
    dest, _ := ctx.NewNode(audiograph.Layout{Inputs: []int{2}}, nil)
    err := osc.Connect(dest, 0, 0)

Connections are idempotent and removing missing connection is a no-op.
Only active outputs contribute to inputs. Output is active when it's
enabled or when its node is reachable from an enabled output through
existing connections:

    osc.Output(0).Enable()

Channels

Number of channels of input mix is computed from active connections and
input properties: channel count, channel count mode (max, clamped-max,
explicit) and channel interpretation (speakers, discrete). Setters never
fail: channel count is clamped and unknown modes are ignored.

Rendering

    ctx.Render(dest)
    samples := dest.Input(0).Bus().ChannelData()

Graph mutations must not happen while a block is rendered. Context is not
safe for concurrent use.
*/
package audiograph
