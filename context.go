package audiograph

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pipelined/audiograph/log"
	"github.com/pipelined/audiograph/signal"
)

const (
	// DefaultBlockSize is the number of samples per channel in one render
	// quantum.
	DefaultBlockSize = 128
	// DefaultSampleRate is used when no sample rate option is provided.
	DefaultSampleRate = 44100
)

// Context holds process-wide render configuration shared by all nodes
// created with it: block size, sample rate, channel ceiling and the
// current render quantum. Context is not safe for concurrent use, graph
// mutations must be serialized with rendering.
type Context struct {
	blockSize   int
	sampleRate  int
	maxChannels int
	log         logrus.FieldLogger

	// quantum is the number of the block being rendered.
	quantum uint64
	// revision changes every time the graph structure or activation
	// changes.
	revision uint64
}

// Option provides a way to set functional parameters to context.
type Option func(*Context) error

// NewContext creates a new context and applies provided options.
func NewContext(options ...Option) (*Context, error) {
	c := &Context{
		blockSize:   DefaultBlockSize,
		sampleRate:  DefaultSampleRate,
		maxChannels: signal.MaxChannels,
		log:         log.GetLogger(),
		quantum:     1,
		revision:    1,
	}
	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithBlockSize sets number of samples per channel in one block.
func WithBlockSize(blockSize int) Option {
	return func(c *Context) error {
		if blockSize < 1 {
			return fmt.Errorf("block size %d: %w", blockSize, ErrInvalidConfig)
		}
		c.blockSize = blockSize
		return nil
	}
}

// WithSampleRate sets sample rate of the context.
func WithSampleRate(sampleRate int) Option {
	return func(c *Context) error {
		if sampleRate < 1 {
			return fmt.Errorf("sample rate %d: %w", sampleRate, ErrInvalidConfig)
		}
		c.sampleRate = sampleRate
		return nil
	}
}

// WithMaxChannels sets the channel ceiling for all buses of the context.
// It cannot exceed signal.MaxChannels.
func WithMaxChannels(maxChannels int) Option {
	return func(c *Context) error {
		if maxChannels < 1 || maxChannels > signal.MaxChannels {
			return fmt.Errorf("max channels %d: %w", maxChannels, ErrInvalidConfig)
		}
		c.maxChannels = maxChannels
		return nil
	}
}

// WithLogger sets logger to context. If this option is not provided,
// log.GetLogger is used.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Context) error {
		c.log = logger
		return nil
	}
}

// BlockSize returns the number of samples per channel in one block.
func (c *Context) BlockSize() int {
	return c.blockSize
}

// SampleRate returns sample rate of the context.
func (c *Context) SampleRate() int {
	return c.sampleRate
}

// MaxChannels returns the channel ceiling.
func (c *Context) MaxChannels() int {
	return c.maxChannels
}

// Quantum returns the number of the current render block.
func (c *Context) Quantum() uint64 {
	return c.quantum
}

// Advance starts a new render block. Nodes produced during the previous
// block will produce again when pulled.
func (c *Context) Advance() uint64 {
	c.quantum++
	return c.quantum
}

// Render starts a new block and produces the node for it. This is a
// synchronous render driver for a single block: destination node pulls
// all of its active upstream nodes.
func (c *Context) Render(n *Node) {
	c.Advance()
	n.Process()
}

// changed invalidates derived activation state.
func (c *Context) changed() {
	c.revision++
}
