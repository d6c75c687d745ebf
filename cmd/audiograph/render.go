package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pipelined/audiograph"
	"github.com/pipelined/audiograph/log"
	"github.com/pipelined/audiograph/metric"
	"github.com/pipelined/audiograph/signal"
	"github.com/pipelined/audiograph/source"
	"github.com/pipelined/audiograph/wav"
)

const destinationName = "destination"

// file is the render destination.
type file interface {
	io.WriteSeeker
	io.Closer
}

func createFile(name string) (file, error) {
	return os.Create(name)
}

type renderCommand struct {
	out        string
	sources    int
	blocks     int
	blockSize  int
	sampleRate int
	channels   int
	bitDepth   int
	amplitude  float64

	create func(string) (file, error)
}

func (cmd *renderCommand) Help() string {
	return "Render mixed noise sources into wav file"
}

func (cmd *renderCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.out, "out", "", "output wav file (required)")
	fs.IntVar(&cmd.sources, "sources", 2, "number of noise sources to mix")
	fs.IntVar(&cmd.blocks, "blocks", 344, "number of blocks to render")
	fs.IntVar(&cmd.blockSize, "block-size", audiograph.DefaultBlockSize, "samples per channel in one block")
	fs.IntVar(&cmd.sampleRate, "sample-rate", audiograph.DefaultSampleRate, "sample rate")
	fs.IntVar(&cmd.channels, "channels", 2, "number of output channels")
	fs.IntVar(&cmd.bitDepth, "bit-depth", 16, "bit depth of output file")
	fs.Float64Var(&cmd.amplitude, "amplitude", 0.1, "amplitude of every source")
}

func (cmd *renderCommand) Validate() error {
	var message string
	if cmd.out == "" {
		message = message + "Missing -out required flag\n"
	}
	if cmd.sources < 1 {
		message = message + "At least one source is required\n"
	}
	if cmd.blocks < 0 {
		message = message + "Number of blocks can't be negative\n"
	}
	if message != "" {
		return errors.New(message)
	}
	return nil
}

func (cmd *renderCommand) Run() error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	logger := log.GetLogger()
	ctx, err := audiograph.NewContext(
		audiograph.WithBlockSize(cmd.blockSize),
		audiograph.WithSampleRate(cmd.sampleRate),
		audiograph.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	create := cmd.create
	if create == nil {
		create = createFile
	}
	f, err := create(cmd.out)
	if err != nil {
		return err
	}
	if err := cmd.render(ctx, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", cmd.out, err)
	}
	logger.WithFields(logrus.Fields{
		"out":     cmd.out,
		"metrics": metric.Get(destinationName),
	}).Info("rendered")
	return nil
}

func (cmd *renderCommand) render(ctx *audiograph.Context, w io.WriteSeeker) error {
	sink, err := wav.NewSink(w, cmd.sampleRate, cmd.channels, cmd.blockSize, signal.BitDepth(cmd.bitDepth))
	if err != nil {
		return err
	}

	dest, err := ctx.NewNode(audiograph.Layout{Inputs: []int{signal.ClampChannels(cmd.channels, signal.MaxChannels)}}, sink, audiograph.WithName(destinationName))
	if err != nil {
		return err
	}
	dest.SetChannelCountMode(audiograph.Explicit)
	for i := 0; i < cmd.sources; i++ {
		src, err := ctx.NewNode(
			audiograph.Layout{Outputs: []int{1}},
			source.NewNoise(cmd.amplitude, int64(i)),
			audiograph.WithName(fmt.Sprintf("noise-%d", i)),
		)
		if err != nil {
			return err
		}
		if err := src.Connect(dest, 0, 0); err != nil {
			return err
		}
		src.Output(0).Enable()
	}

	for i := 0; i < cmd.blocks; i++ {
		ctx.Render(dest)
	}
	return sink.Close()
}
