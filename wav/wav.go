// Package wav records graph signal into wav files.
package wav

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/pipelined/audiograph/signal"
)

// pcmFormat is the wav audio format for integer samples.
const pcmFormat = 1

// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
var ErrUnsupportedBitDepth = errors.New("only 8, 16, 24 and 32 bit depth is supported")

// Sink is a processor for sink nodes. Every block it mixes the first
// input into the configured number of channels and encodes it. Write
// errors are kept and returned by Close, later blocks are dropped.
type Sink struct {
	encoder  *wav.Encoder
	bitDepth signal.BitDepth
	bus      *signal.Bus
	buffer   *audio.IntBuffer
	blocks   int
	err      error
}

// NewSink creates a new wav sink. Sink doesn't close the writer.
func NewSink(w io.WriteSeeker, sampleRate, numChannels, blockSize int, bitDepth signal.BitDepth) (*Sink, error) {
	switch bitDepth {
	case signal.BitDepth8, signal.BitDepth16, signal.BitDepth24, signal.BitDepth32:
	default:
		return nil, fmt.Errorf("%d bit depth: %w", bitDepth, ErrUnsupportedBitDepth)
	}
	bus := signal.NewBus(numChannels, blockSize)
	return &Sink{
		encoder:  wav.NewEncoder(w, sampleRate, int(bitDepth), bus.NumChannels(), pcmFormat),
		bitDepth: bitDepth,
		bus:      bus,
		buffer: &audio.IntBuffer{
			Format: &audio.Format{SampleRate: sampleRate},
		},
	}, nil
}

// Process implements audiograph.Processor.
func (s *Sink) Process(inputs, _ []*signal.Bus) {
	if s.err != nil || len(inputs) == 0 {
		return
	}
	s.bus.CopyFrom(inputs[0], signal.Speakers)
	s.bus.PutInts(s.buffer, s.bitDepth)
	if err := s.encoder.Write(s.buffer); err != nil {
		s.err = fmt.Errorf("write block %d: %w", s.blocks, err)
		return
	}
	s.blocks++
}

// Blocks returns number of encoded blocks.
func (s *Sink) Blocks() int {
	return s.blocks
}

// Err returns the first write error.
func (s *Sink) Err() error {
	return s.err
}

// Close flushes the encoder and returns the first error that occurred.
func (s *Sink) Close() error {
	err := s.encoder.Close()
	if s.err != nil {
		return s.err
	}
	return err
}
