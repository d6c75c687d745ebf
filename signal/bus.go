package signal

import (
	"github.com/go-audio/audio"
)

// Bus is a multi-channel buffer that holds exactly one block of samples.
// Channel storage is allocated once per channel and reused when the
// number of channels changes, so resizing a bus between blocks doesn't
// allocate unless it grows past its previous maximum.
type Bus struct {
	channels    Float64 // allocated channels, len(channels) >= numChannels
	numChannels int
	length      int
}

// NewBus returns a silent bus with provided number of channels and length.
// Number of channels is clamped into [1, MaxChannels].
func NewBus(numChannels, length int) *Bus {
	b := &Bus{length: length}
	b.SetNumberOfChannels(numChannels)
	return b
}

// NumChannels returns current number of channels.
func (b *Bus) NumChannels() int {
	return b.numChannels
}

// Length returns number of samples in every channel.
func (b *Bus) Length() int {
	return b.length
}

// ChannelData returns current contents of the bus. Returned slices must
// not be modified, use MutableData for that.
func (b *Bus) ChannelData() Float64 {
	return b.channels[:b.numChannels]
}

// MutableData returns contents of the bus for writing.
func (b *Bus) MutableData() Float64 {
	return b.channels[:b.numChannels]
}

// SetNumberOfChannels changes the number of channels of the bus. Channels
// that become visible are silent. Value is clamped into [1, MaxChannels].
func (b *Bus) SetNumberOfChannels(n int) {
	n = ClampChannels(n, MaxChannels)
	for len(b.channels) < n {
		b.channels = append(b.channels, make([]float64, b.length))
	}
	for i := b.numChannels; i < n; i++ {
		zero(b.channels[i])
	}
	b.numChannels = n
}

// Zero silences all channels.
func (b *Bus) Zero() {
	for _, c := range b.ChannelData() {
		zero(c)
	}
}

// IsSilent returns true if all samples are zero.
func (b *Bus) IsSilent() bool {
	for _, c := range b.ChannelData() {
		for _, v := range c {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// CopyFrom replaces contents of the bus with src mixed into the current
// number of channels.
func (b *Bus) CopyFrom(src *Bus, interpretation Interpretation) {
	b.Zero()
	b.SumFrom(src, interpretation)
}

// SumFrom mixes src into the current number of channels and adds the
// result to the bus contents.
func (b *Bus) SumFrom(src *Bus, interpretation Interpretation) {
	m := Matrix(interpretation, src.numChannels, b.numChannels)
	dst := b.ChannelData()
	in := src.ChannelData()
	for o, row := range m {
		out := dst[o]
		for i, gain := range row {
			if gain == 0 {
				continue
			}
			samples := in[i]
			if gain == 1 {
				for j := range out {
					out[j] += samples[j]
				}
				continue
			}
			for j := range out {
				out[j] += gain * samples[j]
			}
		}
	}
}

// PutInts writes bus contents into go-audio buffer as interleaved ints of
// provided bit depth. Buffer data is reused when its capacity allows.
func (b *Bus) PutInts(buf *audio.IntBuffer, bitDepth BitDepth) {
	buf.Data = b.ChannelData().AsInterInt(bitDepth, buf.Data)
	buf.SourceBitDepth = int(bitDepth)
	if buf.Format == nil {
		buf.Format = &audio.Format{}
	}
	buf.Format.NumChannels = b.numChannels
}

func zero(samples []float64) {
	for i := range samples {
		samples[i] = 0
	}
}
