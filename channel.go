package audiograph

import "github.com/pipelined/audiograph/signal"

// ChannelCountMode defines how the number of channels of an input is
// computed from its connections.
type ChannelCountMode string

const (
	// Max uses the maximum number of channels of all active connections.
	Max ChannelCountMode = "max"
	// ClampedMax uses the maximum number of channels of all active
	// connections, but not more than channel count of the input.
	ClampedMax ChannelCountMode = "clamped-max"
	// Explicit uses channel count of the input.
	Explicit ChannelCountMode = "explicit"
)

// ChannelInterpretation defines how channels are mixed when input and
// connection have different number of channels.
type ChannelInterpretation string

const (
	// Speakers mixes according to standard speaker layouts.
	Speakers ChannelInterpretation = "speakers"
	// Discrete maps channels by index.
	Discrete ChannelInterpretation = "discrete"
)

// ParseChannelCountMode returns the mode if it's valid.
func ParseChannelCountMode(s string) (ChannelCountMode, bool) {
	switch m := ChannelCountMode(s); m {
	case Max, ClampedMax, Explicit:
		return m, true
	}
	return "", false
}

// ParseChannelInterpretation returns the interpretation if it's valid.
func ParseChannelInterpretation(s string) (ChannelInterpretation, bool) {
	switch i := ChannelInterpretation(s); i {
	case Speakers, Discrete:
		return i, true
	}
	return "", false
}

func (i ChannelInterpretation) signal() signal.Interpretation {
	if i == Discrete {
		return signal.Discrete
	}
	return signal.Speakers
}
