package audiograph

import "errors"

var (
	// ErrIndexOutOfRange is returned when input or output index doesn't
	// exist on the node.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNilNode is returned when nil node is passed as connection target.
	ErrNilNode = errors.New("nil node")
	// ErrContextMismatch is returned when nodes of different contexts are
	// connected.
	ErrContextMismatch = errors.New("nodes belong to different contexts")
	// ErrInvalidChannels is returned when node layout declares channel
	// count outside of supported range.
	ErrInvalidChannels = errors.New("invalid number of channels")
	// ErrInvalidConfig is returned when context option has invalid value.
	ErrInvalidConfig = errors.New("invalid context config")
)
