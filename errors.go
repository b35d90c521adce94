package hvd

import (
	"errors"
)

// The errors below are sentinels: implementations wrap them with contextual
// details, so match with errors.Is.
var (
	// ErrAgain signals backpressure: the decoder's output queue is full and
	// must be drained with ReceiveFrame before the same packet is resubmitted.
	ErrAgain = errors.New("decoder output queue is full, drain it with ReceiveFrame first")

	ErrUnknownBackend       = errors.New("unknown hardware device type")
	ErrUnsupportedBackend   = errors.New("hardware device type has no pixel format mapping")
	ErrUnknownCodec         = errors.New("unknown codec")
	ErrAllocationFailed     = errors.New("allocation failed")
	ErrDeviceCreationFailed = errors.New("unable to create a hardware device context")
	ErrBindFailed           = errors.New("unable to bind the hardware device context")
	ErrOpenFailed           = errors.New("unable to open the codec context")
)
