// Package hvd defines the interface of a hardware video decoder: a thin
// layer that maps a hardware device type and codec name to a ready decoding
// session, forwards packets to it and returns decoded frames transferred
// from device memory to host memory.
package hvd

import (
	"context"
	"io"
)

// Packet is one piece of encoded bitstream to be submitted to a decoder.
//
// Data is owned by the caller and is copied into an internal (padded) buffer
// during SendPacket, so the slice may be reused right after the call returns.
type Packet struct {
	Data []byte
}

// Frame is a decoded video frame residing in host memory.
//
// A Frame is owned by the Decoder that produced it and is valid only until
// the next ReceiveFrame call or Close, whichever comes first.
type Frame interface {
	Width() int
	Height() int
	PixelFormatName() string
	Pts() int64
	Bytes() ([]byte, error)
}

// Decoder is a single hardware decoding session.
//
// SendPacket submits a packet (or a flush request, if the packet is nil).
// It returns nil on acceptance, an error matching ErrAgain when the decoder's
// output queue must be drained with ReceiveFrame first, and any other error
// on a failure fatal to the current input (the Decoder remains closeable).
//
// ReceiveFrame returns (frame, nil) when a frame is ready, (nil, nil) when
// more input is needed or the stream ended (in the latter case the session is
// already reset and will accept a fresh stream), and (nil, err) on failure.
type Decoder interface {
	io.Closer

	SendPacket(context.Context, *Packet) error
	ReceiveFrame(context.Context) (Frame, error)
	GetStats(context.Context) (*Stats, error)
}

type Factory interface {
	NewDecoder(context.Context, DecoderConfig) (Decoder, error)
}

// Stats is a point-in-time snapshot of a session's counters.
type Stats struct {
	PacketsSent          uint64
	PacketsBackpressured uint64
	PacketsFlushed       uint64
	FramesDecoded        uint64
	FramesTransferred    uint64
	StreamRestarts       uint64
}
