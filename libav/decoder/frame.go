package decoder

import (
	hvd "github.com/CitizenOneX/hardware-video-decoder"
	"github.com/asticode/go-astiav"
)

// Frame is a decoded frame already transferred to host memory. It is owned
// by the Decoder that produced it: the underlying buffers are released on the
// next ReceiveFrame call or at Close, whichever comes first.
type Frame struct {
	frame *astiav.Frame
}

var _ hvd.Frame = (*Frame)(nil)

func (f *Frame) Width() int {
	return f.frame.Width()
}

func (f *Frame) Height() int {
	return f.frame.Height()
}

func (f *Frame) PixelFormatName() string {
	return f.frame.PixelFormat().Name()
}

func (f *Frame) Pts() int64 {
	return f.frame.Pts()
}

// Bytes returns the frame's image data laid out plane after plane.
func (f *Frame) Bytes() ([]byte, error) {
	return f.frame.Data().Bytes(1)
}

// Unwrap exposes the underlying libav frame, for callers that need more than
// the hvd.Frame surface. The ownership rules above still apply.
func (f *Frame) Unwrap() *astiav.Frame {
	return f.frame
}
