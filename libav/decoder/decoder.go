// Package decoder implements a hardware video decoding session on top of
// libav (through the go-astiav bindings): it resolves a hardware device type
// and codec name into an opened codec context bound to a hardware device
// context, forwards packets to it, and returns decoded frames transferred
// from device memory to host memory.
package decoder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	hvd "github.com/CitizenOneX/hardware-video-decoder"
	"github.com/CitizenOneX/hardware-video-decoder/internal"
	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/xsync"
)

// The only process-wide state this package touches: libav's log verbosity.
var setLogLevelOnce sync.Once

type Decoder struct {
	Locker xsync.Mutex

	config              hvd.DecoderConfig
	backend             hvd.Backend
	hardwareDeviceType  astiav.HardwareDeviceType
	hardwarePixelFormat astiav.PixelFormat

	codec                 *astiav.Codec
	codecContext          *astiav.CodecContext
	hardwareDeviceContext *astiav.HardwareDeviceContext

	// At most one live pair exists per session; whatever a ReceiveFrame call
	// allocated is released at the start of the next call or at Close,
	// whichever comes first.
	hardwareFrame *astiav.Frame
	softwareFrame *astiav.Frame

	// The reusable staging slot: overwritten (not reallocated) per SendPacket.
	packet *astiav.Packet

	stats     CommonsDecoderStatistics
	closeOnce sync.Once
}

var _ hvd.Decoder = (*Decoder)(nil)

// New resolves the config into a ready-to-use decoding session, or fails with
// no resources surviving past the failure.
func New(ctx context.Context, cfg hvd.DecoderConfig) (_ret *Decoder, _err error) {
	setLogLevelOnce.Do(func() {
		astiav.SetLogLevel(astiav.LogLevelVerbose)
	})

	d := &Decoder{config: cfg}
	defer func() {
		if _err != nil {
			_ = d.Close()
		}
	}()

	d.hardwareDeviceType = astiav.FindHardwareDeviceTypeByName(string(cfg.HardwareDeviceTypeName))
	if d.hardwareDeviceType == astiav.HardwareDeviceTypeNone {
		return nil, fmt.Errorf("%w: '%s'", hvd.ErrUnknownBackend, cfg.HardwareDeviceTypeName)
	}

	backend, pixelFormat, err := resolveBackend(d.hardwareDeviceType, cfg.HardwareDeviceTypeName)
	if err != nil {
		return nil, err
	}
	d.backend = backend
	d.hardwarePixelFormat = pixelFormat
	internal.Assert(ctx, d.hardwarePixelFormat != astiav.PixelFormatNone, "backend", backend)

	d.codec = astiav.FindDecoderByName(string(cfg.CodecName))
	if d.codec == nil {
		return nil, fmt.Errorf("%w: '%s'", hvd.ErrUnknownCodec, cfg.CodecName)
	}

	if d.codecContext = astiav.AllocCodecContext(d.codec); d.codecContext == nil {
		return nil, fmt.Errorf("%w: codec context", hvd.ErrAllocationFailed)
	}

	selector, ok := hvd.GetCustomOption[PixelFormatSelector](cfg.CustomOptions)
	if !ok {
		selector = PreferNegotiatedPixelFormat{}
	}
	d.codecContext.SetPixelFormatCallback(func(pfs []astiav.PixelFormat) astiav.PixelFormat {
		return selector.SelectPixelFormat(ctx, pfs, d.hardwarePixelFormat)
	})

	var options *astiav.Dictionary
	if items, ok := hvd.GetCustomOption[DictionaryItems](cfg.CustomOptions); ok && len(items) > 0 {
		options = astiav.NewDictionary()
		defer options.Free()

		for _, opt := range items {
			logger.Debugf(ctx, "device options['%s'] = '%s'", opt.Key, opt.Value)
			options.Set(opt.Key, opt.Value, 0)
		}
	}

	d.hardwareDeviceContext, err = astiav.CreateHardwareDeviceContext(
		d.hardwareDeviceType,
		string(cfg.HardwareDeviceName),
		options,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("%w for '%s' (device '%s'): %v",
			hvd.ErrDeviceCreationFailed, cfg.HardwareDeviceTypeName, cfg.HardwareDeviceName, err)
	}

	// The codec context holds its own reference to the device context from
	// here on; both are released at Close.
	d.codecContext.SetHardwareDeviceContext(d.hardwareDeviceContext)

	if err := d.codecContext.Open(d.codec, nil); err != nil {
		return nil, fmt.Errorf("%w for '%s': %v", hvd.ErrOpenFailed, cfg.CodecName, err)
	}

	if d.packet = astiav.AllocPacket(); d.packet == nil {
		return nil, fmt.Errorf("%w: packet", hvd.ErrAllocationFailed)
	}

	return d, nil
}

func (d *Decoder) Config() hvd.DecoderConfig {
	return d.config
}

func (d *Decoder) Backend() hvd.Backend {
	return d.backend
}

func (d *Decoder) HardwarePixelFormat() astiav.PixelFormat {
	return d.hardwarePixelFormat
}

// SendPacket submits a packet to the decoder; a nil packet requests a flush
// (the decoder enters drain mode). An error matching hvd.ErrAgain means the
// output queue is full: drain it with ReceiveFrame, then resubmit the same
// packet.
func (d *Decoder) SendPacket(ctx context.Context, pkt *hvd.Packet) error {
	return xsync.DoR1(ctx, &d.Locker, func() error {
		return d.sendPacket(ctx, pkt)
	})
}

func (d *Decoder) sendPacket(ctx context.Context, pkt *hvd.Packet) (_err error) {
	logger.Tracef(ctx, "sendPacket")
	defer func() { logger.Tracef(ctx, "/sendPacket: %v", _err) }()

	if d.codecContext == nil {
		return fmt.Errorf("the decoder is closed")
	}

	if pkt == nil {
		if err := d.codecContext.SendPacket(nil); err != nil {
			return d.sendError(err)
		}
		d.stats.PacketsFlushed.Add(1)
		return nil
	}

	// The staging copy also takes care of the trailing padding libav's
	// bitstream readers require, so the caller's slice needs none.
	if err := d.packet.FromData(pkt.Data); err != nil {
		return fmt.Errorf("%w: unable to stage %d bytes into the packet: %v", hvd.ErrAllocationFailed, len(pkt.Data), err)
	}
	defer d.packet.Unref()

	if err := d.codecContext.SendPacket(d.packet); err != nil {
		return d.sendError(err)
	}

	d.stats.PacketsSent.Add(1)
	return nil
}

// sendError translates a submission failure; a flush request is subject to
// the same backpressure contract as a data packet.
func (d *Decoder) sendError(err error) error {
	if errors.Is(err, astiav.ErrEagain) {
		d.stats.PacketsBackpressured.Add(1)
		return fmt.Errorf("%w (%v)", hvd.ErrAgain, err)
	}
	return fmt.Errorf("unable to send the packet to the decoder: %w", err)
}

// ReceiveFrame asks the decoder for the next frame and transfers it to host
// memory. It returns (nil, nil) when the decoder needs more input or the
// stream ended; in the latter case the session is already prepared for a
// fresh stream, so the caller may start over without reinitializing.
//
// The returned frame is owned by the Decoder and remains valid only until
// the next ReceiveFrame call or Close.
func (d *Decoder) ReceiveFrame(ctx context.Context) (hvd.Frame, error) {
	frame, err := xsync.DoR2(ctx, &d.Locker, func() (*Frame, error) {
		return d.receiveFrame(ctx)
	})
	if frame == nil {
		return nil, err
	}
	return frame, err
}

func (d *Decoder) receiveFrame(ctx context.Context) (_ret *Frame, _err error) {
	logger.Tracef(ctx, "receiveFrame")
	defer func() { logger.Tracef(ctx, "/receiveFrame: %v %v", _ret, _err) }()

	if d.codecContext == nil {
		return nil, fmt.Errorf("the decoder is closed")
	}

	// the leftovers of the previous call are released here or in Close,
	// whichever comes first
	d.releaseFrames()

	d.hardwareFrame = astiav.AllocFrame()
	d.softwareFrame = astiav.AllocFrame()
	if d.hardwareFrame == nil || d.softwareFrame == nil {
		return nil, fmt.Errorf("%w: frame", hvd.ErrAllocationFailed)
	}

	err := d.codecContext.ReceiveFrame(d.hardwareFrame)
	switch {
	case err == nil:
	case errors.Is(err, astiav.ErrEagain):
		return nil, nil
	case errors.Is(err, astiav.ErrEof):
		// Be nice to the caller and prepare the decoder for a new stream, so
		// that decoding may be started over on the same session.
		d.codecContext.FlushBuffers()
		d.stats.StreamRestarts.Add(1)
		return nil, nil
	default:
		return nil, fmt.Errorf("unable to receive a frame: %w", err)
	}
	d.stats.FramesDecoded.Add(1)

	if pf := d.hardwareFrame.PixelFormat(); pf != d.hardwarePixelFormat {
		// This would be the place for a software fallback, but software-decoded
		// output is rejected rather than silently accepted.
		return nil, fmt.Errorf("frame decoded in software (%v), not in hardware (%v)", pf, d.hardwarePixelFormat)
	}

	if err := d.hardwareFrame.TransferHardwareData(d.softwareFrame); err != nil {
		return nil, fmt.Errorf("unable to transfer the frame to system memory: %w", err)
	}
	d.softwareFrame.SetPts(d.hardwareFrame.Pts())
	d.stats.FramesTransferred.Add(1)

	return &Frame{frame: d.softwareFrame}, nil
}

func (d *Decoder) GetStats(context.Context) (*hvd.Stats, error) {
	return d.stats.Convert(), nil
}

func (d *Decoder) releaseFrames() {
	if d.hardwareFrame != nil {
		d.hardwareFrame.Free()
		d.hardwareFrame = nil
	}
	if d.softwareFrame != nil {
		d.softwareFrame.Free()
		d.softwareFrame = nil
	}
}

// Close releases the frames, the codec context and the hardware device
// context, in that order. It is idempotent and safe to call on a partially
// initialized session: fields that were never acquired are no-ops to release.
func (d *Decoder) Close() error {
	d.closeOnce.Do(func() {
		d.releaseFrames()
		if d.codecContext != nil {
			d.codecContext.Free()
			d.codecContext = nil
		}
		if d.hardwareDeviceContext != nil {
			d.hardwareDeviceContext.Free()
			d.hardwareDeviceContext = nil
		}
		if d.packet != nil {
			d.packet.Free()
			d.packet = nil
		}
	})
	return nil
}
