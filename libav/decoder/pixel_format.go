package decoder

import (
	"context"
	"fmt"

	hvd "github.com/CitizenOneX/hardware-video-decoder"
	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
)

// backendForDeviceType maps a libav hardware device type onto the closed set
// of backends this layer knows the hardware pixel format of. A device type
// may be perfectly valid for libav and still be absent here; such backends
// are reported as unsupported instead of being decoded in software.
func backendForDeviceType(deviceType astiav.HardwareDeviceType) (hvd.Backend, bool) {
	switch deviceType {
	case astiav.HardwareDeviceTypeVAAPI:
		return hvd.BackendVAAPI, true
	case astiav.HardwareDeviceTypeDXVA2:
		return hvd.BackendDXVA2, true
	case astiav.HardwareDeviceTypeD3D11VA:
		return hvd.BackendD3D11VA, true
	case astiav.HardwareDeviceTypeVDPAU:
		return hvd.BackendVDPAU, true
	case astiav.HardwareDeviceTypeVideoToolbox:
		return hvd.BackendVideoToolbox, true
	}
	return hvd.BackendUndefined, false
}

// hardwarePixelFormat is total over the supported backends: every variant
// maps to exactly one hardware pixel format.
func hardwarePixelFormat(backend hvd.Backend) astiav.PixelFormat {
	switch backend {
	case hvd.BackendVAAPI:
		return astiav.PixelFormatVaapi
	case hvd.BackendDXVA2:
		return astiav.PixelFormatDxva2Vld
	case hvd.BackendD3D11VA:
		return astiav.PixelFormatD3D11
	case hvd.BackendVDPAU:
		return astiav.PixelFormatVdpau
	case hvd.BackendVideoToolbox:
		return astiav.PixelFormatVideotoolbox
	}
	return astiav.PixelFormatNone
}

// resolveBackend maps a (valid) libav hardware device type onto a supported
// backend and its hardware pixel format, reporting the device types outside
// of the closed set the way initialization does.
func resolveBackend(
	deviceType astiav.HardwareDeviceType,
	name hvd.HardwareDeviceTypeName,
) (hvd.Backend, astiav.PixelFormat, error) {
	backend, ok := backendForDeviceType(deviceType)
	if !ok {
		return hvd.BackendUndefined, astiav.PixelFormatNone,
			fmt.Errorf("%w: '%s'", hvd.ErrUnsupportedBackend, name)
	}
	return backend, hardwarePixelFormat(backend), nil
}

// PixelFormatSelector chooses the pixel format the codec context will decode
// into, given the candidate list libav offers during format negotiation and
// the format negotiated for the session's backend at initialization.
//
// A custom selector may be injected through DecoderConfig.CustomOptions.
type PixelFormatSelector interface {
	SelectPixelFormat(ctx context.Context, candidates []astiav.PixelFormat, negotiated astiav.PixelFormat) astiav.PixelFormat
}

// PreferNegotiatedPixelFormat is the default selector: it picks the
// negotiated hardware pixel format from the candidate list and refuses the
// negotiation otherwise.
type PreferNegotiatedPixelFormat struct{}

var _ PixelFormatSelector = PreferNegotiatedPixelFormat{}

func (PreferNegotiatedPixelFormat) SelectPixelFormat(
	ctx context.Context,
	candidates []astiav.PixelFormat,
	negotiated astiav.PixelFormat,
) astiav.PixelFormat {
	for _, pf := range candidates {
		if pf == negotiated {
			return pf
		}
	}

	logger.Errorf(ctx, "unable to find appropriate pixel format among %v", candidates)
	return astiav.PixelFormatNone
}
