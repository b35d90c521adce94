package decoder

import (
	"context"
	"testing"

	hvd "github.com/CitizenOneX/hardware-video-decoder"
	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
)

func TestHardwarePixelFormatCoversEveryBackend(t *testing.T) {
	for backend := hvd.BackendVAAPI; backend < hvd.EndOfBackend; backend++ {
		require.NotEqual(t, astiav.PixelFormatNone, hardwarePixelFormat(backend), backend.String())
	}

	require.Equal(t, astiav.PixelFormatNone, hardwarePixelFormat(hvd.BackendUndefined))
}

func TestBackendForDeviceType(t *testing.T) {
	backend, ok := backendForDeviceType(astiav.HardwareDeviceTypeVAAPI)
	require.True(t, ok)
	require.Equal(t, hvd.BackendVAAPI, backend)

	// valid for libav, but outside of the supported set
	_, ok = backendForDeviceType(astiav.HardwareDeviceTypeCUDA)
	require.False(t, ok)
}

func TestResolveBackend(t *testing.T) {
	backend, pixelFormat, err := resolveBackend(astiav.HardwareDeviceTypeVAAPI, "vaapi")
	require.NoError(t, err)
	require.Equal(t, hvd.BackendVAAPI, backend)
	require.Equal(t, astiav.PixelFormatVaapi, pixelFormat)

	// a device type libav knows but the format table does not cover
	_, _, err = resolveBackend(astiav.HardwareDeviceTypeCUDA, "cuda")
	require.ErrorIs(t, err, hvd.ErrUnsupportedBackend)
}

func TestPreferNegotiatedPixelFormat(t *testing.T) {
	ctx := context.Background()
	selector := PreferNegotiatedPixelFormat{}

	require.Equal(t,
		astiav.PixelFormatVaapi,
		selector.SelectPixelFormat(
			ctx,
			[]astiav.PixelFormat{astiav.PixelFormatYuv420P, astiav.PixelFormatVaapi},
			astiav.PixelFormatVaapi,
		),
	)

	require.Equal(t,
		astiav.PixelFormatNone,
		selector.SelectPixelFormat(
			ctx,
			[]astiav.PixelFormat{astiav.PixelFormatYuv420P},
			astiav.PixelFormatVaapi,
		),
	)
}
