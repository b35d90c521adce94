package decoder

import (
	"context"
	"errors"
	"testing"

	hvd "github.com/CitizenOneX/hardware-video-decoder"
	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
)

func TestNewUnknownBackend(t *testing.T) {
	d, err := New(context.Background(), hvd.DecoderConfig{
		HardwareDeviceTypeName: "definitely-not-a-device-type",
		CodecName:              "h264",
	})
	require.ErrorIs(t, err, hvd.ErrUnknownBackend)
	require.Nil(t, d)
}

func TestSendErrorMapsBackpressure(t *testing.T) {
	// Both the data path and the flush path report a full output queue as
	// ErrAgain, so a caller that flushed under backpressure knows to drain
	// and resubmit the flush instead of assuming drain mode was entered.
	d := &Decoder{}

	err := d.sendError(astiav.ErrEagain)
	require.ErrorIs(t, err, hvd.ErrAgain)
	require.Equal(t, uint64(1), d.stats.PacketsBackpressured.Load())
	require.Equal(t, uint64(0), d.stats.PacketsFlushed.Load())

	err = d.sendError(errors.New("decoder exploded"))
	require.Error(t, err)
	require.NotErrorIs(t, err, hvd.ErrAgain)
	require.Equal(t, uint64(1), d.stats.PacketsBackpressured.Load())
}

func TestCloseIsIdempotent(t *testing.T) {
	// A zero-value Decoder models the session after every release already
	// happened (or after an initialization that never acquired anything):
	// Close must tolerate both, any number of times.
	d := &Decoder{}
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
}

func TestClosedDecoderRejectsWork(t *testing.T) {
	ctx := context.Background()

	d := &Decoder{}
	require.NoError(t, d.Close())

	err := d.SendPacket(ctx, &hvd.Packet{Data: []byte{0x00}})
	require.Error(t, err)

	frame, err := d.ReceiveFrame(ctx)
	require.Error(t, err)
	require.Nil(t, frame)
}
