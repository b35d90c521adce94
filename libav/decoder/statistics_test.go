package decoder

import (
	"testing"

	hvd "github.com/CitizenOneX/hardware-video-decoder"
	"github.com/stretchr/testify/require"
)

func TestStatisticsConvert(t *testing.T) {
	stats := &CommonsDecoderStatistics{}
	stats.PacketsSent.Add(3)
	stats.PacketsBackpressured.Add(1)
	stats.PacketsFlushed.Add(1)
	stats.FramesDecoded.Add(2)
	stats.FramesTransferred.Add(2)
	stats.StreamRestarts.Add(1)

	require.Equal(t, &hvd.Stats{
		PacketsSent:          3,
		PacketsBackpressured: 1,
		PacketsFlushed:       1,
		FramesDecoded:        2,
		FramesTransferred:    2,
		StreamRestarts:       1,
	}, stats.Convert())
}
