package decoder

import (
	"sync/atomic"

	hvd "github.com/CitizenOneX/hardware-video-decoder"
)

type CommonsDecoderStatistics struct {
	PacketsSent          atomic.Uint64
	PacketsBackpressured atomic.Uint64
	PacketsFlushed       atomic.Uint64
	FramesDecoded        atomic.Uint64
	FramesTransferred    atomic.Uint64
	StreamRestarts       atomic.Uint64
}

func (stats *CommonsDecoderStatistics) Convert() *hvd.Stats {
	return &hvd.Stats{
		PacketsSent:          stats.PacketsSent.Load(),
		PacketsBackpressured: stats.PacketsBackpressured.Load(),
		PacketsFlushed:       stats.PacketsFlushed.Load(),
		FramesDecoded:        stats.FramesDecoded.Load(),
		FramesTransferred:    stats.FramesTransferred.Load(),
		StreamRestarts:       stats.StreamRestarts.Load(),
	}
}
