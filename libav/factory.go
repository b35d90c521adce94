package libav

import (
	"context"

	hvd "github.com/CitizenOneX/hardware-video-decoder"
	"github.com/CitizenOneX/hardware-video-decoder/libav/decoder"
)

// Factory binds the root hvd interfaces to the libav-backed implementation.
type Factory struct{}

var _ hvd.Factory = (*Factory)(nil)

func NewFactory(ctx context.Context) (*Factory, error) {
	return &Factory{}, nil
}

func (f *Factory) NewDecoder(
	ctx context.Context,
	cfg hvd.DecoderConfig,
) (hvd.Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return decoder.New(ctx, cfg)
}
