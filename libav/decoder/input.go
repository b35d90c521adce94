package decoder

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/facebookincubator/go-belt/tool/logger"
)

type DictionaryItem struct {
	Key   string
	Value string
}
type DictionaryItems []DictionaryItem

type InputConfig struct {
	CustomOptions DictionaryItems
}

// Input demuxes packets out of a URL (a file path, an RTMP/RTSP URL, anything
// libav can open). It produces the packets a Decoder session consumes; reading
// is synchronous, on the caller's goroutine.
type Input struct {
	*astikit.Closer
	*astiav.FormatContext
	*astiav.Dictionary
}

func NewInputFromURL(
	ctx context.Context,
	url string,
	cfg InputConfig,
) (*Input, error) {
	if url == "" {
		return nil, fmt.Errorf("the provided URL is empty")
	}

	input := &Input{
		Closer: astikit.NewCloser(),
	}

	input.FormatContext = astiav.AllocFormatContext()
	if input.FormatContext == nil {
		return nil, fmt.Errorf("unable to allocate a format context")
	}
	input.Closer.Add(input.FormatContext.Free)

	if len(cfg.CustomOptions) > 0 {
		input.Dictionary = astiav.NewDictionary()
		input.Closer.Add(input.Dictionary.Free)

		for _, opt := range cfg.CustomOptions {
			logger.Debugf(ctx, "input.Dictionary['%s'] = '%s'", opt.Key, opt.Value)
			input.Dictionary.Set(opt.Key, opt.Value, 0)
		}
	}

	if err := input.FormatContext.OpenInput(url, nil, input.Dictionary); err != nil {
		input.Closer.Close()
		return nil, fmt.Errorf("unable to open input by URL '%s': %w", url, err)
	}
	input.Closer.Add(input.FormatContext.CloseInput)

	if err := input.FormatContext.FindStreamInfo(nil); err != nil {
		input.Closer.Close()
		return nil, fmt.Errorf("unable to get stream info: %w", err)
	}

	return input, nil
}

// VideoStream returns the first video stream of the input, or nil if there
// is none.
func (i *Input) VideoStream() *astiav.Stream {
	for _, stream := range i.FormatContext.Streams() {
		if stream.CodecParameters().MediaType() == astiav.MediaTypeVideo {
			return stream
		}
	}
	return nil
}

// ReadPacket reads the next packet of the input into the given packet slot.
// It returns io.EOF when the input is exhausted.
func (i *Input) ReadPacket(
	_ context.Context,
	packet *astiav.Packet,
) error {
	err := i.FormatContext.ReadFrame(packet)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, astiav.ErrEof):
		return io.EOF
	default:
		return fmt.Errorf("unable to read a packet: %w", err)
	}
}
