package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/observability"

	hvd "github.com/CitizenOneX/hardware-video-decoder"
	"github.com/CitizenOneX/hardware-video-decoder/libav"
	"github.com/CitizenOneX/hardware-video-decoder/libav/decoder"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [flags] <input-URL> [output-file]\n", os.Args[0])
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	hardware := pflag.String("hardware", "vaapi", "hardware device type to decode with (vaapi, dxva2, d3d11va, vdpau, videotoolbox)")
	device := pflag.String("device", "", "hardware device to use (e.g. /dev/dri/renderD128)")
	codec := pflag.String("codec", "h264", "decoder name")
	configPath := pflag.String("config", "", "path to a YAML decoder config (overrides --hardware/--device/--codec)")
	pflag.Parse()
	if pflag.NArg() < 1 || pflag.NArg() > 2 {
		pflag.Usage()
		os.Exit(1)
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func() { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	cfg := hvd.DecoderConfig{
		HardwareDeviceTypeName: hvd.HardwareDeviceTypeName(*hardware),
		HardwareDeviceName:     hvd.HardwareDeviceName(*device),
		CodecName:              hvd.CodecName(*codec),
	}
	if *configPath != "" {
		b, err := os.ReadFile(*configPath)
		if err != nil {
			l.Fatal(err)
		}
		cfgParsed, err := hvd.ParseDecoderConfig(b)
		if err != nil {
			l.Fatal(err)
		}
		cfg = *cfgParsed
	}

	var out io.Writer
	if pflag.NArg() == 2 {
		f, err := os.Create(pflag.Arg(1))
		if err != nil {
			l.Fatal(err)
		}
		defer f.Close()
		out = f
	}

	factory, err := libav.NewFactory(ctx)
	if err != nil {
		l.Fatal(err)
	}

	l.Debugf("initializing a '%s' decoder on '%s'...", cfg.CodecName, cfg.HardwareDeviceTypeName)
	d, err := factory.NewDecoder(ctx, cfg)
	if err != nil {
		l.Fatal(err)
	}

	l.Debugf("opening '%s' as the input...", pflag.Arg(0))
	input, err := decoder.NewInputFromURL(ctx, pflag.Arg(0), decoder.InputConfig{})
	if err != nil {
		_ = d.Close()
		l.Fatal(err)
	}

	observability.Go(ctx, func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				stats, err := d.GetStats(ctx)
				if err != nil {
					return
				}
				logger.Debugf(ctx, "packets:%d frames:%d", stats.PacketsSent, stats.FramesTransferred)
			}
		}
	})

	err = decode(ctx, d, input, out)
	err = multierror.Append(err, input.Close(), d.Close()).ErrorOrNil()
	if err != nil {
		l.Fatal(err)
	}

	stats, err := d.GetStats(ctx)
	if err != nil {
		l.Fatal(err)
	}
	fmt.Printf("packets:%d (backpressured:%d) frames:%d restarts:%d\n",
		stats.PacketsSent, stats.PacketsBackpressured, stats.FramesTransferred, stats.StreamRestarts)
}

func decode(
	ctx context.Context,
	d hvd.Decoder,
	input *decoder.Input,
	out io.Writer,
) error {
	videoStream := input.VideoStream()
	if videoStream == nil {
		return fmt.Errorf("the input has no video stream")
	}

	packet := astiav.AllocPacket()
	defer packet.Free()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := input.ReadPacket(ctx, packet)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if packet.StreamIndex() != videoStream.Index() {
			packet.Unref()
			continue
		}

		err = submit(ctx, d, &hvd.Packet{Data: packet.Data()}, out)
		packet.Unref()
		if err != nil {
			return err
		}
	}

	// flush (retried under backpressure like any other packet), then drain
	// what the decoder still holds
	return submit(ctx, d, nil, out)
}

// submit pushes one packet, draining decoded frames whenever the decoder
// signals backpressure, and once more after acceptance.
func submit(
	ctx context.Context,
	d hvd.Decoder,
	pkt *hvd.Packet,
	out io.Writer,
) error {
	for {
		err := d.SendPacket(ctx, pkt)
		switch {
		case err == nil:
			return drain(ctx, d, out)
		case errors.Is(err, hvd.ErrAgain):
			if err := drain(ctx, d, out); err != nil {
				return err
			}
		default:
			return err
		}
	}
}

// drain receives frames until the decoder asks for more input.
func drain(
	ctx context.Context,
	d hvd.Decoder,
	out io.Writer,
) error {
	for {
		frame, err := d.ReceiveFrame(ctx)
		if err != nil {
			return err
		}
		if frame == nil {
			return nil
		}

		logger.Tracef(ctx, "got a %dx%d frame ('%s', pts:%d)",
			frame.Width(), frame.Height(), frame.PixelFormatName(), frame.Pts())
		if out == nil {
			continue
		}

		b, err := frame.Bytes()
		if err != nil {
			return fmt.Errorf("unable to get the frame's data: %w", err)
		}
		if _, err := out.Write(b); err != nil {
			return fmt.Errorf("unable to write the frame: %w", err)
		}
	}
}
