package hvd

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"
)

func TestDecoderConfigMarshalUnmarshal(t *testing.T) {
	cfg := &DecoderConfig{
		HardwareDeviceTypeName: "vaapi",
		HardwareDeviceName:     "/dev/dri/renderD128",
		CodecName:              "h264",
	}

	b, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	var cfgDup DecoderConfig
	err = yaml.Unmarshal(b, &cfgDup)
	require.NoError(t, err)

	require.Equal(t, cfg, &cfgDup)
}

func TestParseDecoderConfig(t *testing.T) {
	cfg, err := ParseDecoderConfig([]byte(`
hardware_device_type_name: vaapi
hardware_device_name: /dev/dri/renderD128
codec_name: h264
`))
	require.NoError(t, err)
	require.Equal(t, &DecoderConfig{
		HardwareDeviceTypeName: "vaapi",
		HardwareDeviceName:     "/dev/dri/renderD128",
		CodecName:              "h264",
	}, cfg)
}

func TestParseDecoderConfigIncomplete(t *testing.T) {
	_, err := ParseDecoderConfig([]byte(`codec_name: h264`))
	require.Error(t, err)

	_, err = ParseDecoderConfig([]byte(`hardware_device_type_name: vaapi`))
	require.Error(t, err)
}
