package hvd

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// HardwareDeviceTypeName is a libav hardware device type name,
// e.g. "vaapi", "dxva2", "vdpau".
type HardwareDeviceTypeName string

// HardwareDeviceName is a path (or another identifier) of a specific device,
// e.g. "/dev/dri/renderD128". May be empty to let the backend pick a default.
type HardwareDeviceName string

// CodecName is a libav decoder name, e.g. "h264" or "hevc".
type CodecName string

type DecoderConfig struct {
	HardwareDeviceTypeName HardwareDeviceTypeName `json:"hardware_device_type_name,omitempty" yaml:"hardware_device_type_name,omitempty"`
	HardwareDeviceName     HardwareDeviceName     `json:"hardware_device_name,omitempty"      yaml:"hardware_device_name,omitempty"`
	CodecName              CodecName              `json:"codec_name,omitempty"                yaml:"codec_name,omitempty"`
	CustomOptions          CustomOptions          `json:"-"                                   yaml:"-"`
}

func (cfg DecoderConfig) GetCustomOptions() CustomOptions {
	return cfg.CustomOptions
}

func (cfg DecoderConfig) Validate() error {
	if cfg.HardwareDeviceTypeName == "" {
		return fmt.Errorf("'hardware_device_type_name' is not set")
	}
	if cfg.CodecName == "" {
		return fmt.Errorf("'codec_name' is not set")
	}
	return nil
}

func ParseDecoderConfig(b []byte) (*DecoderConfig, error) {
	cfg := &DecoderConfig{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("unable to un-YAML-ize the decoder config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid decoder config: %w", err)
	}
	return cfg, nil
}
