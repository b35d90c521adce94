package hvd

import (
	"fmt"
	"strings"
)

// Backend is the closed set of hardware acceleration backends the decoder can
// negotiate a hardware pixel format for. Device types outside of this set are
// reported as unsupported during initialization.
type Backend uint

const (
	BackendUndefined = Backend(iota)
	BackendVAAPI
	BackendDXVA2
	BackendD3D11VA
	BackendVDPAU
	BackendVideoToolbox
	EndOfBackend
)

func (b *Backend) String() string {
	if b == nil {
		return "null"
	}

	switch *b {
	case BackendUndefined:
		return "<undefined>"
	case BackendVAAPI:
		return "vaapi"
	case BackendDXVA2:
		return "dxva2"
	case BackendD3D11VA:
		return "d3d11va"
	case BackendVDPAU:
		return "vdpau"
	case BackendVideoToolbox:
		return "videotoolbox"
	}
	return fmt.Sprintf("unexpected_backend_id_%d", uint(*b))
}

// BackendFromString returns BackendUndefined if the name does not belong to
// the supported set.
func BackendFromString(s string) Backend {
	s = strings.Trim(strings.ToLower(s), " \n\r\t")
	for cmp := BackendUndefined; cmp < EndOfBackend; cmp++ {
		if cmp.String() == s {
			return cmp
		}
	}
	return BackendUndefined
}

func (b Backend) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

func (b *Backend) UnmarshalJSON(in []byte) error {
	if b == nil {
		return fmt.Errorf("Backend is nil")
	}
	s := strings.ToLower(strings.Trim(string(in), `"`))
	for cmp := BackendUndefined; cmp < EndOfBackend; cmp++ {
		if cmp.String() == s {
			*b = cmp
			return nil
		}
	}
	return fmt.Errorf("unknown value of the Backend: '%s'", s)
}

func (b Backend) MarshalYAML() ([]byte, error) {
	return b.MarshalJSON()
}

func (b *Backend) UnmarshalYAML(in []byte) error {
	return b.UnmarshalJSON([]byte(strings.Trim(string(in), " \"\n\r\t")))
}
