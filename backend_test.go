package hvd

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"
)

func TestBackendStringRoundTrip(t *testing.T) {
	for cmp := BackendVAAPI; cmp < EndOfBackend; cmp++ {
		require.Equal(t, cmp, BackendFromString(cmp.String()))
	}

	require.Equal(t, BackendUndefined, BackendFromString("cuda"))
	require.Equal(t, BackendUndefined, BackendFromString(""))
}

func TestBackendMarshalUnmarshalJSON(t *testing.T) {
	b, err := json.Marshal(BackendDXVA2)
	require.NoError(t, err)
	require.Equal(t, `"dxva2"`, string(b))

	var backend Backend
	require.NoError(t, json.Unmarshal([]byte(`"videotoolbox"`), &backend))
	require.Equal(t, BackendVideoToolbox, backend)

	require.Error(t, json.Unmarshal([]byte(`"qsv"`), &backend))
}

func TestBackendMarshalUnmarshalYAML(t *testing.T) {
	b, err := yaml.Marshal(BackendVDPAU)
	require.NoError(t, err)

	var backend Backend
	require.NoError(t, yaml.Unmarshal(b, &backend))
	require.Equal(t, BackendVDPAU, backend)
}
