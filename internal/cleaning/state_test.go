package cleaning

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderEncode(t *testing.T) {
	encoder := EncoderState{Classes: []string{"apple", "banana", "cherry"}}

	code, ok := encoder.Encode("banana")
	assert.True(t, ok)
	assert.Equal(t, int64(1), code)

	code, ok = encoder.Encode("apple")
	assert.True(t, ok)
	assert.Equal(t, int64(0), code)

	_, ok = encoder.Encode("durian")
	assert.False(t, ok)

	_, ok = EncoderState{}.Encode("anything")
	assert.False(t, ok)
}

func TestStateSaveLoadRoundTrip(t *testing.T) {
	state := newState()
	state.Imputers["income"] = ImputerState{Method: MethodMedian, FillValue: 42.5}
	state.Imputers["name"] = ImputerState{Method: MethodConstant, FillText: "Unknown"}
	state.Encoders["label"] = EncoderState{Classes: []string{"a", "b"}}
	state.Scaler = &ScalerState{
		Columns: []string{"income"},
		Means:   []float64{50000},
		Scales:  []float64{1200},
	}

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, state.Save(path))

	loaded, err := LoadState(path)
	require.NoError(t, err)

	assert.Equal(t, state.Imputers, loaded.Imputers)
	assert.Equal(t, state.Encoders, loaded.Encoders)
	assert.Equal(t, state.Scaler, loaded.Scaler)
}

func TestLoadStateMissingFile(t *testing.T) {
	_, err := LoadState(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
