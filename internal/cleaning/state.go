package cleaning

import (
	"encoding/json"
	"os"

	"github.com/osanai/scrub/internal/errors"
)

// State is the fitted transformation state of one cleaning run: the
// imputers, encoders, and scaler keyed by column. Persisting it lets the
// identical transformation apply to new data with the same schema without
// refitting.
type State struct {
	Imputers map[string]ImputerState `json:"imputers"`
	Encoders map[string]EncoderState `json:"encoders"`
	Scaler   *ScalerState            `json:"scaler,omitempty"`
}

// ImputerState is one fitted column imputer. FillValue carries the fitted
// numeric statistic (mean, median, or sentinel); FillText carries the
// fitted mode or placeholder for non-numeric columns.
type ImputerState struct {
	Method    Method  `json:"method"`
	FillValue float64 `json:"fill_value,omitempty"`
	FillText  string  `json:"fill_text,omitempty"`
	Neighbors int     `json:"neighbors,omitempty"`
}

// EncoderState is one fitted label encoder: the sorted class list, where
// a value's code is its index.
type EncoderState struct {
	Classes []string `json:"classes"`
}

// Encode returns the integer code of a value and whether it is a known
// class. Classes is sorted, so lookup is a binary search.
func (e EncoderState) Encode(value string) (int64, bool) {
	lo, hi := 0, len(e.Classes)
	for lo < hi {
		mid := (lo + hi) / 2
		if e.Classes[mid] < value {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(e.Classes) && e.Classes[lo] == value {
		return int64(lo), true
	}
	return 0, false
}

// ScalerState is the jointly fitted standard scaler over the numeric
// columns: per-column means and scales in Columns order. A zero-variance
// column keeps scale 1 so transformation is always defined.
type ScalerState struct {
	Columns []string  `json:"columns"`
	Means   []float64 `json:"means"`
	Scales  []float64 `json:"scales"`
}

func newState() *State {
	return &State{
		Imputers: map[string]ImputerState{},
		Encoders: map[string]EncoderState{},
	}
}

// Save writes the fitted state to a JSON file.
func (s *State) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.NewInternalError("cleaning.state.save", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadState reads fitted state previously written by Save.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	state := newState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, errors.NewConversionFailureError("cleaning.state.load", "", err)
	}
	return state, nil
}
