package core

import (
	"encoding/json"
	"io"
)

// MarshalResults writes results in the detection endpoint's response shape.
func MarshalResults(w io.Writer, results []UnitResult) error {
	if results == nil {
		results = []UnitResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// UnmarshalUnits decodes a JSON array of code units. Required fields are not
// checked here; the HTTP endpoint and the CLI validate them.
func UnmarshalUnits(r io.Reader) ([]Unit, error) {
	var units []Unit
	if err := json.NewDecoder(r).Decode(&units); err != nil {
		return nil, err
	}
	return units, nil
}
