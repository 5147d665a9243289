package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// WireID is an entity identifier as it appears on the wire. Backends send ids
// either as JSON strings or as JSON numbers; both decode to the literal text.
// It always encodes as a JSON string.
type WireID string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *WireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = WireID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id must be a string or a number: %s", data)
		}
		*id = WireID(n.String())
		return nil
	}
}

// String returns the identifier text.
func (id WireID) String() string { return string(id) }
