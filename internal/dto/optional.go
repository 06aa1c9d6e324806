package dto

import (
	"bytes"
	"encoding/json"
)

// OptionalID distinguishes an omitted JSON field from an explicit null.
// Omitted: Set is false. Explicit null: Set is true, Value nil. Present:
// Set is true, Value non-nil. Task updates rely on this to tell "keep the
// current group" apart from "clear the group".
type OptionalID struct {
	Set   bool
	Value *uint64
}

// UnmarshalJSON is only invoked when the field is present in the document.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var v uint64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON round-trips the value; an unset field marshals as null.
func (o OptionalID) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
