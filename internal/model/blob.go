package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Blob carries a JSON value whose schema is deliberately left to the remote side,
// such as nested participation claims or the result of untyped zome functions.
//
// A nil Blob means the value was absent or null.
type Blob json.RawMessage

var nullJSON = []byte("null")

// IsNull reports whether the blob holds no value.
func (b Blob) IsNull() bool {
	return len(b) == 0 || bytes.Equal(bytes.TrimSpace(b), nullJSON)
}

// Decode unmarshals the blob into v.
func (b Blob) Decode(v any) error {
	if b.IsNull() {
		return errors.New("blob is null")
	}
	return json.Unmarshal(b, v)
}

// MarshalJSON emits the raw value, or null when unset.
func (b Blob) MarshalJSON() ([]byte, error) {
	if b.IsNull() {
		return nullJSON, nil
	}
	return b, nil
}

// UnmarshalJSON stores a copy of the raw value. null leaves the blob unset.
func (b *Blob) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullJSON) {
		*b = nil
		return nil
	}
	*b = append((*b)[:0], data...)
	return nil
}
