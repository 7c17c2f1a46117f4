package model

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// hashPrefix is the multibase prefix for base64url without padding.
const hashPrefix = "u"

// Hash is an opaque ledger identifier (ActionHash, AgentPubKey, EntryHash) in its
// canonical string form: "u" followed by the unpadded base64url of the raw bytes.
//
// Hash always marshals as a JSON string. It unmarshals from either a string or an
// array of byte values, so responses from any gateway version decode to the same
// canonical form. Writing hashes as byte arrays is the gateway client's concern.
type Hash string

// HashFromBytes returns the canonical string form of raw hash bytes.
func HashFromBytes(raw []byte) Hash {
	return Hash(hashPrefix + base64.RawURLEncoding.EncodeToString(raw))
}

// ParseHash validates s as a canonical hash string.
func ParseHash(s string) (Hash, error) {
	h := Hash(strings.TrimSpace(s))
	if _, err := h.Bytes(); err != nil {
		return "", err
	}
	return h, nil
}

// String returns the canonical string form.
func (h Hash) String() string {
	return string(h)
}

// IsZero reports whether the hash is unset.
func (h Hash) IsZero() bool {
	return h == ""
}

// Bytes decodes the canonical string form into raw hash bytes.
func (h Hash) Bytes() ([]byte, error) {
	s := string(h)
	if !strings.HasPrefix(s, hashPrefix) || len(s) == len(hashPrefix) {
		return nil, fmt.Errorf("invalid hash %q: missing %q multibase prefix", s, hashPrefix)
	}
	raw, err := base64.RawURLEncoding.DecodeString(s[len(hashPrefix):])
	if err != nil {
		return nil, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return raw, nil
}

// ByteValues returns the hash as a slice of byte values, the shape gateway
// v0.3.x expects inside JSON payloads.
func (h Hash) ByteValues() ([]int, error) {
	raw, err := h.Bytes()
	if err != nil {
		return nil, err
	}
	values := make([]int, len(raw))
	for i, b := range raw {
		values[i] = int(b)
	}
	return values, nil
}

// MarshalJSON encodes the canonical string form.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(h))
}

// UnmarshalJSON accepts a JSON string, an array of byte values, or null.
func (h *Hash) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*h = ""
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var values []int
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return fmt.Errorf("hash byte array: %w", err)
		}
		raw := make([]byte, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return fmt.Errorf("hash byte array: value %d at index %d out of range", v, i)
			}
			raw[i] = byte(v)
		}
		*h = HashFromBytes(raw)
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return fmt.Errorf("hash: expected string or byte array: %w", err)
	}
	*h = Hash(s)
	return nil
}

// HashPtr returns a pointer to h, or nil when h is unset.
// Convenient for optional hash fields.
func HashPtr(h Hash) *Hash {
	if h.IsZero() {
		return nil
	}
	return &h
}
