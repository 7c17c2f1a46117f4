package gateway

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/erpbridge/internal/model"
)

// PayloadEncoding selects how the JSON payload is base64-encoded in the query string.
// One encoding is fixed per client; the gateway rejects the other.
type PayloadEncoding string

const (
	// PayloadStandard is standard base64 with padding (hc-http-gw v0.3.x).
	PayloadStandard PayloadEncoding = "standard"
	// PayloadURLSafe is URL-safe base64 without padding (RFC 4648 §5).
	PayloadURLSafe PayloadEncoding = "urlsafe"
)

// HashEncoding selects how hash values are written inside payloads.
type HashEncoding string

const (
	// HashAsBytes writes hashes as arrays of byte values (msgpack-to-JSON transcoding).
	HashAsBytes HashEncoding = "bytes"
	// HashAsString writes hashes in their canonical "u"-prefixed string form.
	HashAsString HashEncoding = "string"
)

// ParsePayloadEncoding validates a configured payload encoding.
func ParsePayloadEncoding(s string) (PayloadEncoding, error) {
	switch e := PayloadEncoding(strings.ToLower(strings.TrimSpace(s))); e {
	case PayloadStandard, PayloadURLSafe:
		return e, nil
	}
	return "", fmt.Errorf("unknown payload encoding %q: must be %q or %q", s, PayloadStandard, PayloadURLSafe)
}

// ParseHashEncoding validates a configured hash encoding.
func ParseHashEncoding(s string) (HashEncoding, error) {
	switch e := HashEncoding(strings.ToLower(strings.TrimSpace(s))); e {
	case HashAsBytes, HashAsString:
		return e, nil
	}
	return "", fmt.Errorf("unknown hash encoding %q: must be %q or %q", s, HashAsBytes, HashAsString)
}

func (e PayloadEncoding) encoding() *base64.Encoding {
	if e == PayloadURLSafe {
		return base64.RawURLEncoding
	}
	return base64.StdEncoding
}

// Encode base64-encodes compact JSON bytes.
func (e PayloadEncoding) Encode(data []byte) string {
	return e.encoding().EncodeToString(data)
}

// Decode reverses Encode.
func (e PayloadEncoding) Decode(s string) ([]byte, error) {
	return e.encoding().DecodeString(s)
}

// marshalPayload renders payload as compact JSON with hashes in the given form.
// HTML escaping is disabled so the bytes match what the zome deserializes.
func marshalPayload(payload any, hashes HashEncoding) ([]byte, error) {
	v := payload
	if hashes == HashAsBytes {
		transcoded, err := hashesToBytes(reflect.ValueOf(payload))
		if err != nil {
			return nil, err
		}
		v = transcoded
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encoder adds a trailing newline, remove it
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

var hashType = reflect.TypeOf(model.Hash(""))

// hashesToBytes rebuilds v as a generic JSON tree in which every model.Hash is
// an array of byte values. Values whose type cannot hold a hash are returned
// untouched so their own MarshalJSON still applies.
//
// Field names and omitempty follow encoding/json struct tags. Custom
// MarshalJSON methods on hash-carrying types are bypassed.
func hashesToBytes(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if v.Type() == hashType {
		return model.Hash(v.String()).ByteValues()
	}
	if !containsHash(v.Type()) {
		return v.Interface(), nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return hashesToBytes(v.Elem())

	case reflect.Struct:
		out := make(map[string]any, v.NumField())
		if err := structFields(v, out); err != nil {
			return nil, err
		}
		return out, nil

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}
		out := make([]any, v.Len())
		for i := range out {
			elem, err := hashesToBytes(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = elem
		}
		return out, nil

	case reflect.Map:
		if v.IsNil() {
			return nil, nil
		}
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", v.Type().Key())
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			elem, err := hashesToBytes(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", iter.Key().String(), err)
			}
			out[iter.Key().String()] = elem
		}
		return out, nil
	}

	return v.Interface(), nil
}

// structFields writes the JSON-visible fields of a struct into out.
// Untagged embedded structs are flattened like encoding/json does.
func structFields(v reflect.Value, out map[string]any) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, omitEmpty, skip := jsonField(f)
		if skip {
			continue
		}
		fv := v.Field(i)

		if f.Anonymous && f.IsExported() && name == "" && fv.Kind() == reflect.Struct {
			if err := structFields(fv, out); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if omitEmpty && isEmptyValue(fv) {
			continue
		}

		elem, err := hashesToBytes(fv)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out[name] = elem
	}
	return nil
}

func jsonField(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// isEmptyValue mirrors encoding/json's omitempty rule.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

// containsHash reports whether a value of type t may hold a model.Hash.
func containsHash(t reflect.Type) bool {
	return containsHashSeen(t, map[reflect.Type]bool{})
}

func containsHashSeen(t reflect.Type, seen map[reflect.Type]bool) bool {
	if t == hashType {
		return true
	}
	if seen[t] {
		return false
	}
	seen[t] = true

	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
		return containsHashSeen(t.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if containsHashSeen(t.Field(i).Type, seen) {
				return true
			}
		}
	}
	return false
}
