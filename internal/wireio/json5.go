// Package wireio decodes the permissive JSON5 shapes rofi and submenu
// scripts emit. Encoding rows/options into rofi's framed row-property
// wire format is done by internal/hostwire, not here.
package wireio

import (
	"bytes"
	"encoding/json"
	"fmt"

	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
)

// NormalizeJSON5 decodes a JSON5 literal into canonical JSON text. The
// json5 package transcodes JSON5 source to JSON before delegating to
// encoding/json internally, so round-tripping through a json.RawMessage
// target yields normalized JSON bytes with object key order preserved  - 
// exactly what WalkObject needs to resolve the "last key wins" rule for
// Info's pop_call aliases (spec.md §4.2, §9).
func NormalizeJSON5(data []byte) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := json5.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("wireio: invalid JSON5: %w", err)
	}
	return raw, nil
}

// DecodeJSON5 decodes a JSON5 literal directly into v using the standard
// json.Unmarshaler machinery (via the same transcode-then-delegate
// path as NormalizeJSON5). Use for values with no key-order dependence.
func DecodeJSON5(data []byte, v any) error {
	if err := json5.Unmarshal(data, v); err != nil {
		return fmt.Errorf("wireio: invalid JSON5: %w", err)
	}
	return nil
}

// ToJSON transcodes an arbitrary JSON5 literal to strict JSON text,
// losing nothing but comments/relaxed syntax. Backs the unjson5
// subcommand (spec.md §4.6).
func ToJSON(data []byte) ([]byte, error) {
	raw, err := NormalizeJSON5(data)
	if err != nil {
		return nil, err
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return nil, fmt.Errorf("wireio: re-encoding JSON: %w", err)
	}
	return compact.Bytes(), nil
}

// WalkObject streams an object's keys in source order, handing each
// key's raw value to visit. Mirrors the teacher's general "dispatch on
// input shape" approach and the original Rust implementation's serde
// MapAccess::next_key loop (original_source/src/main.rs), which is the
// only way to implement the documented last-write-wins rule for
// Info.pop_call when both "return" and "goto" appear in one row
// (spec.md §4.2, §9 Open Question).
func WalkObject(raw json.RawMessage, visit func(key string, value json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("wireio: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return fmt.Errorf("wireio: expected an object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("wireio: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("wireio: expected string key, got %v", keyTok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("wireio: value for key %q: %w", key, err)
		}
		if err := visit(key, val); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return fmt.Errorf("wireio: %w", err)
	}
	return nil
}

// IsObject reports whether the JSON5-normalized literal is a JSON object
// (as opposed to a bare string/scalar/array), used to pick between the
// bare-text shorthand and the full map form for Row (spec.md §4.2).
func IsObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
