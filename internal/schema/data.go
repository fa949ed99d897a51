package schema

import (
	"encoding/json"

	"github.com/aledsdavies/rofimenu/internal/wireio"
)

// Data is the persistent state round-tripped between invocations via
// ROFI_DATA: the value stack, the call stack of submenu scripts, and the
// transition to use for freeform input (spec.md §3).
type Data struct {
	Stack     []string `json:"stack"`
	CallStack []string `json:"call_stack"`
	Fallback  *Info    `json:"fallback"`
}

// DefaultData is the state at first launch: both stacks empty, no
// fallback transition.
func DefaultData() Data {
	return Data{Stack: []string{}, CallStack: []string{}}
}

// ParseData decodes ROFI_DATA. An empty or invalid value is not an
// error: it just means first launch, so it falls back to DefaultData
// (spec.md §4.4).
func ParseData(raw []byte) Data {
	if len(raw) == 0 {
		return DefaultData()
	}
	normalized, err := wireio.NormalizeJSON5(raw)
	if err != nil {
		return DefaultData()
	}
	var d Data
	if err := json.Unmarshal(normalized, &d); err != nil {
		return DefaultData()
	}
	if d.Stack == nil {
		d.Stack = []string{}
	}
	if d.CallStack == nil {
		d.CallStack = []string{}
	}
	return d
}

// Encode serializes Data as JSON (a valid JSON5 literal), for embedding
// in the host's "data" option value (spec.md §4.3).
func (d Data) Encode() ([]byte, error) {
	return json.Marshal(d)
}
