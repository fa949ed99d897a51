// Package value implements the StrTree grammar: a value that resolves
// against the current user-input string, deserialized from the host's
// permissive JSON5 shapes (bare string, null, or nested array).
package value

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aledsdavies/rofimenu/internal/invariant"
)

// Kind tags which variant a StrTree holds.
type Kind int

const (
	// KindMulti is the zero value so an unset StrTree behaves like
	// Multi(nil) - the default for Info.push/push_call/exec in spec.md §3.
	KindMulti Kind = iota
	KindSingle
	KindUserInput
)

// StrTree is a recursive tagged value: Single(text), Multi(items), or
// UserInput (resolved from the argument the host passed on this
// invocation).
type StrTree struct {
	Kind  Kind
	Text  string
	Items []StrTree
}

// Single builds a StrTree holding a literal string.
func Single(text string) StrTree { return StrTree{Kind: KindSingle, Text: text} }

// Multi builds a StrTree holding an ordered list of sub-trees.
func Multi(items []StrTree) StrTree { return StrTree{Kind: KindMulti, Items: items} }

// UserInput builds the sentinel that resolves to the caller-supplied
// input string at flatten time.
func UserInput() StrTree { return StrTree{Kind: KindUserInput} }

// IsEmpty reports whether the tree is an empty Multi - the only shape
// that counts as "nothing to push" per spec.md §3.
func (t StrTree) IsEmpty() bool {
	return t.Kind == KindMulti && len(t.Items) == 0
}

// Join concatenates every leaf against the current user input into a
// single shell-visible string (spec.md §4.1).
func (t StrTree) Join(userInput string) string {
	switch t.Kind {
	case KindSingle:
		return t.Text
	case KindUserInput:
		return userInput
	case KindMulti:
		var buf bytes.Buffer
		for _, item := range t.Items {
			buf.WriteString(item.Join(userInput))
		}
		return buf.String()
	default:
		invariant.Invariant(false, "unknown StrTree kind %d", t.Kind)
		return ""
	}
}

// Expand produces one string per top-level element (depth-one
// expansion): a Single or UserInput tree expands to exactly one element;
// a Multi tree expands to len(items) elements, each the Join of that
// element (spec.md §4.1).
func (t StrTree) Expand(userInput string) []string {
	switch t.Kind {
	case KindSingle, KindUserInput:
		return []string{t.Join(userInput)}
	case KindMulti:
		out := make([]string, 0, len(t.Items))
		for _, item := range t.Items {
			out = append(out, item.Join(userInput))
		}
		return out
	default:
		invariant.Invariant(false, "unknown StrTree kind %d", t.Kind)
		return nil
	}
}

// UnmarshalJSON accepts string, null, or array input kinds, dispatching
// on the JSON value's own shape rather than a discriminator field  - 
// the host's grammar is user-ergonomic, not self-describing.
func (t *StrTree) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*t = UserInput()
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("strtree: %w", err)
		}
		*t = Single(s)
		return nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("strtree: %w", err)
		}
		items := make([]StrTree, len(raw))
		for i, r := range raw {
			if err := items[i].UnmarshalJSON(r); err != nil {
				return fmt.Errorf("strtree[%d]: %w", i, err)
			}
		}
		*t = Multi(items)
		return nil
	default:
		return fmt.Errorf("strtree: expected string, null, or array, got %q", trimmed)
	}
}

// MarshalJSON serializes UserInput as null, Single as a string, and
// Multi as an array, preserving order (spec.md §3).
func (t StrTree) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case KindUserInput:
		return []byte("null"), nil
	case KindSingle:
		return json.Marshal(t.Text)
	case KindMulti:
		items := t.Items
		if items == nil {
			items = []StrTree{}
		}
		return json.Marshal(items)
	default:
		invariant.Invariant(false, "unknown StrTree kind %d", t.Kind)
		return nil, nil
	}
}
