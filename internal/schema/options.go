package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aledsdavies/rofimenu/internal/wireio"
)

// Markup selects a rendering mode for row/option text. The only non-default
// value is Pango (spec.md §3).
type Markup string

// MarkupPango is the sole recognized markup value.
const MarkupPango Markup = "pango"

// SelectionKind distinguishes the two Selection variants.
type SelectionKind int

const (
	SelectionKeep SelectionKind = iota
	SelectionSet
)

// Selection carries the host's "keep current row" or "jump to row N"
// instruction (spec.md §3). Its wire shape (null or an integer) is the
// same whether it comes from a script author or from a prior round-trip
// through Data, so Marshal/Unmarshal and decodeSelection all agree.
type Selection struct {
	Kind  SelectionKind
	Index int64
}

func (s Selection) MarshalJSON() ([]byte, error) {
	if s.Kind == SelectionKeep {
		return []byte("null"), nil
	}
	return json.Marshal(s.Index)
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	sel, err := decodeSelection(data)
	if err != nil {
		return err
	}
	*s = *sel
	return nil
}

// ModeOptions holds host display/selection settings for one invocation.
// The zero value is the documented default: every field absent,
// AutoSelect false (spec.md §3).
type ModeOptions struct {
	Prompt     *string
	Message    *string
	Markup     *Markup
	Fallback   *Info
	Selection  *Selection
	AutoSelect bool
}

// DefaultModeOptions returns the documented default (all fields absent).
func DefaultModeOptions() ModeOptions { return ModeOptions{} }

// Merge overrides every field present in other onto m, with AutoSelect
// sticky (true wins once set) per spec.md §3.
func (m ModeOptions) Merge(other ModeOptions) ModeOptions {
	result := m
	if other.Prompt != nil {
		result.Prompt = other.Prompt
	}
	if other.Message != nil {
		result.Message = other.Message
	}
	if other.Markup != nil {
		result.Markup = other.Markup
	}
	if other.Fallback != nil {
		result.Fallback = other.Fallback
	}
	if other.Selection != nil {
		result.Selection = other.Selection
	}
	result.AutoSelect = result.AutoSelect || other.AutoSelect
	return result
}

// wireModeOptions is ModeOptions' canonical, symmetric JSON shape, used
// whenever a ModeOptions needs to survive a round trip through storage
// (an Info.Menu nested inside a Data.Fallback) rather than being parsed
// fresh from a script author's options line. Unlike ParseModeOptions,
// it accepts no select/selection alias - one canonical key only.
type wireModeOptions struct {
	Prompt     *string    `json:"prompt,omitempty"`
	Message    *string    `json:"message,omitempty"`
	Markup     *Markup    `json:"markup,omitempty"`
	Fallback   *Info      `json:"fallback,omitempty"`
	Selection  *Selection `json:"selection,omitempty"`
	AutoSelect bool       `json:"autoselect,omitempty"`
}

func (m ModeOptions) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireModeOptions{
		Prompt:     m.Prompt,
		Message:    m.Message,
		Markup:     m.Markup,
		Fallback:   m.Fallback,
		Selection:  m.Selection,
		AutoSelect: m.AutoSelect,
	})
}

func (m *ModeOptions) UnmarshalJSON(data []byte) error {
	var w wireModeOptions
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	// encoding/json sets a pointer field to nil on a JSON null without
	// calling Selection.UnmarshalJSON, so a stored Keep (null) is read
	// back from the raw value instead.
	var sel struct {
		Selection json.RawMessage `json:"selection"`
	}
	if err := json.Unmarshal(data, &sel); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if sel.Selection != nil {
		s, err := decodeSelection(sel.Selection)
		if err != nil {
			return fmt.Errorf("options: selection: %w", err)
		}
		w.Selection = s
	}
	m.Prompt = w.Prompt
	m.Message = w.Message
	m.Markup = w.Markup
	m.Fallback = w.Fallback
	m.Selection = w.Selection
	m.AutoSelect = w.AutoSelect
	return nil
}

var modeOptionsFieldNames = []string{"prompt", "message", "markup", "fallback", "select", "selection", "autoselect"}

// ParseModeOptions decodes a submenu script's options line (a JSON5
// literal) into a ModeOptions (spec.md §4.4 step 6).
func ParseModeOptions(data []byte) (ModeOptions, error) {
	raw, err := wireio.NormalizeJSON5(data)
	if err != nil {
		return ModeOptions{}, err
	}
	mo := DefaultModeOptions()
	if err := decodeModeOptionsFields(&mo, raw); err != nil {
		return ModeOptions{}, err
	}
	return mo, nil
}

// decodeModeOptionsFields walks a normalized JSON object applying the
// ModeOptions key schema, including the select/selection alias pair
// (spec.md §4.2).
func decodeModeOptionsFields(mo *ModeOptions, raw json.RawMessage) error {
	return wireio.WalkObject(raw, func(key string, val json.RawMessage) error {
		switch key {
		case "prompt":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return fmt.Errorf("prompt: %w", err)
			}
			mo.Prompt = &s
		case "message":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return fmt.Errorf("message: %w", err)
			}
			mo.Message = &s
		case "markup":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return fmt.Errorf("markup: %w", err)
			}
			if s != string(MarkupPango) {
				return fmt.Errorf("markup: unknown variant %q, expected %q", s, MarkupPango)
			}
			m := MarkupPango
			mo.Markup = &m
		case "fallback":
			info, err := AssembleInfo(val)
			if err != nil {
				return fmt.Errorf("fallback: %w", err)
			}
			mo.Fallback = &info
		case "select", "selection":
			sel, err := decodeSelection(val)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			mo.Selection = sel
		case "autoselect":
			var b bool
			if err := json.Unmarshal(val, &b); err != nil {
				return fmt.Errorf("autoselect: %w", err)
			}
			mo.AutoSelect = b
		default:
			return fmt.Errorf("options: unknown field %q (allowed: %v)", key, modeOptionsFieldNames)
		}
		return nil
	})
}

// decodeSelection accepts null (→ Keep) or an integer (→ Set(n)),
// mirroring original_source/src/options.rs's SelectionVisitor.
func decodeSelection(val json.RawMessage) (*Selection, error) {
	if bytes.Equal(bytes.TrimSpace(val), []byte("null")) {
		return &Selection{Kind: SelectionKeep}, nil
	}
	var n int64
	if err := json.Unmarshal(val, &n); err != nil {
		return nil, fmt.Errorf("expected an integer or null: %w", err)
	}
	return &Selection{Kind: SelectionSet, Index: n}, nil
}
