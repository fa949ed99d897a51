package schema

import (
	"encoding/json"
	"fmt"

	"github.com/aledsdavies/rofimenu/internal/wireio"
)

// Row is one menu line: either a bare string (shorthand for Text, all
// other fields default) or a map combining display attributes with the
// same transition alias keys as Info (spec.md §3, §4.2).
type Row struct {
	Text       string
	Icon       string
	Meta       string
	Selectable bool
	Urgent     bool
	Active     bool
	Info       Info
}

// DefaultRow returns the documented defaults: selectable, no
// icon/meta/flags, and the zero transition.
func DefaultRow() Row {
	return Row{Selectable: true, Info: DefaultInfo()}
}

// IsEmpty reports whether the row has no text, in which case spec.md §3
// requires it be suppressed from output entirely.
func (r Row) IsEmpty() bool { return r.Text == "" }

var rowFieldNames = []string{
	"text", "icon", "meta", "selectable", "urgent", "active",
	"push", "pop", "jump", "goto", "return", "exec", "fork", "menu",
}

// ParseRow decodes a JSON5 literal as a Row: a bare string sets Text
// with all other fields defaulted; a map combines display attributes
// with the transition alias keys (spec.md §4.2).
func ParseRow(data []byte) (Row, error) {
	raw, err := wireio.NormalizeJSON5(data)
	if err != nil {
		return Row{}, err
	}
	if !wireio.IsObject(raw) {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return Row{}, fmt.Errorf("row: expected a string or an object: %w", err)
		}
		row := DefaultRow()
		row.Text = text
		return row, nil
	}

	row := DefaultRow()
	err = wireio.WalkObject(raw, func(key string, val json.RawMessage) error {
		if matched, err := applyInfoKey(&row.Info, key, val); matched {
			return err
		}
		switch key {
		case "text":
			return json.Unmarshal(val, &row.Text)
		case "icon":
			return json.Unmarshal(val, &row.Icon)
		case "meta":
			return json.Unmarshal(val, &row.Meta)
		case "selectable":
			return json.Unmarshal(val, &row.Selectable)
		case "urgent":
			return json.Unmarshal(val, &row.Urgent)
		case "active":
			return json.Unmarshal(val, &row.Active)
		default:
			return fmt.Errorf("row: unknown field %q (allowed: %v)", key, rowFieldNames)
		}
	})
	if err != nil {
		return Row{}, err
	}
	return row, nil
}
