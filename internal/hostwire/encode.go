// Package hostwire encodes Data/Info/ModeOptions/Row into the host's
// framed row-property wire protocol (spec.md §4.3). It sits above
// internal/schema rather than inside internal/wireio so that wireio
// (decoding) never has to import the types it is itself used to build.
package hostwire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aledsdavies/rofimenu/internal/schema"
)

// Delim is the byte the preamble tells the host to use as the record
// separator between rows; it must not appear inside row text or option
// values (spec.md §4.3, §6).
const Delim = '\x0B'

// Preamble is the first-launch byte sequence, emitted once before any
// other output, only when neither environment variable was set
// (spec.md §4.3).
var Preamble = []byte{0, 'd', 'e', 'l', 'i', 'm', 0x1F, Delim, '\n'}

func property(name, value string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0)
	buf.WriteString(name)
	buf.WriteByte(0x1F)
	buf.WriteString(value)
	buf.WriteByte(Delim)
	return buf.Bytes()
}

// EncodeOptions renders the option block for one invocation: prompt,
// message, markup-rows and keep-selection/new-selection when set,
// no-custom when there is no fallback, and always the data property
// (spec.md §4.3).
func EncodeOptions(mo schema.ModeOptions, data schema.Data) ([]byte, error) {
	var buf bytes.Buffer

	if mo.Prompt != nil {
		buf.Write(property("prompt", *mo.Prompt))
	}
	if mo.Message != nil {
		buf.Write(property("message", *mo.Message))
	}
	if mo.Markup != nil && *mo.Markup == schema.MarkupPango {
		buf.Write(property("markup-rows", "true"))
	}
	// no-custom tracks fallback absence exactly, not field presence on
	// the struct - spec.md §8 requires it be emitted iff fallback is nil.
	if mo.Fallback == nil {
		buf.Write(property("no-custom", "true"))
	}
	if mo.Selection != nil {
		switch mo.Selection.Kind {
		case schema.SelectionKeep:
			buf.Write(property("keep-selection", "true"))
		case schema.SelectionSet:
			// new-selection is only honored by the host when keep-selection
			// is also set; both are written together (spec.md §4.3).
			buf.Write(property("keep-selection", "true"))
			buf.Write(property("new-selection", strconv.FormatInt(mo.Selection.Index, 10)))
		}
	}

	dataJSON, err := data.Encode()
	if err != nil {
		return nil, fmt.Errorf("hostwire: encoding data option: %w", err)
	}
	buf.Write(property("data", string(dataJSON)))

	return buf.Bytes(), nil
}

// EncodeRow renders one row's framed text+attribute line. Callers must
// skip rows with row.IsEmpty() themselves (spec.md §3, §4.3) - EncodeRow
// does not filter.
func EncodeRow(row schema.Row) ([]byte, error) {
	infoJSON, err := json.Marshal(row.Info)
	if err != nil {
		return nil, fmt.Errorf("hostwire: encoding row info: %w", err)
	}

	var attrs []string
	if row.Icon != "" {
		attrs = append(attrs, "icon\x1F"+row.Icon)
	}
	if row.Meta != "" {
		attrs = append(attrs, "meta\x1F"+row.Meta)
	}
	if !row.Selectable {
		attrs = append(attrs, "nonselectable\x1Ftrue")
	}
	attrs = append(attrs, "info\x1F"+string(infoJSON))
	if row.Urgent {
		attrs = append(attrs, "urgent\x1Ftrue")
	}
	if row.Active {
		attrs = append(attrs, "active\x1Ftrue")
	}

	var buf bytes.Buffer
	buf.WriteString(row.Text)
	buf.WriteByte(0)
	for i, a := range attrs {
		if i > 0 {
			buf.WriteByte(0x1F)
		}
		buf.WriteString(a)
	}
	return buf.Bytes(), nil
}

// EncodeRows joins already-encoded, already-filtered row frames with a
// single Delim byte between them - never a newline, and never a
// trailing delimiter (spec.md §4.3, §6).
func EncodeRows(rows [][]byte) []byte {
	var buf bytes.Buffer
	for i, r := range rows {
		if i > 0 {
			buf.WriteByte(Delim)
		}
		buf.Write(r)
	}
	return buf.Bytes()
}
