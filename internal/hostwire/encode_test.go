package hostwire

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aledsdavies/rofimenu/internal/schema"
)

func TestPreamble(t *testing.T) {
	want := "\x00delim\x1F\x0B\n"
	if string(Preamble) != want {
		t.Errorf("Preamble = %q, want %q", Preamble, want)
	}
}

func TestEncodeOptionsNoCustomTracksFallbackAbsence(t *testing.T) {
	data := schema.DefaultData()

	withFallback := schema.DefaultModeOptions()
	fallback := schema.DefaultInfo()
	withFallback.Fallback = &fallback
	block, err := EncodeOptions(withFallback, data)
	if err != nil {
		t.Fatalf("EncodeOptions: %v", err)
	}
	if bytes.Contains(block, []byte("no-custom")) {
		t.Errorf("no-custom should be absent when fallback is present: %q", block)
	}

	withoutFallback := schema.DefaultModeOptions()
	block, err = EncodeOptions(withoutFallback, data)
	if err != nil {
		t.Fatalf("EncodeOptions: %v", err)
	}
	if !bytes.Contains(block, []byte("\x00no-custom\x1Ftrue")) {
		t.Errorf("no-custom should be emitted when fallback is absent: %q", block)
	}
}

func TestEncodeOptionsSelection(t *testing.T) {
	data := schema.DefaultData()

	keep := schema.DefaultModeOptions()
	keep.Selection = &schema.Selection{Kind: schema.SelectionKeep}
	block, err := EncodeOptions(keep, data)
	if err != nil {
		t.Fatalf("EncodeOptions: %v", err)
	}
	if !bytes.Contains(block, []byte("\x00keep-selection\x1Ftrue")) {
		t.Errorf("expected keep-selection property: %q", block)
	}

	set := schema.DefaultModeOptions()
	set.Selection = &schema.Selection{Kind: schema.SelectionSet, Index: 5}
	block, err = EncodeOptions(set, data)
	if err != nil {
		t.Fatalf("EncodeOptions: %v", err)
	}
	if !bytes.Contains(block, []byte("\x00new-selection\x1F5")) {
		t.Errorf("expected new-selection property: %q", block)
	}
	if !bytes.Contains(block, []byte("\x00keep-selection\x1Ftrue")) {
		t.Errorf("Set(n) must also emit keep-selection=true, the host only honors new-selection when it's set: %q", block)
	}
}

func TestEncodeOptionsDataDecodesBack(t *testing.T) {
	data := schema.Data{Stack: []string{"a"}, CallStack: []string{"/r.sh"}}
	block, err := EncodeOptions(schema.DefaultModeOptions(), data)
	if err != nil {
		t.Fatalf("EncodeOptions: %v", err)
	}

	s := string(block)
	const marker = "\x00data\x1F"
	idx := strings.Index(s, marker)
	if idx < 0 {
		t.Fatalf("no data property in %q", s)
	}
	rest := s[idx+len(marker):]
	end := strings.IndexByte(rest, Delim)
	if end < 0 {
		end = len(rest)
	}
	decoded := schema.ParseData([]byte(rest[:end]))
	if len(decoded.Stack) != 1 || decoded.Stack[0] != "a" || len(decoded.CallStack) != 1 || decoded.CallStack[0] != "/r.sh" {
		t.Errorf("decoded data = %+v, want stack:[a] call_stack:[/r.sh]", decoded)
	}
}

func TestEncodeRowSkipsAbsentAttributes(t *testing.T) {
	row := schema.DefaultRow()
	row.Text = "Open"
	frame, err := EncodeRow(row)
	if err != nil {
		t.Fatalf("EncodeRow: %v", err)
	}
	if bytes.Contains(frame, []byte("icon\x1F")) || bytes.Contains(frame, []byte("meta\x1F")) {
		t.Errorf("expected no icon/meta attributes: %q", frame)
	}
	if !bytes.Contains(frame, []byte("info\x1F")) {
		t.Errorf("info attribute should always be present: %q", frame)
	}
}

func TestEncodeRowNonSelectable(t *testing.T) {
	row := schema.DefaultRow()
	row.Text = "x"
	row.Selectable = false
	frame, err := EncodeRow(row)
	if err != nil {
		t.Fatalf("EncodeRow: %v", err)
	}
	if !bytes.Contains(frame, []byte("nonselectable\x1Ftrue")) {
		t.Errorf("expected nonselectable attribute: %q", frame)
	}
}

func TestEncodeRowsJoinsWithDelimNoTrailing(t *testing.T) {
	a, _ := EncodeRow(rowWithText("a"))
	b, _ := EncodeRow(rowWithText("b"))
	got := EncodeRows([][]byte{a, b})

	parts := bytes.Split(got, []byte{Delim})
	if len(parts) != 2 {
		t.Fatalf("expected exactly one Delim byte between two rows, got %d parts", len(parts))
	}
	if bytes.HasSuffix(got, []byte{Delim}) {
		t.Error("EncodeRows must not emit a trailing delimiter")
	}
}

func rowWithText(text string) schema.Row {
	r := schema.DefaultRow()
	r.Text = text
	return r
}
