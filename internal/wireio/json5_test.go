package wireio

import (
	"encoding/json"
	"testing"
)

func TestNormalizeJSON5PreservesKeyOrder(t *testing.T) {
	raw, err := NormalizeJSON5([]byte(`{return: null, goto: "/x.sh"}`))
	if err != nil {
		t.Fatalf("NormalizeJSON5: %v", err)
	}

	var order []string
	err = WalkObject(raw, func(key string, _ json.RawMessage) error {
		order = append(order, key)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkObject: %v", err)
	}
	if len(order) != 2 || order[0] != "return" || order[1] != "goto" {
		t.Errorf("key order = %v, want [return goto]", order)
	}
}

func TestNormalizeJSON5RejectsInvalidInput(t *testing.T) {
	if _, err := NormalizeJSON5([]byte(`{not valid`)); err == nil {
		t.Error("expected an error for malformed JSON5")
	}
}

func TestToJSON(t *testing.T) {
	got, err := ToJSON([]byte(`{foo: "bar", /* comment */ baz: [1, 2,]}`))
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	want := `{"foo":"bar","baz":[1,2]}`
	if string(got) != want {
		t.Errorf("ToJSON = %s, want %s", got, want)
	}
}

func TestIsObject(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`{"a":1}`, true},
		{`  {"a":1}`, true},
		{`"text"`, false},
		{`[1,2]`, false},
		{`null`, false},
	}
	for _, tt := range tests {
		if got := IsObject(json.RawMessage(tt.input)); got != tt.want {
			t.Errorf("IsObject(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWalkObjectRejectsNonObject(t *testing.T) {
	err := WalkObject(json.RawMessage(`[1,2]`), func(string, json.RawMessage) error { return nil })
	if err == nil {
		t.Error("expected an error walking a non-object")
	}
}
