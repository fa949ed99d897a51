// Command gen-schema emits JSON Schema documents describing the wire
// shapes submenu script authors write: Row, ModeOptions, and the
// push/pop/jump/goto/return/exec/fork/menu transition keys shared by a
// row and a menu's fallback. Grounded on gert's scripts/gen-schema.go,
// adapted to this module's grammar and to write one file per shape
// instead of one bundle.
//
// The types reflected here are deliberately not internal/schema's own
// Row/Info/ModeOptions: those decode through applyInfoKey/WalkObject,
// which collapses jump and goto onto one Go field (PushCall) and
// return and goto onto another (PopCall) to apply the last-write-wins
// rule. Reflecting those structs directly would document PushCall/
// PopCall, not the jump/goto/return keys an author actually types.
// The shapes below exist solely to mirror the accepted input keys.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

// transitionFields is embedded by rowShape and infoShape: every key a
// row or a menu's fallback accepts to describe a transition (spec.md
// §3, §4.2).
type transitionFields struct {
	Push   any               `json:"push,omitempty" jsonschema_description:"Text pushed onto the value stack: a string, null (the user's input), or an array of the same."`
	Pop    *int              `json:"pop,omitempty" jsonschema_description:"Number of value-stack entries to discard, or null to clear the whole stack."`
	Jump   any               `json:"jump,omitempty" jsonschema_description:"Script to push onto the call stack."`
	Goto   any               `json:"goto,omitempty" jsonschema_description:"Like jump, but also pops one call-stack entry first, replacing the current script."`
	Return *int              `json:"return,omitempty" jsonschema_description:"Number of call-stack entries to pop, or null to clear the call stack."`
	Exec   any               `json:"exec,omitempty" jsonschema_description:"Side-effect command run before the stack edits are applied."`
	Fork   *bool             `json:"fork,omitempty" jsonschema_description:"Run exec detached; when true this invocation ends immediately once it starts."`
	Menu   *modeOptionsShape `json:"menu,omitempty" jsonschema_description:"Override this invocation's display/selection options."`
}

// rowShape is one menu line: display attributes plus the transition
// keys (spec.md §3, §4.2). Authors may write a bare string instead of
// an object; gen-schema documents only the object form.
type rowShape struct {
	Text       string `json:"text,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Meta       string `json:"meta,omitempty"`
	Selectable *bool  `json:"selectable,omitempty"`
	Urgent     *bool  `json:"urgent,omitempty"`
	Active     *bool  `json:"active,omitempty"`
	transitionFields
}

// infoShape is the standalone transition object, the shape a menu's
// fallback key and gen-schema's info.json both describe.
type infoShape struct {
	transitionFields
}

// modeOptionsShape is a submenu script's options line (spec.md §3,
// §4.2), including the select/selection alias pair.
type modeOptionsShape struct {
	Prompt     *string    `json:"prompt,omitempty"`
	Message    *string    `json:"message,omitempty"`
	Markup     *string    `json:"markup,omitempty" jsonschema:"enum=pango"`
	Fallback   *infoShape `json:"fallback,omitempty"`
	Select     *int       `json:"select,omitempty" jsonschema_description:"Alias for selection."`
	Selection  *int       `json:"selection,omitempty" jsonschema_description:"Row index to select, or null to keep the current selection."`
	AutoSelect *bool      `json:"autoselect,omitempty"`
}

// dataShape is ROFI_DATA's persisted shape (spec.md §3): not authored
// by scripts directly, but its fallback nests the same transition keys.
type dataShape struct {
	Stack     []string   `json:"stack"`
	CallStack []string   `json:"call_stack"`
	Fallback  *infoShape `json:"fallback,omitempty"`
}

func main() {
	outDir := "schemas"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "gen-schema: %v\n", err)
		os.Exit(1)
	}

	targets := map[string]any{
		"row.json":          rowShape{},
		"mode-options.json": modeOptionsShape{},
		"info.json":         infoShape{},
		"data.json":         dataShape{},
	}

	for name, target := range targets {
		if err := writeSchema(filepath.Join(outDir, name), target); err != nil {
			fmt.Fprintf(os.Stderr, "gen-schema: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", filepath.Join(outDir, name))
	}
}

func writeSchema(path string, target any) error {
	// DoNotReference is left at its zero value (false), unlike a plain
	// one-shot struct: infoShape and modeOptionsShape refer to each
	// other through Menu/Fallback, so the reflector needs $defs/$ref to
	// terminate the cycle rather than inlining forever.
	reflector := &jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
	s := reflector.Reflect(target)
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling schema for %T: %w", target, err)
	}
	return os.WriteFile(path, data, 0o644)
}
