package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aledsdavies/rofimenu/internal/value"
	"github.com/aledsdavies/rofimenu/internal/wireio"
)

// Info is a single transition: the edit applied to the value/call stacks,
// plus an optional side-effect command (spec.md §3).
//
// Info has two distinct JSON shapes in this system. Its own canonical
// encoding below (push/pop/push_call/pop_call/exec/fork/menu, one JSON
// key per field) is what the driver writes into a row's "info" wire
// attribute and what it reads back from ROFI_INFO on the next
// invocation - a plain round-trippable struct, no aliasing. The
// *user-authored* alias schema (push/pop/jump/goto/return/exec/fork/menu)
// that submenu scripts actually write is handled separately by
// AssembleInfo, which builds an Info by setting these same fields
// directly - mirroring how original_source/src/fallback_row.rs's
// RowVisitor assembles an Info from aliased keys without ever calling
// Info's own Deserialize. Keeping the two schemas apart is what makes
// "encode_info(decode_info(j)) ≡ j" (spec.md §8) hold for the canonical
// form: alias collapsing is lossy by nature (goto/return both write
// pop_call) and was never meant to be the round-trip schema.
type Info struct {
	Push     value.StrTree `json:"push"`
	Pop      *int          `json:"pop"`
	PushCall value.StrTree `json:"push_call"`
	PopCall  *int          `json:"pop_call"`
	Exec     value.StrTree `json:"exec"`
	Fork     bool          `json:"fork"`
	Menu     *ModeOptions  `json:"menu,omitempty"`
}

// DefaultInfo returns the zero transition: no stack edits, pop counts of
// 0 (not "clear all"), no side effect, no menu override (spec.md §3).
func DefaultInfo() Info {
	return Info{
		Push:     value.Multi(nil),
		Pop:      intPtr(0),
		PushCall: value.Multi(nil),
		PopCall:  intPtr(0),
		Exec:     value.Multi(nil),
	}
}

func intPtr(n int) *int { return &n }

// ParseInfo decodes a JSON5 ROFI_INFO literal using Info's own canonical
// (non-aliased) schema.
func ParseInfo(data []byte) (Info, error) {
	info := DefaultInfo()
	raw, err := wireio.NormalizeJSON5(data)
	if err != nil {
		return Info{}, err
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return Info{}, fmt.Errorf("info: %w", err)
	}
	return info, nil
}

// infoFieldNames is the allowed alias-key set for AssembleInfo/Row
// decoding, used only in error messages (spec.md §4.2).
var infoFieldNames = []string{"push", "pop", "jump", "goto", "return", "exec", "fork", "menu"}

// AssembleInfo builds an Info from the user-authored alias schema:
// push/pop/jump/goto/return/exec/fork/menu, applied in source key
// order. raw must already be normalized JSON (see wireio.NormalizeJSON5).
//
// Key order matters exactly once: goto is "if pop_call is Some(n), set
// it to n+1; then set push_call", and return is "set pop_call". Applying
// both on the very same row - return:null then goto:"x", or the reverse  - 
// is flagged in spec.md §9 as ambiguous; this implementation resolves it
// by last-write-wins in source order, which is what a sequential
// MapAccess-style visitor naturally gives you and is in fact a plain
// enumeration of effects, not a design choice independent of it - see
// DESIGN.md.
func AssembleInfo(raw json.RawMessage) (Info, error) {
	info := DefaultInfo()
	err := wireio.WalkObject(raw, func(key string, val json.RawMessage) error {
		matched, err := applyInfoKey(&info, key, val)
		if err != nil {
			return err
		}
		if !matched {
			return fmt.Errorf("info: unknown field %q (allowed: %v)", key, infoFieldNames)
		}
		return nil
	})
	if err != nil {
		return Info{}, err
	}
	return info, nil
}

// applyInfoKey applies a single alias-schema key to info, reporting
// whether key was one of the recognized transition keys. Shared between
// AssembleInfo and Row's combined field/transition decode (spec.md §4.2).
func applyInfoKey(info *Info, key string, val json.RawMessage) (bool, error) {
	switch key {
	case "push":
		return true, json.Unmarshal(val, &info.Push)
	case "pop":
		return true, decodeOptionalCount(val, &info.Pop)
	case "jump":
		return true, json.Unmarshal(val, &info.PushCall)
	case "goto":
		if info.PopCall != nil {
			n := *info.PopCall + 1
			info.PopCall = &n
		}
		return true, json.Unmarshal(val, &info.PushCall)
	case "return":
		return true, decodeOptionalCount(val, &info.PopCall)
	case "exec":
		return true, json.Unmarshal(val, &info.Exec)
	case "fork":
		return true, json.Unmarshal(val, &info.Fork)
	case "menu":
		mo := DefaultModeOptions()
		if err := decodeModeOptionsFields(&mo, val); err != nil {
			return true, err
		}
		info.Menu = &mo
		return true, nil
	default:
		return false, nil
	}
}

// decodeOptionalCount parses the option<nonneg-int> shape shared by pop
// and pop_call: a JSON null means None ("clear all"), otherwise a
// non-negative integer (spec.md §3).
func decodeOptionalCount(val json.RawMessage, dst **int) error {
	if bytes.Equal(bytes.TrimSpace(val), []byte("null")) {
		*dst = nil
		return nil
	}
	var n int
	if err := json.Unmarshal(val, &n); err != nil {
		return fmt.Errorf("expected a non-negative integer or null: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("expected a non-negative integer, got %d", n)
	}
	*dst = &n
	return nil
}
