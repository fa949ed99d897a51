package driver

import (
	"fmt"
	"os"

	"github.com/aledsdavies/rofimenu/internal/schema"
	"github.com/aledsdavies/rofimenu/internal/wireio"
)

// State is everything restored from the environment at the start of one
// invocation (spec.md §4.4 "Inputs"/"State restoration").
type State struct {
	Data  schema.Data
	Info  schema.Info
	Input string

	// FirstLaunch is true iff neither ROFI_DATA nor ROFI_INFO was set
	// and no argument was provided - the preamble is emitted only then.
	FirstLaunch bool
}

// Restore reads ROFI_DATA/ROFI_INFO and the positional argument and
// reconstructs State (spec.md §4.4).
func Restore(input string) State {
	rawData, dataSet := os.LookupEnv("ROFI_DATA")
	rawInfo, infoSet := os.LookupEnv("ROFI_INFO")

	data := schema.ParseData([]byte(rawData))

	var info schema.Info
	if infoSet {
		parsed, err := schema.ParseInfo([]byte(rawInfo))
		if err != nil {
			fmt.Fprintf(os.Stderr, "rofimenu: invalid ROFI_INFO, using default: %v\n", err)
			info = schema.DefaultInfo()
		} else {
			info = parsed
		}
	} else if data.Fallback != nil {
		info = *data.Fallback
	} else {
		info = schema.DefaultInfo()
	}

	return State{
		Data:        data,
		Info:        info,
		Input:       input,
		FirstLaunch: !dataSet && !infoSet && input == "",
	}
}

// stringListGrammar parses INITIAL_SCRIPT/INITIAL_STACK's shared shape: a
// bracketed JSON5 array, or a bare string treated as a single-element
// list (spec.md §4.4 step 2, §6).
func stringListGrammar(raw string) ([]string, error) {
	trimmed := raw
	for len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\t') {
		trimmed = trimmed[1:]
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []string
		if err := wireio.DecodeJSON5([]byte(raw), &list); err != nil {
			return nil, fmt.Errorf("expected an array of strings: %w", err)
		}
		return list, nil
	}
	return []string{raw}, nil
}

// InitialScript parses the required INITIAL_SCRIPT environment variable.
func InitialScript() ([]string, error) {
	raw, ok := os.LookupEnv("INITIAL_SCRIPT")
	if !ok || raw == "" {
		return nil, fmt.Errorf("INITIAL_SCRIPT is required on first launch")
	}
	list, err := stringListGrammar(raw)
	if err != nil {
		return nil, fmt.Errorf("INITIAL_SCRIPT: %w", err)
	}
	return list, nil
}

// InitialStack parses the optional INITIAL_STACK environment variable.
// Absent means "do not seed the value stack" (nil, not an error).
func InitialStack() ([]string, error) {
	raw, ok := os.LookupEnv("INITIAL_STACK")
	if !ok || raw == "" {
		return nil, nil
	}
	list, err := stringListGrammar(raw)
	if err != nil {
		return nil, fmt.Errorf("INITIAL_STACK: %w", err)
	}
	return list, nil
}
