// Package invariant provides cheap runtime assertions for contracts that
// should never be violated by correct callers. They panic rather than
// return an error because violating one means the driver itself is wrong,
// not the input it was handed.
package invariant

import "fmt"

// Precondition panics if cond is false. Use at the top of a function to
// state what callers must guarantee before calling it.
func Precondition(cond bool, format string, args ...any) {
	if !cond {
		panic("precondition failed: " + fmt.Sprintf(format, args...))
	}
}

// Postcondition panics if cond is false. Use before returning to state
// what the function itself guarantees to its caller.
func Postcondition(cond bool, format string, args ...any) {
	if !cond {
		panic("postcondition failed: " + fmt.Sprintf(format, args...))
	}
}

// Invariant panics if cond is false. Use mid-function for conditions that
// must hold regardless of caller or return contract (e.g. exhaustive
// switches over a closed set of types).
func Invariant(cond bool, format string, args ...any) {
	if !cond {
		panic("invariant violated: " + fmt.Sprintf(format, args...))
	}
}

// NotNil panics if v is nil. name is the argument/field name, used only
// for the panic message.
func NotNil(v any, name string) {
	if v == nil {
		panic("precondition failed: " + name + " must not be nil")
	}
}
