// Package driver implements the continuation-passing step machine:
// restore state from the environment, apply one transition, invoke the
// current submenu script, and either emit to the host or loop back in
// for autoselect (spec.md §4.4).
package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aledsdavies/rofimenu/internal/hostwire"
	"github.com/aledsdavies/rofimenu/internal/procexec"
	"github.com/aledsdavies/rofimenu/internal/schema"
	"github.com/aledsdavies/rofimenu/internal/value"
)

// Driver runs one host invocation end to end.
type Driver struct {
	Stdout io.Writer
	Debug  bool
}

// New returns a Driver writing to os.Stdout.
func New(debug bool) *Driver {
	return &Driver{Stdout: os.Stdout, Debug: debug}
}

func (d *Driver) trace(format string, args ...any) {
	if d.Debug {
		fmt.Fprintf(os.Stderr, "rofimenu: "+format+"\n", args...)
	}
}

type outcome int

const (
	outcomeTerminate outcome = iota // silent termination, exit 0, no bytes written
	outcomeEmit                     // write options + rows, then exit 0
	outcomeContinue                 // autoselect: rebind and loop (spec.md Design Notes)
)

type stepResult struct {
	outcome outcome
	options schema.ModeOptions
	data    schema.Data
	rows    []schema.Row

	// Set only on outcomeContinue: the rebound state for the next
	// iteration of the step machine (spec.md §4.4 "Emission decision").
	nextData  schema.Data
	nextInfo  schema.Info
	nextInput string
}

// Run executes one host invocation, including any internal autoselect
// iterations, and writes the host-facing emission to d.Stdout
// (spec.md §4.4).
func (d *Driver) Run(ctx context.Context, input string) error {
	state := Restore(input)
	if state.FirstLaunch {
		d.trace("first launch, emitting preamble")
		if _, err := d.Stdout.Write(hostwire.Preamble); err != nil {
			return fmt.Errorf("rofimenu: writing preamble: %w", err)
		}
	}

	// Freeform input with no ROFI_INFO and no stored fallback transition
	// ends the invocation silently (spec.md §9).
	if _, infoSet := os.LookupEnv("ROFI_INFO"); !infoSet && !state.FirstLaunch && state.Data.Fallback == nil {
		d.trace("freeform input with no fallback transition, terminating")
		return nil
	}

	data, info, in := state.Data, state.Info, state.Input
	for {
		res, err := d.step(ctx, data, info, in)
		if err != nil {
			return err
		}
		switch res.outcome {
		case outcomeTerminate:
			return nil
		case outcomeContinue:
			d.trace("autoselect: re-entering with info from the sole row")
			data, info, in = res.nextData, res.nextInfo, res.nextInput
			continue
		case outcomeEmit:
			return d.emit(res.options, res.data, res.rows)
		}
		return fmt.Errorf("rofimenu: unreachable step outcome %d", res.outcome)
	}
}

// step runs steps 1-7 of spec.md §4.4 for one (data, info, input) triple.
func (d *Driver) step(ctx context.Context, data schema.Data, info schema.Info, input string) (stepResult, error) {
	// Step 1: side effect. fork=true ends the whole invocation here  - 
	// the parent returns before the child completes and nothing is
	// emitted (spec.md §4.4 step 1, scenario 5).
	if !info.Exec.IsEmpty() {
		if info.Fork {
			if err := runDetached(info.Exec, input); err != nil {
				fmt.Fprintf(os.Stderr, "rofimenu: forked exec failed to start: %v\n", err)
			}
			return stepResult{outcome: outcomeTerminate}, nil
		}
		if err := runForeground(ctx, info.Exec, input); err != nil {
			// Best-effort: exec side effects are tolerated, not fatal
			// (spec.md §7).
			fmt.Fprintf(os.Stderr, "rofimenu: exec failed: %v\n", err)
		}
	}

	// Step 2: call-stack seeding, first entry into the chain only.
	if len(data.CallStack) == 0 {
		script, err := InitialScript()
		if err != nil {
			return stepResult{}, fmt.Errorf("rofimenu: %w", err)
		}
		data.CallStack = script

		stack, err := InitialStack()
		if err != nil {
			return stepResult{}, fmt.Errorf("rofimenu: %w", err)
		}
		if stack != nil {
			data.Stack = stack
		}
	}

	// Step 3: value-stack edit.
	newStack, ok := applyPop(data.Stack, info.Pop)
	if !ok {
		d.trace("pop %s exceeds stack depth %d, terminating", popDesc(info.Pop), len(data.Stack))
		return stepResult{outcome: outcomeTerminate}, nil
	}
	data.Stack = append(newStack, info.Push.Expand(input)...)

	// Step 4: call-stack edit, same truncate-or-terminate rule.
	newCallStack, ok := applyPop(data.CallStack, info.PopCall)
	if !ok {
		d.trace("pop_call %s exceeds call stack depth %d, terminating", popDesc(info.PopCall), len(data.CallStack))
		return stepResult{outcome: outcomeTerminate}, nil
	}
	data.CallStack = append(newCallStack, info.PushCall.Expand(input)...)

	// Step 5: script invocation.
	if len(data.CallStack) == 0 {
		d.trace("call stack empty after edits, terminating")
		return stepResult{outcome: outcomeTerminate}, nil
	}
	argv0 := data.CallStack[len(data.CallStack)-1]
	stackReversed := reversed(data.Stack)
	script, err := procexec.SpawnScript(ctx, argv0, stackReversed, len(data.CallStack)-1)
	if err != nil {
		return stepResult{}, fmt.Errorf("rofimenu: %w", err)
	}

	options, rows, err := d.readScript(script.Stdout, argv0)
	waitErr := script.Wait()
	if err != nil {
		return stepResult{}, err
	}
	if waitErr != nil {
		d.trace("script %q exited with error: %v", argv0, waitErr)
	}

	// Step 6 (continued): merge Info.menu over the script's own options,
	// then attach the current stacks as the outgoing Data.
	if info.Menu != nil {
		options = options.Merge(*info.Menu)
	}
	outgoingData := schema.Data{
		Stack:     data.Stack,
		CallStack: data.CallStack,
		Fallback:  options.Fallback,
	}

	// Emission decision (spec.md §4.4 "Emission decision").
	if len(rows) == 0 {
		return stepResult{outcome: outcomeEmit, options: options, data: outgoingData}, nil
	}
	if len(rows) == 1 && options.AutoSelect {
		return stepResult{
			outcome:   outcomeContinue,
			nextData:  outgoingData,
			nextInfo:  rows[0].Info,
			nextInput: rows[0].Text,
		}, nil
	}
	return stepResult{outcome: outcomeEmit, options: options, data: outgoingData, rows: rows}, nil
}

// readScript consumes a submenu script's stdout: the first non-empty
// line as ModeOptions, then rows until EOF or a blank line
// (spec.md §4.4 step 6-7, §5 resource scoping).
func (d *Driver) readScript(stdout io.Reader, scriptName string) (schema.ModeOptions, []schema.Row, error) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var optionsLine string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		optionsLine = line
		break
	}
	if optionsLine == "" {
		return schema.ModeOptions{}, nil, fmt.Errorf("rofimenu: %q produced no options line", scriptName)
	}
	options, err := schema.ParseModeOptions([]byte(optionsLine))
	if err != nil {
		return schema.ModeOptions{}, nil, fmt.Errorf("rofimenu: %q: invalid options line: %w", scriptName, err)
	}

	var rows []schema.Row
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		row, err := schema.ParseRow([]byte(line))
		if err != nil {
			fmt.Fprintf(os.Stderr, "rofimenu: %q: dropping row %q: %v\n", scriptName, line, err)
			continue
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return schema.ModeOptions{}, nil, fmt.Errorf("rofimenu: reading %q output: %w", scriptName, err)
	}
	return options, rows, nil
}

// emit writes the option block and any rows to d.Stdout, exactly once
// per invocation (spec.md §4.3).
func (d *Driver) emit(options schema.ModeOptions, data schema.Data, rows []schema.Row) error {
	optionsBlock, err := hostwire.EncodeOptions(options, data)
	if err != nil {
		return fmt.Errorf("rofimenu: %w", err)
	}
	if _, err := d.Stdout.Write(optionsBlock); err != nil {
		return fmt.Errorf("rofimenu: writing options: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	encoded := make([][]byte, 0, len(rows))
	for _, row := range rows {
		frame, err := hostwire.EncodeRow(row)
		if err != nil {
			return fmt.Errorf("rofimenu: %w", err)
		}
		encoded = append(encoded, frame)
	}
	if _, err := d.Stdout.Write(hostwire.EncodeRows(encoded)); err != nil {
		return fmt.Errorf("rofimenu: writing rows: %w", err)
	}
	return nil
}

// runForeground spawns Info.exec and waits: expand+argv form for a Multi
// tree, join+string form otherwise (spec.md §4.4 step 1).
func runForeground(ctx context.Context, exec value.StrTree, input string) error {
	if exec.Kind == value.KindMulti {
		return procexec.RunArgv(ctx, exec.Expand(input))
	}
	return procexec.RunString(ctx, exec.Join(input))
}

// runDetached is runForeground's fork=true counterpart.
func runDetached(exec value.StrTree, input string) error {
	if exec.Kind == value.KindMulti {
		return procexec.DetachArgv(exec.Expand(input))
	}
	return procexec.DetachString(exec.Join(input))
}

// applyPop truncates stack from the top by n (nil meaning "clear all"),
// reporting false instead of truncating below zero - the silent
// termination condition (spec.md §4.4 steps 3-4, §7).
func applyPop(stack []string, n *int) ([]string, bool) {
	if n == nil {
		return stack[:0], true
	}
	if *n > len(stack) {
		return nil, false
	}
	return stack[:len(stack)-*n], true
}

func popDesc(n *int) string {
	if n == nil {
		return "None"
	}
	return fmt.Sprintf("%d", *n)
}

func reversed(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
