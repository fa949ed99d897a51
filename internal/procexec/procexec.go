// Package procexec spawns the shells that run side-effect commands and
// submenu scripts (spec.md §4.4 step 1 and step 5, §5). Every spawn goes
// through sh -c; this package never interprets shell content itself,
// mirroring the teacher's LocalSession, which never interprets the argv
// it is handed either.
package procexec

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/aledsdavies/rofimenu/internal/invariant"
)

// RunString runs `sh -c command` and waits for it to exit, streaming its
// stdout to stderr as it runs so a foreground side effect's output isn't
// silently swallowed (spec.md §4.4 step 1, non-fork case).
func RunString(ctx context.Context, command string) error {
	invariant.Precondition(command != "", "command cannot be empty")
	return run(exec.CommandContext(ctx, "sh", "-c", command))
}

// RunArgv runs `sh -c '"$0" "$@"' argv...` and waits for it to exit,
// for the Multi-exec form where argv[0] is the command and argv[1:] are
// positional parameters (spec.md §4.4 step 1, §6).
func RunArgv(ctx context.Context, argv []string) error {
	invariant.Precondition(len(argv) > 0, "argv cannot be empty")
	args := append([]string{"-c", `"$0" "$@"`}, argv...)
	return run(exec.CommandContext(ctx, "sh", args...))
}

func run(cmd *exec.Cmd) error {
	cmd.Stdin = nil
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// DetachString starts `sh -c command` detached from the driver's session
// and returns immediately without waiting, for fork=true side effects
// (spec.md §4.4 step 1, §5). The child is put in its own session and its
// inherited stdio is closed so it does not hold the host's terminal.
func DetachString(command string) error {
	invariant.Precondition(command != "", "command cannot be empty")
	return detach(exec.Command("sh", "-c", command))
}

// DetachArgv is DetachString's Multi-exec counterpart.
func DetachArgv(argv []string) error {
	invariant.Precondition(len(argv) > 0, "argv cannot be empty")
	args := append([]string{"-c", `"$0" "$@"`}, argv...)
	return detach(exec.Command("sh", args...))
}

func detach(cmd *exec.Cmd) error {
	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("procexec: opening %s: %w", os.DevNull, err)
	}
	defer devnull.Close()

	cmd.Stdin = devnull
	cmd.Stdout = devnull
	cmd.Stderr = devnull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("procexec: starting detached command: %w", err)
	}
	// Intentionally not waited on: the whole point of fork=true is that
	// the driver returns before this child finishes (spec.md §5).
	go cmd.Wait()
	return nil
}

// Script is a running submenu-script invocation: its stdout, to be read
// line-by-line by the driver, and the process to reap once that stdout
// reaches EOF (spec.md §4.4 step 5, §5).
type Script struct {
	Stdout io.ReadCloser
	cmd    *exec.Cmd
}

// SpawnScript invokes `sh -c '"$0" "$@"' argv0 stack[reversed]...` with
// _CALL_STACK_LEN set, and returns its stdout for line-oriented reading
// (spec.md §4.4 step 5).
func SpawnScript(ctx context.Context, argv0 string, stackReversed []string, callStackLen int) (*Script, error) {
	invariant.Precondition(argv0 != "", "argv0 cannot be empty")

	args := append([]string{"-c", `"$0" "$@"`, argv0}, stackReversed...)
	cmd := exec.CommandContext(ctx, "sh", args...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("_CALL_STACK_LEN=%d", callStackLen))
	cmd.Stdin = nil
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("procexec: wiring stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("procexec: spawning %q: %w", argv0, err)
	}
	return &Script{Stdout: stdout, cmd: cmd}, nil
}

// Wait reaps the script process after its stdout has been read to EOF.
func (s *Script) Wait() error {
	return s.cmd.Wait()
}
