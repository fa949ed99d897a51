package procexec

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestRunStringWaitsForExit(t *testing.T) {
	if err := RunString(context.Background(), "exit 0"); err != nil {
		t.Errorf("RunString(exit 0): %v", err)
	}
	if err := RunString(context.Background(), "exit 7"); err == nil {
		t.Error("RunString(exit 7): expected a non-nil error")
	}
}

func TestRunArgvPassesPositionalParameters(t *testing.T) {
	// argv[0] is the command to run, argv[1:] its positional parameters,
	// mirroring the Multi-exec form's sh -c '"$0" "$@"' arg0 arg1 ...
	if err := RunArgv(context.Background(), []string{"test", "hello", "=", "hello"}); err != nil {
		t.Errorf("RunArgv(test hello = hello): %v", err)
	}
	if err := RunArgv(context.Background(), []string{"test", "hello", "=", "world"}); err == nil {
		t.Error("RunArgv(test hello = world): expected a non-nil error")
	}
}

func TestDetachStringReturnsBeforeChildSleeps(t *testing.T) {
	if err := DetachString("sleep 0.2"); err != nil {
		t.Fatalf("DetachString: %v", err)
	}
	// Reaching here without blocking ~200ms is the behavior under test;
	// there is nothing further to assert without a flaky sleep-based
	// timing check.
}

func TestSpawnScriptStreamsStdoutAndPassesArgv(t *testing.T) {
	content := "#!/bin/sh\necho \"{\\\"prompt\\\":\\\"p\\\"}\"\necho \"$1\"\necho \"$_CALL_STACK_LEN\"\n"
	path := filepath.Join(t.TempDir(), "script.sh")
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("writing test script: %v", err)
	}

	proc, err := SpawnScript(context.Background(), path, []string{"b", "a"}, 2)
	if err != nil {
		t.Fatalf("SpawnScript: %v", err)
	}
	out, err := io.ReadAll(proc.Stdout)
	if err != nil {
		t.Fatalf("reading stdout: %v", err)
	}
	if err := proc.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	want := "{\"prompt\":\"p\"}\nb\n2\n"
	if string(out) != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}
