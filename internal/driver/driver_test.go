package driver

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestApplyPopNilClearsAll(t *testing.T) {
	got, ok := applyPop([]string{"a", "b", "c"}, nil)
	if !ok {
		t.Fatal("applyPop with nil should never terminate")
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty (clear all)", got)
	}
}

func TestApplyPopTruncatesFromTop(t *testing.T) {
	n := 1
	got, ok := applyPop([]string{"a", "b", "c"}, &n)
	if !ok {
		t.Fatal("applyPop should succeed when n <= len(stack)")
	}
	want := []string{"a", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyPopExceedsDepthTerminates(t *testing.T) {
	n := 5
	_, ok := applyPop([]string{"a"}, &n)
	if ok {
		t.Error("applyPop should report termination when n > len(stack)")
	}
}

func TestApplyPopZeroIsNoOp(t *testing.T) {
	n := 0
	got, ok := applyPop([]string{"a", "b"}, &n)
	if !ok {
		t.Fatal("applyPop(0) should never terminate")
	}
	if diff := cmp.Diff([]string{"a", "b"}, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestReversed(t *testing.T) {
	got := reversed([]string{"a", "b", "c"})
	want := []string{"c", "b", "a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestReversedEmpty(t *testing.T) {
	got := reversed(nil)
	if len(got) != 0 {
		t.Errorf("reversed(nil) = %v, want empty", got)
	}
}

func TestRestoreFirstLaunch(t *testing.T) {
	os.Unsetenv("ROFI_DATA")
	os.Unsetenv("ROFI_INFO")

	state := Restore("")
	if !state.FirstLaunch {
		t.Error("expected FirstLaunch when neither env var is set and no input")
	}
}

func TestRestoreNotFirstLaunchWithInput(t *testing.T) {
	os.Unsetenv("ROFI_DATA")
	os.Unsetenv("ROFI_INFO")

	state := Restore("some input")
	if state.FirstLaunch {
		t.Error("providing input should not count as first launch")
	}
}

func TestRestoreUsesFallbackWhenInfoAbsent(t *testing.T) {
	t.Setenv("ROFI_DATA", `{"stack":[],"call_stack":["/r.sh"],"fallback":{"push":"x"}}`)
	os.Unsetenv("ROFI_INFO")

	state := Restore("anything")
	if state.Info.Push.Join("") != "x" {
		t.Errorf("Info.Push = %+v, want fallback's push", state.Info.Push)
	}
}

func TestInitialScriptRequired(t *testing.T) {
	os.Unsetenv("INITIAL_SCRIPT")
	if _, err := InitialScript(); err == nil {
		t.Error("expected an error when INITIAL_SCRIPT is unset")
	}
}

func TestInitialScriptBareString(t *testing.T) {
	t.Setenv("INITIAL_SCRIPT", "/r.sh")
	got, err := InitialScript()
	if err != nil {
		t.Fatalf("InitialScript: %v", err)
	}
	if diff := cmp.Diff([]string{"/r.sh"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestInitialScriptArray(t *testing.T) {
	t.Setenv("INITIAL_SCRIPT", `["/a.sh", "/b.sh"]`)
	got, err := InitialScript()
	if err != nil {
		t.Fatalf("InitialScript: %v", err)
	}
	if diff := cmp.Diff([]string{"/a.sh", "/b.sh"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestInitialStackAbsentIsNil(t *testing.T) {
	os.Unsetenv("INITIAL_STACK")
	got, err := InitialStack()
	if err != nil {
		t.Fatalf("InitialStack: %v", err)
	}
	if got != nil {
		t.Errorf("InitialStack() = %v, want nil when unset", got)
	}
}
