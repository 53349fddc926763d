package touch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTracker_InitiallyUntouched(t *testing.T) {
	tr := NewTracker("email", "password")
	if tr.IsTouched("email") || tr.IsTouched("password") {
		t.Fatal("new fields must start untouched")
	}
	if got := tr.Count(); got != 2 {
		t.Fatalf("expected 2 registered fields, got %d", got)
	}
}

func TestTracker_TouchAndReset(t *testing.T) {
	tr := NewTracker("email", "password")

	tr.Touch("email")
	if !tr.IsTouched("email") {
		t.Fatal("email should be touched")
	}
	if tr.IsTouched("password") {
		t.Fatal("password should stay untouched")
	}

	tr.Reset("email")
	if tr.IsTouched("email") {
		t.Fatal("reset should clear the flag")
	}
}

func TestTracker_UnknownNamesAreIgnored(t *testing.T) {
	tr := NewTracker("email")

	tr.Touch("ghost")
	tr.Reset("ghost")
	tr.TouchMany("ghost", "email")

	if tr.IsTouched("ghost") {
		t.Fatal("unknown name must not be tracked")
	}
	if !tr.IsTouched("email") {
		t.Fatal("known name in the same batch must still be touched")
	}
	if got := tr.Count(); got != 1 {
		t.Fatalf("unknown names must not register, got count %d", got)
	}
}

func TestTracker_TouchAllResetAll(t *testing.T) {
	tr := NewTracker("a", "b", "c")

	tr.TouchAll()
	if got := tr.TouchedCount(); got != 3 {
		t.Fatalf("expected 3 touched, got %d", got)
	}

	tr.ResetAll()
	if got := tr.TouchedCount(); got != 0 {
		t.Fatalf("expected 0 touched, got %d", got)
	}
}

func TestTracker_RegisterPreservesExistingFlag(t *testing.T) {
	tr := NewTracker("email")
	tr.Touch("email")
	tr.Register("email", "password")

	if !tr.IsTouched("email") {
		t.Fatal("re-register must not clear an existing flag")
	}
	if tr.IsTouched("password") {
		t.Fatal("new registration starts untouched")
	}
}

func TestTracker_Snapshot(t *testing.T) {
	tr := NewTracker("a", "b")
	tr.Touch("a")

	want := map[string]bool{"a": true, "b": false}
	if diff := cmp.Diff(want, tr.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	// Mutating the snapshot must not leak back.
	tr.Snapshot()["b"] = true
	if tr.IsTouched("b") {
		t.Fatal("snapshot must be a copy")
	}
}

func TestTracker_Unregister(t *testing.T) {
	tr := NewTracker("a", "b")
	tr.Touch("a")
	tr.Unregister("a", "ghost")

	if tr.IsTouched("a") {
		t.Fatal("unregistered field must report untouched")
	}
	if got := tr.Count(); got != 1 {
		t.Fatalf("expected 1 field, got %d", got)
	}
}
