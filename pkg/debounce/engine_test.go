package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/validation"
)

const testDelay = 20 * time.Millisecond

func requireString(msg string) validation.Validator {
	return validation.Func(func(value any, _ validation.Context) string {
		if s, _ := value.(string); s == "" {
			return msg
		}
		return ""
	})
}

func emailRequest(value string) Request {
	return Request{
		Name:   "email",
		Order:  []string{"email"},
		Values: map[string]any{"email": value},
		Validators: map[string][]validation.Validator{
			"email": {requireString("email required")},
		},
		Ctx: validation.Context{},
	}
}

type recorder struct {
	mu      sync.Mutex
	calls   int
	results map[string]string
}

func (r *recorder) complete(results map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.results = results
}

func (r *recorder) snapshot() (int, map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, r.results
}

func TestSchedule_CoalescesRapidEdits(t *testing.T) {
	eng := NewEngine(WithDelay(testDelay))
	defer eng.Dispose()
	rec := &recorder{}

	eng.Schedule(emailRequest(""), rec.complete)
	eng.Schedule(emailRequest("a@b.com"), rec.complete)

	time.Sleep(5 * testDelay)
	calls, results := rec.snapshot()
	if calls != 1 {
		t.Fatalf("completion ran %d times, want 1", calls)
	}
	// Only the second request may complete: its value passes.
	want := map[string]string{"email": ""}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
	if eng.Pending("email") {
		t.Fatal("completed run still reported pending")
	}
}

func TestSchedule_IndependentFields(t *testing.T) {
	eng := NewEngine(WithDelay(testDelay))
	defer eng.Dispose()
	rec := &recorder{}

	eng.Schedule(emailRequest(""), rec.complete)
	other := emailRequest("")
	other.Name = "name"
	other.Order = []string{"email", "name"}
	eng.Schedule(other, rec.complete)

	if got := eng.PendingCount(); got != 2 {
		t.Fatalf("PendingCount = %d, want 2", got)
	}
	time.Sleep(5 * testDelay)
	if calls, _ := rec.snapshot(); calls != 2 {
		t.Fatalf("completion ran %d times, want 2", calls)
	}
}

func TestCancel_SuppressesCompletion(t *testing.T) {
	eng := NewEngine(WithDelay(testDelay))
	defer eng.Dispose()
	rec := &recorder{}

	eng.Schedule(emailRequest(""), rec.complete)
	eng.Cancel("email")

	time.Sleep(5 * testDelay)
	if calls, _ := rec.snapshot(); calls != 0 {
		t.Fatalf("cancelled run completed %d times", calls)
	}
	if eng.Pending("email") {
		t.Fatal("cancelled run still pending")
	}
}

func TestValidateNow_FlushesPendingRun(t *testing.T) {
	eng := NewEngine(WithDelay(testDelay))
	defer eng.Dispose()
	rec := &recorder{}

	eng.Schedule(emailRequest(""), rec.complete)
	results := eng.ValidateNow(emailRequest(""))
	if results["email"] != "email required" {
		t.Fatalf("ValidateNow results = %v", results)
	}

	time.Sleep(5 * testDelay)
	if calls, _ := rec.snapshot(); calls != 0 {
		t.Fatal("flushed timer still completed")
	}
}

func TestScheduleAll(t *testing.T) {
	eng := NewEngine(WithDelay(testDelay))
	defer eng.Dispose()
	rec := &recorder{}

	req := emailRequest("")
	eng.ScheduleAll(req, rec.complete)
	eng.ScheduleAll(req, rec.complete)

	time.Sleep(5 * testDelay)
	calls, results := rec.snapshot()
	if calls != 1 {
		t.Fatalf("form-wide completion ran %d times, want 1", calls)
	}
	want := map[string]string{"email": "email required"}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestScheduleAll_IndependentOfFieldSlots(t *testing.T) {
	eng := NewEngine(WithDelay(testDelay))
	defer eng.Dispose()
	fieldRec := &recorder{}
	allRec := &recorder{}

	eng.Schedule(emailRequest(""), fieldRec.complete)
	eng.ScheduleAll(emailRequest(""), allRec.complete)

	time.Sleep(5 * testDelay)
	if calls, _ := fieldRec.snapshot(); calls != 1 {
		t.Fatalf("field completion ran %d times, want 1", calls)
	}
	if calls, _ := allRec.snapshot(); calls != 1 {
		t.Fatalf("form-wide completion ran %d times, want 1", calls)
	}
}

func TestCancelAll(t *testing.T) {
	eng := NewEngine(WithDelay(testDelay))
	defer eng.Dispose()
	rec := &recorder{}

	eng.Schedule(emailRequest(""), rec.complete)
	eng.ScheduleAll(emailRequest(""), rec.complete)
	eng.CancelAll()

	time.Sleep(5 * testDelay)
	if calls, _ := rec.snapshot(); calls != 0 {
		t.Fatalf("cancelled runs completed %d times", calls)
	}
	if eng.PendingCount() != 0 {
		t.Fatal("CancelAll left pending runs")
	}
}

func TestDispose_RejectsFutureScheduling(t *testing.T) {
	eng := NewEngine(WithDelay(testDelay))
	rec := &recorder{}

	eng.Schedule(emailRequest(""), rec.complete)
	eng.Dispose()
	eng.Schedule(emailRequest(""), rec.complete)
	eng.ScheduleAll(emailRequest(""), rec.complete)

	time.Sleep(5 * testDelay)
	if calls, _ := rec.snapshot(); calls != 0 {
		t.Fatalf("disposed engine completed %d runs", calls)
	}
}

func TestValidateAllNow(t *testing.T) {
	eng := NewEngine(WithDelay(testDelay))
	defer eng.Dispose()
	rec := &recorder{}

	eng.ScheduleAll(emailRequest(""), rec.complete)
	results := eng.ValidateAllNow(emailRequest("a@b.com"))
	want := map[string]string{"email": ""}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}

	time.Sleep(5 * testDelay)
	if calls, _ := rec.snapshot(); calls != 0 {
		t.Fatal("flushed form-wide timer still completed")
	}
}

func TestDelay(t *testing.T) {
	if got := NewEngine().Delay(); got != DefaultDelay {
		t.Fatalf("Delay = %v, want %v", got, DefaultDelay)
	}
	if got := NewEngine(WithDelay(0)).Delay(); got != DefaultDelay {
		t.Fatal("non-positive delay must keep the default")
	}
}
