package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func matchField(other, msg string) CrossField {
	return CrossFunc{
		Fields: []string{other},
		Check: func(value any, ctx Context) string {
			if value != ctx.Values[other] {
				return msg
			}
			return ""
		},
	}
}

func TestRunDependents_OnlyDeclaredDependentsRun(t *testing.T) {
	order := []string{"password", "confirmPassword", "nickname"}
	values := map[string]any{
		"password":        "secret",
		"confirmPassword": "other",
		"nickname":        "",
	}
	validators := map[string][]Validator{
		"confirmPassword": {matchField("password", "must match password")},
		"nickname":        {nonEmpty("required")},
	}

	got := RunDependents("password", order, values, validators, Context{})
	want := map[string]string{"confirmPassword": "must match password"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dependents mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDependents_UnrelatedChangeTouchesNothing(t *testing.T) {
	order := []string{"password", "confirmPassword", "nickname"}
	values := map[string]any{"password": "secret", "confirmPassword": "secret", "nickname": ""}
	validators := map[string][]Validator{
		"confirmPassword": {matchField("password", "must match password")},
		"nickname":        {nonEmpty("required")},
	}

	if got := RunDependents("nickname", order, values, validators, Context{}); len(got) != 0 {
		t.Fatalf("expected no dependents for nickname, got %v", got)
	}
}

func TestRunDependents_ClearsWhenNowValid(t *testing.T) {
	order := []string{"password", "confirmPassword"}
	values := map[string]any{"password": "secret", "confirmPassword": "secret"}
	validators := map[string][]Validator{
		"confirmPassword": {matchField("password", "must match password")},
	}

	got := RunDependents("password", order, values, validators, Context{})
	want := map[string]string{"confirmPassword": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expected clearing entry (-want +got):\n%s", diff)
	}
}

func TestRunFieldAndDependents(t *testing.T) {
	order := []string{"password", "confirmPassword"}
	values := map[string]any{"password": "", "confirmPassword": "x"}
	validators := map[string][]Validator{
		"password":        {nonEmpty("required")},
		"confirmPassword": {matchField("password", "must match password")},
	}

	got := RunFieldAndDependents("password", order, values, validators, Context{})
	want := map[string]string{
		"password":        "required",
		"confirmPassword": "must match password",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeResults(t *testing.T) {
	errs := map[string]string{"a": "old", "b": "keep"}
	results := map[string]string{"a": "new", "c": "fresh", "d": ""}

	got := MergeResults(errs, results)
	want := map[string]string{"a": "new", "b": "keep", "c": "fresh"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}

	if errs["a"] != "old" {
		t.Fatal("MergeResults must not mutate its input")
	}
}

func TestDependenciesOf(t *testing.T) {
	plain := nonEmpty("required")
	if deps := DependenciesOf(plain); deps != nil {
		t.Fatalf("plain validator must have no dependencies, got %v", deps)
	}

	cross := matchField("password", "no match")
	if !DependsOn(cross, "password") {
		t.Fatal("cross validator must depend on password")
	}
	if DependsOn(cross, "email") {
		t.Fatal("cross validator must not depend on email")
	}
}
