package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/validation"
)

const contractDoc = `
openapi: 3.0.3
info:
  title: accounts
  version: 1.0.0
paths: {}
components:
  schemas:
    Signup:
      type: object
      required: [email, password]
      properties:
        email:
          type: string
          format: email
        password:
          type: string
          minLength: 8
          maxLength: 64
        age:
          type: integer
          minimum: 18
          maximum: 130
          default: 18
        plan:
          type: string
          enum: [free, pro, enterprise]
          default: free
        tags:
          type: array
          items:
            type: string
        newsletter:
          type: boolean
        joined:
          type: string
          format: date-time
    Empty:
      type: object
`

func TestDefinitions(t *testing.T) {
	defs, err := Definitions(context.Background(), []byte(contractDoc), "Signup", Options{})
	if err != nil {
		t.Fatalf("Definitions: %v", err)
	}

	names := make([]string, 0, len(defs))
	types := make(map[string]field.TypeTag, len(defs))
	byName := make(map[string]field.Definition, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
		types[def.Name] = def.Type
		byName[def.Name] = def
	}

	// Properties arrive sorted by name so derived catalogues are stable.
	wantNames := []string{"age", "email", "joined", "newsletter", "password", "plan", "tags"}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	wantTypes := map[string]field.TypeTag{
		"age":        field.TypeInt,
		"email":      field.TypeString,
		"joined":     field.TypeTime,
		"newsletter": field.TypeBool,
		"password":   field.TypeString,
		"plan":       field.TypeString,
		"tags":       field.TypeStrings,
	}
	if diff := cmp.Diff(wantTypes, types); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	// JSON defaults are narrowed toward the declared tag.
	if got := byName["age"].Initial; got != 18 {
		t.Fatalf("age initial = %v (%T)", got, got)
	}
	if got := byName["plan"].Initial; got != "free" {
		t.Fatalf("plan initial = %v", got)
	}
}

func TestDefinitions_DerivedValidators(t *testing.T) {
	defs, err := Definitions(context.Background(), []byte(contractDoc), "Signup", Options{})
	if err != nil {
		t.Fatalf("Definitions: %v", err)
	}
	byName := make(map[string][]validation.Validator, len(defs))
	for _, def := range defs {
		byName[def.Name] = def.Validators
	}
	ctx := validation.Context{}

	// required + format email
	if msg := validation.RunList(byName["email"], "", ctx); msg == "" {
		t.Fatal("email must be required")
	}
	if msg := validation.RunList(byName["email"], "not-an-email", ctx); msg == "" {
		t.Fatal("email format constraint missing")
	}
	if msg := validation.RunList(byName["email"], "a@b.com", ctx); msg != "" {
		t.Fatalf("valid email rejected: %q", msg)
	}

	// minLength/maxLength
	if msg := validation.RunList(byName["password"], "short", ctx); msg == "" {
		t.Fatal("password minLength constraint missing")
	}
	if msg := validation.RunList(byName["password"], strings.Repeat("x", 65), ctx); msg == "" {
		t.Fatal("password maxLength constraint missing")
	}

	// minimum/maximum
	if msg := validation.RunList(byName["age"], 12, ctx); msg == "" {
		t.Fatal("age minimum constraint missing")
	}
	if msg := validation.RunList(byName["age"], 200, ctx); msg == "" {
		t.Fatal("age maximum constraint missing")
	}
	if msg := validation.RunList(byName["age"], 30, ctx); msg != "" {
		t.Fatalf("valid age rejected: %q", msg)
	}

	// enum
	if msg := validation.RunList(byName["plan"], "platinum", ctx); msg == "" {
		t.Fatal("plan enum constraint missing")
	}
	if msg := validation.RunList(byName["plan"], "pro", ctx); msg != "" {
		t.Fatalf("valid plan rejected: %q", msg)
	}

	// optional properties carry no required rule
	if msg := validation.RunList(byName["newsletter"], nil, ctx); msg != "" {
		t.Fatalf("optional property rejected empty value: %q", msg)
	}
}

func TestDefinitions_Failures(t *testing.T) {
	ctx := context.Background()

	if _, err := Definitions(ctx, nil, "Signup", Options{}); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, err := Definitions(ctx, []byte(contractDoc), "Missing", Options{}); err == nil {
		t.Fatal("expected error for unknown schema")
	}
	if _, err := Definitions(ctx, []byte(contractDoc), "Empty", Options{}); err == nil {
		t.Fatal("expected error for schema without properties")
	}
	if _, err := Definitions(ctx, []byte("openapi: 3.0.3\ninfo:\n  title: x\n  version: 1.0.0\npaths: {}"), "Signup", Options{}); err == nil {
		t.Fatal("expected error for document without schemas")
	}
}
