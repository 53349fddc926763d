// Package formdef loads field definitions from YAML or JSON documents, the
// fully dynamic entry point for catalogues that are configured rather than
// wired in code. Validator lists are declared as rule kinds mirroring the
// builtin library.
package formdef

import (
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/validators"
)

// Rule kinds accepted in a definition document.
const (
	RuleRequired     = "required"
	RuleEmail        = "email"
	RuleMin          = "min"
	RuleMax          = "max"
	RuleMinLength    = "minLength"
	RuleMaxLength    = "maxLength"
	RulePattern      = "pattern"
	RuleOneOf        = "oneOf"
	RuleMatches      = "matches"
	RuleRequiredWhen = "requiredWhen"
	RulePlainText    = "plainText"
)

type document struct {
	Fields []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name       string    `yaml:"name"`
	Type       string    `yaml:"type"`
	Initial    any       `yaml:"initial"`
	Validators []ruleDoc `yaml:"validators"`
}

type ruleDoc struct {
	Kind    string   `yaml:"kind"`
	Value   *float64 `yaml:"value"`
	Pattern string   `yaml:"pattern"`
	Field   string   `yaml:"field"`
	Equals  any      `yaml:"equals"`
	Options []string `yaml:"options"`
}

// Parse decodes a YAML (or JSON) definition document into catalogue-ready
// field definitions. Unknown types or rule kinds fail loading so
// misconfiguration surfaces early.
func Parse(data []byte) ([]field.Definition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("formdef: parse document: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("formdef: document defines no fields")
	}

	defs := make([]field.Definition, 0, len(doc.Fields))
	for idx, fd := range doc.Fields {
		name := strings.TrimSpace(fd.Name)
		if name == "" {
			return nil, fmt.Errorf("formdef: field %d has no name", idx)
		}

		tag, err := parseType(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("formdef: field %q: %w", name, err)
		}

		list, err := buildValidators(name, fd.Validators)
		if err != nil {
			return nil, err
		}

		defs = append(defs, field.Definition{
			Name:       name,
			Type:       tag,
			Initial:    normalizeInitial(tag, fd.Initial),
			Validators: list,
		})
	}
	return defs, nil
}

// LoadFS reads and parses one definition file from the supplied filesystem.
func LoadFS(fsys fs.FS, path string) ([]field.Definition, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return Parse(data)
}

func parseType(raw string) (field.TypeTag, error) {
	switch strings.TrimSpace(raw) {
	case "", "any":
		return field.TypeAny, nil
	case "string":
		return field.TypeString, nil
	case "integer", "int":
		return field.TypeInt, nil
	case "number", "float":
		return field.TypeFloat, nil
	case "boolean", "bool":
		return field.TypeBool, nil
	case "time":
		return field.TypeTime, nil
	case "strings":
		return field.TypeStrings, nil
	default:
		return "", fmt.Errorf("unknown type %q", raw)
	}
}

// normalizeInitial coerces YAML's decoding quirks toward the declared tag:
// integers become float64 for number fields, []any of strings becomes
// []string for strings fields.
func normalizeInitial(tag field.TypeTag, initial any) any {
	if initial == nil {
		return nil
	}
	switch tag {
	case field.TypeFloat:
		if n, ok := initial.(int); ok {
			return float64(n)
		}
	case field.TypeStrings:
		if items, ok := initial.([]any); ok {
			out := make([]string, 0, len(items))
			for _, item := range items {
				s, ok := item.(string)
				if !ok {
					return initial
				}
				out = append(out, s)
			}
			return out
		}
	}
	return initial
}

func buildValidators(fieldName string, rules []ruleDoc) ([]validation.Validator, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	out := make([]validation.Validator, 0, len(rules))
	for _, rule := range rules {
		v, err := buildValidator(rule)
		if err != nil {
			return nil, fmt.Errorf("formdef: field %q: %w", fieldName, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func buildValidator(rule ruleDoc) (validation.Validator, error) {
	switch rule.Kind {
	case RuleRequired:
		return validators.Required(), nil
	case RuleEmail:
		return validators.Email(), nil
	case RuleMin:
		if rule.Value == nil {
			return nil, fmt.Errorf("rule %q requires a value", rule.Kind)
		}
		return validators.Min(*rule.Value), nil
	case RuleMax:
		if rule.Value == nil {
			return nil, fmt.Errorf("rule %q requires a value", rule.Kind)
		}
		return validators.Max(*rule.Value), nil
	case RuleMinLength:
		if rule.Value == nil {
			return nil, fmt.Errorf("rule %q requires a value", rule.Kind)
		}
		return validators.MinLength(int(*rule.Value)), nil
	case RuleMaxLength:
		if rule.Value == nil {
			return nil, fmt.Errorf("rule %q requires a value", rule.Kind)
		}
		return validators.MaxLength(int(*rule.Value)), nil
	case RulePattern:
		expr := strings.TrimSpace(rule.Pattern)
		if expr == "" {
			return nil, fmt.Errorf("rule %q requires a pattern", rule.Kind)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Kind, err)
		}
		return validators.Pattern(re), nil
	case RuleOneOf:
		if len(rule.Options) == 0 {
			return nil, fmt.Errorf("rule %q requires options", rule.Kind)
		}
		return validators.OneOf(rule.Options...), nil
	case RuleMatches:
		target := strings.TrimSpace(rule.Field)
		if target == "" {
			return nil, fmt.Errorf("rule %q requires a field", rule.Kind)
		}
		return validators.MatchesField(target), nil
	case RuleRequiredWhen:
		target := strings.TrimSpace(rule.Field)
		if target == "" {
			return nil, fmt.Errorf("rule %q requires a field", rule.Kind)
		}
		return validators.RequiredWhen(target, rule.Equals), nil
	case RulePlainText:
		return validators.PlainText(), nil
	default:
		return nil, fmt.Errorf("unknown rule kind %q", rule.Kind)
	}
}
