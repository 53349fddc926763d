// Package openapi derives field definitions from an OpenAPI 3 document so a
// form catalogue can be generated straight from an API contract: property
// types map to type tags, required/format/bounds constraints map to builtin
// validators.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/validators"
)

// Options configures definition derivation.
type Options struct {
	// ResolveReferences allows the loader to follow external $ref targets.
	ResolveReferences bool
}

// Definitions loads an OpenAPI document and derives catalogue-ready field
// definitions from the named component schema. Properties are emitted in
// name order so catalogues built from the same contract are deterministic.
func Definitions(ctx context.Context, raw []byte, schemaName string, opts Options) ([]field.Definition, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, errors.New("openapi: document declares no component schemas")
	}
	ref, ok := spec.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: schema %q not found", schemaName)
	}

	return fromSchema(ref.Value)
}

func fromSchema(schema *openapi3.Schema) ([]field.Definition, error) {
	if len(schema.Properties) == 0 {
		return nil, errors.New("openapi: schema declares no properties")
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]field.Definition, 0, len(names))
	for _, name := range names {
		prop := schema.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		def, err := fieldFromProperty(name, prop.Value, required[name])
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func fieldFromProperty(name string, prop *openapi3.Schema, required bool) (field.Definition, error) {
	tag := tagForProperty(prop)

	list, err := validatorsForProperty(name, prop, required)
	if err != nil {
		return field.Definition{}, err
	}

	return field.Definition{
		Name:       name,
		Type:       tag,
		Initial:    initialForProperty(tag, prop.Default),
		Validators: list,
	}, nil
}

func tagForProperty(prop *openapi3.Schema) field.TypeTag {
	switch firstType(prop.Type) {
	case "string":
		if prop.Format == "date" || prop.Format == "date-time" {
			return field.TypeTime
		}
		return field.TypeString
	case "integer":
		return field.TypeInt
	case "number":
		return field.TypeFloat
	case "boolean":
		return field.TypeBool
	case "array":
		if prop.Items != nil && prop.Items.Value != nil && firstType(prop.Items.Value.Type) == "string" {
			return field.TypeStrings
		}
		return field.TypeAny
	default:
		return field.TypeAny
	}
}

func validatorsForProperty(name string, prop *openapi3.Schema, required bool) ([]validation.Validator, error) {
	var list []validation.Validator
	if required {
		list = append(list, validators.Required())
	}
	if prop.Format == "email" {
		list = append(list, validators.Email())
	}
	if prop.MinLength != 0 {
		list = append(list, validators.MinLength(int(prop.MinLength)))
	}
	if prop.MaxLength != nil {
		list = append(list, validators.MaxLength(int(*prop.MaxLength)))
	}
	if prop.Min != nil {
		list = append(list, validators.Min(*prop.Min))
	}
	if prop.Max != nil {
		list = append(list, validators.Max(*prop.Max))
	}
	if prop.Pattern != "" {
		re, err := regexp.Compile(prop.Pattern)
		if err != nil {
			return nil, fmt.Errorf("openapi: property %q: invalid pattern: %w", name, err)
		}
		list = append(list, validators.Pattern(re))
	}
	if len(prop.Enum) > 0 {
		options := make([]string, 0, len(prop.Enum))
		for _, entry := range prop.Enum {
			if s, ok := entry.(string); ok {
				options = append(options, s)
			}
		}
		if len(options) == len(prop.Enum) {
			list = append(list, validators.OneOf(options...))
		}
	}
	return list, nil
}

// initialForProperty aligns JSON-decoded defaults with the declared tag:
// numbers arrive as float64 and are narrowed for integer fields.
func initialForProperty(tag field.TypeTag, value any) any {
	if value == nil {
		return nil
	}
	switch tag {
	case field.TypeInt:
		if f, ok := value.(float64); ok {
			return int(f)
		}
	case field.TypeStrings:
		if items, ok := value.([]any); ok {
			out := make([]string, 0, len(items))
			for _, item := range items {
				s, ok := item.(string)
				if !ok {
					return value
				}
				out = append(out, s)
			}
			return out
		}
	}
	return value
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
