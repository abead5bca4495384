// Package schema compiles declarative payload descriptions into validators.
//
// A Schema is authored as a Go struct literal rather than a raw JSON document,
// matching the way message descriptors in the catalog package declare their
// request, response and event shapes. Compile converts it to a JSON Schema
// (draft-07 subset) document and hands it to the jsonschema compiler, so the
// actual structural matching is delegated to a real implementation instead of
// a hand-rolled one.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// Schema is a declarative, draft-07 subset schema. Only the keywords the
// catalog actually needs are exposed: type, enum, const, properties,
// required, additionalProperties, items, anyOf and additionalItems.
type Schema struct {
	Type                 string             `json:"type,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Const                any                `json:"const,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	AnyOf                []*Schema          `json:"anyOf,omitempty"`
	AdditionalItems      *bool              `json:"additionalItems,omitempty"`
}

// Bool is a convenience helper for the *bool fields above.
func Bool(b bool) *bool { return &b }

// Object is shorthand for a `type: object` schema with the given properties
// and required list.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// Clone returns a deep copy of the schema, so callers can derive a variant
// (e.g. prepending a required property) without mutating a shared catalog
// literal.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := *s
	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = v.Clone()
		}
	}
	if s.Required != nil {
		out.Required = append([]string(nil), s.Required...)
	}
	if s.AnyOf != nil {
		out.AnyOf = make([]*Schema, len(s.AnyOf))
		for i, v := range s.AnyOf {
			out.AnyOf[i] = v.Clone()
		}
	}
	if s.Items != nil {
		out.Items = s.Items.Clone()
	}
	return &out
}

// WithRequiredFirst returns a clone with name prepended to the required list
// and added as a property, used by descriptors whose forwardTo is "instance"
// (invariant 2: instance_id is required and sorts first).
func (s *Schema) WithRequiredFirst(name string, prop *Schema) *Schema {
	c := s.Clone()
	if c.Properties == nil {
		c.Properties = map[string]*Schema{}
	}
	c.Properties[name] = prop
	c.Required = append([]string{name}, c.Required...)
	return c
}

// FieldError is a single structural validation failure.
type FieldError struct {
	Path   string
	Reason string
}

// ValidationError collects every FieldError produced by a failed Validate
// call.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "schema: validation failed"
	}
	return fmt.Sprintf("schema: %s: %s", e.Errors[0].Path, e.Errors[0].Reason)
}

// Validator is a compiled Schema, ready to validate arbitrary payloads.
type Validator struct {
	name     string
	compiled *jschema.Schema
}

// Compile eagerly compiles s into a Validator. name is used only to build a
// unique internal resource URI and in error messages; it has no bearing on
// wire behavior.
func Compile(name string, s *Schema) (*Validator, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal %s: %w", name, err)
	}

	uri := fmt.Sprintf("urn:clusterlink:schema:%s", name)
	compiler := jschema.NewCompiler()
	doc, err := jschema.UnmarshalJSON(bytesReader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema: decode %s: %w", name, err)
	}
	if err := compiler.AddResource(uri, doc); err != nil {
		return nil, fmt.Errorf("schema: add resource %s: %w", name, err)
	}
	compiled, err := compiler.Compile(uri)
	if err != nil {
		return nil, fmt.Errorf("schema: compile %s: %w", name, err)
	}

	return &Validator{name: name, compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error. Used at package-init time
// for the catalog, where a bad schema is a programming error that must fail
// loudly and immediately.
func MustCompile(name string, s *Schema) *Validator {
	v, err := Compile(name, s)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks data (anything JSON-marshalable, typically a
// map[string]any) against the compiled schema. On failure it returns a
// *ValidationError carrying one FieldError per structural violation.
func (v *Validator) Validate(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Path: "", Reason: "not json-marshalable: " + err.Error()}}}
	}

	inst, err := jschema.UnmarshalJSON(bytesReader(raw))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Path: "", Reason: "not a json value: " + err.Error()}}}
	}

	if err := v.compiled.Validate(inst); err != nil {
		ve, ok := err.(*jschema.ValidationError)
		if !ok {
			return &ValidationError{Errors: []FieldError{{Path: "", Reason: err.Error()}}}
		}
		return &ValidationError{Errors: flatten(ve)}
	}
	return nil
}

// flatten walks a jsonschema.ValidationError's cause tree into a flat list
// of leaf {path, reason} pairs, which is what dispatch logs and what the
// caller sees.
func flatten(ve *jschema.ValidationError) []FieldError {
	if len(ve.Causes) == 0 {
		path := "$"
		if len(ve.InstanceLocation) > 0 {
			path = "$/" + joinPath(ve.InstanceLocation)
		}
		return []FieldError{{Path: path, Reason: ve.Error()}}
	}
	var out []FieldError
	for _, cause := range ve.Causes {
		out = append(out, flatten(cause)...)
	}
	return out
}

func joinPath(segments []string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}
