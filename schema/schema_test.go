package schema

import "testing"

func TestCompileAndValidate(t *testing.T) {
	s := Object(map[string]*Schema{
		"name": {Type: "string"},
		"age":  {Type: "integer"},
	}, "name")

	v, err := Compile("person", s)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if err := v.Validate(map[string]any{"name": "a", "age": 3}); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	err = v.Validate(map[string]any{"age": "not a number"})
	if err == nil {
		t.Fatal("expected validation error for missing name and wrong type")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Errors) == 0 {
		t.Fatal("expected at least one field error")
	}
}

func TestWithRequiredFirst(t *testing.T) {
	base := Object(map[string]*Schema{
		"command": {Type: "string"},
	}, "command")

	withID := base.WithRequiredFirst("instance_id", &Schema{Type: "integer"})
	if withID.Required[0] != "instance_id" {
		t.Fatalf("expected instance_id to be the first required property, got %v", withID.Required)
	}
	if _, ok := base.Properties["instance_id"]; ok {
		t.Fatal("Clone must not mutate the original schema")
	}

	v := MustCompile("with-id", withID)
	if err := v.Validate(map[string]any{"command": "x"}); err == nil {
		t.Fatal("expected validation error: instance_id missing")
	}
	if err := v.Validate(map[string]any{"command": "x", "instance_id": 7}); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestAnyOfResponseShape(t *testing.T) {
	success := Object(map[string]*Schema{
		"seq":  {Type: "integer"},
		"list": {Type: "array", Items: &Schema{Type: "string"}},
	}, "seq", "list")
	failure := Object(map[string]*Schema{
		"seq":   {Type: "integer"},
		"error": {Type: "string"},
	}, "seq", "error")
	response := &Schema{AnyOf: []*Schema{success, failure}}

	v := MustCompile("response", response)
	if err := v.Validate(map[string]any{"seq": 1, "list": []string{"a"}}); err != nil {
		t.Fatalf("expected success shape to validate, got %v", err)
	}
	if err := v.Validate(map[string]any{"seq": 1, "error": "denied"}); err != nil {
		t.Fatalf("expected error shape to validate, got %v", err)
	}
	if err := v.Validate(map[string]any{"seq": 1}); err == nil {
		t.Fatal("expected neither shape to match")
	}
}
