package net

import (
	"testing"

	"github.com/lcx/clusterlink/schema"
)

func TestAttachDriverRejectsUnknownType(t *testing.T) {
	d := NewAttachDriver(NewRegistry())
	if err := d.AttachRequest("nope", func(ctx *CallContext, data map[string]any) (map[string]any, error) {
		return nil, nil
	}); err == nil {
		t.Fatal("expected error attaching to an unregistered type")
	}
}

func TestAttachDriverRejectsKindMismatch(t *testing.T) {
	reg := NewRegistry()
	ev, err := NewEvent(EventSpec{
		Type:        "tick",
		Links:       []LinkSpec{HostInstance},
		EventSchema: schema.Object(nil),
	})
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	reg.MustRegister(ev)

	d := NewAttachDriver(reg)
	if err := d.AttachRequest("tick", func(ctx *CallContext, data map[string]any) (map[string]any, error) {
		return nil, nil
	}); err == nil {
		t.Fatal("expected error attaching a request handler to an event descriptor")
	}
}

func TestAttachDriverRejectsDuplicateAttach(t *testing.T) {
	reg := NewRegistry()
	req, err := NewRequest(RequestSpec{
		Type:           "ping",
		Links:          []LinkSpec{HostInstance},
		RequestSchema:  schema.Object(nil),
		ResponseSchema: schema.Object(nil),
	})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	reg.MustRegister(req)

	d := NewAttachDriver(reg)
	h := func(ctx *CallContext, data map[string]any) (map[string]any, error) { return nil, nil }
	if err := d.AttachRequest("ping", h); err != nil {
		t.Fatalf("first attach: %v", err)
	}
	if err := d.AttachRequest("ping", h); err == nil {
		t.Fatal("expected error on duplicate attach")
	}
}

func TestAttachDriverVerifyRequiresHandlerOrForward(t *testing.T) {
	reg := NewRegistry()
	req, err := NewRequest(RequestSpec{
		Type:           "ping",
		Links:          []LinkSpec{HostInstance},
		RequestSchema:  schema.Object(nil),
		ResponseSchema: schema.Object(nil),
	})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	reg.MustRegister(req)

	d := NewAttachDriver(reg)
	if err := d.Verify(InstanceHost); err == nil {
		t.Fatal("expected Verify to fail: instance is the target with no handler attached")
	}
	if err := d.Verify(HostInstance); err != nil {
		t.Fatalf("host only originates ping, Verify should pass: %v", err)
	}
}
