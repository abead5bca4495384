package net

import (
	"fmt"

	"github.com/lcx/clusterlink/schema"
)

// MessageKind distinguishes correlated requests from one-way events.
type MessageKind int

const (
	// KindRequest indicates a request message that expects a response.
	KindRequest MessageKind = iota + 1
	// KindEvent indicates a one-way message that is never answered.
	KindEvent
)

// ForwardTarget names the convention-based forwarder a target link falls
// back to when no explicit handler is attached (§4.5, §4.6).
type ForwardTarget string

const (
	ForwardNone       ForwardTarget = ""
	ForwardInstance   ForwardTarget = "instance"
	ForwardController ForwardTarget = "controller"
)

// BroadcastTarget is only ever "instance" today; it exists as its own type
// so a future fan-out target doesn't require touching every call site that
// currently compares against a bare string.
type BroadcastTarget string

const (
	BroadcastNone     BroadcastTarget = ""
	BroadcastInstance BroadcastTarget = "instance"
)

// Descriptor is the immutable catalog entry for one message type. It is
// built once by the catalog package at process start and never mutated
// afterward; the invariants below are checked once, at construction, so a
// malformed catalog entry fails loudly at startup rather than silently at
// dispatch time.
type Descriptor struct {
	Type  string
	Kind  MessageKind
	Links map[LinkSpec]bool

	// Request-only.
	Permission     string // empty unless Kind == KindRequest
	ForwardTo      ForwardTarget
	RequestSchema  *schema.Validator
	ResponseSchema *schema.Validator

	// Event-only.
	BroadcastTo  BroadcastTarget
	EventSchema  *schema.Validator
}

// RequestSpec is the input struct catalog authors fill in; NewRequest builds the
// compiled Descriptor from it (and enforces §3's invariants).
type RequestSpec struct {
	Type           string
	Links          []LinkSpec
	Permission     string
	ForwardTo      ForwardTarget
	RequestSchema  *schema.Schema
	ResponseSchema *schema.Schema // success shape only; the error shape is added automatically
}

// EventSpec is the Event equivalent of RequestSpec.
type EventSpec struct {
	Type        string
	Links       []LinkSpec
	ForwardTo   ForwardTarget
	BroadcastTo BroadcastTarget
	EventSchema *schema.Schema
}

var errorShape = schema.Object(map[string]*schema.Schema{
	"seq":   {Type: "integer"},
	"error": {Type: "string"},
}, "seq", "error")

// NewRequest validates spec against the invariants in §3 and compiles its
// schemas, returning a Descriptor ready to be added to a Registry.
func NewRequest(spec RequestSpec) (*Descriptor, error) {
	if spec.Type == "" {
		return nil, fmt.Errorf("net: request descriptor has no type")
	}
	links := toLinkSet(spec.Links)
	hasControlController := links[ControlController]

	// Invariant 1: permission required iff control-controller is among the links.
	if hasControlController && spec.Permission == "" {
		return nil, fmt.Errorf("net: %s: permission required on control-controller requests", spec.Type)
	}
	if !hasControlController && spec.Permission != "" {
		return nil, fmt.Errorf("net: %s: permission forbidden outside control-controller", spec.Type)
	}
	if spec.ForwardTo != ForwardNone && spec.ForwardTo != ForwardInstance && spec.ForwardTo != ForwardController {
		return nil, fmt.Errorf("net: %s: invalid forwardTo %q", spec.Type, spec.ForwardTo)
	}

	reqSchema := spec.RequestSchema
	respSuccess := spec.ResponseSchema
	if spec.ForwardTo == ForwardInstance {
		// Invariant 2: instance_id is prepended to required properties.
		reqSchema = reqSchema.WithRequiredFirst("instance_id", &schema.Schema{Type: "integer"})
		respSuccess = respSuccess.Clone()
	}

	compiledReq, err := schema.Compile(spec.Type+"_request", reqSchema)
	if err != nil {
		return nil, err
	}
	response := &schema.Schema{AnyOf: []*schema.Schema{respSuccess, errorShape}}
	compiledResp, err := schema.Compile(spec.Type+"_response", response)
	if err != nil {
		return nil, err
	}

	return &Descriptor{
		Type:           spec.Type,
		Kind:           KindRequest,
		Links:          links,
		Permission:     spec.Permission,
		ForwardTo:      spec.ForwardTo,
		RequestSchema:  compiledReq,
		ResponseSchema: compiledResp,
	}, nil
}

// NewEvent validates spec against §3's invariants and compiles its schema.
func NewEvent(spec EventSpec) (*Descriptor, error) {
	if spec.Type == "" {
		return nil, fmt.Errorf("net: event descriptor has no type")
	}
	links := toLinkSet(spec.Links)

	if spec.BroadcastTo != BroadcastNone && spec.BroadcastTo != BroadcastInstance {
		return nil, fmt.Errorf("net: %s: invalid broadcastTo %q", spec.Type, spec.BroadcastTo)
	}
	if spec.ForwardTo != ForwardNone && spec.ForwardTo != ForwardInstance && spec.ForwardTo != ForwardController {
		return nil, fmt.Errorf("net: %s: invalid forwardTo %q", spec.Type, spec.ForwardTo)
	}

	evSchema := spec.EventSchema
	if spec.ForwardTo == ForwardInstance {
		evSchema = evSchema.WithRequiredFirst("instance_id", &schema.Schema{Type: "integer"})
	}

	compiled, err := schema.Compile(spec.Type+"_event", evSchema)
	if err != nil {
		return nil, err
	}

	return &Descriptor{
		Type:        spec.Type,
		Kind:        KindEvent,
		Links:       links,
		ForwardTo:   spec.ForwardTo,
		BroadcastTo: spec.BroadcastTo,
		EventSchema: compiled,
	}, nil
}

func toLinkSet(links []LinkSpec) map[LinkSpec]bool {
	set := make(map[LinkSpec]bool, len(links))
	for _, l := range links {
		set[l] = true
	}
	return set
}

// AcceptsOn reports whether the descriptor may flow on link l, in either
// direction (invariant 4): l itself is declared as a source, or its reverse
// is declared as a target.
func (d *Descriptor) AcceptsOn(l LinkSpec) bool {
	return d.Links[l] || d.Links[l.Reverse()]
}

// IsSourceOn reports whether l may originate this message (l is listed
// directly in Links).
func (d *Descriptor) IsSourceOn(l LinkSpec) bool { return d.Links[l] }

// IsTargetOn reports whether l must be prepared to receive this message
// (the reverse of l is listed in Links).
func (d *Descriptor) IsTargetOn(l LinkSpec) bool { return d.Links[l.Reverse()] }

// RequestType returns the wire type for a request envelope.
func (d *Descriptor) RequestType() string { return d.Type + "_request" }

// ResponseType returns the wire type for a response envelope.
func (d *Descriptor) ResponseType() string { return d.Type + "_response" }

// EventType returns the wire type for an event envelope.
func (d *Descriptor) EventType() string { return d.Type + "_event" }
