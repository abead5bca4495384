package net

import (
	"context"
	"fmt"

	"github.com/lcx/clusterlink/log"
)

// CallContext is passed explicitly to every handler instead of relying on a
// receiver rebound at dispatch time (the teacher's actor model closes over
// `this`; a Link has no such single implicit receiver to rebind, since one
// Link serves every message type flowing on it). It carries the standard
// context.Context for cancellation/deadlines plus the addressing
// information a handler needs to call back into the Link (to forward, to
// check permission, to read the originating envelope's Seq).
type CallContext struct {
	context.Context

	// Link is the LinkSpec the message arrived on.
	Link LinkSpec
	// Seq is the Seq of the inbound envelope.
	Seq uint64
	// Type is the bare descriptor name (without _request/_event suffix).
	Type string

	link *Link
}

// Forward re-sends the current request to the resolved downstream target,
// returning its response. Handlers call this explicitly to implement
// ForwardTo-style routing rather than relying on convention.
func (c *CallContext) Forward(target ForwardTarget, data map[string]any) (map[string]any, error) {
	desc, ok := c.link.registry.Get(c.Type)
	if !ok {
		return nil, fmt.Errorf("net: forward %q: no such descriptor", c.Type)
	}
	return c.link.forwardRequest(c, desc, target, data)
}

// Broadcast re-sends the current event to every fanout target under
// target, explicitly enumerated from the Link's fanout table rather than
// discovered by convention.
func (c *CallContext) Broadcast(target BroadcastTarget, data map[string]any) error {
	desc, ok := c.link.registry.Get(c.Type)
	if !ok {
		return fmt.Errorf("net: broadcast %q: no such descriptor", c.Type)
	}
	return c.link.broadcastEvent(c, desc, target, data)
}

// RequestHandler answers a request arriving on a Link. It returns the
// success-shape payload or a *RequestError to be reported to the caller.
type RequestHandler func(ctx *CallContext, data map[string]any) (map[string]any, error)

// EventHandler processes a one-way event arriving on a Link.
type EventHandler func(ctx *CallContext, data map[string]any) error

// AttachDriver is the explicit registration table mapping a descriptor name
// to the function that handles it (§4.5). This replaces a reflective
// method-name convention: a message type with no attached handler and no
// ForwardTo fails loudly at Link construction instead of silently doing
// nothing.
type AttachDriver struct {
	registry *Registry
	requests map[string]RequestHandler
	events   map[string]EventHandler
}

// NewAttachDriver returns an empty driver bound to registry; Attach* calls
// are validated against it.
func NewAttachDriver(registry *Registry) *AttachDriver {
	return &AttachDriver{
		registry: registry,
		requests: make(map[string]RequestHandler),
		events:   make(map[string]EventHandler),
	}
}

// AttachRequest registers h as the handler for the request named msgType.
// msgType must already be registered in the driver's Registry as a request
// descriptor, and must not already have a handler.
func (d *AttachDriver) AttachRequest(msgType string, h RequestHandler) error {
	desc, ok := d.registry.Get(msgType)
	if !ok {
		return fmt.Errorf("net: attach request %q: no such descriptor", msgType)
	}
	if desc.Kind != KindRequest {
		return fmt.Errorf("net: attach request %q: descriptor is not a request", msgType)
	}
	if _, exists := d.requests[msgType]; exists {
		return fmt.Errorf("net: attach request %q: handler already attached", msgType)
	}
	d.requests[msgType] = h
	return nil
}

// MustAttachRequest is AttachRequest but panics on error, for use in
// package-init registration blocks: a missing or duplicate handler at
// startup is a programmer error, not a runtime condition to recover from.
func (d *AttachDriver) MustAttachRequest(msgType string, h RequestHandler) {
	if err := d.AttachRequest(msgType, h); err != nil {
		log.Fatal().Str("type", msgType).Err(err).Msg("net: failed to attach request handler")
	}
}

// AttachEvent registers h as the handler for the event named msgType.
func (d *AttachDriver) AttachEvent(msgType string, h EventHandler) error {
	desc, ok := d.registry.Get(msgType)
	if !ok {
		return fmt.Errorf("net: attach event %q: no such descriptor", msgType)
	}
	if desc.Kind != KindEvent {
		return fmt.Errorf("net: attach event %q: descriptor is not an event", msgType)
	}
	if _, exists := d.events[msgType]; exists {
		return fmt.Errorf("net: attach event %q: handler already attached", msgType)
	}
	d.events[msgType] = h
	return nil
}

// MustAttachEvent is AttachEvent but panics on error.
func (d *AttachDriver) MustAttachEvent(msgType string, h EventHandler) {
	if err := d.AttachEvent(msgType, h); err != nil {
		log.Fatal().Str("type", msgType).Err(err).Msg("net: failed to attach event handler")
	}
}

func (d *AttachDriver) requestHandler(name string) (RequestHandler, bool) {
	h, ok := d.requests[name]
	return h, ok
}

func (d *AttachDriver) eventHandler(name string) (EventHandler, bool) {
	h, ok := d.events[name]
	return h, ok
}

// Verify checks that every descriptor in the registry targeting l (i.e.
// where l is the descriptor's target link) either has an attached handler
// or a ForwardTo that will carry it elsewhere. Links call this once at
// startup so a missing handler fails fast instead of at first message.
func (d *AttachDriver) Verify(l LinkSpec) error {
	for _, desc := range d.registry.All() {
		if !desc.IsTargetOn(l) {
			continue
		}
		if desc.ForwardTo != ForwardNone {
			continue
		}
		switch desc.Kind {
		case KindRequest:
			if _, ok := d.requests[desc.Type]; !ok {
				return &MissingHandlerError{Link: l, MessageType: desc.Type, HandlerName: "request"}
			}
		case KindEvent:
			if _, ok := d.events[desc.Type]; !ok {
				return &MissingHandlerError{Link: l, MessageType: desc.Type, HandlerName: "event"}
			}
		}
	}
	return nil
}
