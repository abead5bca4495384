package net

import "context"

// Request is a thin, named handle around a request Descriptor, giving
// catalog code the attach/send vocabulary from the message model directly
// instead of going through the Link and AttachDriver by bare string name.
type Request struct {
	desc *Descriptor
}

// WrapRequest returns a Request handle for desc. desc.Kind must be
// KindRequest.
func WrapRequest(desc *Descriptor) *Request { return &Request{desc: desc} }

// Descriptor returns the underlying catalog entry.
func (r *Request) Descriptor() *Descriptor { return r.desc }

// Attach registers h as this request's handler on driver.
func (r *Request) Attach(driver *AttachDriver, h RequestHandler) error {
	return driver.AttachRequest(r.desc.Type, h)
}

// MustAttach is Attach but panics on error.
func (r *Request) MustAttach(driver *AttachDriver, h RequestHandler) {
	driver.MustAttachRequest(r.desc.Type, h)
}

// Send originates this request on l and blocks for the response.
func (r *Request) Send(ctx context.Context, l *Link, data map[string]any) (map[string]any, error) {
	return l.SendRequest(ctx, r.desc, data)
}

// Event is the Event equivalent of Request.
type Event struct {
	desc *Descriptor
}

// WrapEvent returns an Event handle for desc. desc.Kind must be KindEvent.
func WrapEvent(desc *Descriptor) *Event { return &Event{desc: desc} }

// Descriptor returns the underlying catalog entry.
func (e *Event) Descriptor() *Descriptor { return e.desc }

// Attach registers h as this event's handler on driver.
func (e *Event) Attach(driver *AttachDriver, h EventHandler) error {
	return driver.AttachEvent(e.desc.Type, h)
}

// MustAttach is Attach but panics on error.
func (e *Event) MustAttach(driver *AttachDriver, h EventHandler) {
	driver.MustAttachEvent(e.desc.Type, h)
}

// Send originates this event on l. There is no response.
func (e *Event) Send(l *Link, data map[string]any) error {
	return l.SendEvent(e.desc, data)
}
