package net

// Delivery carries one inbound envelope through a Link's filter chain
// before it reaches schema validation and dispatch. It is the Link-level
// analogue of the teacher dispatcher's per-package delivery value.
type Delivery struct {
	Link     LinkSpec
	Envelope Envelope

	// respond sends a response envelope back on the same link the request
	// arrived on. It is nil for events, which never get a response.
	respond func(data map[string]any) error
}

// Respond sends a response back to the peer that sent this delivery's
// request, if it has one. Filters that short-circuit a request (permission
// denial, rate limiting) call this to answer immediately without invoking
// the Link's own dispatch.
func (d *Delivery) Respond(data map[string]any) error {
	if d.respond == nil {
		return nil
	}
	return d.respond(data)
}

// FilterHandleFunc is the next step in a filter chain: either the next
// filter's continuation, or the Link's own dispatch once the chain is
// exhausted.
type FilterHandleFunc func(d *Delivery) error

// Filter is one link in the inbound processing pipeline. It may inspect or
// reject d, or call f to continue the chain.
type Filter func(d *Delivery, f FilterHandleFunc) error

// FilterChain runs a delivery through each Filter in order before handing
// it to the terminal handler. Like the teacher's dispatcher chain, it is
// built with straightforward recursion: each filter's continuation is the
// rest of the chain.
type FilterChain []Filter

// Handle runs d through the full chain, finally invoking f if every filter
// lets it through.
func (fc FilterChain) Handle(d *Delivery, f FilterHandleFunc) error {
	if len(fc) == 0 {
		return f(d)
	}
	return fc[0](d, func(d *Delivery) error {
		return fc[1:].Handle(d, f)
	})
}

// DeniedTypeFilter blocks configured message types outright: a request is
// answered immediately with a permission-denied response without reaching
// the Link's dispatch or any attached handler; an event is silently
// dropped. It is populated by a link's configuration and may be updated at
// runtime (e.g. to quarantine a message type mid-incident).
type DeniedTypeFilter struct {
	denied map[string]bool
}

// NewDeniedTypeFilter builds a filter that blocks the given wire types
// (e.g. "ping_request"), matched against Envelope.Type.
func NewDeniedTypeFilter(types ...string) *DeniedTypeFilter {
	f := &DeniedTypeFilter{denied: make(map[string]bool, len(types))}
	f.Reload(types)
	return f
}

// Reload replaces the set of blocked message types.
func (f *DeniedTypeFilter) Reload(types []string) {
	denied := make(map[string]bool, len(types))
	for _, t := range types {
		denied[t] = true
	}
	f.denied = denied
}

// Handle implements Filter.
func (f *DeniedTypeFilter) Handle(d *Delivery, next FilterHandleFunc) error {
	if !f.denied[d.Envelope.Type] {
		return next(d)
	}
	if d.respond != nil {
		return d.Respond(map[string]any{"error": "message type denied on this link"})
	}
	return nil
}
