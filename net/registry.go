package net

import "fmt"

// Registry is the process-wide, read-only-after-init catalog of message
// descriptors (§4.2). It is built once at startup by the catalog package and
// shared freely across every Link; nothing ever mutates it after Build
// returns, which is what lets Links dispatch against it without locking.
type Registry struct {
	byType map[string]*Descriptor
	order  []string // insertion order, so the attach driver iterates deterministically
}

// NewRegistry returns an empty Registry ready for Register calls.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]*Descriptor)}
}

// Register adds d to the registry. A duplicate Type is a programming error.
func (r *Registry) Register(d *Descriptor) error {
	if _, exists := r.byType[d.Type]; exists {
		return fmt.Errorf("net: duplicate message type %q", d.Type)
	}
	r.byType[d.Type] = d
	r.order = append(r.order, d.Type)
	return nil
}

// MustRegister is like Register but panics on error, for use in catalog
// package-init blocks where a duplicate name is always a coding mistake.
func (r *Registry) MustRegister(d *Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Get looks up a descriptor by its bare name (without the _request/_event
// suffix).
func (r *Registry) Get(name string) (*Descriptor, bool) {
	d, ok := r.byType[name]
	return d, ok
}

// All returns every descriptor in registration order. The attach driver
// relies on this order being deterministic across runs.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byType[name])
	}
	return out
}

// byWireType resolves a descriptor and its message kind from a full wire
// type such as "ping_request" or "host_update_event".
func (r *Registry) byWireType(wireType string) (*Descriptor, string, bool) {
	for _, suffix := range []string{"_request", "_response", "_event"} {
		if n := len(wireType) - len(suffix); n > 0 && wireType[n:] == suffix {
			name := wireType[:n]
			d, ok := r.byType[name]
			return d, suffix, ok
		}
	}
	return nil, "", false
}
