package net

import (
	"context"
	"fmt"
	"sync"

	"github.com/lcx/clusterlink/log"
)

// PermissionChecker authorizes a request carrying a non-empty
// Descriptor.Permission. It is supplied by the role wiring the Link
// together (typically backed by the users/roles catalog), not by net
// itself, which knows only that a permission string is required.
type PermissionChecker interface {
	Check(ctx *CallContext, permission string) error
}

// Link is one endpoint of a physical link: the pairing of a Connector, the
// shared Registry it validates traffic against, and the AttachDriver that
// answers its inbound requests and events (§4). A process holds one Link
// per physical connection it participates in; the controller, for example,
// holds a control-controller Link per connected control client and a
// controller-host Link per connected host.
type Link struct {
	spec      LinkSpec
	connector Connector
	registry  *Registry
	driver    *AttachDriver
	filters   FilterChain
	checker   PermissionChecker

	onDispatch func(descType string, kind MessageKind)

	mu      sync.Mutex
	pending map[uint64]*awaiter
	closed  bool

	// downstream and fanout are the explicit collections a CallContext's
	// Forward/Broadcast calls resolve against (§4.6, §4.7). Nothing here is
	// discovered by convention: a role wires these up itself as its peer
	// links connect and disconnect.
	downstream map[Role]*Link
	fanout     map[Role][]*Link
	targetID   any
}

// LinkOption configures optional Link behavior.
type LinkOption func(*Link)

// WithFilters installs an inbound filter chain, run before schema
// validation and dispatch on every envelope.
func WithFilters(filters ...Filter) LinkOption {
	return func(l *Link) { l.filters = filters }
}

// WithPermissionChecker installs the authorizer for descriptors whose
// Permission is non-empty.
func WithPermissionChecker(c PermissionChecker) LinkOption {
	return func(l *Link) { l.checker = c }
}

// WithDispatchHook installs a callback invoked after every inbound envelope
// handed to a locally attached handler, whether or not the handler returned
// an error, for metrics instrumentation. Envelopes relayed through ForwardTo
// without a local handler do not invoke it.
func WithDispatchHook(fn func(descType string, kind MessageKind)) LinkOption {
	return func(l *Link) { l.onDispatch = fn }
}

// NewLink builds a Link for spec over connector, validated against
// registry and driver. It fails if driver is missing a handler for any
// message type spec must locally answer (§4.5).
func NewLink(spec LinkSpec, connector Connector, registry *Registry, driver *AttachDriver, opts ...LinkOption) (*Link, error) {
	if !spec.IsPhysical() {
		return nil, fmt.Errorf("net: %s is not a physical link", spec)
	}
	if err := driver.Verify(spec); err != nil {
		return nil, err
	}
	l := &Link{
		spec:       spec,
		connector:  connector,
		registry:   registry,
		driver:     driver,
		pending:    make(map[uint64]*awaiter),
		downstream: make(map[Role]*Link),
		fanout:     make(map[Role][]*Link),
	}
	for _, opt := range opts {
		opt(l)
	}
	connector.SetReceiver(l.onEnvelope)
	return l, nil
}

// Spec returns the LinkSpec this Link was constructed for.
func (l *Link) Spec() LinkSpec { return l.spec }

// AddDownstream registers peer as the single downstream Link reachable
// under role (e.g. a host's Link to the controller, registered under
// RoleController, so requests it must forward upward know where to go).
func (l *Link) AddDownstream(role Role, peer *Link) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.downstream[role] = peer
}

// AddFanoutTarget adds peer to the set of Links reachable under role for
// broadcast purposes (e.g. a host registers each connected instance Link
// under RoleInstance as instances attach).
func (l *Link) AddFanoutTarget(role Role, peer *Link) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fanout[role] = append(l.fanout[role], peer)
}

// RemoveFanoutTarget drops peer from the fanout set under role, called
// when an instance or host link disconnects.
func (l *Link) RemoveFanoutTarget(role Role, peer *Link) {
	l.mu.Lock()
	defer l.mu.Unlock()
	targets := l.fanout[role]
	for i, t := range targets {
		if t == peer {
			l.fanout[role] = append(targets[:i], targets[i+1:]...)
			return
		}
	}
}

// Close tears down the underlying Connector and fails every pending
// awaiter with a DisconnectionError (§7: reconnection default is to fail
// rather than resume).
func (l *Link) Close() error {
	l.mu.Lock()
	l.closed = true
	pending := l.pending
	l.pending = make(map[uint64]*awaiter)
	l.mu.Unlock()

	for _, aw := range pending {
		aw.fail(&DisconnectionError{Link: l.spec})
	}
	return l.connector.Close()
}

// onEnvelope is the Connector receiver callback; it is the single entry
// point for every inbound frame on this Link.
func (l *Link) onEnvelope(env Envelope) {
	desc, suffix, ok := l.registry.byWireType(env.Type)
	if !ok {
		log.Warn().Str("link", l.spec.String()).Str("type", env.Type).Msg("net: dropping envelope of unknown type")
		return
	}
	switch suffix {
	case "_response":
		l.resolvePending(desc, env)
	case "_request":
		l.handleRequest(desc, env)
	case "_event":
		l.handleEvent(desc, env)
	}
}

func (l *Link) callContext(env Envelope, desc *Descriptor) *CallContext {
	return &CallContext{
		Context: context.Background(),
		Link:    l.spec,
		Seq:     env.Seq,
		Type:    desc.Type,
		link:    l,
	}
}

func (l *Link) handleRequest(desc *Descriptor, env Envelope) {
	if !desc.IsTargetOn(l.spec) {
		return
	}
	if err := desc.RequestSchema.Validate(env.Data); err != nil {
		log.Warn().Str("link", l.spec.String()).Str("type", desc.Type).Err(err).Msg("net: request failed schema validation")
		l.sendResponse(desc, env, nil, NewRequestError("invalid request: %v", err))
		return
	}

	respond := func(data map[string]any) error {
		return l.sendResponseData(desc, env, data)
	}
	d := &Delivery{Link: l.spec, Envelope: env, respond: respond}

	terminal := func(d *Delivery) error {
		ctx := l.callContext(env, desc)

		// Enforcement only happens at the controller's control-controller
		// target side (§4.5, §6); every other link direction forwards a
		// permission-bearing request downstream untouched.
		if desc.Permission != "" && l.spec == ControllerControl {
			if l.checker == nil {
				return l.sendResponse(desc, env, nil, NewRequestError("permission check unavailable"))
			}
			if err := l.checker.Check(ctx, desc.Permission); err != nil {
				return l.sendResponse(desc, env, nil, NewRequestError("permission denied: %v", err))
			}
		}

		if h, ok := l.driver.requestHandler(desc.Type); ok {
			data, err := h(ctx, env.Data)
			if l.onDispatch != nil {
				l.onDispatch(desc.Type, desc.Kind)
			}
			return l.sendResponse(desc, env, data, err)
		}

		if desc.ForwardTo != ForwardNone {
			data, err := l.forwardIncomingRequest(ctx, desc, env.Data)
			return l.sendResponse(desc, env, data, err)
		}

		return l.sendResponse(desc, env, nil, NewRequestError("no handler for %s", desc.Type))
	}

	if err := l.filters.Handle(d, terminal); err != nil {
		log.Warn().Str("link", l.spec.String()).Str("type", desc.Type).Err(err).Msg("net: request filter chain failed")
	}
}

func (l *Link) handleEvent(desc *Descriptor, env Envelope) {
	if !desc.IsTargetOn(l.spec) {
		return
	}
	if err := desc.EventSchema.Validate(env.Data); err != nil {
		log.Warn().Str("link", l.spec.String()).Str("type", desc.Type).Err(err).Msg("net: event failed schema validation")
		return
	}

	d := &Delivery{Link: l.spec, Envelope: env}
	terminal := func(d *Delivery) error {
		ctx := l.callContext(env, desc)

		// A descriptor declaring BroadcastTo relays to the next hop's fanout
		// set before anything local happens with it, on every link the
		// broadcast passes through (§4.6): a controller relays to its hosts,
		// each host in turn relays the same event on to its instances, and
		// only then does local dispatch (if any) run.
		if desc.BroadcastTo != BroadcastNone {
			if err := l.broadcastEvent(ctx, desc, desc.BroadcastTo, env.Data); err != nil {
				log.Warn().Str("link", l.spec.String()).Str("type", desc.Type).Err(err).Msg("net: broadcast fan-out failed")
			}
		}

		if h, ok := l.driver.eventHandler(desc.Type); ok {
			err := h(ctx, env.Data)
			if l.onDispatch != nil {
				l.onDispatch(desc.Type, desc.Kind)
			}
			return err
		}
		if desc.ForwardTo != ForwardNone {
			return l.forwardIncomingEvent(ctx, desc, env.Data)
		}
		return nil
	}
	if err := l.filters.Handle(d, terminal); err != nil {
		log.Warn().Str("link", l.spec.String()).Str("type", desc.Type).Err(err).Msg("net: event filter chain failed")
	}
}

// sendResponse sends a success response if err is nil, or the RequestError
// message if err is one; any other error is logged here at Error level
// and reported to the peer as a generic failure, never
// leaking internal detail onto the wire (§7).
func (l *Link) sendResponse(desc *Descriptor, req Envelope, data map[string]any, err error) error {
	if err == nil {
		return l.sendResponseData(desc, req, data)
	}
	if re, ok := AsRequestError(err); ok {
		return l.sendResponseData(desc, req, map[string]any{"error": re.Message})
	}
	log.Error().Str("link", l.spec.String()).Str("type", desc.Type).Err(err).Msg("net: unexpected error handling request")
	return l.sendResponseData(desc, req, map[string]any{"error": "internal error"})
}

func (l *Link) sendResponseData(desc *Descriptor, req Envelope, data map[string]any) error {
	out := cloneData(data)
	if out == nil {
		out = make(map[string]any)
	}
	out["seq"] = req.Seq
	_, err := sendFramed(l.connector, desc.ResponseType(), out)
	return err
}
