package net

import "fmt"

// forwardRoleFor maps a ForwardTarget/BroadcastTarget to the Role its
// downstream or fanout table is keyed under.
func forwardRoleFor(target ForwardTarget) (Role, error) {
	switch target {
	case ForwardInstance:
		return RoleInstance, nil
	case ForwardController:
		return RoleController, nil
	default:
		return "", fmt.Errorf("net: no forward target for %q", target)
	}
}

// resolveFanoutTarget picks the single fanout Link matching instance_id out
// of the set registered under role. Instance selection is explicit: each
// instance Link is tagged with its own instance_id via SetTargetID when it
// attaches, and forwarding looks it up by that tag rather than by position
// or convention.
func (l *Link) resolveFanoutTarget(role Role, data map[string]any) (*Link, error) {
	id, ok := data["instance_id"]
	if !ok {
		return nil, fmt.Errorf("net: forward to %s: missing instance_id", role)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, peer := range l.fanout[role] {
		if peer.targetID == id {
			return peer, nil
		}
	}
	return nil, fmt.Errorf("net: forward to %s: no link for instance_id %v", role, id)
}

func (l *Link) resolveForwardTarget(target ForwardTarget, data map[string]any) (*Link, error) {
	role, err := forwardRoleFor(target)
	if err != nil {
		return nil, err
	}
	if role == RoleInstance {
		return l.resolveFanoutTarget(role, data)
	}
	l.mu.Lock()
	peer, ok := l.downstream[role]
	l.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("net: forward to %s: no downstream link registered", role)
	}
	return peer, nil
}

// forwardIncomingRequest is the automatic fallback used when a request
// descriptor declares ForwardTo and the receiving Link has no locally
// attached handler for it (§4.6).
func (l *Link) forwardIncomingRequest(ctx *CallContext, desc *Descriptor, data map[string]any) (map[string]any, error) {
	return l.forwardRequest(ctx, desc, desc.ForwardTo, data)
}

// forwardRequest resolves target and relays data as a new outbound request
// of the same descriptor, returning whatever response comes back.
func (l *Link) forwardRequest(ctx *CallContext, desc *Descriptor, target ForwardTarget, data map[string]any) (map[string]any, error) {
	peer, err := l.resolveForwardTarget(target, data)
	if err != nil {
		return nil, err
	}
	return peer.SendRequest(ctx, desc, data)
}

// forwardIncomingEvent is the event equivalent of forwardIncomingRequest.
func (l *Link) forwardIncomingEvent(ctx *CallContext, desc *Descriptor, data map[string]any) error {
	peer, err := l.resolveForwardTarget(desc.ForwardTo, data)
	if err != nil {
		return err
	}
	return peer.SendEvent(desc, data)
}

// broadcastNextRole maps the role relaying a broadcast to the role its own
// fanout table is keyed under for the next hop (§4.6): a controller relays
// to the hosts it holds open, and each host, receiving that same broadcast,
// relays again to the instances it holds open. Any other source role is the
// final hop and has nothing further to relay to.
func broadcastNextRole(from Role) (Role, bool) {
	switch from {
	case RoleController:
		return RoleHost, true
	case RoleHost:
		return RoleInstance, true
	default:
		return "", false
	}
}

// broadcastEvent relays data as the named event to every Link fanned out
// under the next hop's role (§4.6, §4.7). A Link that is itself the final
// hop (an instance, or any link with no further fanout table) is a no-op,
// not an error.
func (l *Link) broadcastEvent(ctx *CallContext, desc *Descriptor, target BroadcastTarget, data map[string]any) error {
	if target != BroadcastInstance {
		return fmt.Errorf("net: unsupported broadcast target %q", target)
	}
	role, ok := broadcastNextRole(l.spec.Source)
	if !ok {
		return nil
	}

	l.mu.Lock()
	targets := append([]*Link(nil), l.fanout[role]...)
	l.mu.Unlock()

	var firstErr error
	for _, peer := range targets {
		if err := peer.SendEvent(desc, data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SetTargetID tags a Link with the identifier its parent uses to pick it out
// of a fanout set (an instance's numeric instance_id).
func (l *Link) SetTargetID(id any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.targetID = id
}
