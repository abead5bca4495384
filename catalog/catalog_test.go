package catalog

import (
	"testing"

	"github.com/lcx/clusterlink/net"
)

func TestBuildDoesNotPanic(t *testing.T) {
	c := Build()
	if c.Registry == nil {
		t.Fatal("Build returned a catalog with no registry")
	}
	if len(c.Registry.All()) == 0 {
		t.Fatal("Build registered no descriptors")
	}
}

// TestPermissionRequiredIffControlController exercises invariant 1 across
// the whole catalog: every descriptor that can originate on control-controller
// carries a permission string, and nothing outside control-controller does.
func TestPermissionRequiredIffControlController(t *testing.T) {
	c := Build()
	for _, d := range c.Registry.All() {
		if d.Kind != net.KindRequest {
			continue
		}
		hasCC := d.IsSourceOn(net.ControlController)
		if hasCC && d.Permission == "" {
			t.Errorf("%s: sits on control-controller but has no permission", d.Type)
		}
		if !hasCC && d.Permission != "" {
			t.Errorf("%s: has permission %q but does not sit on control-controller", d.Type, d.Permission)
		}
	}
}

// TestForwardInstanceRequiresInstanceForwardLinks checks that every request
// forwarded to an instance is declared on all three hops of the forwarding
// chain, matching how a controller actually routes it down through a host.
func TestForwardInstanceRequiresInstanceForwardLinks(t *testing.T) {
	c := Build()
	for _, d := range c.Registry.All() {
		if d.ForwardTo != net.ForwardInstance {
			continue
		}
		for _, l := range instanceForwardLinks {
			if !d.IsSourceOn(l) {
				t.Errorf("%s: forwards to instance but is not declared on %s", d.Type, l)
			}
		}
	}
}

// TestBroadcastOnlyOnEvents confirms invariant 3: broadcastTo only appears
// on events, and only ever targets "instance".
func TestBroadcastOnlyOnEvents(t *testing.T) {
	c := Build()
	for _, d := range c.Registry.All() {
		if d.BroadcastTo == net.BroadcastNone {
			continue
		}
		if d.Kind != net.KindEvent {
			t.Errorf("%s: broadcastTo set on a non-event descriptor", d.Type)
		}
		if d.BroadcastTo != net.BroadcastInstance {
			t.Errorf("%s: unexpected broadcastTo %q", d.Type, d.BroadcastTo)
		}
	}
}

// TestListSyncEventsBroadcastToInstance pins down which three events carry
// the broadcast-to-instance fan-out: the ban, admin and whitelist syncs a
// host pushes to every instance it holds open.
func TestListSyncEventsBroadcastToInstance(t *testing.T) {
	c := Build()
	want := map[string]*net.Event{
		"banlist_update":   c.Events.BanlistUpdate,
		"adminlist_update": c.Events.AdminlistUpdate,
		"whitelist_update": c.Events.WhitelistUpdate,
	}
	for name, e := range want {
		if e == nil {
			t.Fatalf("%s: not registered", name)
		}
		d := e.Descriptor()
		if d.BroadcastTo != net.BroadcastInstance {
			t.Errorf("%s: expected broadcastTo=instance, got %q", name, d.BroadcastTo)
		}
	}
	// sync_user_lists itself is control-facing only, not a broadcast.
	if c.Events.SyncUserLists.Descriptor().BroadcastTo != net.BroadcastNone {
		t.Error("sync_user_lists should not broadcast to instance")
	}
}

func TestSaveListAndPlayerEventsForwardToController(t *testing.T) {
	c := Build()
	for name, e := range map[string]*net.Event{
		"save_list_update": c.Events.SaveListUpdate,
		"player_event":     c.Events.PlayerEvent,
	} {
		if e.Descriptor().ForwardTo != net.ForwardController {
			t.Errorf("%s: expected forwardTo=controller", name)
		}
	}
}

func TestNoDuplicateMessageTypesAcrossCategories(t *testing.T) {
	c := Build()
	seen := make(map[string]bool)
	for _, d := range c.Registry.All() {
		if seen[d.Type] {
			t.Fatalf("duplicate message type %q", d.Type)
		}
		seen[d.Type] = true
	}
}
