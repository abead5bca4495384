package catalog

import "github.com/lcx/clusterlink/net"

// Events groups every one-way message in the catalog: the ones pushed
// straight to a control client over control-controller, the ones that climb
// from an instance up through its host and controller via ForwardTo, and
// the three list-sync events a host broadcasts down to every instance it
// holds open (§6, §8 scenario 4).
type Events struct {
	DebugWSMessage        *net.Event
	AccountUpdate         *net.Event
	LogMessage            *net.Event
	HostUpdate            *net.Event
	InstanceInitialized   *net.Event
	InstanceStatusChanged *net.Event
	InstanceUpdate        *net.Event
	SaveListUpdate        *net.Event
	ModPackUpdate         *net.Event
	ModUpdate             *net.Event
	UserUpdate            *net.Event
	ControllerConnection  *net.Event
	SyncUserLists         *net.Event
	BanlistUpdate         *net.Event
	AdminlistUpdate       *net.Event
	WhitelistUpdate       *net.Event
	PlayerEvent           *net.Event
}

func buildEvents(r *net.Registry) Events {
	return Events{
		DebugWSMessage: ev(r, net.EventSpec{
			Type:  "debug_ws_message",
			Links: []net.LinkSpec{net.ControlController},
			EventSchema: schemaObj(map[string]*schemaT{
				"direction": enum("send", "recv"),
				"payload":   anyValue(),
			}, "direction", "payload"),
		}),
		AccountUpdate: ev(r, net.EventSpec{
			Type:        "account_update",
			Links:       []net.LinkSpec{net.ControlController},
			EventSchema: schemaObj(map[string]*schemaT{"user": userShape}, "user"),
		}),
		LogMessage: ev(r, net.EventSpec{
			Type:        "log_message",
			Links:       []net.LinkSpec{net.ControlController},
			EventSchema: logEntryShape,
		}),
		HostUpdate: ev(r, net.EventSpec{
			Type:        "host_update",
			Links:       []net.LinkSpec{net.ControlController},
			EventSchema: schemaObj(map[string]*schemaT{"host": hostShape}, "host"),
		}),
		InstanceInitialized: ev(r, net.EventSpec{
			Type:        "instance_initialized",
			Links:       instanceForwardLinks,
			ForwardTo:   net.ForwardController,
			EventSchema: empty(),
		}),
		InstanceStatusChanged: ev(r, net.EventSpec{
			Type:        "instance_status_changed",
			Links:       instanceForwardLinks,
			ForwardTo:   net.ForwardController,
			EventSchema: schemaObj(map[string]*schemaT{"status": str()}, "status"),
		}),
		InstanceUpdate: ev(r, net.EventSpec{
			Type:        "instance_update",
			Links:       instanceForwardLinks,
			ForwardTo:   net.ForwardController,
			EventSchema: schemaObj(map[string]*schemaT{"instance": instanceShape}, "instance"),
		}),
		SaveListUpdate: ev(r, net.EventSpec{
			Type:        "save_list_update",
			Links:       instanceForwardLinks,
			ForwardTo:   net.ForwardController,
			EventSchema: schemaObj(map[string]*schemaT{"list": arrayOf(saveShape)}, "list"),
		}),
		ModPackUpdate: ev(r, net.EventSpec{
			Type:        "mod_pack_update",
			Links:       []net.LinkSpec{net.ControlController},
			EventSchema: schemaObj(map[string]*schemaT{"pack": modPackShape}, "pack"),
		}),
		ModUpdate: ev(r, net.EventSpec{
			Type:        "mod_update",
			Links:       []net.LinkSpec{net.ControlController},
			EventSchema: schemaObj(map[string]*schemaT{"mod": modShape}, "mod"),
		}),
		UserUpdate: ev(r, net.EventSpec{
			Type:        "user_update",
			Links:       []net.LinkSpec{net.ControlController},
			EventSchema: schemaObj(map[string]*schemaT{"user": userShape}, "user"),
		}),
		ControllerConnection: ev(r, net.EventSpec{
			Type:        "controller_connection_event",
			Links:       []net.LinkSpec{net.ControlController},
			EventSchema: schemaObj(map[string]*schemaT{"connected": boolean()}, "connected"),
		}),
		SyncUserLists: ev(r, net.EventSpec{
			Type:        "sync_user_lists",
			Links:       []net.LinkSpec{net.ControlController},
			EventSchema: empty(),
		}),
		// The three list-sync events are pushed by a host to every instance
		// it currently holds open, so instances always see the same
		// ban/admin/whitelist state the controller does.
		BanlistUpdate: ev(r, net.EventSpec{
			Type:        "banlist_update",
			Links:       instanceForwardLinks,
			BroadcastTo: net.BroadcastInstance,
			EventSchema: schemaObj(map[string]*schemaT{"list": arrayOf(str())}, "list"),
		}),
		AdminlistUpdate: ev(r, net.EventSpec{
			Type:        "adminlist_update",
			Links:       instanceForwardLinks,
			BroadcastTo: net.BroadcastInstance,
			EventSchema: schemaObj(map[string]*schemaT{"list": arrayOf(str())}, "list"),
		}),
		WhitelistUpdate: ev(r, net.EventSpec{
			Type:        "whitelist_update",
			Links:       instanceForwardLinks,
			BroadcastTo: net.BroadcastInstance,
			EventSchema: schemaObj(map[string]*schemaT{"list": arrayOf(str())}, "list"),
		}),
		PlayerEvent: ev(r, net.EventSpec{
			Type:      "player_event",
			Links:     instanceForwardLinks,
			ForwardTo: net.ForwardController,
			EventSchema: schemaObj(map[string]*schemaT{
				"kind":   enum("join", "leave", "chat"),
				"player": str(),
			}, "kind", "player"),
		}),
	}
}
