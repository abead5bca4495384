package catalog

import "github.com/lcx/clusterlink/net"

// ConnectionControl groups the keepalive and graceful-shutdown requests
// that flow on every physical link regardless of what else the two ends
// are talking about.
type ConnectionControl struct {
	// Ping is a symmetric keepalive: either side of any link may send it,
	// and the peer echoes the nonce back.
	Ping *net.Request

	// PrepareDisconnect lets either side ask its peer to finish in-flight
	// work before the transport closes (§5: "after its response the peer
	// may close the transport").
	PrepareDisconnect *net.Request

	// PrepareControllerDisconnect is the controller-specific variant: only
	// the controller originates it, warning hosts and control clients that
	// it is about to go away (e.g. for a planned restart).
	PrepareControllerDisconnect *net.Request

	// DebugDumpWS is an operator debugging aid: dump the controller's live
	// link state to the requesting control client.
	DebugDumpWS *net.Request
}

var allPhysicalLinks = []net.LinkSpec{
	net.ControlController, net.ControllerControl,
	net.ControllerHost, net.HostController,
	net.HostInstance, net.InstanceHost,
}

func buildConnectionControl(r *net.Registry) ConnectionControl {
	return ConnectionControl{
		Ping: req(r, net.RequestSpec{
			Type:           "ping",
			Links:          allPhysicalLinks,
			Permission:     "core.connection.ping",
			RequestSchema:  schemaObj(map[string]*schemaT{"nonce": str()}, "nonce"),
			ResponseSchema: schemaObj(map[string]*schemaT{"nonce": str()}, "nonce"),
		}),
		PrepareDisconnect: req(r, net.RequestSpec{
			Type:           "prepare_disconnect",
			Links:          allPhysicalLinks,
			Permission:     "core.connection.disconnect",
			RequestSchema:  empty(),
			ResponseSchema: empty(),
		}),
		PrepareControllerDisconnect: req(r, net.RequestSpec{
			Type:           "prepare_controller_disconnect",
			Links:          []net.LinkSpec{net.ControllerHost, net.ControllerControl},
			RequestSchema:  empty(),
			ResponseSchema: empty(),
		}),
		DebugDumpWS: req(r, net.RequestSpec{
			Type:           "debug_dump_ws",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.debug.dump_ws",
			RequestSchema:  empty(),
			ResponseSchema: schemaObj(map[string]*schemaT{"links": arrayOf(str())}, "links"),
		}),
	}
}
