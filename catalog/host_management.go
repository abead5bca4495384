package catalog

import "github.com/lcx/clusterlink/net"

var hostShape = schemaObj(map[string]*schemaT{
	"host_id": integer(),
	"name":    str(),
	"address": str(),
	"online":  boolean(),
}, "host_id", "name", "online")

// HostManagement groups the control-originated requests that list,
// subscribe to, and provision hosts.
type HostManagement struct {
	ListHosts          *net.Request
	SubscribeHosts     *net.Request
	GenerateHostToken  *net.Request
	CreateHostConfig   *net.Request
}

func buildHostManagement(r *net.Registry) HostManagement {
	return HostManagement{
		ListHosts: req(r, net.RequestSpec{
			Type:           "list_hosts",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.host.list",
			RequestSchema:  empty(),
			ResponseSchema: schemaObj(map[string]*schemaT{"list": arrayOf(hostShape)}, "list"),
		}),
		SubscribeHosts: req(r, net.RequestSpec{
			Type:           "subscribe_host_updates",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.host.list",
			RequestSchema:  empty(),
			ResponseSchema: empty(),
		}),
		GenerateHostToken: req(r, net.RequestSpec{
			Type:           "generate_host_token",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.host.create",
			RequestSchema:  schemaObj(map[string]*schemaT{"name": str()}, "name"),
			ResponseSchema: schemaObj(map[string]*schemaT{"token": str()}, "token"),
		}),
		CreateHostConfig: req(r, net.RequestSpec{
			Type:       "create_host_config",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.host.create",
			RequestSchema: schemaObj(map[string]*schemaT{
				"name":  str(),
				"token": str(),
			}, "name", "token"),
			ResponseSchema: schemaObj(map[string]*schemaT{"host": hostShape}, "host"),
		}),
	}
}
