package catalog

import "github.com/lcx/clusterlink/net"

// Internal groups the requests exchanged only between controller and host
// processes — never seen by a control client.
type Internal struct {
	UpdateInstances  *net.Request
	AssignInstance   *net.Request
	UnassignInstance *net.Request
	GetMetrics       *net.Request
}

func buildInternal(r *net.Registry) Internal {
	return Internal{
		UpdateInstances: req(r, net.RequestSpec{
			Type:          "update_instances",
			Links:         []net.LinkSpec{net.HostController},
			RequestSchema: schemaObj(map[string]*schemaT{"list": arrayOf(instanceShape)}, "list"),
			ResponseSchema: empty(),
		}),
		AssignInstance: req(r, net.RequestSpec{
			Type:  "assign_instance",
			Links: []net.LinkSpec{net.ControllerHost},
			RequestSchema: schemaObj(map[string]*schemaT{
				"instance_id": integer(),
				"name":        str(),
			}, "instance_id", "name"),
			ResponseSchema: empty(),
		}),
		UnassignInstance: req(r, net.RequestSpec{
			Type:           "unassign_instance",
			Links:          []net.LinkSpec{net.ControllerHost},
			RequestSchema:  schemaObj(map[string]*schemaT{"instance_id": integer()}, "instance_id"),
			ResponseSchema: empty(),
		}),
		GetMetrics: req(r, net.RequestSpec{
			Type:          "get_metrics",
			Links:         []net.LinkSpec{net.ControllerHost},
			RequestSchema: empty(),
			ResponseSchema: schemaObj(map[string]*schemaT{
				"cpu":    number(),
				"memory": number(),
			}, "cpu", "memory"),
		}),
	}
}
