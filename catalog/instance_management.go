package catalog

import "github.com/lcx/clusterlink/net"

var instanceShape = schemaObj(map[string]*schemaT{
	"instance_id": integer(),
	"host_id":     integer(),
	"name":        str(),
	"status":      str(),
}, "instance_id", "host_id", "name", "status")

// instanceForwardLinks is the link list shared by every
// instance-management operation the controller forwards through a host to
// a specific instance (§6, §8 scenario 3): controller and host both sit on
// the forwarding path, so all three links must appear.
var instanceForwardLinks = []net.LinkSpec{net.ControlController, net.ControllerHost, net.HostInstance}

// InstanceManagement groups every request concerning the lifecycle and
// configuration of individual game-server instances.
type InstanceManagement struct {
	GetInstance      *net.Request
	ListInstances    *net.Request
	SubscribeInstances *net.Request
	CreateInstance   *net.Request
	GetConfigField   *net.Request
	SetConfigField   *net.Request
	GetConfigProp    *net.Request
	SetConfigProp    *net.Request
	AssignHost       *net.Request
	Start            *net.Request
	Stop             *net.Request
	Kill             *net.Request
	Delete           *net.Request
	LoadScenario     *net.Request
	ExportData       *net.Request
	ExtractPlayers   *net.Request
	SendRcon         *net.Request
}

func buildInstanceManagement(r *net.Registry) InstanceManagement {
	return InstanceManagement{
		GetInstance: req(r, net.RequestSpec{
			Type:           "get_instance",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.instance.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"instance_id": integer()}, "instance_id"),
			ResponseSchema: schemaObj(map[string]*schemaT{"instance": instanceShape}, "instance"),
		}),
		ListInstances: req(r, net.RequestSpec{
			Type:           "list_instances",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.instance.read",
			RequestSchema:  empty(),
			ResponseSchema: schemaObj(map[string]*schemaT{"list": arrayOf(instanceShape)}, "list"),
		}),
		SubscribeInstances: req(r, net.RequestSpec{
			Type:           "subscribe_instance_updates",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.instance.read",
			RequestSchema:  empty(),
			ResponseSchema: empty(),
		}),
		CreateInstance: req(r, net.RequestSpec{
			Type:       "create_instance",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.instance.create",
			RequestSchema: schemaObj(map[string]*schemaT{
				"host_id": integer(),
				"name":    str(),
			}, "host_id", "name"),
			ResponseSchema: schemaObj(map[string]*schemaT{"instance": instanceShape}, "instance"),
		}),
		GetConfigField: req(r, net.RequestSpec{
			Type:           "get_instance_config_field",
			Links:          instanceForwardLinks,
			ForwardTo:      net.ForwardInstance,
			Permission:     "core.instance.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"path": str()}, "path"),
			ResponseSchema: schemaObj(map[string]*schemaT{"value": anyValue()}, "value"),
		}),
		SetConfigField: req(r, net.RequestSpec{
			Type:       "set_instance_config_field",
			Links:      instanceForwardLinks,
			ForwardTo:  net.ForwardInstance,
			Permission: "core.instance.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"path":  str(),
				"value": anyValue(),
			}, "path", "value"),
			ResponseSchema: empty(),
		}),
		GetConfigProp: req(r, net.RequestSpec{
			Type:           "get_instance_config_prop",
			Links:          instanceForwardLinks,
			ForwardTo:      net.ForwardInstance,
			Permission:     "core.instance.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"prop": str()}, "prop"),
			ResponseSchema: schemaObj(map[string]*schemaT{"value": anyValue()}, "value"),
		}),
		SetConfigProp: req(r, net.RequestSpec{
			Type:       "set_instance_config_prop",
			Links:      instanceForwardLinks,
			ForwardTo:  net.ForwardInstance,
			Permission: "core.instance.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"prop":  str(),
				"value": anyValue(),
			}, "prop", "value"),
			ResponseSchema: empty(),
		}),
		AssignHost: req(r, net.RequestSpec{
			Type:       "assign_host",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.instance.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"instance_id": integer(),
				"host_id":     integer(),
			}, "instance_id", "host_id"),
			ResponseSchema: empty(),
		}),
		Start: req(r, net.RequestSpec{
			Type:           "start_instance",
			Links:          instanceForwardLinks,
			ForwardTo:      net.ForwardInstance,
			Permission:     "core.instance.control",
			RequestSchema:  schemaObj(map[string]*schemaT{"save": str()}),
			ResponseSchema: empty(),
		}),
		Stop: req(r, net.RequestSpec{
			Type:           "stop_instance",
			Links:          instanceForwardLinks,
			ForwardTo:      net.ForwardInstance,
			Permission:     "core.instance.control",
			RequestSchema:  empty(),
			ResponseSchema: empty(),
		}),
		Kill: req(r, net.RequestSpec{
			Type:           "kill_instance",
			Links:          instanceForwardLinks,
			ForwardTo:      net.ForwardInstance,
			Permission:     "core.instance.control",
			RequestSchema:  empty(),
			ResponseSchema: empty(),
		}),
		Delete: req(r, net.RequestSpec{
			Type:           "delete_instance",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.instance.delete",
			RequestSchema:  schemaObj(map[string]*schemaT{"instance_id": integer()}, "instance_id"),
			ResponseSchema: empty(),
		}),
		LoadScenario: req(r, net.RequestSpec{
			Type:       "load_scenario",
			Links:      instanceForwardLinks,
			ForwardTo:  net.ForwardInstance,
			Permission: "core.instance.control",
			RequestSchema: schemaObj(map[string]*schemaT{
				"scenario": str(),
			}, "scenario"),
			ResponseSchema: empty(),
		}),
		ExportData: req(r, net.RequestSpec{
			Type:           "export_instance_data",
			Links:          instanceForwardLinks,
			ForwardTo:      net.ForwardInstance,
			Permission:     "core.instance.read",
			RequestSchema:  empty(),
			ResponseSchema: schemaObj(map[string]*schemaT{"url": str()}, "url"),
		}),
		ExtractPlayers: req(r, net.RequestSpec{
			Type:           "extract_players",
			Links:          instanceForwardLinks,
			ForwardTo:      net.ForwardInstance,
			Permission:     "core.instance.read",
			RequestSchema:  empty(),
			ResponseSchema: schemaObj(map[string]*schemaT{"players": arrayOf(str())}, "players"),
		}),
		SendRcon: req(r, net.RequestSpec{
			Type:       "send_rcon",
			Links:      instanceForwardLinks,
			ForwardTo:  net.ForwardInstance,
			Permission: "core.instance.control",
			RequestSchema: schemaObj(map[string]*schemaT{
				"command": str(),
			}, "command"),
			ResponseSchema: schemaObj(map[string]*schemaT{"output": str()}, "output"),
		}),
	}
}
