package catalog

import "github.com/lcx/clusterlink/net"

// ControllerConfig groups the requests a control client uses to read and
// write the controller's own configuration document (a dotted-path field at
// a time, or a whole sub-object at once).
type ControllerConfig struct {
	GetConfigField *net.Request
	SetConfigField *net.Request
	GetConfigProp  *net.Request
	SetConfigProp  *net.Request
}

func buildControllerConfig(r *net.Registry) ControllerConfig {
	return ControllerConfig{
		GetConfigField: req(r, net.RequestSpec{
			Type:           "get_config_field",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.config.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"path": str()}, "path"),
			ResponseSchema: schemaObj(map[string]*schemaT{"value": anyValue()}, "value"),
		}),
		SetConfigField: req(r, net.RequestSpec{
			Type:       "set_config_field",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.config.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"path":  str(),
				"value": anyValue(),
			}, "path", "value"),
			ResponseSchema: empty(),
		}),
		GetConfigProp: req(r, net.RequestSpec{
			Type:           "get_config_prop",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.config.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"prop": str()}, "prop"),
			ResponseSchema: schemaObj(map[string]*schemaT{"value": anyValue()}, "value"),
		}),
		SetConfigProp: req(r, net.RequestSpec{
			Type:       "set_config_prop",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.config.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"prop":  str(),
				"value": anyValue(),
			}, "prop", "value"),
			ResponseSchema: empty(),
		}),
	}
}
