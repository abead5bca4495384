package catalog

import "github.com/lcx/clusterlink/net"

var logEntryShape = schemaObj(map[string]*schemaT{
	"source":    str(),
	"level":     str(),
	"message":   str(),
	"timestamp": str(),
}, "source", "level", "message", "timestamp")

// Logs groups the control-originated requests for querying and subscribing
// to controller and instance log output.
type Logs struct {
	Query     *net.Request
	Subscribe *net.Request
}

func buildLogs(r *net.Registry) Logs {
	return Logs{
		Query: req(r, net.RequestSpec{
			Type:       "query_logs",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.log.read",
			RequestSchema: schemaObj(map[string]*schemaT{
				"source": str(),
				"since":  str(),
				"limit":  integer(),
			}, "source"),
			ResponseSchema: schemaObj(map[string]*schemaT{"list": arrayOf(logEntryShape)}, "list"),
		}),
		Subscribe: req(r, net.RequestSpec{
			Type:           "subscribe_logs",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.log.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"source": str()}, "source"),
			ResponseSchema: empty(),
		}),
	}
}
