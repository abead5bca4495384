package plugin

import (
	"fmt"

	"github.com/lcx/clusterlink/net"
)

// ConnectorPlugin wraps a net.Connector built by a Connector-type factory so
// it can flow through the generic plugin lifecycle (Setup/Destroy/Reload).
type ConnectorPlugin struct {
	factoryName string
	Conn        net.Connector
	// Peer is only set by factories that hand back both ends of a pair
	// (the in-memory factory); nil for factories backed by a real socket.
	Peer net.Connector
}

// FactoryName implements Plugin.
func (p *ConnectorPlugin) FactoryName() string { return p.factoryName }

// MemoryConnectorFactory builds in-memory Connector pairs for tests and
// single-process deployments: Setup ignores its config and returns one end
// of a fresh net.NewPipe, keeping the other end on the returned plugin so
// callers can wire both sides without a real transport.
type MemoryConnectorFactory struct{}

func (MemoryConnectorFactory) Type() Type   { return Connector }
func (MemoryConnectorFactory) Name() string { return "memory" }

func (MemoryConnectorFactory) Setup(map[string]any) (Plugin, error) {
	a, b := net.NewPipe()
	return &ConnectorPlugin{factoryName: "memory", Conn: a, Peer: b}, nil
}

func (MemoryConnectorFactory) Destroy(p Plugin, _ any) error {
	cp, ok := p.(*ConnectorPlugin)
	if !ok {
		return fmt.Errorf("plugin: memory connector factory given a %T, not *ConnectorPlugin", p)
	}
	return cp.Conn.Close()
}

func (MemoryConnectorFactory) Reload(Plugin, map[string]any) error {
	return fmt.Errorf("plugin: memory connector does not support reload")
}

func (MemoryConnectorFactory) CanDelete(Plugin) bool { return true }

func init() {
	RegisterPlugin(MemoryConnectorFactory{})
}
