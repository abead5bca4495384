package plugin

import (
	"testing"

	"github.com/lcx/clusterlink/net"
)

func TestMemoryConnectorFactoryRegistered(t *testing.T) {
	f := getPluginFactory(Connector, "memory")
	if f == nil {
		t.Fatal("memory connector factory was not registered")
	}
	if f.Type() != Connector {
		t.Errorf("expected type %q, got %q", Connector, f.Type())
	}
}

func TestMemoryConnectorFactorySetupProducesLinkedPair(t *testing.T) {
	f := MemoryConnectorFactory{}
	p, err := f.Setup(nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	cp := p.(*ConnectorPlugin)
	if cp.Conn == nil || cp.Peer == nil {
		t.Fatal("expected both ends of the pipe to be populated")
	}

	received := make(chan net.Envelope, 1)
	cp.Peer.SetReceiver(func(env net.Envelope) { received <- env })

	seq := cp.Conn.Reserve()
	if err := cp.Conn.SendSeq(seq, "ping_request", map[string]any{}); err != nil {
		t.Fatalf("SendSeq: %v", err)
	}
	if env := <-received; env.Type != "ping_request" {
		t.Errorf("expected ping_request to arrive on the peer, got %q", env.Type)
	}

	if err := f.Destroy(p, nil); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}

func TestMemoryConnectorFactoryCanDelete(t *testing.T) {
	f := MemoryConnectorFactory{}
	p, _ := f.Setup(nil)
	if !f.CanDelete(p) {
		t.Error("expected CanDelete to always report true for memory connectors")
	}
}
