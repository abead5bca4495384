package net

import "testing"

func TestPipeConnectorDeliversToPeer(t *testing.T) {
	a, b := NewPipe()
	received := make(chan Envelope, 1)
	b.SetReceiver(func(env Envelope) { received <- env })

	seq, err := sendFramed(a, "ping_request", map[string]any{"nonce": "x"})
	if err != nil {
		t.Fatalf("sendFramed: %v", err)
	}
	if seq != 1 {
		t.Fatalf("expected first seq to be 1, got %d", seq)
	}

	env := <-received
	if env.Type != "ping_request" || env.Seq != seq {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestPipeConnectorIndependentCounters(t *testing.T) {
	a, b := NewPipe()
	a.SetReceiver(func(Envelope) {})
	b.SetReceiver(func(Envelope) {})

	for i := uint64(1); i <= 3; i++ {
		if seq, _ := sendFramed(a, "x_event", nil); seq != i {
			t.Fatalf("a: expected seq %d, got %d", i, seq)
		}
	}
	// b's counter is independent, so it also starts at 1 regardless of how
	// many messages a has already sent.
	if seq, _ := sendFramed(b, "y_event", nil); seq != 1 {
		t.Fatalf("b: expected seq 1, got %d", seq)
	}
}

func TestPipeConnectorCloseDropsPeer(t *testing.T) {
	a, b := NewPipe()
	received := make(chan Envelope, 1)
	b.SetReceiver(func(env Envelope) { received <- env })

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := sendFramed(a, "x_event", nil); err != nil {
		t.Fatalf("sendFramed after close: %v", err)
	}
	select {
	case env := <-received:
		t.Fatalf("expected no delivery after close, got %+v", env)
	default:
	}
}
