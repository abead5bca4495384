package metrics

import "github.com/lcx/clusterlink/net"

// DispatchHook returns a callback in the shape net.WithDispatchHook expects,
// incrementing a dispatch_total counter labeled by message type and kind
// every time a Link finishes dispatching an inbound envelope.
func (c *Collector) DispatchHook() func(descType string, kind net.MessageKind) {
	return func(descType string, kind net.MessageKind) {
		kindLabel := "request"
		if kind == net.KindEvent {
			kindLabel = "event"
		}
		c.Record("dispatch_total", PolicySum, 1, Dimension{
			"type": descType,
			"kind": kindLabel,
		})
	}
}

// PendingGauge sets the pending_requests gauge for linkSpec to size. net.Link
// does not call it, so the gauge holds whatever value was last passed in.
func (c *Collector) PendingGauge(linkSpec string, size int) {
	c.Record("pending_requests", PolicySet, Value(size), Dimension{"link": linkSpec})
}
