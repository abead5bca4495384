package net

import (
	"encoding/json"
	"sync/atomic"
)

// Connector is the transport adapter a Link sits on top of (§4.3). It knows
// nothing about message semantics: it assigns outbound envelopes a
// monotonically increasing Seq, frames and writes them, and hands inbound
// envelopes to whatever receiver the Link installed.
//
// Seq allocation is split from transmission (Reserve, then SendSeq) rather
// than folded into one Send call so a Link can register a pending-response
// awaiter under the reserved Seq before the peer has any chance to answer
// it — with an in-process Connector (NewPipe) the peer's goroutine can
// otherwise receive and answer the request before the call that assigned
// the Seq has returned.
type Connector interface {
	// Reserve returns the next Seq from this Connector's own counter,
	// starting at 1, independently per endpoint.
	Reserve() uint64

	// SendSeq frames data under msgType with the given Seq and writes it
	// out. seq must have come from this Connector's own Reserve.
	SendSeq(seq uint64, msgType string, data map[string]any) error

	// SetReceiver installs the callback invoked for every inbound envelope.
	// A Link calls this exactly once, during construction.
	SetReceiver(func(Envelope))

	// Close tears down the underlying transport. Any Seq not yet responded
	// to is considered abandoned; the Link, not the Connector, is
	// responsible for failing pending awaiters.
	Close() error
}

// sendFramed reserves the next Seq on c and sends data under msgType in one
// step, for callers (responses, events) that don't need to register
// anything between allocation and transmission.
func sendFramed(c Connector, msgType string, data map[string]any) (uint64, error) {
	seq := c.Reserve()
	if err := c.SendSeq(seq, msgType, data); err != nil {
		return 0, err
	}
	return seq, nil
}

// seqCounter hands out Seq values starting at 1, independently per endpoint.
// It is safe for concurrent use by multiple goroutines.
type seqCounter struct {
	next uint64
}

func (c *seqCounter) take() uint64 {
	return atomic.AddUint64(&c.next, 1)
}

// rawWriter is the minimal sink a framedConnector writes encoded envelopes
// to: anything that sends one whole frame per WriteMessage call. No type in
// this package implements it, and the in-process pipe below does not use it.
type rawWriter interface {
	WriteMessage(b []byte) error
}

// framedConnector is a Connector built from any rawWriter plus JSON framing:
// each envelope is marshalled to JSON and passed to WriteMessage as one
// frame, with no length prefix. Nothing in this package constructs one.
type framedConnector struct {
	w        rawWriter
	seq      seqCounter
	receiver func(Envelope)
}

func newFramedConnector(w rawWriter) *framedConnector {
	return &framedConnector{w: w}
}

func (c *framedConnector) Reserve() uint64 { return c.seq.take() }

func (c *framedConnector) SendSeq(seq uint64, msgType string, data map[string]any) error {
	env := Envelope{Type: msgType, Seq: seq, Data: data}
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.w.WriteMessage(b)
}

func (c *framedConnector) SetReceiver(fn func(Envelope)) { c.receiver = fn }

func (c *framedConnector) Close() error {
	if closer, ok := c.w.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// deliver decodes a raw frame and hands it to the installed receiver. It is
// the entry point for a read loop over the underlying transport; no such
// read loop exists in this package.
func (c *framedConnector) deliver(b []byte) error {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	if c.receiver != nil {
		c.receiver(env)
	}
	return nil
}

// pipeConnector is an in-memory Connector, used to wire up colocated roles
// (most commonly the controller's own control-controller link, and tests)
// without a real socket. Two pipeConnectors are created in a pair; SendSeq
// on one invokes the peer's receiver on a new goroutine.
type pipeConnector struct {
	seq      seqCounter
	receiver func(Envelope)
	peer     *pipeConnector
}

// NewPipe returns two Connectors wired directly to each other, each with its
// own independent Seq counter.
func NewPipe() (Connector, Connector) {
	a := &pipeConnector{}
	b := &pipeConnector{}
	a.peer = b
	b.peer = a
	return a, b
}

func (p *pipeConnector) Reserve() uint64 { return p.seq.take() }

func (p *pipeConnector) SendSeq(seq uint64, msgType string, data map[string]any) error {
	env := Envelope{Type: msgType, Seq: seq, Data: cloneData(data)}
	peer := p.peer
	if peer == nil {
		return nil
	}
	// Delivered on a separate goroutine so Send returns immediately, as it
	// would for a real socket: the caller must not be able to rely on the
	// peer having processed the message before SendSeq returns.
	go func() {
		if peer.receiver != nil {
			peer.receiver(env)
		}
	}()
	return nil
}

func (p *pipeConnector) SetReceiver(fn func(Envelope)) { p.receiver = fn }

func (p *pipeConnector) Close() error {
	p.peer = nil
	return nil
}

func cloneData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
