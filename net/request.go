package net

import (
	"context"
	"fmt"

	"github.com/lcx/clusterlink/log"
)

// awaiter is the pending-response record for one in-flight outbound
// request, keyed by the seq assigned to it when it was sent.
type awaiter struct {
	descType string
	done     chan struct{}
	data     map[string]any
	err      error
}

func newAwaiter(descType string) *awaiter {
	return &awaiter{descType: descType, done: make(chan struct{})}
}

func (a *awaiter) fail(err error) {
	a.err = err
	close(a.done)
}

func (a *awaiter) succeed(data map[string]any) {
	a.data = data
	close(a.done)
}

// SendRequest sends a request of the given descriptor type over the Link
// and blocks until a matching response arrives, ctx is cancelled, or the
// Link is closed. It is the attach.send counterpart of an attached
// RequestHandler: whichever side originates a request uses this.
func (l *Link) SendRequest(ctx context.Context, desc *Descriptor, data map[string]any) (map[string]any, error) {
	if desc.Kind != KindRequest {
		return nil, fmt.Errorf("net: %s is not a request descriptor", desc.Type)
	}
	if !desc.IsSourceOn(l.spec) {
		return nil, fmt.Errorf("net: %s may not originate on %s", desc.Type, l.spec)
	}
	if err := desc.RequestSchema.Validate(data); err != nil {
		return nil, fmt.Errorf("net: invalid outbound request %s: %w", desc.Type, err)
	}

	seq := l.connector.Reserve()
	aw := newAwaiter(desc.Type)
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, &DisconnectionError{Link: l.spec}
	}
	l.pending[seq] = aw
	l.mu.Unlock()

	if err := l.connector.SendSeq(seq, desc.RequestType(), data); err != nil {
		l.mu.Lock()
		delete(l.pending, seq)
		l.mu.Unlock()
		return nil, err
	}

	select {
	case <-aw.done:
		if aw.err != nil {
			return nil, aw.err
		}
		if msg, isErr := dataError(aw.data); isErr {
			return nil, NewRequestError("%s", msg)
		}
		return aw.data, nil
	case <-ctx.Done():
		l.mu.Lock()
		delete(l.pending, seq)
		l.mu.Unlock()
		return nil, &CancelledError{MessageType: desc.Type, Seq: seq}
	}
}

// SendEvent sends a one-way event over the Link. There is no response to
// wait for.
func (l *Link) SendEvent(desc *Descriptor, data map[string]any) error {
	if desc.Kind != KindEvent {
		return fmt.Errorf("net: %s is not an event descriptor", desc.Type)
	}
	if !desc.IsSourceOn(l.spec) {
		return fmt.Errorf("net: %s may not originate on %s", desc.Type, l.spec)
	}
	if err := desc.EventSchema.Validate(data); err != nil {
		return fmt.Errorf("net: invalid outbound event %s: %w", desc.Type, err)
	}
	_, err := sendFramed(l.connector, desc.EventType(), data)
	return err
}

// resolvePending matches an inbound response envelope to its awaiter by the
// seq echoed in its payload (§4.3) and wakes the blocked SendRequest call.
// A response with no matching awaiter (late arrival after a cancellation,
// or a malformed peer) is dropped.
func (l *Link) resolvePending(desc *Descriptor, env Envelope) {
	seq, ok := dataSeq(env.Data)
	if !ok {
		log.Warn().Str("link", l.spec.String()).Str("type", desc.Type).Msg("net: response missing correlation seq")
		return
	}
	l.mu.Lock()
	aw, ok := l.pending[seq]
	if ok {
		delete(l.pending, seq)
	}
	l.mu.Unlock()
	if !ok {
		return
	}
	if desc.ResponseSchema != nil {
		if err := desc.ResponseSchema.Validate(env.Data); err != nil {
			log.Warn().Str("link", l.spec.String()).Str("type", desc.Type).Err(err).Msg("net: response failed schema validation")
			aw.fail(&ValidationFailure{MessageType: desc.Type, Reason: err.Error()})
			return
		}
	}
	aw.succeed(env.Data)
}
