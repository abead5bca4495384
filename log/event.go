package log

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// LogEvent accumulates one structured log line as a flat JSON object. Each
// field method appends a key and returns the event so calls chain:
//
//	logger.Info().Str("module", "server").Int("connections", 42).Msg("Server started successfully")
//
// A nil *LogEvent (returned by GameLogger.log when the level is filtered
// out) absorbs every chained call as a no-op, so callers never need to
// guard a disabled log line.
type LogEvent struct {
	logger *GameLogger
	buf    bytes.Buffer
	level  Level
	wrote  bool
}

func newEvent(logger *GameLogger) *LogEvent {
	return &LogEvent{logger: logger}
}

// Reset clears the event for reuse from the pool and opens the JSON object.
func (e *LogEvent) Reset() *LogEvent {
	e.buf.Reset()
	e.buf.WriteByte('{')
	e.wrote = false
	return e
}

func (e *LogEvent) field(key string) {
	if e.wrote {
		e.buf.WriteByte(',')
	}
	e.wrote = true
	e.buf.WriteString(strconv.Quote(key))
	e.buf.WriteByte(':')
}

func (e *LogEvent) Str(key, val string) *LogEvent {
	if e == nil {
		return nil
	}
	e.field(key)
	e.buf.WriteString(strconv.Quote(val))
	return e
}

func (e *LogEvent) Strs(key string, vals []string) *LogEvent {
	if e == nil {
		return nil
	}
	e.field(key)
	e.buf.WriteByte('[')
	for i, v := range vals {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.buf.WriteString(strconv.Quote(v))
	}
	e.buf.WriteByte(']')
	return e
}

func (e *LogEvent) Int(key string, val int) *LogEvent {
	if e == nil {
		return nil
	}
	e.field(key)
	e.buf.WriteString(strconv.Itoa(val))
	return e
}

func (e *LogEvent) Int32(key string, val int32) *LogEvent {
	if e == nil {
		return nil
	}
	e.field(key)
	e.buf.WriteString(strconv.FormatInt(int64(val), 10))
	return e
}

func (e *LogEvent) Int64(key string, val int64) *LogEvent {
	if e == nil {
		return nil
	}
	e.field(key)
	e.buf.WriteString(strconv.FormatInt(val, 10))
	return e
}

func (e *LogEvent) Uint32(key string, val uint32) *LogEvent {
	if e == nil {
		return nil
	}
	e.field(key)
	e.buf.WriteString(strconv.FormatUint(uint64(val), 10))
	return e
}

func (e *LogEvent) Uint64(key string, val uint64) *LogEvent {
	if e == nil {
		return nil
	}
	e.field(key)
	e.buf.WriteString(strconv.FormatUint(val, 10))
	return e
}

func (e *LogEvent) Float64(key string, val float64) *LogEvent {
	if e == nil {
		return nil
	}
	e.field(key)
	e.buf.WriteString(strconv.FormatFloat(val, 'f', -1, 64))
	return e
}

func (e *LogEvent) Bool(key string, val bool) *LogEvent {
	if e == nil {
		return nil
	}
	e.field(key)
	e.buf.WriteString(strconv.FormatBool(val))
	return e
}

// Time logs t in RFC3339Nano form under key.
func (e *LogEvent) Time(key string, t *time.Time) *LogEvent {
	if e == nil {
		return nil
	}
	e.field(key)
	e.buf.WriteString(strconv.Quote(t.Format(time.RFC3339Nano)))
	return e
}

// Err logs err's message under the "error" key. A nil err is a no-op so
// callers can write `.Err(err)` unconditionally.
func (e *LogEvent) Err(err error) *LogEvent {
	if e == nil || err == nil {
		return e
	}
	return e.Str("error", err.Error())
}

// Any logs val's default string representation. Prefer a typed field
// (Str/Int/...) when the value's type is known at the call site.
func (e *LogEvent) Any(key string, val any) *LogEvent {
	if e == nil {
		return nil
	}
	e.field(key)
	e.buf.WriteString(strconv.Quote(fmt.Sprintf("%v", val)))
	return e
}

// Interface is an alias for Any, kept for callers migrating from the
// zerolog-style Event.Interface name.
func (e *LogEvent) Interface(key string, val any) *LogEvent {
	return e.Any(key, val)
}

// Msg closes the event with the message field, flushes it to every appender
// on the owning logger, and returns the event to its pool. It panics after
// flushing a Fatal-level event, matching GameLogger.OnEventEnd.
func (e *LogEvent) Msg(msg string) {
	if e == nil {
		return
	}
	e.field("msg")
	e.buf.WriteString(strconv.Quote(msg))
	e.buf.WriteString("}\n")
	e.logger.OnEventEnd(e)
}
