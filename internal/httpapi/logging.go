package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the structured logger used by the HTTP layer. Nop until SetLogger.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

var defaultLogLevel = LevelInfo

// SetRequestLogLevel sets the level used when a request carries no override.
func SetRequestLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// opLog writes the start/end lines of a long running handler.
type opLog struct {
	op    string
	r     *http.Request
	lvl   LogLevel
	start time.Time
}

func startOp(op string, r *http.Request, fields map[string]any) *opLog {
	o := &opLog{op: op, r: r, lvl: requestLogLevel(r), start: time.Now()}
	if o.lvl >= LevelInfo {
		o.event(zlog.Info()).Fields(fields).Msg(op + " start")
	}
	return o
}

func (o *opLog) end(status int, err error) {
	switch {
	case err != nil && o.lvl >= LevelError:
		o.event(zlog.Error()).Int("status", status).Dur("dur", time.Since(o.start)).Err(err).Msg(o.op + " end")
	case err == nil && o.lvl >= LevelInfo:
		o.event(zlog.Info()).Int("status", status).Dur("dur", time.Since(o.start)).Msg(o.op + " end")
	}
}

func (o *opLog) event(e *zerolog.Event) *zerolog.Event {
	e = e.Str("path", o.r.URL.Path)
	if rid := middleware.GetReqID(o.r.Context()); rid != "" {
		e = e.Str("request_id", rid)
	}
	return e
}
