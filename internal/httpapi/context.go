package httpapi

import (
	"context"
)

// serverBaseCtx is canceled when the process shuts down. Handlers that call
// into the serving runtime join it with the request context.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers.
// Nil restores context.Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts derives from req (keeping its values) and also ends when base
// ends. The returned cancel func must be called when the handler returns.
func joinContexts(base, req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(req)
	stop := context.AfterFunc(base, func() { cancel(context.Cause(base)) })
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}
