package session

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/voyagekit/tripmcp/pkg/tools"
)

// Interceptor sits between tool handlers and the agent. It strips
// geocode_points out of tool result envelopes into the session log before
// the agent sees the result, so coordinate sequences never enter the
// model's context. Results without geocode points pass through untouched.
type Interceptor struct {
	log    *Log
	logger *slog.Logger
}

// NewInterceptor creates an interceptor that records stripped coordinates
// into the given session log.
func NewInterceptor(log *Log, logger *slog.Logger) *Interceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interceptor{log: log, logger: logger}
}

// Wrap decorates a tool handler so its results flow through Intercept.
func (in *Interceptor) Wrap(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := next(ctx, req)
		if err != nil || res == nil || res.IsError {
			return res, err
		}
		return in.Intercept(res), nil
	}
}

// Intercept examines a successful tool result. If its text payload is a
// result envelope carrying geocode points, the points are appended to the
// session log as a side-channel record and a rebuilt result without them
// is returned. Any other result is returned unchanged.
func (in *Interceptor) Intercept(res *mcp.CallToolResult) *mcp.CallToolResult {
	env, ok := tools.ParseEnvelope(res)
	if !ok || len(env.GeocodePoints) == 0 {
		return res
	}
	in.log.AppendSideChannel(env.GeocodePoints)
	in.logger.Debug("diverted geocode points to session log",
		"count", len(env.GeocodePoints))
	env.GeocodePoints = nil
	return env.ToResult()
}
