// Package agent defines the thin shell between the session log and a
// pluggable execution engine. The shell owns conversation bookkeeping;
// reasoning and tool selection belong to the engine behind the Engine
// interface.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/voyagekit/tripmcp/pkg/session"
	"github.com/voyagekit/tripmcp/pkg/tools"
)

// Engine runs one turn of agent reasoning over the given user input and
// returns the assistant's reply. Implementations typically delegate to an
// external LLM runtime.
type Engine interface {
	Run(ctx context.Context, input string) (string, error)
}

// ToolRegistrar accepts tool registrations. *server.MCPServer satisfies it.
type ToolRegistrar interface {
	AddTool(tool mcp.Tool, handler server.ToolHandlerFunc)
}

// Agent is the conversation-facing surface: run a turn, extend the tool
// set, reset accumulated state.
type Agent interface {
	Run(ctx context.Context, input string) (string, error)
	AddTool(def tools.ToolDefinition)
	ClearMemory()
}

// Shell wires an execution engine to the session log. Each Run appends the
// user input, delegates to the engine, and appends the reply, so the log
// always reflects the full conversation in order.
type Shell struct {
	engine Engine
	reg    ToolRegistrar
	log    *session.Log
	logger *slog.Logger
}

var _ Agent = (*Shell)(nil)

// NewShell creates a shell around the given engine, tool registrar and
// session log.
func NewShell(engine Engine, reg ToolRegistrar, log *session.Log, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{engine: engine, reg: reg, log: log, logger: logger}
}

// Run executes one conversation turn.
func (s *Shell) Run(ctx context.Context, input string) (string, error) {
	s.log.AppendChat(session.RoleUser, input)
	reply, err := s.engine.Run(ctx, input)
	if err != nil {
		return "", fmt.Errorf("agent run: %w", err)
	}
	s.log.AppendChat(session.RoleAssistant, reply)
	return reply, nil
}

// AddTool registers a tool definition with the underlying registrar.
func (s *Shell) AddTool(def tools.ToolDefinition) {
	s.logger.Debug("adding tool", "tool", def.Name)
	s.reg.AddTool(def.Tool, def.Handler)
}

// ClearMemory empties the session log and resets the engine if it exposes
// a Reset method.
func (s *Shell) ClearMemory() {
	s.log.Clear()
	if r, ok := s.engine.(interface{ Reset() }); ok {
		r.Reset()
	}
}
