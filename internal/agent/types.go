package agent

import (
	"context"

	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/claude"
)

// Invocation is one tool call requested by the model. ID is the
// provider-assigned tool_use ID, unique per call.
type Invocation struct {
	ID    string
	Name  string
	Input map[string]interface{}
}

// Request carries everything a tool needs for one execution.
type Request struct {
	Invocation Invocation

	// ChatID is the WhatsApp chat (phone number) the run belongs to.
	ChatID string

	// Google holds the per-user API clients for this run.
	Google *GoogleClients
}

// Output is a tool execution result.
type Output struct {
	// Data is serialized and returned to the model as the tool result.
	Data interface{}

	// UserMessage, when non-empty, is delivered to the chat directly
	// without waiting for the model's next turn.
	UserMessage string

	// Done marks the run complete; the loop stops without asking the
	// model for a follow-up.
	Done bool
}

// Tool represents an agent tool that can be called by the LLM.
type Tool interface {
	// Name returns the tool name (used in function calling).
	Name() string

	// Description returns what the tool does (for the LLM).
	Description() string

	// Parameters returns the JSON schema for tool parameters.
	Parameters() map[string]interface{}

	// Execute runs the tool for one invocation.
	Execute(ctx context.Context, req Request) (*Output, error)
}

// ToolRegistry manages available tools.
type ToolRegistry struct {
	tools map[string]Tool
	order []string
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry. Re-registering a name replaces
// the previous tool.
func (r *ToolRegistry) Register(tool Tool) {
	if _, ok := r.tools[tool.Name()]; !ok {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools in registration order.
func (r *ToolRegistry) List() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// ToolDefinitions converts tools to the Messages API tool format.
func (r *ToolRegistry) ToolDefinitions() []claude.Tool {
	tools := make([]claude.Tool, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		tools = append(tools, claude.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.Parameters(),
		})
	}
	return tools
}
