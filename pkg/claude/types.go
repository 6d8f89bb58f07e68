package claude

// Content block types used by the Messages API.
const (
	BlockTypeText       = "text"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Tool describes a callable tool advertised to the model.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"` // JSON Schema format
}

// ContentBlock is one element of a message's content array.
// Exactly one shape is populated depending on Type.
type ContentBlock struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string                 `json:"id,omitempty"`
	Name  string                 `json:"name,omitempty"`
	Input map[string]interface{} `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// MessageParam is one turn of conversation history.
type MessageParam struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// Request is a content generation request.
type Request struct {
	System   string         `json:"-"`
	Messages []MessageParam `json:"-"`
	Tools    []Tool         `json:"-"`
}

// Message is the model's reply.
type Message struct {
	ID         string         `json:"id"`
	Role       string         `json:"role"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Model      string         `json:"model"`
}

// ToolUse is one tool invocation requested by the model.
// The ID is assigned by the provider and identifies the invocation
// for the matching tool_result block.
type ToolUse struct {
	ID    string
	Name  string
	Input map[string]interface{}
}

// NewTextMessage builds a single-text-block message for the given role.
func NewTextMessage(role, text string) MessageParam {
	return MessageParam{
		Role:    role,
		Content: []ContentBlock{{Type: BlockTypeText, Text: text}},
	}
}

// ToolUses extracts all tool_use blocks from a model reply, in order.
func ToolUses(msg *Message) []ToolUse {
	var uses []ToolUse
	for _, block := range msg.Content {
		if block.Type == BlockTypeToolUse {
			uses = append(uses, ToolUse{ID: block.ID, Name: block.Name, Input: block.Input})
		}
	}
	return uses
}

// Text returns the first text block of a model reply, or "".
func Text(msg *Message) string {
	for _, block := range msg.Content {
		if block.Type == BlockTypeText {
			return block.Text
		}
	}
	return ""
}
