package assistant

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is one model-issued request to run a named tool. Arguments is the
// raw text payload exactly as the model produced it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Turn is one entry in the conversation transcript. Content is empty on an
// assistant turn that issued tool calls instead of a direct reply. ToolCallID
// is set only on tool turns and correlates the result back to the assistant
// turn that requested it.
type Turn struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}
