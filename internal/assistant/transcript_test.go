package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptAllReturnsCopy(t *testing.T) {
	var tr Transcript
	tr.Append(Turn{Role: RoleUser, Content: "hello"})

	turns := tr.All()
	require.Len(t, turns, 1)

	turns[0].Content = "mutated"
	assert.Equal(t, "hello", tr.All()[0].Content)
}

func TestLastAssistantReplySkipsToolCallTurns(t *testing.T) {
	var tr Transcript
	tr.Append(Turn{Role: RoleUser, Content: "schedule it"})
	tr.Append(Turn{Role: RoleAssistant, Content: "Done, it's on your calendar."})
	tr.Append(Turn{Role: RoleUser, Content: "and email Bob"})
	tr.Append(Turn{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "call_1", Name: "draft_email"}}})
	tr.Append(Turn{Role: RoleTool, ToolCallID: "call_1", Content: "Email drafted"})

	reply, ok := tr.LastAssistantReply()
	require.True(t, ok)
	assert.Equal(t, "Done, it's on your calendar.", reply)
}

func TestLastAssistantReplyEmptyTranscript(t *testing.T) {
	var tr Transcript
	_, ok := tr.LastAssistantReply()
	assert.False(t, ok)
}
