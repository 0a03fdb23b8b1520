package tools

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emailIDRe = regexp.MustCompile(`Email ID: ([a-z0-9]{8}) `)

func TestDraftStoresEmail(t *testing.T) {
	o := NewOutbox()

	out := o.Draft(context.Background(), json.RawMessage(
		`{"to":"sarah@example.com","subject":"Project update","body":"Hi Sarah,\n\nAll on track.\n"}`))

	require.Len(t, o.Drafts(), 1)
	d := o.Drafts()[0]
	assert.Equal(t, "sarah@example.com", d.To)
	assert.Equal(t, "Project update", d.Subject)
	assert.NotEmpty(t, d.ID)
	assert.False(t, d.CreatedAt.IsZero())

	assert.Contains(t, out, "Email drafted to sarah@example.com with subject 'Project update'")
	assert.Contains(t, out, "To: sarah@example.com")
	assert.Contains(t, out, "Body:\nHi Sarah,")
	assert.Contains(t, out, "Email ID: "+d.ID+" (Use this ID to reference this email later)")
}

func TestDraftDeduplicatesAndReusesID(t *testing.T) {
	o := NewOutbox()
	args := json.RawMessage(`{"to":"bob@example.com","subject":"Hi","body":"Hello Bob"}`)

	first := o.Draft(context.Background(), args)
	second := o.Draft(context.Background(), args)

	require.Len(t, o.Drafts(), 1, "identical to/subject/body must store once")

	m1 := emailIDRe.FindStringSubmatch(first)
	m2 := emailIDRe.FindStringSubmatch(second)
	require.Len(t, m1, 2)
	require.Len(t, m2, 2)
	assert.Equal(t, m1[1], m2[1], "duplicate draft must report the existing id")
	assert.Equal(t, o.Drafts()[0].ID, m1[1])
}

func TestDraftDifferentBodyIsNew(t *testing.T) {
	o := NewOutbox()

	o.Draft(context.Background(), json.RawMessage(`{"to":"bob@example.com","subject":"Hi","body":"v1"}`))
	o.Draft(context.Background(), json.RawMessage(`{"to":"bob@example.com","subject":"Hi","body":"v2"}`))

	assert.Len(t, o.Drafts(), 2)
	assert.NotEqual(t, o.Drafts()[0].ID, o.Drafts()[1].ID)
}

func TestDraftDefaultsToEmptyFields(t *testing.T) {
	o := NewOutbox()

	out := o.Draft(context.Background(), json.RawMessage(`{}`))

	require.Len(t, o.Drafts(), 1)
	assert.Empty(t, o.Drafts()[0].To)
	assert.Contains(t, out, "Email drafted to  with subject ''")
}
