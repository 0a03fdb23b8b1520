package tools

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(
		testCalendar(time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)),
		NewOutbox(),
		NewSearcher(http.DefaultClient),
	)
}

func TestRegistryDeclarations(t *testing.T) {
	decls := testRegistry(t).Declarations()
	require.Len(t, decls, 3)

	var names []string
	for _, d := range decls {
		require.NotNil(t, d.OfFunction)
		names = append(names, d.OfFunction.Function.Name)
	}
	assert.Equal(t, []string{"schedule_event", "draft_email", "web_search"}, names)
}

func TestRegistryInvokeKnownTool(t *testing.T) {
	r := testRegistry(t)

	out, ok, err := r.Invoke(context.Background(), "schedule_event", `{"title":"Standup"}`)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out, "Standup")
}

func TestRegistryInvokeUnknownTool(t *testing.T) {
	r := testRegistry(t)

	out, ok, err := r.Invoke(context.Background(), "delete_everything", `{}`)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, out)
}

func TestRegistryInvokeMalformedArguments(t *testing.T) {
	r := testRegistry(t)

	_, ok, err := r.Invoke(context.Background(), "draft_email", `{"to": `)
	assert.True(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft_email")
}

func TestRegistryInvokeEmptyArguments(t *testing.T) {
	r := testRegistry(t)

	out, ok, err := r.Invoke(context.Background(), "draft_email", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out, "Email ID:")
}
