package tools

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/openai/openai-go/v3"
)

// Handler executes a tool with the model-provided argument payload and
// returns a human-readable result. Handlers never fail outward: internal
// problems are reported inside the returned string.
type Handler func(ctx context.Context, args json.RawMessage) string

type Tool struct {
	Name        string
	Description string
	Parameters  openai.FunctionParameters
	Run         Handler
}

// Registry is the fixed name-to-handler mapping surfaced to the model.
// The set is closed: schedule_event, draft_email, web_search. Built once at
// startup and never modified afterwards.
type Registry struct {
	tools []Tool
	index map[string]int
}

func NewRegistry(calendar *Calendar, outbox *Outbox, searcher *Searcher) *Registry {
	r := &Registry{index: make(map[string]int)}
	r.add(Tool{
		Name:        "schedule_event",
		Description: "Schedule a calendar event",
		Parameters: openai.FunctionParameters{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "Title of the event",
				},
				"start_time": map[string]any{
					"type":        "string",
					"description": "Start time in ISO format (YYYY-MM-DDTHH:MM:SS)",
				},
				"duration_minutes": map[string]any{
					"type":        "integer",
					"description": "Duration of the event in minutes",
				},
				"location": map[string]any{
					"type":        "string",
					"description": "Location of the event (physical address or 'virtual' for online meetings)",
				},
			},
			"required": []string{"title"},
		},
		Run: calendar.Schedule,
	})
	r.add(Tool{
		Name:        "draft_email",
		Description: "Draft an email with full content that can be copied and sent later",
		Parameters: openai.FunctionParameters{
			"type": "object",
			"properties": map[string]any{
				"to": map[string]any{
					"type":        "string",
					"description": "Email recipient's address",
				},
				"subject": map[string]any{
					"type":        "string",
					"description": "Email subject line",
				},
				"body": map[string]any{
					"type":        "string",
					"description": "Full email body content with proper formatting, greetings, and signature",
				},
			},
			"required": []string{"to", "subject", "body"},
		},
		Run: outbox.Draft,
	})
	r.add(Tool{
		Name:        "web_search",
		Description: "Search the web for real-time information such as current events, weather, sports scores, or any other online information",
		Parameters: openai.FunctionParameters{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query",
				},
			},
			"required": []string{"query"},
		},
		Run: searcher.Search,
	})
	return r
}

func (r *Registry) add(t Tool) {
	r.index[t.Name] = len(r.tools)
	r.tools = append(r.tools, t)
}

// Declarations renders the registry as function-tool declarations for the
// chat completion API.
func (r *Registry) Declarations() []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  t.Parameters,
		}))
	}
	return out
}

// Invoke runs the named tool. The second return is false when the name is not
// registered. A malformed argument payload is the one failure reported as an
// error; everything else is caught inside the handler.
func (r *Registry) Invoke(ctx context.Context, name, args string) (string, bool, error) {
	i, ok := r.index[name]
	if !ok {
		return "", false, nil
	}
	raw := json.RawMessage(args)
	if len(raw) > 0 && !json.Valid(raw) {
		return "", true, fmt.Errorf("tool %s: invalid arguments payload", name)
	}
	return r.tools[i].Run(ctx, raw), true, nil
}
