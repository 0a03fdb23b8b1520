package assistant

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"sync"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared/constant"

	"aura/internal/tools"
)

const systemPrompt = "You are a helpful voice assistant that provides direct answers to questions. For web searches, weather, news, and similar queries, always respond with concise, direct information rather than providing links or search result citations. Make your responses conversational and natural, as if you have the information yourself rather than acting as a search interface. Focus on giving complete, factual answers in a friendly tone."

const alreadyProcessedReply = "I've already processed this request."

// CompletionClient is the slice of the chat completion API the session needs.
// Satisfied by &client.Chat.Completions.
type CompletionClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type Config struct {
	Completions CompletionClient
	Model       openai.ChatModel
	Registry    *tools.Registry
}

// Session owns the conversation state of one interactive session: the
// transcript and the last accepted input. A mutex serializes whole turns, so
// tool side effects and transcript appends from one turn are never interleaved
// with another.
type Session struct {
	mu          sync.Mutex
	completions CompletionClient
	model       openai.ChatModel
	registry    *tools.Registry
	transcript  Transcript
	lastInput   string
}

func NewSession(cfg Config) *Session {
	return &Session{
		completions: cfg.Completions,
		model:       cfg.Model,
		registry:    cfg.Registry,
	}
}

// Turns returns a copy of the transcript so far.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.All()
}

// Respond resolves one user turn: it appends the input, asks the model for a
// reply, runs any tools the model requests, feeds their results back for a
// follow-up, and returns the final reply. It always returns a string; every
// failure degrades to a user-visible error sentence.
//
// An input byte-equal to the immediately preceding accepted input skips the
// model round-trip and re-returns the most recent assistant reply. Only the
// newest input is compared; repeating an older request is treated as new.
func (s *Session) Respond(ctx context.Context, input string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input == s.lastInput {
		log.Debug("Skipping duplicate request", "input", input)
		if reply, ok := s.transcript.LastAssistantReply(); ok {
			return reply
		}
		return alreadyProcessedReply
	}
	s.lastInput = input
	s.transcript.Append(Turn{Role: RoleUser, Content: input})

	msgs := s.promptMessages()

	resp, err := s.completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    s.model,
		Messages: msgs,
		Tools:    s.registry.Declarations(),
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: param.NewOpt("auto"),
		},
	})
	if err != nil {
		return failTurn(fmt.Errorf("chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return failTurn(errors.New("chat completion: no choices in response"))
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		s.transcript.Append(Turn{Role: RoleAssistant, Content: msg.Content})
		return msg.Content
	}

	calls := make([]ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		calls = append(calls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	// The tool-call turn must land before any tool-result turn.
	s.transcript.Append(Turn{Role: RoleAssistant, ToolCalls: calls})

	followUp := append(msgs, assistantToolCallMessage(calls))
	for _, call := range calls {
		result, known, err := s.registry.Invoke(ctx, call.Name, call.Arguments)
		if err != nil {
			return failTurn(err)
		}
		if !known {
			// Defensive no-op: the model named a tool we never declared.
			log.Warn("Ignoring unregistered tool call", "tool", call.Name)
			continue
		}
		s.transcript.Append(Turn{Role: RoleTool, ToolCallID: call.ID, Content: result})
		followUp = append(followUp, openai.ToolMessage(result, call.ID))
	}

	// No tool schema on the follow-up: one level of tool recursion only.
	second, err := s.completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    s.model,
		Messages: followUp,
	})
	if err != nil {
		return failTurn(fmt.Errorf("follow-up completion: %w", err))
	}
	if len(second.Choices) == 0 {
		return failTurn(errors.New("follow-up completion: no choices in response"))
	}

	reply := second.Choices[0].Message.Content
	s.transcript.Append(Turn{Role: RoleAssistant, Content: reply})
	return reply
}

// promptMessages builds the outbound message list: the system instruction plus
// user turns and content-bearing assistant turns. Tool turns and tool-call
// turns stay out of the prompt even though they remain in the transcript.
func (s *Session) promptMessages() []openai.ChatCompletionMessageParamUnion {
	msgs := []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(systemPrompt)}
	for _, turn := range s.transcript.All() {
		switch {
		case turn.Role == RoleUser:
			msgs = append(msgs, openai.UserMessage(turn.Content))
		case turn.Role == RoleAssistant && turn.Content != "":
			msgs = append(msgs, openai.AssistantMessage(turn.Content))
		}
	}
	return msgs
}

func assistantToolCallMessage(calls []ToolCall) openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageToolCallUnionParam, 0, len(calls))
	for _, c := range calls {
		params = append(params, openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: c.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      c.Name,
					Arguments: c.Arguments,
				},
				Type: constant.ValueOf[constant.Function](),
			},
		})
	}
	return openai.ChatCompletionMessageParamUnion{
		OfAssistant: &openai.ChatCompletionAssistantMessageParam{
			ToolCalls: params,
		},
	}
}

func failTurn(err error) string {
	log.Error("Failed to resolve turn", "err", err)
	return fmt.Sprintf("I encountered an issue processing your request. Error: %v", err)
}
