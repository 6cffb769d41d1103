package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanakrit-w/giftwise/agent/contract"
	llmx "github.com/tanakrit-w/giftwise/agent/llm"
	promptx "github.com/tanakrit-w/giftwise/agent/prompt"
	statex "github.com/tanakrit-w/giftwise/agent/state"
	toolx "github.com/tanakrit-w/giftwise/agent/tool"
)

var (
	ErrInvalidSession = errors.New("session id is empty")
	ErrInvalidMessage = errors.New("message is empty")
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"
)

// Assistant is the dispatch boundary: the hosted model selects domain tools
// for each user message and turns their structured results into a reply.
// One HandleMessage call holds the session lock for its whole tool-call
// sequence, so concurrent requests for the same session serialize.
type Assistant struct {
	client  *openai.Client
	cfg     llmx.Config
	store   *statex.MemoryStore
	search  contractx.ProductSearcher
	prompts promptx.PromptSet

	now func() time.Time
}

var _ contractx.Assistant = (*Assistant)(nil)
var _ contractx.IdeaGenerator = (*Assistant)(nil)

type Option func(*Assistant)

// WithClock overrides the assistant clock, used by tests for a fixed today.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		if now != nil {
			a.now = now
		}
	}
}

// WithSearch wires the web search collaborator. Optional; without it the
// purchase tool degrades.
func WithSearch(search contractx.ProductSearcher) Option {
	return func(a *Assistant) {
		a.search = search
	}
}

func New(client *openai.Client, cfg llmx.Config, store *statex.MemoryStore, opts ...Option) (*Assistant, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Assistant{
		client:  client,
		cfg:     cfg,
		store:   store,
		prompts: promptx.LoadPromptSet(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// HandleMessage runs the tool-calling loop for one user message and returns
// the model's final natural-language reply.
func (a *Assistant) HandleMessage(ctx context.Context, sessionID string, text string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", ErrInvalidSession
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrInvalidMessage
	}

	st, release, err := a.store.Acquire(sessionID)
	if err != nil {
		return "", err
	}
	defer release()

	executor := toolx.NewExecutor(st, toolx.Deps{
		Ideas:  a,
		Search: a.search,
		Now:    a.now,
	})

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(st.History)+2)
	messages = append(messages, openai.SystemMessage(a.prompts.Assistant))
	for _, turn := range st.History {
		switch turn.Role {
		case roleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(text))

	tools := toolx.Definitions()

	for turn := 0; turn < a.cfg.MaxToolTurns; turn++ {
		completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       openai.ChatModel(a.cfg.Model),
			Messages:    messages,
			Tools:       tools,
			Temperature: openai.Float(a.cfg.Temperature),
			MaxTokens:   openai.Int(int64(a.cfg.MaxCompletionToken)),
		})
		if err != nil {
			return "", fmt.Errorf("%w: chat completion: %v", contractx.ErrModelInvoke, err)
		}
		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("%w: completion has no choices", contractx.ErrSchemaViolation)
		}

		msg := completion.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			reply := strings.TrimSpace(msg.Content)
			if reply == "" {
				return "", fmt.Errorf("%w: assistant reply is empty", contractx.ErrSchemaViolation)
			}
			st.AppendTurn(roleUser, text, a.now())
			st.AppendTurn(roleAssistant, reply, a.now())
			return reply, nil
		}

		messages = append(messages, msg.ToParam())
		for _, call := range msg.ToolCalls {
			result := a.runToolCall(ctx, executor, sessionID, call)
			payload, err := json.Marshal(result)
			if err != nil {
				return "", fmt.Errorf("%w: marshal tool result: %v", contractx.ErrSchemaViolation, err)
			}
			messages = append(messages, openai.ToolMessage(string(payload), call.ID))
		}
	}

	return "", fmt.Errorf("%w: tool loop exceeded %d turns", contractx.ErrModelInvoke, a.cfg.MaxToolTurns)
}

func (a *Assistant) runToolCall(ctx context.Context, executor toolx.Executor, sessionID string, call openai.ChatCompletionMessageToolCall) contractx.ToolResult {
	name := strings.TrimSpace(call.Function.Name)
	if name == "" {
		return contractx.ToolResult{Error: "tool call name is empty"}
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return contractx.ToolResult{
				Tool:  name,
				Error: fmt.Sprintf("invalid tool arguments: %v", err),
			}
		}
	}

	result, err := executor(ctx, name, args)
	if err != nil {
		// Tool input problems come back inside the result; a Go error here
		// means something internal went wrong. Degrade conversationally.
		log.Error().Err(err).Str("session_id", sessionID).Str("tool", name).Msg("tool execution failed")
		return contractx.ToolResult{
			Tool:  name,
			Error: "tool execution failed",
		}
	}

	log.Debug().Str("session_id", sessionID).Str("tool", name).
		Bool("ok", result.Error == "").Msg("tool executed")
	return result
}

// GenerateIdeas satisfies the model collaborator contract used by the
// generate_gift_ideas tool: one plain completion, no tool access.
func (a *Assistant) GenerateIdeas(ctx context.Context, req contractx.IdeaRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: marshal idea request: %v", contractx.ErrExternal, err)
	}

	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.cfg.IdeasModelName()),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(a.prompts.Ideas),
			openai.UserMessage(string(payload)),
		},
		Temperature: openai.Float(a.cfg.Temperature),
		MaxTokens:   openai.Int(int64(a.cfg.MaxCompletionToken)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: gift ideas completion: %v", contractx.ErrExternal, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: gift ideas completion has no choices", contractx.ErrExternal)
	}

	ideas := strings.TrimSpace(completion.Choices[0].Message.Content)
	if ideas == "" {
		return "", fmt.Errorf("%w: gift ideas completion is empty", contractx.ErrExternal)
	}
	return ideas, nil
}
