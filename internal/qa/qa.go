// Package qa implements the question answering orchestrator. It retrieves the
// best matching passage for a question, assembles a grounding prompt that
// restricts the model to the loaded document, and invokes the chat model
// constructed by the provider factory.
package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/54b3r/docchat-go/internal/budget"
	"github.com/54b3r/docchat-go/internal/logging"
	"github.com/54b3r/docchat-go/internal/rag"
	"github.com/54b3r/docchat-go/internal/store"
)

// answerInstruction pins the model to the retrieved document content. The
// retrieved text and the question are inserted verbatim — no rewriting, no
// summarisation before the model sees them.
const answerInstruction = "You are a helpful assistant. Answer the question based strictly on the document context below."

// generator is the slice of the chat model interface the orchestrator needs.
// model.ToolCallingChatModel satisfies it.
type generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Config holds the dependencies required to construct an Orchestrator.
type Config struct {
	// Retriever finds the best matching passage for a question.
	Retriever rag.Retriever

	// ChatModel is the LLM backend constructed by the provider factory.
	ChatModel model.ToolCallingChatModel

	// History is the optional conversation store used to persist and replay
	// prior turns. If nil, each question is stateless.
	History store.ConversationStore

	// HistoryDepth is the number of prior turns (user+assistant pairs) to
	// inject per question. Defaults to 10 if zero.
	HistoryDepth int

	// MaxContextTokens is the estimated token budget for the full input
	// context (grounding prompt + history + question). History is trimmed
	// oldest-first to fit. Defaults to budget.DefaultMaxContextTokens if zero.
	MaxContextTokens int
}

// Orchestrator answers questions about the currently loaded document.
type Orchestrator struct {
	// retriever finds the best matching passage for a question.
	retriever rag.Retriever

	// model generates the final answer from the grounding prompt.
	model generator

	// history is the optional conversation store for multi-turn context.
	history store.ConversationStore

	// historyDepth is the number of recent messages to inject per question.
	historyDepth int

	// maxContextTokens is the estimated token budget for the input context.
	maxContextTokens int
}

// New constructs an Orchestrator from the provided Config.
func New(cfg *Config) (*Orchestrator, error) {
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("qa: Retriever must not be nil")
	}
	if cfg.ChatModel == nil {
		return nil, fmt.Errorf("qa: ChatModel must not be nil")
	}

	depth := cfg.HistoryDepth
	if depth <= 0 {
		depth = 10
	}
	maxCtx := cfg.MaxContextTokens
	if maxCtx <= 0 {
		maxCtx = budget.DefaultMaxContextTokens
	}

	return &Orchestrator{
		retriever:        cfg.Retriever,
		model:            cfg.ChatModel,
		history:          cfg.History,
		historyDepth:     depth,
		maxContextTokens: maxCtx,
	}, nil
}

// Answer retrieves the best passage for question, builds the grounding prompt,
// and returns the model's answer text unmodified. When no document has been
// loaded it returns rag.ErrNoDocument without invoking the model. session
// keys the optional conversation history; pass "" for stateless use.
func (o *Orchestrator) Answer(ctx context.Context, session, question string) (string, error) {
	log := logging.FromContext(ctx)

	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("qa: question must not be empty")
	}

	match, err := o.retriever.Retrieve(ctx, question)
	if err != nil {
		// ErrNoDocument and ErrRateLimited are already tagged; pass through.
		return "", err
	}

	log.Debug("qa: passage retrieved",
		slog.String("source", match.Source),
		slog.Float64("score", float64(match.Score)),
	)

	messages := o.buildMessages(ctx, session, match.Text, question)

	resp, err := o.model.Generate(ctx, messages)
	if err != nil {
		if isRateLimit(err) {
			return "", fmt.Errorf("qa: %w: %v", rag.ErrRateLimited, err)
		}
		return "", fmt.Errorf("qa: %w: %v", rag.ErrGenerationFailed, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("qa: %w: model returned no text", rag.ErrGenerationFailed)
	}

	// Persist the turn to the conversation store (non-fatal on error).
	if o.history != nil {
		if err := o.history.Append(ctx, session, store.RoleUser, question); err != nil {
			log.Warn("history: failed to persist user message", slog.Any("error", err))
		}
		if err := o.history.Append(ctx, session, store.RoleAssistant, resp.Content); err != nil {
			log.Warn("history: failed to persist assistant message", slog.Any("error", err))
		}
	}

	return resp.Content, nil
}

// buildMessages assembles the message slice: grounding prompt first, trimmed
// history in the middle, question last. History is trimmed oldest-first so the
// grounding sections are never displaced.
func (o *Orchestrator) buildMessages(ctx context.Context, session, passage, question string) []*schema.Message {
	grounding := answerInstruction + "\n\nContext:\n" + passage

	var historyMsgs []*schema.Message
	if o.history != nil {
		prior, err := o.history.Recent(ctx, session, o.historyDepth*2)
		if err != nil {
			logging.FromContext(ctx).Warn("history: failed to load prior messages", slog.Any("error", err))
		} else {
			for _, m := range prior {
				switch m.Role {
				case store.RoleUser:
					historyMsgs = append(historyMsgs, schema.UserMessage(m.Content))
				case store.RoleAssistant:
					historyMsgs = append(historyMsgs, schema.AssistantMessage(m.Content, nil))
				}
			}
		}
	}

	fixed := []*schema.Message{
		schema.SystemMessage(grounding),
		schema.UserMessage(question),
	}

	before := len(historyMsgs)
	historyMsgs = budget.TrimHistory(fixed, historyMsgs, o.maxContextTokens)
	if dropped := before - len(historyMsgs); dropped > 0 {
		logging.FromContext(ctx).Warn("budget: dropped history messages to fit context window",
			slog.Int("dropped", dropped),
			slog.Int("retained", len(historyMsgs)),
			slog.Int("max_tokens", o.maxContextTokens),
		)
	}

	result := make([]*schema.Message, 0, 2+len(historyMsgs))
	result = append(result, schema.SystemMessage(grounding))
	result = append(result, historyMsgs...)
	result = append(result, schema.UserMessage(question))
	return result
}

// isRateLimit reports whether err is an upstream throttling error. Provider
// SDKs wrap HTTP 429 differently, so a string check backs the sentinel check.
func isRateLimit(err error) bool {
	if errors.Is(err, rag.ErrRateLimited) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "rate limit")
}
