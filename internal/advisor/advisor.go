// Package advisor answers contestants' questions through an LLM, with the
// player's own record and watchlist quotes injected as context.
package advisor

import (
	"context"
	"fmt"

	"stockduel/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// UserQuerier loads the player whose record anchors the conversation.
type UserQuerier interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// PredictionQuerier provides the player's recent calls for context.
type PredictionQuerier interface {
	List(ctx context.Context, filter domain.PredictionFilter) ([]domain.Prediction, error)
}

// QuoteQuerier resolves quotes for symbols mentioned in the question.
type QuoteQuerier interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

// ConversationStore persists and retrieves conversation messages.
type ConversationStore interface {
	AppendMessage(ctx context.Context, userID int64, role, content string) error
	RecentMessages(ctx context.Context, userID int64, limit int) ([]domain.ConversationMessage, error)
	TrimHistory(ctx context.Context, userID int64, keep int) error
}

type Coach struct {
	tracer        trace.Tracer
	llm           LLMClient
	users         UserQuerier
	predictions   PredictionQuerier
	quotes        QuoteQuerier
	conversations ConversationStore
	model         string
	maxHistory    int
}

func NewCoach(
	tracer trace.Tracer,
	llm LLMClient,
	users UserQuerier,
	predictions PredictionQuerier,
	quotes QuoteQuerier,
	conversations ConversationStore,
	model string,
	maxHistory int,
) *Coach {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &Coach{
		tracer:        tracer,
		llm:           llm,
		users:         users,
		predictions:   predictions,
		quotes:        quotes,
		conversations: conversations,
		model:         model,
		maxHistory:    maxHistory,
	}
}

// Advise answers one question for one player. The player must exist; every
// other data source degrades to a note in the prompt rather than an error.
func (s *Coach) Advise(ctx context.Context, userID int64, question string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.advise")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", userID))

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("coach: load user %d: %w", userID, err)
	}

	if err := s.conversations.AppendMessage(ctx, userID, "user", question); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("failed to store user message")
	}

	contestContext, err := s.gatherContext(ctx, user, ExtractSymbols(question))
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("failed to gather contest context")
		contestContext = "Contest data temporarily unavailable."
	}
	systemPrompt := BuildSystemPrompt(contestContext)

	history, err := s.conversations.RecentMessages(ctx, userID, s.maxHistory)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("failed to load conversation history")
		history = nil
	}

	messages := s.buildMessages(systemPrompt, history, question)

	reply, err := s.callLLM(ctx, messages)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("coach unavailable: %w", err)
	}

	if err := s.conversations.AppendMessage(ctx, userID, "assistant", reply); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("failed to store assistant reply")
	}
	if err := s.conversations.TrimHistory(ctx, userID, s.maxHistory); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("failed to trim conversation history")
	}

	return reply, nil
}

func (s *Coach) gatherContext(ctx context.Context, user *domain.User, symbols []string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.gather-context")
	defer span.End()

	recent, err := s.predictions.List(ctx, domain.PredictionFilter{UserID: user.ID, Limit: 5})
	if err != nil {
		return "", err
	}

	var quotes []*domain.Quote
	for _, sym := range symbols {
		q, err := s.quotes.GetQuote(ctx, sym)
		if err != nil {
			continue
		}
		quotes = append(quotes, q)
	}

	return FormatCoachContext(user, recent, quotes), nil
}

func (s *Coach) buildMessages(
	systemPrompt string,
	history []domain.ConversationMessage,
	question string,
) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)

	messages = append(messages, openai.SystemMessage(systemPrompt))

	for _, msg := range history {
		switch msg.Role {
		case "user":
			messages = append(messages, openai.UserMessage(msg.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}

	// The history normally ends with the question stored above. When the
	// store is unavailable the question still has to reach the model.
	if n := len(history); n == 0 || history[n-1].Role != "user" || history[n-1].Content != question {
		messages = append(messages, openai.UserMessage(question))
	}

	return messages
}

func (s *Coach) callLLM(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
) (string, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.llm-call")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", s.model),
		attribute.Int("llm.message_count", len(messages)),
	)

	completion, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}

	reply := completion.Choices[0].Message.Content
	span.SetAttributes(attribute.Int("llm.reply_length", len(reply)))
	return reply, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
