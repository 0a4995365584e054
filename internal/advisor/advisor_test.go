package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockduel/internal/domain"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/trace"
)

func newTestCoach(llm LLMClient, users UserQuerier, predictions PredictionQuerier, quotes QuoteQuerier, store ConversationStore) *Coach {
	return NewCoach(
		trace.NewNoopTracerProvider().Tracer("test"),
		llm, users, predictions, quotes, store, "gpt-4o-mini", 20,
	)
}

func completionWith(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestAdviseHappyPath(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("protect the streak, size down")}
	store := &stubConvStore{}
	users := &stubUsers{user: &domain.User{ID: 7, Nickname: "trader_kim", TotalPredictions: 10, SuccessCount: 6, CurrentStreak: 3}}
	predictions := &stubPredictions{list: []domain.Prediction{{Symbol: "AAPL", PredictedChange: 5, HoldPeriod: domain.Hold1Week, Status: domain.PredictionSuccess}}}
	quotes := &stubQuotes{quote: &domain.Quote{Symbol: "AAPL", Price: 182.5}}

	svc := newTestCoach(llm, users, predictions, quotes, store)

	reply, err := svc.Advise(context.Background(), 7, "What about AAPL?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "protect the streak, size down" {
		t.Fatalf("unexpected reply %q", reply)
	}
	// Both sides of the exchange are stored.
	if len(store.messages) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(store.messages))
	}
	if store.messages[0].role != "user" || store.messages[1].role != "assistant" {
		t.Fatalf("stored roles %s/%s", store.messages[0].role, store.messages[1].role)
	}
	if store.trims != 1 {
		t.Fatalf("expected history trimmed once, got %d", store.trims)
	}
}

func TestAdviseUnknownUser(t *testing.T) {
	users := &stubUsers{err: domain.ErrNotFound}
	svc := newTestCoach(&stubLLMClient{}, users, &stubPredictions{}, &stubQuotes{}, &stubConvStore{})

	_, err := svc.Advise(context.Background(), 99, "hello")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdviseLLMError(t *testing.T) {
	llm := &stubLLMClient{err: errors.New("api down")}
	store := &stubConvStore{}
	users := &stubUsers{user: &domain.User{ID: 7}}

	svc := newTestCoach(llm, users, &stubPredictions{}, &stubQuotes{}, store)

	_, err := svc.Advise(context.Background(), 7, "What looks good?")
	if err == nil {
		t.Fatal("expected error from LLM failure")
	}
	// The question should still have been stored.
	if len(store.messages) != 1 || store.messages[0].role != "user" {
		t.Fatalf("expected user message stored despite LLM error, got %d messages", len(store.messages))
	}
}

func TestAdviseStoreFailureNonFatal(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("response")}
	store := &stubConvStore{appendErr: errors.New("db down")}
	users := &stubUsers{user: &domain.User{ID: 7}}

	svc := newTestCoach(llm, users, &stubPredictions{}, &stubQuotes{}, store)

	reply, err := svc.Advise(context.Background(), 7, "test question")
	if err != nil {
		t.Fatalf("store failure should be non-fatal, got: %v", err)
	}
	if reply != "response" {
		t.Fatalf("expected 'response', got %q", reply)
	}
	// With no stored history, the question must still reach the model
	// alongside the system prompt.
	if len(llm.gotParams.Messages) != 2 {
		t.Fatalf("expected system + question messages, got %d", len(llm.gotParams.Messages))
	}
}

func TestAdviseContextGatheringFailure(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("no data available")}
	store := &stubConvStore{}
	users := &stubUsers{user: &domain.User{ID: 7}}
	predictions := &stubPredictions{err: errors.New("db down")}

	svc := newTestCoach(llm, users, predictions, &stubQuotes{}, store)

	reply, err := svc.Advise(context.Background(), 7, "What looks good?")
	if err != nil {
		t.Fatalf("context failure should be non-fatal, got: %v", err)
	}
	if reply != "no data available" {
		t.Fatalf("expected 'no data available', got %q", reply)
	}
}

func TestAdviseQuoteFailureSkipsSymbol(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("ok")}
	users := &stubUsers{user: &domain.User{ID: 7}}
	quotes := &stubQuotes{err: errors.New("provider down")}

	svc := newTestCoach(llm, users, &stubPredictions{}, quotes, &stubConvStore{})

	if _, err := svc.Advise(context.Background(), 7, "What about AAPL?"); err != nil {
		t.Fatalf("quote failure should be non-fatal, got: %v", err)
	}
}

func TestAdviseDefaultMaxHistory(t *testing.T) {
	svc := NewCoach(
		trace.NewNoopTracerProvider().Tracer("test"),
		&stubLLMClient{}, &stubUsers{}, &stubPredictions{}, &stubQuotes{}, &stubConvStore{},
		"gpt-4o-mini", 0,
	)
	if svc.maxHistory != 20 {
		t.Fatalf("expected default maxHistory=20, got %d", svc.maxHistory)
	}
}

// --- stubs ---

type stubLLMClient struct {
	response  *openai.ChatCompletion
	err       error
	gotParams openai.ChatCompletionNewParams
}

func (s *stubLLMClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	s.gotParams = params
	return s.response, s.err
}

type storedMsg struct {
	userID  int64
	role    string
	content string
}

type stubConvStore struct {
	messages  []storedMsg
	appendErr error
	recentErr error
	trims     int
}

func (s *stubConvStore) AppendMessage(ctx context.Context, userID int64, role, content string) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.messages = append(s.messages, storedMsg{userID: userID, role: role, content: content})
	return nil
}

func (s *stubConvStore) RecentMessages(ctx context.Context, userID int64, limit int) ([]domain.ConversationMessage, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	var msgs []domain.ConversationMessage
	for _, m := range s.messages {
		if m.userID == userID {
			msgs = append(msgs, domain.ConversationMessage{Role: m.role, Content: m.content, CreatedAt: time.Now()})
		}
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func (s *stubConvStore) TrimHistory(ctx context.Context, userID int64, keep int) error {
	s.trims++
	return nil
}

type stubUsers struct {
	user *domain.User
	err  error
}

func (s *stubUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user != nil {
		return s.user, nil
	}
	return &domain.User{ID: id}, nil
}

type stubPredictions struct {
	list []domain.Prediction
	err  error
}

func (s *stubPredictions) List(ctx context.Context, filter domain.PredictionFilter) ([]domain.Prediction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

type stubQuotes struct {
	quote *domain.Quote
	err   error
}

func (s *stubQuotes) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.quote != nil {
		return s.quote, nil
	}
	return &domain.Quote{Symbol: symbol}, nil
}
