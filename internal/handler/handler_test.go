package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"stockduel/internal/cache"
	"stockduel/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type handlerStubs struct {
	predictions *stubPredictionOpener
	settler     *stubSettler
	rankings    *stubRankingProvider
	follows     *stubFollowManager
	quotes      *stubQuoteGetter
	users       *stubUserDirectory
	symbols     *stubSymbolDirectory
	coach       *stubCoach
	sshKeys     *stubSSHKeyRegistrar
}

func newTestHandler() (*Handler, *handlerStubs) {
	s := &handlerStubs{
		predictions: &stubPredictionOpener{},
		settler:     &stubSettler{},
		rankings:    &stubRankingProvider{},
		follows:     &stubFollowManager{},
		quotes:      &stubQuoteGetter{},
		users:       &stubUserDirectory{},
		symbols:     &stubSymbolDirectory{},
		coach:       &stubCoach{},
		sshKeys:     &stubSSHKeyRegistrar{},
	}
	tracer := trace.NewNoopTracerProvider().Tracer("handler-test")
	h := New(tracer, s.predictions, s.settler, s.rankings, s.follows, s.quotes, s.users, s.symbols, s.coach, s.sshKeys)
	return h, s
}

func newTestRouter(h *Handler, adminKey string) *gin.Engine {
	router := gin.New()
	h.RegisterRoutes(router, adminKey)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("parse response %q: %v", w.Body.String(), err)
	}
}

type stubPredictionOpener struct {
	created   *domain.Prediction
	createErr error
	gotSymbol string
	gotHold   domain.HoldPeriod

	prediction *domain.Prediction
	getErr     error

	list      []domain.Prediction
	listErr   error
	gotFilter domain.PredictionFilter
}

func (s *stubPredictionOpener) Create(ctx context.Context, userID int64, symbol string, predictedChange float64, hold domain.HoldPeriod) (*domain.Prediction, error) {
	s.gotSymbol, s.gotHold = symbol, hold
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.created != nil {
		return s.created, nil
	}
	return &domain.Prediction{ID: 11, UserID: userID, Symbol: symbol, PredictedChange: predictedChange, HoldPeriod: hold, Status: domain.PredictionActive}, nil
}

func (s *stubPredictionOpener) Get(ctx context.Context, id int64) (*domain.Prediction, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.prediction, nil
}

func (s *stubPredictionOpener) List(ctx context.Context, filter domain.PredictionFilter) ([]domain.Prediction, error) {
	s.gotFilter = filter
	return s.list, s.listErr
}

type stubSettler struct {
	settled   *domain.Prediction
	settleErr error
	gotID     int64
	gotPrice  *float64

	cancelled *domain.Prediction
	cancelErr error
	cancels   int
}

func (s *stubSettler) Settle(ctx context.Context, id int64, exitPriceOverride *float64) (*domain.Prediction, error) {
	s.gotID, s.gotPrice = id, exitPriceOverride
	if s.settleErr != nil {
		return nil, s.settleErr
	}
	return s.settled, nil
}

func (s *stubSettler) Cancel(ctx context.Context, id int64) (*domain.Prediction, error) {
	s.cancels++
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return s.cancelled, nil
}

type stubRankingProvider struct {
	rows      []domain.RankingSnapshot
	calcErr   error
	gotType   domain.RankType
	gotPeriod string

	page      *cache.RankingPage
	listErr   error
	gotLimit  int
	gotOffset int

	row       *domain.RankingSnapshot
	userErr   error
	gotUserID int64
}

func (s *stubRankingProvider) CalculateRankings(ctx context.Context, rankType domain.RankType, periodID string) ([]domain.RankingSnapshot, error) {
	s.gotType, s.gotPeriod = rankType, periodID
	if s.calcErr != nil {
		return nil, s.calcErr
	}
	return s.rows, nil
}

func (s *stubRankingProvider) GetRankingList(ctx context.Context, rankType domain.RankType, periodID string, limit, offset int) (*cache.RankingPage, error) {
	s.gotType, s.gotPeriod, s.gotLimit, s.gotOffset = rankType, periodID, limit, offset
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.page != nil {
		return s.page, nil
	}
	return &cache.RankingPage{}, nil
}

func (s *stubRankingProvider) GetUserRanking(ctx context.Context, userID int64, rankType domain.RankType, periodID string) (*domain.RankingSnapshot, error) {
	s.gotUserID, s.gotType, s.gotPeriod = userID, rankType, periodID
	if s.userErr != nil {
		return nil, s.userErr
	}
	return s.row, nil
}

type stubFollowManager struct {
	follow    *domain.Follow
	followErr error
	gotTarget domain.FollowType
	gotAmount float64

	unfollowed  *domain.Follow
	unfollowErr error
	gotFollowID int64
	gotOwnerID  int64

	follows []domain.Follow
	listErr error
}

func (s *stubFollowManager) Follow(ctx context.Context, userID int64, targetType domain.FollowType, targetID int64, amount float64) (*domain.Follow, error) {
	s.gotTarget, s.gotAmount = targetType, amount
	if s.followErr != nil {
		return nil, s.followErr
	}
	if s.follow != nil {
		return s.follow, nil
	}
	return &domain.Follow{ID: 21, UserID: userID, TargetType: targetType, TargetID: targetID, Amount: amount, Status: domain.FollowActive}, nil
}

func (s *stubFollowManager) Unfollow(ctx context.Context, id, userID int64) (*domain.Follow, error) {
	s.gotFollowID, s.gotOwnerID = id, userID
	if s.unfollowErr != nil {
		return nil, s.unfollowErr
	}
	return s.unfollowed, nil
}

func (s *stubFollowManager) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Follow, error) {
	return s.follows, s.listErr
}

type stubQuoteGetter struct {
	quote     *domain.Quote
	err       error
	gotSymbol string
}

func (s *stubQuoteGetter) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	s.gotSymbol = symbol
	if s.err != nil {
		return nil, s.err
	}
	return s.quote, nil
}

type stubUserDirectory struct {
	user      *domain.User
	createErr error
	getErr    error
	gotNick   string
}

func (s *stubUserDirectory) Create(ctx context.Context, nickname string) (*domain.User, error) {
	s.gotNick = nickname
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.user != nil {
		return s.user, nil
	}
	return &domain.User{ID: 7, Nickname: nickname, IsActive: true, Level: 1}, nil
}

func (s *stubUserDirectory) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	s.gotNick = nickname
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.user, nil
}

type stubSymbolDirectory struct {
	symbol  *domain.Symbol
	getErr  error
	symbols []domain.Symbol
	listErr error
}

func (s *stubSymbolDirectory) Get(ctx context.Context, symbol string) (*domain.Symbol, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.symbol, nil
}

func (s *stubSymbolDirectory) List(ctx context.Context) ([]domain.Symbol, error) {
	return s.symbols, s.listErr
}

type stubCoach struct {
	reply       string
	err         error
	gotUserID   int64
	gotQuestion string
}

func (s *stubCoach) Advise(ctx context.Context, userID int64, question string) (string, error) {
	s.gotUserID, s.gotQuestion = userID, question
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubSSHKeyRegistrar struct {
	err            error
	gotUserID      int64
	gotFingerprint string
}

func (s *stubSSHKeyRegistrar) Register(ctx context.Context, userID int64, fingerprint string) error {
	s.gotUserID, s.gotFingerprint = userID, fingerprint
	return s.err
}
