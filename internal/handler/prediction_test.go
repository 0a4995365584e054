package handler

import (
	"net/http"
	"testing"

	"stockduel/internal/domain"

	"github.com/gin-gonic/gin"
)

func TestCreatePrediction(t *testing.T) {
	h, stubs := newTestHandler()
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodPost, "/api/predictions", gin.H{
		"user_id":          7,
		"symbol":           "aapl",
		"predicted_change": 5.0,
		"hold_period":      "1w",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if stubs.predictions.gotSymbol != "AAPL" {
		t.Fatalf("symbol not uppercased: %q", stubs.predictions.gotSymbol)
	}
	if stubs.predictions.gotHold != domain.Hold1Week {
		t.Fatalf("unexpected hold period %q", stubs.predictions.gotHold)
	}

	var p domain.Prediction
	decodeBody(t, w, &p)
	if p.ID != 11 || p.UserID != 7 {
		t.Fatalf("unexpected payload: %+v", p)
	}
}

func TestCreatePredictionRejectsMissingFields(t *testing.T) {
	h, stubs := newTestHandler()
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodPost, "/api/predictions", gin.H{"symbol": "AAPL"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if stubs.predictions.gotSymbol != "" {
		t.Fatal("service called despite invalid body")
	}
}

func TestCreatePredictionBadHoldPeriod(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.predictions.createErr = domain.ErrInvalidInput
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodPost, "/api/predictions", gin.H{
		"user_id":          7,
		"symbol":           "AAPL",
		"predicted_change": 5.0,
		"hold_period":      "6m",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreatePredictionUnknownSymbol(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.predictions.createErr = domain.ErrNotFound
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodPost, "/api/predictions", gin.H{
		"user_id":          7,
		"symbol":           "ZZZZ",
		"predicted_change": 5.0,
		"hold_period":      "1w",
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetPrediction(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.predictions.prediction = &domain.Prediction{ID: 3, UserID: 7, Symbol: "TSLA"}
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodGet, "/api/predictions/3", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var p domain.Prediction
	decodeBody(t, w, &p)
	if p.ID != 3 || p.Symbol != "TSLA" {
		t.Fatalf("unexpected payload: %+v", p)
	}
}

func TestGetPredictionNotFound(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.predictions.getErr = domain.ErrNotFound
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodGet, "/api/predictions/99", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetPredictionBadID(t *testing.T) {
	h, _ := newTestHandler()
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodGet, "/api/predictions/abc", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListPredictionsParsesFilters(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.predictions.list = []domain.Prediction{{ID: 1}, {ID: 2}}
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodGet, "/api/predictions?user_id=7&symbol=msft&status=active&limit=10&offset=20", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	got := stubs.predictions.gotFilter
	want := domain.PredictionFilter{UserID: 7, Symbol: "MSFT", Status: domain.PredictionActive, Limit: 10, Offset: 20}
	if got != want {
		t.Fatalf("filter = %+v, want %+v", got, want)
	}

	var body struct {
		Count int `json:"count"`
	}
	decodeBody(t, w, &body)
	if body.Count != 2 {
		t.Fatalf("count = %d, want 2", body.Count)
	}
}

func TestCancelPrediction(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.predictions.prediction = &domain.Prediction{ID: 3, UserID: 7, Status: domain.PredictionActive}
	stubs.settler.cancelled = &domain.Prediction{ID: 3, UserID: 7, Status: domain.PredictionCancelled}
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodPost, "/api/predictions/3/cancel", gin.H{"user_id": 7})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var p domain.Prediction
	decodeBody(t, w, &p)
	if p.Status != domain.PredictionCancelled {
		t.Fatalf("status = %q, want cancelled", p.Status)
	}
}

func TestCancelPredictionForeignOwner(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.predictions.prediction = &domain.Prediction{ID: 3, UserID: 9, Status: domain.PredictionActive}
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodPost, "/api/predictions/3/cancel", gin.H{"user_id": 7})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if stubs.settler.cancels != 0 {
		t.Fatal("cancel reached the settler for a foreign prediction")
	}
}

func TestSettlePredictionEmptyBody(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.settler.settled = &domain.Prediction{ID: 3, Status: domain.PredictionSuccess}
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodPost, "/api/predictions/3/settle", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stubs.settler.gotID != 3 || stubs.settler.gotPrice != nil {
		t.Fatalf("settle called with id=%d override=%v, want id=3 override=nil", stubs.settler.gotID, stubs.settler.gotPrice)
	}
}

func TestSettlePredictionWithOverride(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.settler.settled = &domain.Prediction{ID: 3, Status: domain.PredictionFailed}
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodPost, "/api/predictions/3/settle", gin.H{"exit_price": 120.5})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if stubs.settler.gotPrice == nil || *stubs.settler.gotPrice != 120.5 {
		t.Fatalf("override = %v, want 120.5", stubs.settler.gotPrice)
	}
}

func TestSettlePredictionRejectsNonPositiveOverride(t *testing.T) {
	h, stubs := newTestHandler()
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodPost, "/api/predictions/3/settle", gin.H{"exit_price": -1.0})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if stubs.settler.gotID != 0 {
		t.Fatal("settler called despite invalid override")
	}
}

func TestSettlePredictionMissingPrice(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.settler.settleErr = domain.ErrMissingPrice
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodPost, "/api/predictions/3/settle", nil)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestSettlePredictionAlreadySettled(t *testing.T) {
	h, stubs := newTestHandler()
	stubs.settler.settleErr = domain.ErrNotActive
	router := newTestRouter(h, "")

	w := doRequest(t, router, http.MethodPost, "/api/predictions/3/settle", nil)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}
