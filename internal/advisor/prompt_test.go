package advisor

import (
	"strings"
	"testing"

	"stockduel/internal/domain"
)

func TestBuildSystemPromptContainsPhilosophy(t *testing.T) {
	prompt := BuildSystemPrompt("some context")
	if !strings.Contains(prompt, "stock prediction contest") {
		t.Fatal("expected coaching philosophy in prompt")
	}
	if !strings.Contains(prompt, "Scoring rules") {
		t.Fatal("expected scoring rules in prompt")
	}
	if !strings.Contains(prompt, "PLAYER AND MARKET DATA") {
		t.Fatal("expected data header in prompt")
	}
	if !strings.Contains(prompt, "some context") {
		t.Fatal("expected contest context in prompt")
	}
}

func TestFormatCoachContextWithFullRecord(t *testing.T) {
	user := &domain.User{
		Nickname:         "trader_kim",
		Level:            2,
		TotalScore:       1480,
		TotalPredictions: 10,
		SuccessCount:     6,
		CurrentStreak:    3,
		MaxStreak:        5,
	}
	actual := 4.2
	predictions := []domain.Prediction{
		{Symbol: "AAPL", PredictedChange: 5, HoldPeriod: domain.Hold1Week, Status: domain.PredictionSuccess, ActualReturn: &actual},
	}
	quotes := []*domain.Quote{
		{Symbol: "AAPL", Price: 182.5, ChangePct: 1.3},
	}

	ctx := FormatCoachContext(user, predictions, quotes)
	if !strings.Contains(ctx, "trader_kim: level 2, 1480 points") {
		t.Fatalf("expected player record, got: %s", ctx)
	}
	if !strings.Contains(ctx, "60% win rate") {
		t.Fatalf("expected win rate, got: %s", ctx)
	}
	if !strings.Contains(ctx, "streak 3 (best 5)") {
		t.Fatalf("expected streaks, got: %s", ctx)
	}
	if !strings.Contains(ctx, "AAPL +5.0% over 1w: success (actual +4.20%)") {
		t.Fatalf("expected prediction line, got: %s", ctx)
	}
	if !strings.Contains(ctx, "AAPL: $182.50 (+1.30% today)") {
		t.Fatalf("expected quote line, got: %s", ctx)
	}
}

func TestFormatCoachContextEmpty(t *testing.T) {
	ctx := FormatCoachContext(nil, nil, nil)
	if ctx != "No contest data currently available." {
		t.Fatalf("expected fallback text, got: %s", ctx)
	}
}

func TestFormatCoachContextRecordOnly(t *testing.T) {
	user := &domain.User{Nickname: "rookie", Level: 1}
	ctx := FormatCoachContext(user, nil, nil)
	if !strings.Contains(ctx, "rookie: level 1") {
		t.Fatalf("expected player record, got: %s", ctx)
	}
	if strings.Contains(ctx, "Recent Predictions") {
		t.Fatal("should not contain predictions section when there are none")
	}
	if strings.Contains(ctx, "Quotes Mentioned") {
		t.Fatal("should not contain quotes section when there are none")
	}
}
