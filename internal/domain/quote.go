package domain

import "time"

// Quote represents the latest market data for a symbol.
type Quote struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	Change      float64 `json:"change"`
	ChangePct   float64 `json:"change_pct"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	PrevClose   float64 `json:"prev_close"`
	UpdatedUnix int64   `json:"updated_unix"`
}

// Symbol carries listing info plus aggregate stats over the symbol's
// settled predictions, refreshed by the settlement cascade.
type Symbol struct {
	Symbol          string    `json:"symbol"`
	Name            string    `json:"name"`
	Exchange        string    `json:"exchange"`
	PredictionCount int       `json:"prediction_count"`
	SuccessCount    int       `json:"success_count"`
	AvgReturn       float64   `json:"avg_return"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SeedSymbols is the starting watchlist. The seed migration carries the
// same rows.
var SeedSymbols = []Symbol{
	{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Exchange: "NASDAQ"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Exchange: "NASDAQ"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Exchange: "NASDAQ"},
	{Symbol: "META", Name: "Meta Platforms Inc.", Exchange: "NASDAQ"},
	{Symbol: "TSLA", Name: "Tesla Inc.", Exchange: "NASDAQ"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Exchange: "NYSE"},
	{Symbol: "V", Name: "Visa Inc.", Exchange: "NYSE"},
	{Symbol: "KO", Name: "The Coca-Cola Company", Exchange: "NYSE"},
}
