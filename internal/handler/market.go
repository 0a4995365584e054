package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetQuote godoc
// @Summary      Latest quote for a symbol
// @Description  Served from the Redis cache when fresh, otherwise fetched upstream
// @Tags         market
// @Produce      json
// @Param        symbol  path      string  true  "Ticker symbol, e.g. AAPL"
// @Success      200     {object}  domain.Quote
// @Failure      409     {object}  map[string]string
// @Router       /api/quotes/{symbol} [get]
func (h *Handler) GetQuote(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-quote")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	quote, err := h.quotes.GetQuote(ctx, symbol)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// ListSymbols godoc
// @Summary      Tradable symbols
// @Tags         market
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/symbols [get]
func (h *Handler) ListSymbols(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-symbols")
	defer span.End()

	symbols, err := h.symbols.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"symbols": symbols, "count": len(symbols)})
}

// GetSymbolStats godoc
// @Summary      Contest stats for a symbol
// @Description  Prediction counts and success rate accumulated from settled calls
// @Tags         market
// @Produce      json
// @Param        symbol  path      string  true  "Ticker symbol"
// @Success      200     {object}  domain.Symbol
// @Failure      404     {object}  map[string]string
// @Router       /api/symbols/{symbol}/stats [get]
func (h *Handler) GetSymbolStats(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-symbol-stats")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	s, err := h.symbols.Get(ctx, symbol)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}
