package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stock-options-api/internal/chain"
	"stock-options-api/internal/yahoo"
)

// OptionsHandler serves the options-chain endpoint: it discovers the
// available expirations for a symbol, fetches the chain at the selected
// expiration, resolves the underlying's current price through a fallback
// chain, and returns the cleaned tables.
type OptionsHandler struct {
	provider     yahoo.Provider
	historyRange string
	logger       zerolog.Logger
	now          func() time.Time
}

// NewOptionsHandler constructs the handler.
func NewOptionsHandler(provider yahoo.Provider, historyRange string, logger zerolog.Logger) *OptionsHandler {
	if historyRange == "" {
		historyRange = "1d"
	}
	return &OptionsHandler{
		provider:     provider,
		historyRange: historyRange,
		logger:       logger.With().Str("component", "options_handler").Logger(),
		now:          time.Now,
	}
}

func (h *OptionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing 'symbol' parameter")
		return
	}
	symbol = strings.ToUpper(symbol)

	ctx := r.Context()

	expirations, err := h.provider.ListExpirations(ctx, symbol)
	if err != nil {
		h.logger.Error().Err(err).Str("symbol", symbol).Msg("failed to list expirations")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("error fetching options data: %s", err))
		return
	}
	if len(expirations) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no options data available for %s", symbol))
		return
	}

	// The caller's expiration is honored only when it is one of the dates the
	// provider actually offers; otherwise fall back to the soonest.
	target := expirations[0]
	if requested := strings.TrimSpace(r.URL.Query().Get("expiration")); requested != "" {
		for _, date := range expirations {
			if date == requested {
				target = requested
				break
			}
		}
	}

	calls, puts, err := h.provider.FetchChain(ctx, symbol, target)
	if err != nil {
		h.logger.Error().Err(err).Str("symbol", symbol).Str("expiration", target).Msg("failed to fetch option chain")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("error fetching options data: %s", err))
		return
	}
	if len(calls) == 0 && len(puts) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no options contracts found for %s", symbol))
		return
	}

	currentPrice := yahoo.ResolveCurrentPrice(ctx, h.provider, symbol, h.historyRange, h.logger)

	response := QuoteResponse{
		Symbol:            symbol,
		CurrentPrice:      currentPrice,
		ExpirationDate:    target,
		ExpirationOptions: chain.Expirations(expirations, h.now()),
		Calls:             chain.Clean(calls, target),
		Puts:              chain.Clean(puts, target),
		Timestamp:         h.now().UTC().Format(time.RFC3339),
	}

	h.logger.Info().
		Str("symbol", symbol).
		Str("expiration", target).
		Int("calls", len(response.Calls)).
		Int("puts", len(response.Puts)).
		Msg("served option chain")

	writeJSON(w, http.StatusOK, response)
}

// healthHandler answers the health-check route.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Stock Options API is running",
	})
}
