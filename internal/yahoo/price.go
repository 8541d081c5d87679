package yahoo

import (
	"context"
	"math"

	"github.com/rs/zerolog"
)

// ResolveCurrentPrice walks the price fallback chain for a symbol: the quote
// endpoint field, then the fast chart-meta quote, then the most recent daily
// close. The chain is strictly sequential; each attempt's failure is
// swallowed and logged, and if every attempt fails the price defaults to 0.
func ResolveCurrentPrice(ctx context.Context, provider Provider, symbol, historyRange string, logger zerolog.Logger) float64 {
	if price, err := provider.QuoteField(ctx, symbol); err == nil && usablePrice(price) {
		return *price
	} else if err != nil {
		logger.Debug().Err(err).Str("symbol", symbol).Msg("quote field lookup failed")
	}

	if price, err := provider.FastQuote(ctx, symbol); err == nil && usablePrice(price) {
		return *price
	} else if err != nil {
		logger.Debug().Err(err).Str("symbol", symbol).Msg("fast quote lookup failed")
	}

	if bars, err := provider.RecentHistory(ctx, symbol, historyRange); err == nil && len(bars) > 0 {
		last := bars[len(bars)-1].Close
		if !math.IsNaN(last) && !math.IsInf(last, 0) {
			return last
		}
	} else if err != nil {
		logger.Debug().Err(err).Str("symbol", symbol).Msg("history lookup failed")
	}

	logger.Warn().Str("symbol", symbol).Msg("all price lookups failed; defaulting to 0")
	return 0
}

func usablePrice(price *float64) bool {
	return price != nil && !math.IsNaN(*price) && !math.IsInf(*price, 0)
}
