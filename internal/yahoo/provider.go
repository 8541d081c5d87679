package yahoo

import (
	"context"
	"time"

	"stock-options-api/internal/chain"
)

// Provider is the market-data surface consumed by the HTTP handler and the
// CLI commands. The production implementation talks to the public Yahoo
// Finance endpoints; tests substitute a fake.
type Provider interface {
	// ListExpirations returns the available option expiration dates for a
	// symbol as YYYY-MM-DD strings, soonest first. The list may be empty.
	ListExpirations(ctx context.Context, symbol string) ([]string, error)

	// FetchChain returns the raw calls and puts tables for a symbol at one
	// expiration date. Rows are heterogeneous key-value maps straight from
	// the provider; cleaning happens downstream.
	FetchChain(ctx context.Context, symbol, expiration string) (calls, puts []chain.Row, err error)

	// QuoteField returns the current or regular-market price from the quote
	// endpoint, or nil when the field is absent.
	QuoteField(ctx context.Context, symbol string) (*float64, error)

	// FastQuote returns the last price from the lightweight chart metadata,
	// or nil when absent.
	FastQuote(ctx context.Context, symbol string) (*float64, error)

	// RecentHistory returns daily bars for the given range string (e.g. "1d").
	RecentHistory(ctx context.Context, symbol, historyRange string) ([]Bar, error)
}

// Bar is one daily price bar from the chart endpoint.
type Bar struct {
	Timestamp time.Time
	Close     float64
}
