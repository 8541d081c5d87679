package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"stock-options-api/internal/chain"
	"stock-options-api/internal/config"
	"stock-options-api/internal/server"
	"stock-options-api/internal/yahoo"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newProvider() yahoo.Provider {
	return yahoo.NewClient(yahoo.ClientOptions{
		BaseURL:   a.Config.Yahoo.BaseURL,
		Timeout:   a.Config.Yahoo.RequestTimeout,
		UserAgent: a.Config.Yahoo.UserAgent,
	}, a.Logger)
}

// Serve runs the HTTP API until interrupted.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(a.Config, a.newProvider(), a.Logger)

	a.Logger.Info().Str("addr", a.Config.Server.Addr).Msg("starting options api")
	err := srv.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("server terminated with error")
		return err
	}

	a.Logger.Info().Msg("options api stopped")
	return nil
}

// fetchCleanedChain resolves the target expiration for a symbol and returns
// the cleaned calls and puts along with the expiration used. Shared by the
// quote and snapshot commands; the selection rule matches the HTTP handler.
func (a *App) fetchCleanedChain(ctx context.Context, provider yahoo.Provider, symbol, requested string) (target string, calls, puts []chain.Record, err error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", nil, nil, errors.New("symbol is required")
	}

	expirations, err := provider.ListExpirations(ctx, symbol)
	if err != nil {
		return "", nil, nil, fmt.Errorf("list expirations: %w", err)
	}
	if len(expirations) == 0 {
		return "", nil, nil, fmt.Errorf("no options data available for %s", symbol)
	}

	target = expirations[0]
	if requested != "" {
		for _, date := range expirations {
			if date == requested {
				target = requested
				break
			}
		}
	}

	rawCalls, rawPuts, err := provider.FetchChain(ctx, symbol, target)
	if err != nil {
		return "", nil, nil, fmt.Errorf("fetch option chain: %w", err)
	}
	if len(rawCalls) == 0 && len(rawPuts) == 0 {
		return "", nil, nil, fmt.Errorf("no options contracts found for %s", symbol)
	}

	return target, chain.Clean(rawCalls, target), chain.Clean(rawPuts, target), nil
}

// QuoteOptions configure the quote command.
type QuoteOptions struct {
	Symbol     string
	Expiration string
}

// SnapshotOptions configure the snapshot export.
type SnapshotOptions struct {
	Symbol     string
	Expiration string
	CSVPath    string
	PNGPath    string
}
