package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stock-options-api/internal/chain"
)

const (
	optionsPath = "/v7/finance/options/"
	quotePath   = "/v7/finance/quote"
	chartPath   = "/v8/finance/chart/"

	expirationLayout = "2006-01-02"
)

// ClientOptions parameterise the Yahoo Finance client.
type ClientOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client fetches option chains and quotes from Yahoo Finance.
type Client struct {
	opts    ClientOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewClient constructs a Yahoo Finance client.
func NewClient(opts ClientOptions, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://query2.finance.yahoo.com"
	}

	return &Client{
		opts:    opts,
		logger:  logger.With().Str("component", "yahoo_client").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// optionChainResponse mirrors the v7 options endpoint envelope. Calls and
// puts stay as raw rows so cleaning sees exactly what the provider sent.
type optionChainResponse struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
			Options         []struct {
				Calls []chain.Row `json:"calls"`
				Puts  []chain.Row `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"optionChain"`
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			CurrentPrice       *float64 `json:"currentPrice"`
			RegularMarketPrice *float64 `json:"regularMarketPrice"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteResponse"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ListExpirations returns the available expiration dates, soonest first.
func (c *Client) ListExpirations(ctx context.Context, symbol string) ([]string, error) {
	var payload optionChainResponse
	if err := c.getJSON(ctx, c.baseURL+optionsPath+url.PathEscape(symbol), nil, &payload); err != nil {
		return nil, err
	}
	if payload.OptionChain.Error != nil {
		return nil, payload.OptionChain.Error.toError("option chain")
	}
	if len(payload.OptionChain.Result) == 0 {
		return nil, nil
	}

	stamps := payload.OptionChain.Result[0].ExpirationDates
	dates := make([]string, 0, len(stamps))
	for _, stamp := range stamps {
		dates = append(dates, time.Unix(stamp, 0).UTC().Format(expirationLayout))
	}
	return dates, nil
}

// FetchChain returns the raw calls and puts tables for one expiration.
func (c *Client) FetchChain(ctx context.Context, symbol, expiration string) ([]chain.Row, []chain.Row, error) {
	expiry, err := time.Parse(expirationLayout, expiration)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid expiration date %q: %w", expiration, err)
	}

	query := url.Values{"date": {fmt.Sprint(expiry.Unix())}}

	var payload optionChainResponse
	if err := c.getJSON(ctx, c.baseURL+optionsPath+url.PathEscape(symbol), query, &payload); err != nil {
		return nil, nil, err
	}
	if payload.OptionChain.Error != nil {
		return nil, nil, payload.OptionChain.Error.toError("option chain")
	}

	var calls, puts []chain.Row
	if len(payload.OptionChain.Result) > 0 && len(payload.OptionChain.Result[0].Options) > 0 {
		calls = payload.OptionChain.Result[0].Options[0].Calls
		puts = payload.OptionChain.Result[0].Options[0].Puts
	}
	return calls, puts, nil
}

// QuoteField returns currentPrice or regularMarketPrice from the quote
// endpoint, preferring the former.
func (c *Client) QuoteField(ctx context.Context, symbol string) (*float64, error) {
	query := url.Values{"symbols": {symbol}}

	var payload quoteResponse
	if err := c.getJSON(ctx, c.baseURL+quotePath, query, &payload); err != nil {
		return nil, err
	}
	if payload.QuoteResponse.Error != nil {
		return nil, payload.QuoteResponse.Error.toError("quote")
	}
	if len(payload.QuoteResponse.Result) == 0 {
		return nil, nil
	}

	result := payload.QuoteResponse.Result[0]
	if result.CurrentPrice != nil {
		return result.CurrentPrice, nil
	}
	return result.RegularMarketPrice, nil
}

// FastQuote returns the last price from the chart metadata.
func (c *Client) FastQuote(ctx context.Context, symbol string) (*float64, error) {
	query := url.Values{"range": {"1d"}, "interval": {"1d"}}

	var payload chartResponse
	if err := c.getJSON(ctx, c.baseURL+chartPath+url.PathEscape(symbol), query, &payload); err != nil {
		return nil, err
	}
	if payload.Chart.Error != nil {
		return nil, payload.Chart.Error.toError("chart")
	}
	if len(payload.Chart.Result) == 0 {
		return nil, nil
	}
	return payload.Chart.Result[0].Meta.RegularMarketPrice, nil
}

// RecentHistory returns daily bars for the requested range. Null closes in
// the provider series are skipped.
func (c *Client) RecentHistory(ctx context.Context, symbol, historyRange string) ([]Bar, error) {
	if historyRange == "" {
		historyRange = "1d"
	}
	query := url.Values{"range": {historyRange}, "interval": {"1d"}}

	var payload chartResponse
	if err := c.getJSON(ctx, c.baseURL+chartPath+url.PathEscape(symbol), query, &payload); err != nil {
		return nil, err
	}
	if payload.Chart.Error != nil {
		return nil, payload.Chart.Error.toError("chart")
	}
	if len(payload.Chart.Result) == 0 {
		return nil, nil
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}

	closes := result.Indicators.Quote[0].Close
	bars := make([]Bar, 0, len(closes))
	for i, px := range closes {
		if px == nil {
			continue
		}
		bar := Bar{Close: *px}
		if i < len(result.Timestamp) {
			bar.Timestamp = time.Unix(result.Timestamp[i], 0).UTC()
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	if len(query) > 0 {
		endpoint = endpoint + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "optionsapi/1.0")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payloadBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return parseHTTPError(resp.StatusCode, payloadBytes)
	}

	return json.Unmarshal(payloadBytes, out)
}

func (e *apiError) toError(scope string) error {
	if e.Description != "" {
		return fmt.Errorf("yahoo %s error: %s", scope, e.Description)
	}
	if e.Code != "" {
		return fmt.Errorf("yahoo %s error: %s", scope, e.Code)
	}
	return fmt.Errorf("yahoo %s error", scope)
}

func parseHTTPError(status int, payload []byte) error {
	var envelope struct {
		Finance struct {
			Error *apiError `json:"error"`
		} `json:"finance"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Finance.Error != nil {
		apiErr := envelope.Finance.Error
		if apiErr.Description != "" {
			return fmt.Errorf("yahoo api error (%d): %s", status, apiErr.Description)
		}
		if apiErr.Code != "" {
			return fmt.Errorf("yahoo api error (%d): %s", status, apiErr.Code)
		}
	}
	if len(payload) > 0 {
		return fmt.Errorf("yahoo api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("yahoo api error (%d)", status)
}

var _ Provider = (*Client)(nil)
