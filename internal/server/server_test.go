package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"stock-options-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Addr:          ":0",
			AllowedOrigin: config.DefaultAllowedOrigin,
		},
	}
}

func newTestServer(cfg *config.Config) *Server {
	return New(cfg, singleContractProvider([]string{"2024-01-19"}), zerolog.Nop())
}

func TestPreflightGetsCORSHeaders(t *testing.T) {
	srv := newTestServer(testConfig())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodOptions, "/api/stock-options", nil)
	request.Header.Set("Origin", "http://localhost:3000")
	srv.Handler().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("preflight status = %d, want 200", recorder.Code)
	}
	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != config.DefaultAllowedOrigin {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
	if got := recorder.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatal("preflight must advertise allowed methods")
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(testConfig())

	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", recorder.Code)
	}
	if got := recorder.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}
}

func TestOriginGateRejectsUnknownOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.Server.AllowedOrigin = "https://options.example.com"
	cfg.Server.OriginGate = true
	srv := newTestServer(cfg)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/stock-options?symbol=AAPL", nil)
	request.Header.Set("Origin", "https://evil.example.net")
	srv.Handler().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", recorder.Code)
	}
}

func TestOriginGateAcceptsMatchingReferer(t *testing.T) {
	cfg := testConfig()
	cfg.Server.AllowedOrigin = "https://options.example.com"
	cfg.Server.OriginGate = true
	srv := newTestServer(cfg)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/stock-options?symbol=AAPL", nil)
	request.Header.Set("Referer", "https://options.example.com/chain?symbol=AAPL")
	srv.Handler().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", recorder.Code, recorder.Body)
	}
}

func TestOriginGateDisabledForLocalDevOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.Server.OriginGate = true // stays inert against the local-dev origin
	srv := newTestServer(cfg)

	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/stock-options?symbol=AAPL", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Addr = "127.0.0.1:0"
	srv := newTestServer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run should return nil after graceful shutdown, got %v", err)
	}
}
