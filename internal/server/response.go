package server

import (
	"encoding/json"
	"net/http"

	"stock-options-api/internal/chain"
)

// QuoteResponse is the 200 payload for the stock-options endpoint.
type QuoteResponse struct {
	Symbol            string                   `json:"symbol"`
	CurrentPrice      float64                  `json:"currentPrice"`
	ExpirationDate    string                   `json:"expirationDate"`
	ExpirationOptions []chain.ExpirationOption `json:"expirationOptions"`
	Calls             []chain.Record           `json:"calls"`
	Puts              []chain.Record           `json:"puts"`
	Timestamp         string                   `json:"timestamp"`
}

// errorPayload is the body for every non-200 response.
type errorPayload struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorPayload{Detail: detail})
}
