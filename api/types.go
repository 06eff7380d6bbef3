package api

import (
	"github.com/Verman94/PriceWebApp/core/table"
	"github.com/Verman94/PriceWebApp/internal/config"
)

// PriceRequest is the body of POST /api/v1/price. The dataset is one
// uploaded snapshot of every input table; the config overrides the server
// defaults when present, including operator-edited override columns fed
// back from a previous run.
type PriceRequest struct {
	Dataset *table.Dataset `json:"dataset"`
	Config  *config.Config `json:"config,omitempty"`
}

// PriceResponse carries the priced product lists back to the caller
type PriceResponse struct {
	RequestID string `json:"request_id"`

	// RunID is set when the run was persisted to the store
	RunID string `json:"run_id,omitempty"`

	InputHash  string   `json:"input_hash"`
	Method     string   `json:"method"`
	DurationMs int64    `json:"duration_ms"`
	Warnings   []string `json:"warnings,omitempty"`

	ShortList []table.Product     `json:"short_list"`
	FullList  []table.Product     `json:"full_list"`
	Compare   []table.CompareRule `json:"compare"`
}

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
