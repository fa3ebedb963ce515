package server

import (
	"github.com/dusk-indust/eventplan/internal/orchestrator"
)

// ErrorResponse is the body of every non-2xx response except pipeline
// failures, which return the error report itself
type ErrorResponse struct {
	Error   string   `json:"error"`
	Status  int      `json:"status"`
	Details []string `json:"details,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Archive bool   `json:"archive"`
}

// BatchRequest is the body of POST /plans/batch
type BatchRequest struct {
	Events      []orchestrator.EventParams `json:"events"`
	Concurrency int                        `json:"concurrency,omitempty"`
}

// BatchResponse is the body of a successful POST /plans/batch
type BatchResponse struct {
	Plans []map[string]string `json:"plans"`
	Count int                 `json:"count"`
}

// PlanSummary is one entry of GET /plans
type PlanSummary struct {
	ID        string `json:"id"`
	Topic     string `json:"event_topic"`
	City      string `json:"event_city"`
	Date      string `json:"tentative_date"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

// PlansListResponse is the body of GET /plans
type PlansListResponse struct {
	Plans []PlanSummary `json:"plans"`
	Count int           `json:"count"`
}
