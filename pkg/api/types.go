package api

import (
	"github.com/iwilltry42/addrmatch/pkg/capture"
)

const (
	PathParse   = "/v1/parse"
	PathMatch   = "/v1/match"
	PathRules   = "/v1/rules"
	PathHealth  = "/healthz"
	PathMetrics = "/metrics"
)

// ParseRequest is the body of POST /v1/parse. Either Address or Addresses is set.
// Rule restricts parsing to a single rule.
type ParseRequest struct {
	Address   string   `json:"address,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
	Rule      string   `json:"rule,omitempty"`
}

// ParseResponse is the parse result for one address
type ParseResponse struct {
	Input    string       `json:"input"`
	Matched  bool         `json:"matched"`
	Rule     string       `json:"rule,omitempty"`
	Captures *capture.Map `json:"captures,omitempty"`
}

// ParseBatchResponse is returned for a request with Addresses
type ParseBatchResponse struct {
	Results []ParseResponse `json:"results"`
}

// MatchRequest is the body of POST /v1/match
type MatchRequest struct {
	Pattern string `json:"pattern"`
	Subject string `json:"subject"`
	Engine  string `json:"engine,omitempty"`
}

// MatchResponse reports whether the pattern matched and what it captured
type MatchResponse struct {
	Matched  bool         `json:"matched"`
	Captures *capture.Map `json:"captures,omitempty"`
}

// RuleResponse describes one registered rule
type RuleResponse struct {
	Name        string   `json:"name"`
	Priority    int      `json:"priority"`
	Engine      string   `json:"engine"`
	Pattern     string   `json:"pattern"`
	Groups      []string `json:"groups"`
	Description string   `json:"description,omitempty"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}
