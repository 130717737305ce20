package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iwilltry42/addrmatch/pkg/grammar"
	"github.com/iwilltry42/addrmatch/pkg/pattern"
	"github.com/iwilltry42/addrmatch/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// Server exposes a grammar registry over HTTP
type Server struct {
	registry *grammar.Registry
	cfg      types.ServerConfig
	auth     types.AuthConfig
	workers  int
}

// NewServer creates a server for the registry. Zero values in cfg fall back to the defaults.
func NewServer(registry *grammar.Registry, cfg types.Config) *Server {
	s := &Server{
		registry: registry,
		cfg:      cfg.Server,
		auth:     cfg.Auth,
		workers:  cfg.Workers,
	}
	if s.cfg.ListenAddress == "" {
		s.cfg.ListenAddress = types.DEFAULT_LISTEN_ADDRESS
	}
	if s.cfg.ReadTimeout <= 0 {
		s.cfg.ReadTimeout = types.DEFAULT_READ_TIMEOUT
	}
	if s.cfg.MaxBatch <= 0 {
		s.cfg.MaxBatch = types.DEFAULT_MAX_BATCH
	}
	if s.auth.Issuer == "" {
		s.auth.Issuer = types.DEFAULT_TOKEN_ISSUER
	}
	if s.workers <= 0 {
		s.workers = types.DEFAULT_WORKERS
	}
	return s
}

// Handler returns the routed handler of the server, including metrics and auth middleware
func (s *Server) Handler() http.Handler {
	protected := http.NewServeMux()
	protected.HandleFunc("POST "+PathParse, s.handleParse)
	protected.HandleFunc("POST "+PathMatch, s.handleMatch)
	protected.HandleFunc("GET "+PathRules, s.handleRules)

	mux := http.NewServeMux()
	mux.Handle("/v1/", requireToken(s.auth.Secret, s.auth.Issuer, protected))
	mux.HandleFunc("GET "+PathHealth, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle(PathMetrics, promhttp.Handler())

	return instrument(mux)
}

// ListenAndServe serves until ctx is cancelled and then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.cfg.ListenAddress,
		Handler:     s.Handler(),
		ReadTimeout: s.cfg.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", s.cfg.ListenAddress)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Infoln("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if len(req.Addresses) > 0 {
		s.parseBatch(w, r, req)
		return
	}
	if req.Address == "" {
		writeError(w, http.StatusBadRequest, "either address or addresses must be set")
		return
	}

	parsed, err := s.parse(req.Rule, req.Address)
	if err != nil {
		writeParseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ParseResponse{
		Input:    parsed.Input,
		Matched:  true,
		Rule:     parsed.Rule,
		Captures: parsed.Captures,
	})
}

func (s *Server) parse(rule, address string) (*grammar.Parsed, error) {
	if rule != "" {
		return s.registry.ParseWith(rule, address)
	}
	return s.registry.Parse(address)
}

func (s *Server) parseBatch(w http.ResponseWriter, r *http.Request, req ParseRequest) {
	if len(req.Addresses) > s.cfg.MaxBatch {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("batch exceeds the maximum of %d addresses", s.cfg.MaxBatch))
		return
	}
	if req.Rule != "" {
		if _, _, ok := s.registry.Get(req.Rule); !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown rule '%s'", req.Rule))
			return
		}
	}

	resp := ParseBatchResponse{Results: make([]ParseResponse, len(req.Addresses))}
	if req.Rule != "" {
		for i, address := range req.Addresses {
			resp.Results[i] = ParseResponse{Input: address}
			parsed, err := s.registry.ParseWith(req.Rule, address)
			if errors.Is(err, grammar.ErrNoMatch) {
				continue
			}
			if err != nil {
				writeParseError(w, err)
				return
			}
			resp.Results[i] = ParseResponse{Input: address, Matched: true, Rule: parsed.Rule, Captures: parsed.Captures}
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	results, err := s.registry.ParseAll(r.Context(), req.Addresses, s.workers)
	if err != nil {
		writeParseError(w, err)
		return
	}
	for i, parsed := range results {
		if parsed == nil {
			resp.Results[i] = ParseResponse{Input: req.Addresses[i]}
			continue
		}
		resp.Results[i] = ParseResponse{Input: parsed.Input, Matched: true, Rule: parsed.Rule, Captures: parsed.Captures}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var opts []pattern.Option
	if req.Engine != "" {
		engine, err := pattern.ParseEngine(req.Engine)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts = append(opts, pattern.WithEngine(engine))
	}

	captures, err := s.registry.MatchPattern(req.Pattern, req.Subject, opts...)
	var invalid *pattern.InvalidPatternError
	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeParseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MatchResponse{Matched: captures != nil, Captures: captures})
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	rules := s.registry.Rules()
	resp := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		_, p, ok := s.registry.Get(rule.Name)
		if !ok {
			continue
		}
		resp = append(resp, RuleResponse{
			Name:        rule.Name,
			Priority:    rule.Priority,
			Engine:      string(p.Engine()),
			Pattern:     rule.Pattern,
			Groups:      p.Names(),
			Description: rule.Description,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeParseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, grammar.ErrNoMatch):
		writeError(w, http.StatusNotFound, "no match")
	case errors.Is(err, grammar.ErrUnknownRule):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pattern.ErrMatchTimeout):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.WithError(err).Errorln("Failed to parse request")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warnln("Failed to write response")
	}
}
