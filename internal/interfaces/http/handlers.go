package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/proplab/proplab/internal/backtest"
	"github.com/proplab/proplab/internal/cache"
	"github.com/proplab/proplab/internal/domain"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Debug().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, RequestID: requestID(r)})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   s.deps.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found")
}

// fieldInfo describes one registered field for clients building filters.
type fieldInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// handleFields lists explicitly registered field definitions. Family fields
// (stat.*, line.*, diff.*, ctx.*) are open-ended and not enumerated here.
func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	keys := s.deps.Registry.Keys()
	infos := make([]fieldInfo, 0, len(keys))
	for _, key := range keys {
		def, ok := s.deps.Registry.Get(key)
		if !ok {
			continue
		}
		infos = append(infos, fieldInfo{
			Key:   def.Key(),
			Label: def.Label(),
			Type:  string(def.Type()),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"fields": infos})
}

type validateResponse struct {
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors"`
	Summary string   `json:"summary,omitempty"`
}

// handleValidate checks a filter definition without running anything. The
// verdict is the payload, so a well-formed request always answers 200 even
// when the filter itself is broken.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var f domain.CustomFilter
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed filter: "+err.Error())
		return
	}

	problems := s.deps.Evaluator.ValidateFilter(f)
	resp := validateResponse{Valid: len(problems) == 0, Errors: problems}
	if resp.Valid {
		resp.Summary = s.deps.Evaluator.Summarize(f)
	}
	writeJSON(w, http.StatusOK, resp)
}

type evaluateRequest struct {
	Filter domain.CustomFilter      `json:"filter"`
	Logs   []domain.EnrichedGameLog `json:"logs"`
}

type evaluateResponse struct {
	Summary        string                   `json:"summary"`
	MatchedCount   int                      `json:"matched_count"`
	UnmatchedCount int                      `json:"unmatched_count"`
	Matched        []domain.EnrichedGameLog `json:"matched"`
	Unmatched      []domain.EnrichedGameLog `json:"unmatched"`
}

// handleEvaluate partitions the supplied logs by the filter.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request: "+err.Error())
		return
	}

	if problems := s.deps.Evaluator.ValidateFilter(req.Filter); len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, validateResponse{Valid: false, Errors: problems})
		return
	}

	matched, unmatched, err := s.deps.Evaluator.EvaluateBatch(req.Filter, req.Logs)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, evaluateResponse{
		Summary:        s.deps.Evaluator.Summarize(req.Filter),
		MatchedCount:   len(matched),
		UnmatchedCount: len(unmatched),
		Matched:        matched,
		Unmatched:      unmatched,
	})
}

type backtestRequest struct {
	Filter      domain.CustomFilter      `json:"filter"`
	Sport       string                   `json:"sport"`
	Seasons     []string                 `json:"seasons"`
	AssumedOdds *int                     `json:"assumed_odds"`
	Logs        []domain.EnrichedGameLog `json:"logs,omitempty"`
	NoCache     bool                     `json:"no_cache"`
}

type backtestResponse struct {
	Result domain.BacktestResult `json:"result"`
	Cached bool                  `json:"cached"`
}

// handleBacktest validates the filter, loads logs (inline logs win over the
// provider), and runs the simulation, short-circuiting through the result
// cache when enabled.
func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request: "+err.Error())
		return
	}

	if problems := s.deps.Evaluator.ValidateFilter(req.Filter); len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, validateResponse{Valid: false, Errors: problems})
		return
	}

	odds := backtest.DefaultOdds
	if req.AssumedOdds != nil {
		odds = *req.AssumedOdds
	}

	logs := req.Logs
	if len(logs) == 0 {
		fetched, err := s.deps.Provider.FetchGameLogs(r.Context(), req.Sport, req.Seasons)
		if err != nil {
			log.Error().Err(err).Str("request_id", requestID(r)).Msg("game log fetch failed")
			writeError(w, r, http.StatusBadGateway, "game log source unavailable")
			return
		}
		logs = fetched
	}

	fingerprint := cache.Fingerprint(req.Filter, logs, req.Seasons, odds)
	if s.deps.Results != nil && !req.NoCache {
		if res, ok := s.deps.Results.Get(r.Context(), fingerprint); ok {
			s.deps.Metrics.RecordCacheHit()
			writeJSON(w, http.StatusOK, backtestResponse{Result: res, Cached: true})
			return
		}
		s.deps.Metrics.RecordCacheMiss()
	}

	start := time.Now()
	res, err := s.deps.Simulator.Run(req.Filter, logs, req.Seasons, odds)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.deps.Metrics.RecordBacktest(time.Since(start).Seconds(), res.TotalBets)

	if s.deps.Results != nil && !req.NoCache {
		s.deps.Results.Put(r.Context(), fingerprint, res)
	}
	writeJSON(w, http.StatusOK, backtestResponse{Result: res, Cached: false})
}
