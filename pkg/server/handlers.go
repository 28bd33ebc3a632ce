package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"clearline-hq/arbiter/pkg/audit"
	"clearline-hq/arbiter/pkg/decision"
	"clearline-hq/arbiter/pkg/pipeline"
	"clearline-hq/arbiter/pkg/signal"
	"clearline-hq/arbiter/pkg/spec"
)

// Decider runs a decision request through the evaluation pipeline.
// *pipeline.Pipeline implements it.
type Decider interface {
	Decide(ctx context.Context, req *pipeline.Request) (*pipeline.Outcome, error)
}

// errorResponse is the JSON envelope for error replies.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decideResponse is the JSON reply for a successful decision.
type decideResponse struct {
	DecisionID       string           `json:"decision_id"`
	Verdict          decision.Verdict `json:"verdict"`
	MatchedPolicyIDs []string         `json:"matched_policy_ids"`
	SnapshotID       string           `json:"snapshot_id"`
	SpecID           string           `json:"spec_id"`
	SpecVersion      string           `json:"spec_version"`
	ScopeID          string           `json:"scope_id"`
	OwningTeam       string           `json:"owning_team,omitempty"`
	IssuedAt         time.Time        `json:"issued_at"`
}

// decideHandler accepts a decision request and returns the verdict.
type decideHandler struct {
	decider Decider
	logger  *slog.Logger
}

func (h *decideHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body is not valid JSON: "+err.Error())
		return
	}

	outcome, err := h.decider.Decide(r.Context(), &req)
	if err != nil {
		h.writeDecideError(w, r, err)
		return
	}

	v := outcome.Verdict
	writeJSON(w, http.StatusOK, decideResponse{
		DecisionID:       v.DecisionID,
		Verdict:          v.Verdict,
		MatchedPolicyIDs: v.MatchedPolicyIDs,
		SnapshotID:       v.SnapshotID,
		SpecID:           v.SpecID,
		SpecVersion:      v.SpecVersion,
		ScopeID:          v.ScopeID,
		OwningTeam:       v.OwningTeam,
		IssuedAt:         v.IssuedAt,
	})
}

// writeDecideError maps pipeline errors to HTTP statuses. Malformed requests
// are the caller's fault; missing specs mean nothing governs the intent;
// missing required signals are a fail-closed rejection of an otherwise
// well-formed request.
func (h *decideHandler) writeDecideError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *pipeline.RequestError
	var notFound *spec.NotFoundError
	var missing *signal.RequiredSignalError

	switch {
	case errors.As(err, &reqErr):
		writeError(w, http.StatusBadRequest, "invalid_request", reqErr.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, "spec_not_found", notFound.Error())
	case errors.As(err, &missing):
		writeError(w, http.StatusUnprocessableEntity, "missing_required_signal", missing.Error())
	default:
		h.logger.ErrorContext(r.Context(), "decision failed",
			"error", err,
			"request_id", GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "decision could not be completed")
	}
}

// decisionsHandler serves read-only queries over recorded decision events.
type decisionsHandler struct {
	sink audit.Sink
}

func (h *decisionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	events, err := h.sink.QueryDecisions(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query_failed", "audit query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"decisions": events, "count": len(events)})
}

// verdictsHandler serves read-only queries over recorded verdicts.
type verdictsHandler struct {
	sink audit.Sink
}

func (h *verdictsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	verdicts, err := h.sink.QueryVerdicts(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query_failed", "audit query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"verdicts": verdicts, "count": len(verdicts)})
}

// timelineHandler serves the ordered timeline of one decision.
type timelineHandler struct {
	sink audit.Sink
}

func (h *timelineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	decisionID := r.PathValue("id")
	if decisionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_query", "decision id is required")
		return
	}

	entries, err := h.sink.QueryTimeline(r.Context(), decisionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query_failed", "audit query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"timeline": entries, "count": len(entries)})
}

// parseQuery builds an audit query from URL parameters.
func parseQuery(r *http.Request) (*audit.Query, error) {
	params := r.URL.Query()
	query := &audit.Query{
		Organization: params.Get("organization"),
		Domain:       params.Get("domain"),
		Intent:       params.Get("intent"),
		DecisionID:   params.Get("decision_id"),
		Verdict:      decision.Verdict(params.Get("verdict")),
	}

	if raw := params.Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, errors.New("since must be RFC3339")
		}
		query.Since = t
	}
	if raw := params.Get("until"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, errors.New("until must be RFC3339")
		}
		query.Until = t
	}
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, errors.New("limit must be a non-negative integer")
		}
		query.Limit = n
	}
	if raw := params.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, errors.New("offset must be a non-negative integer")
		}
		query.Offset = n
	}

	return query, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}
