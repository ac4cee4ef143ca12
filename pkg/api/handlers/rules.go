package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"mercator-hq/ruleengine/pkg/api/types"
	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
	"mercator-hq/ruleengine/pkg/rule/evaluator"
	"mercator-hq/ruleengine/pkg/service"
	"mercator-hq/ruleengine/pkg/storage"
)

// RuleService is the subset of *service.RuleService the handlers call.
type RuleService interface {
	CreateRule(ctx context.Context, name, text string) (*storage.Rule, error)
	CombineRules(ctx context.Context, ids []int64, name string) (*storage.Rule, error)
	EvaluateRule(ctx context.Context, id int64, record evaluator.Record) (bool, error)
	GetRule(ctx context.Context, id int64) (*storage.Rule, error)
	ListRules(ctx context.Context) ([]*storage.Rule, error)
	DeleteRule(ctx context.Context, id int64) error
}

// CreateRuleRequest is the body of POST /api/rules/create.
type CreateRuleRequest struct {
	RuleName   string `json:"ruleName"`
	RuleString string `json:"ruleString"`
}

// CombineRulesRequest is the object form of POST /api/rules/combine. A bare
// JSON array of IDs is accepted as well.
type CombineRulesRequest struct {
	RuleIDs  []int64 `json:"ruleIds"`
	RuleName string  `json:"ruleName,omitempty"`
}

// RuleHandler serves the /api/rules endpoints.
type RuleHandler struct {
	svc    RuleService
	logger *slog.Logger
}

// NewRuleHandler creates a RuleHandler. A nil logger means slog.Default().
func NewRuleHandler(svc RuleService, logger *slog.Logger) *RuleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleHandler{svc: svc, logger: logger.With("component", "api.rules")}
}

// Register mounts the rule routes on mux.
func (h *RuleHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/rules/create", h.Create)
	mux.HandleFunc("POST /api/rules/combine", h.Combine)
	mux.HandleFunc("POST /api/rules/evaluate/{ruleId}", h.Evaluate)
	mux.HandleFunc("GET /api/rules", h.List)
	mux.HandleFunc("GET /api/rules/{ruleId}", h.Get)
	mux.HandleFunc("DELETE /api/rules/{ruleId}", h.Delete)
}

// Create parses and stores a rule, answering with its ID.
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRuleRequest
	if !h.decode(w, r, &req) {
		return
	}

	rule, err := h.svc.CreateRule(r.Context(), req.RuleName, req.RuleString)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	types.WriteJSON(w, http.StatusOK, rule.ID)
}

// Combine merges stored rules in the given order, answering with the new
// rule's ID.
func (h *RuleHandler) Combine(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !h.decode(w, r, &raw) {
		return
	}

	var req CombineRulesRequest
	trimmed := bytes.TrimSpace(raw)
	var err error
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &req.RuleIDs)
	} else {
		err = json.Unmarshal(trimmed, &req)
	}
	if err != nil {
		types.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid combine request: %v", err), types.ErrorTypeInvalidRequest)
		return
	}

	rule, err := h.svc.CombineRules(r.Context(), req.RuleIDs, req.RuleName)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	types.WriteJSON(w, http.StatusOK, rule.ID)
}

// Evaluate applies a stored rule to the record in the body. Numbers in the
// record keep their JSON text so integer comparisons stay exact.
func (h *RuleHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ruleID(w, r)
	if !ok {
		return
	}

	var record evaluator.Record
	if !h.decode(w, r, &record) {
		return
	}

	result, err := h.svc.EvaluateRule(r.Context(), id, record)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	types.WriteJSON(w, http.StatusOK, result)
}

// List returns every stored rule.
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.ListRules(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if rules == nil {
		rules = []*storage.Rule{}
	}
	types.WriteJSON(w, http.StatusOK, rules)
}

// Get returns one stored rule including its AST.
func (h *RuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ruleID(w, r)
	if !ok {
		return
	}

	rule, err := h.svc.GetRule(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	types.WriteJSON(w, http.StatusOK, rule)
}

// Delete removes a stored rule.
func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ruleID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteRule(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RuleHandler) ruleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("ruleId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		types.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid rule id %q", raw), types.ErrorTypeInvalidRequest)
		return 0, false
	}
	return id, true
}

// decode reads a single JSON value from the body into v and writes the 4xx
// response itself on failure.
func (h *RuleHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	err := dec.Decode(v)
	if err == nil && dec.More() {
		err = errors.New("unexpected data after JSON value")
	}
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		types.WriteError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), types.ErrorTypeRequestTooLarge)
		return false
	}
	types.WriteError(w, http.StatusBadRequest,
		fmt.Sprintf("invalid JSON body: %v", err), types.ErrorTypeInvalidRequest)
	return false
}

// writeServiceError maps err to a response. Client errors carry their rule
// error kind and message; 5xx bodies are generic and the detail is logged.
func (h *RuleHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := service.ErrorKind(err)
	status := StatusFor(err)
	if status < http.StatusInternalServerError {
		types.WriteError(w, status, err.Error(), kind)
		return
	}

	h.logger.ErrorContext(r.Context(), "rule request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"kind", kind,
		"error", err,
	)
	message := "internal error"
	if status == http.StatusServiceUnavailable {
		message = "request deadline exceeded"
	}
	types.WriteJSON(w, status, types.NewServerError(message))
}

// StatusFor maps a service error to an HTTP status.
func StatusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	switch ruleerrors.Kind(service.ErrorKind(err)) {
	case ruleerrors.KindEmptyInput,
		ruleerrors.KindParse,
		ruleerrors.KindMalformedCondition,
		ruleerrors.KindInvalidOperator,
		service.KindInvalidArgument:
		return http.StatusBadRequest
	case ruleerrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
