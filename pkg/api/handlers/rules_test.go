package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"mercator-hq/ruleengine/pkg/api/middleware"
	"mercator-hq/ruleengine/pkg/api/types"
	"mercator-hq/ruleengine/pkg/rule/evaluator"
	"mercator-hq/ruleengine/pkg/service"
	"mercator-hq/ruleengine/pkg/storage"
)

type testAPI struct {
	handler http.Handler
	store   *storage.MemoryStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := storage.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(service.Options{Store: store, Logger: logger})

	mux := http.NewServeMux()
	NewRuleHandler(svc, logger).Register(mux)
	return &testAPI{
		handler: middleware.Chain(mux, middleware.BodyLimit(1024)),
		store:   store,
	}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testAPI) create(t *testing.T, name, text string) int64 {
	t.Helper()
	body, _ := json.Marshal(CreateRuleRequest{RuleName: name, RuleString: text})
	w := a.do(t, http.MethodPost, "/api/rules/create", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("create %q: status %d body %s", text, w.Code, w.Body.String())
	}
	id, err := strconv.ParseInt(strings.TrimSpace(w.Body.String()), 10, 64)
	if err != nil {
		t.Fatalf("create %q: body %q is not an id", text, w.Body.String())
	}
	return id
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorDetail {
	t.Helper()
	var resp types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return resp.Error
}

func TestCreate(t *testing.T) {
	api := newTestAPI(t)

	if id := api.create(t, "adults", "age > 18 AND country = 'US'"); id != 1 {
		t.Errorf("first id = %d, want 1", id)
	}
	if id := api.create(t, "minors", "age < 18"); id != 2 {
		t.Errorf("second id = %d, want 2", id)
	}
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantType   string
	}{
		{"invalid json", `{"ruleName":`, http.StatusBadRequest, types.ErrorTypeInvalidRequest},
		{"trailing data", `{"ruleName":"a","ruleString":"a = 1"} {}`, http.StatusBadRequest, types.ErrorTypeInvalidRequest},
		{"empty rule", `{"ruleName":"a","ruleString":"   "}`, http.StatusBadRequest, "parse_error"},
		{"dangling connective", `{"ruleName":"a","ruleString":"age > 18 AND"}`, http.StatusBadRequest, "parse_error"},
		{"blank name", `{"ruleName":"","ruleString":"a = 1"}`, http.StatusBadRequest, service.KindInvalidArgument},
		{"too large", `{"ruleName":"a","ruleString":"` + strings.Repeat("x", 2048) + `"}`, http.StatusRequestEntityTooLarge, types.ErrorTypeRequestTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			w := api.do(t, http.MethodPost, "/api/rules/create", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if got := decodeError(t, w).Type; got != tt.wantType {
				t.Errorf("error type = %q, want %q", got, tt.wantType)
			}
		})
	}
}

func TestCombine(t *testing.T) {
	api := newTestAPI(t)
	a := api.create(t, "a", "age > 18")
	b := api.create(t, "b", "country = 'US'")

	tests := []struct {
		name     string
		body     string
		wantName string
	}{
		{"array body", "[" + strconv.FormatInt(a, 10) + "," + strconv.FormatInt(b, 10) + "]", "Combined Rule"},
		{"object body", `{"ruleIds":[1,2],"ruleName":"both"}`, "both"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/api/rules/combine", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d body %s", w.Code, w.Body.String())
			}

			id := strings.TrimSpace(w.Body.String())
			got := api.do(t, http.MethodGet, "/api/rules/"+id, "")
			var rule storage.Rule
			if err := json.Unmarshal(got.Body.Bytes(), &rule); err != nil {
				t.Fatal(err)
			}
			if rule.Text != "(age > 18) AND (country = 'US')" {
				t.Errorf("combined text = %q", rule.Text)
			}
			if rule.Name != tt.wantName {
				t.Errorf("name = %q, want %q", rule.Name, tt.wantName)
			}
		})
	}
}

func TestCombine_Errors(t *testing.T) {
	api := newTestAPI(t)
	api.create(t, "a", "age > 18")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantType   string
	}{
		{"empty list", `[]`, http.StatusBadRequest, "empty_input"},
		{"missing ids", `[1, 7, 9]`, http.StatusNotFound, "not_found"},
		{"not numbers", `["a"]`, http.StatusBadRequest, types.ErrorTypeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/api/rules/combine", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			detail := decodeError(t, w)
			if detail.Type != tt.wantType {
				t.Errorf("error type = %q, want %q", detail.Type, tt.wantType)
			}
			if tt.wantType == "not_found" && !strings.Contains(detail.Message, "7, 9") {
				t.Errorf("message %q should list missing ids", detail.Message)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	api := newTestAPI(t)
	id := strconv.FormatInt(api.create(t, "r", "age > 18 AND department = 'Sales'"), 10)

	tests := []struct {
		name   string
		record string
		want   string
	}{
		{"match", `{"age": 35, "department": "Sales"}`, "true"},
		{"numeric mismatch", `{"age": 12, "department": "Sales"}`, "false"},
		{"missing attribute", `{"age": 35}`, "false"},
		{"large integer", `{"age": 9007199254740993, "department": "Sales"}`, "true"},
		{"null record", `null`, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/api/rules/evaluate/"+id, tt.record)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d body %s", w.Code, w.Body.String())
			}
			if got := strings.TrimSpace(w.Body.String()); got != tt.want {
				t.Errorf("result = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	api := newTestAPI(t)
	bad := strconv.FormatInt(api.create(t, "bad", "age LIKE 3"), 10)
	malformed := strconv.FormatInt(api.create(t, "malformed", "age > 18 AND active"), 10)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantType   string
	}{
		{"unknown rule", "/api/rules/evaluate/99", `{}`, http.StatusNotFound, "not_found"},
		{"bad id", "/api/rules/evaluate/abc", `{}`, http.StatusBadRequest, types.ErrorTypeInvalidRequest},
		{"array record", "/api/rules/evaluate/" + bad, `[1]`, http.StatusBadRequest, types.ErrorTypeInvalidRequest},
		{"invalid operator", "/api/rules/evaluate/" + bad, `{"age": 3}`, http.StatusBadRequest, "invalid_operator"},
		{"malformed condition", "/api/rules/evaluate/" + malformed, `{"age": 30}`, http.StatusBadRequest, "malformed_condition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, tt.path, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if got := decodeError(t, w).Type; got != tt.wantType {
				t.Errorf("error type = %q, want %q", got, tt.wantType)
			}
		})
	}
}

func TestEvaluate_CorruptStoredAST(t *testing.T) {
	api := newTestAPI(t)
	id, err := api.store.Save(t.Context(), "corrupt", "a = 1", []byte(`{"type":"XOR"}`))
	if err != nil {
		t.Fatal(err)
	}

	w := api.do(t, http.MethodPost, "/api/rules/evaluate/"+strconv.FormatInt(id, 10), `{"a": 1}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (body %s)", w.Code, w.Body.String())
	}
	detail := decodeError(t, w)
	if detail.Type != types.ErrorTypeServerError || detail.Message != "internal error" {
		t.Errorf("error = %+v, want generic server_error", detail)
	}
}

// failingService fails every evaluation with err.
type failingService struct {
	RuleService
	err error
}

func (f failingService) EvaluateRule(context.Context, int64, evaluator.Record) (bool, error) {
	return false, f.err
}

func TestEvaluate_ServerErrorsAreGeneric(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"unknown failure", errors.New("database is locked"), http.StatusInternalServerError, "internal error"},
		{"wrapped unknown failure", fmt.Errorf("find rule 1: %w", errors.New("disk I/O error")), http.StatusInternalServerError, "internal error"},
		{"deadline", fmt.Errorf("find rule 1: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, "request deadline exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			NewRuleHandler(failingService{err: tt.err}, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(mux)

			req := httptest.NewRequest(http.MethodPost, "/api/rules/evaluate/1", strings.NewReader(`{"a": 1}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			detail := decodeError(t, w)
			if detail.Type != types.ErrorTypeServerError {
				t.Errorf("error type = %q, want %q", detail.Type, types.ErrorTypeServerError)
			}
			if detail.Message != tt.wantMessage {
				t.Errorf("error message = %q, want %q", detail.Message, tt.wantMessage)
			}
			if strings.Contains(w.Body.String(), tt.err.Error()) {
				t.Errorf("body leaks the internal error: %s", w.Body.String())
			}
		})
	}
}

func TestGetListDelete(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/rules", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("empty list body = %s, want []", w.Body.String())
	}

	id := strconv.FormatInt(api.create(t, "r", "age > 18 OR vip = 'yes'"), 10)

	w = api.do(t, http.MethodGet, "/api/rules/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got struct {
		ID  int64          `json:"id"`
		AST map[string]any `json:"ast"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.AST["type"] != "OR" {
		t.Errorf("ast root = %v, want OR", got.AST["type"])
	}

	w = api.do(t, http.MethodGet, "/api/rules", "")
	var list []storage.Rule
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("list length = %d, want 1", len(list))
	}

	if w := api.do(t, http.MethodDelete, "/api/rules/"+id, ""); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", w.Code)
	}
	if w := api.do(t, http.MethodDelete, "/api/rules/"+id, ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
	if w := api.do(t, http.MethodGet, "/api/rules/"+id, ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/api/rules/create", "")
	// GET /api/rules/{ruleId} matches and rejects "create" as an id.
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	w = api.do(t, http.MethodPut, "/api/rules/1", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
