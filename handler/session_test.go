package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anthonydaros/ContractAI/config"
	"github.com/anthonydaros/ContractAI/model"
	"github.com/anthonydaros/ContractAI/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAnalyzer lets handler tests control the analysis outcome without a
// backend.
type fakeAnalyzer struct {
	respond func(ctx context.Context, desc model.RequestDescriptor) (*model.AnalysisResult, error)
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, desc model.RequestDescriptor) (*model.AnalysisResult, error) {
	return f.respond(ctx, desc)
}

func testResult(contractID string) *model.AnalysisResult {
	return &model.AnalysisResult{
		ContractID:     contractID,
		ContractName:   "Test Contract",
		OverallRisk:    model.RiskLow,
		Summary:        "Nothing unusual.",
		Clauses:        []model.ClauseFinding{},
		TotalIssues:    0,
		Recommendation: model.RecommendSign,
		AnalyzedAt:     "2026-01-15T10:00:00Z",
	}
}

func testStore() *service.SessionStore {
	return service.NewSessionStore(&config.SessionsConfig{MaxSessions: 10, TTLMinutes: 60})
}

func setupSessionRouter(analyzer service.Analyzer, store *service.SessionStore) *gin.Engine {
	h := NewSessionHandler(analyzer, store)

	router := gin.New()
	router.POST("/sessions", h.Create)
	router.GET("/sessions/:id", h.Get)
	router.POST("/sessions/:id/restart", h.Restart)
	router.DELETE("/sessions/:id", h.Delete)
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// pollSession polls the observation endpoint until the session leaves the
// loading state, the way the browser does.
func pollSession(t *testing.T, router *gin.Engine, sessionID string) map[string]interface{} {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest("GET", "/sessions/"+sessionID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200 while polling, got %d", w.Code)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}
		if response["state"] != string(service.StateLoading) {
			return response
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatal("session did not leave loading state in time")
	return nil
}

func TestSessionCreateAndPoll(t *testing.T) {
	analyzer := &fakeAnalyzer{
		respond: func(ctx context.Context, desc model.RequestDescriptor) (*model.AnalysisResult, error) {
			return testResult("contract-1"), nil
		},
	}
	router := setupSessionRouter(analyzer, testStore())

	w := postJSON(router, "/sessions", map[string]string{"sample_id": "fair"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", w.Code, w.Body.String())
	}

	var created map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	sessionID, _ := created["session_id"].(string)
	if sessionID == "" {
		t.Fatal("Expected session_id in response")
	}
	if created["state"] != string(service.StateLoading) {
		t.Errorf("Expected loading state, got %v", created["state"])
	}

	final := pollSession(t, router, sessionID)
	if final["state"] != string(service.StateSuccess) {
		t.Fatalf("Expected success state, got %v", final["state"])
	}

	result, ok := final["result"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected result object in success response")
	}
	if result["contract_id"] != "contract-1" {
		t.Errorf("Expected contract_id contract-1, got %v", result["contract_id"])
	}
	if _, present := final["error"]; present {
		t.Error("Success response must not carry an error message")
	}
}

func TestSessionCreateRejectsAmbiguousSource(t *testing.T) {
	called := false
	analyzer := &fakeAnalyzer{
		respond: func(ctx context.Context, desc model.RequestDescriptor) (*model.AnalysisResult, error) {
			called = true
			return testResult("x"), nil
		},
	}
	store := testStore()
	router := setupSessionRouter(analyzer, store)

	cases := []map[string]string{
		{},
		{"sample_id": "fair", "upload_id": "u-1"},
	}
	for _, payload := range cases {
		w := postJSON(router, "/sessions", payload)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Payload %v: expected status 400, got %d", payload, w.Code)
		}
	}

	if called {
		t.Error("Analyzer must not be called for an invalid descriptor")
	}
	if store.Count() != 0 {
		t.Errorf("Expected no sessions stored, got %d", store.Count())
	}
}

func TestSessionCreateRejectsMalformedJSON(t *testing.T) {
	analyzer := &fakeAnalyzer{
		respond: func(ctx context.Context, desc model.RequestDescriptor) (*model.AnalysisResult, error) {
			return testResult("x"), nil
		},
	}
	router := setupSessionRouter(analyzer, testStore())

	req := httptest.NewRequest("POST", "/sessions", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestSessionGetNotFound(t *testing.T) {
	router := setupSessionRouter(&fakeAnalyzer{}, testStore())

	req := httptest.NewRequest("GET", "/sessions/no-such-session", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestSessionErrorSurfacesMessage(t *testing.T) {
	analyzer := &fakeAnalyzer{
		respond: func(ctx context.Context, desc model.RequestDescriptor) (*model.AnalysisResult, error) {
			return nil, &service.ServiceError{StatusCode: 422, Message: "Document could not be parsed"}
		},
	}
	router := setupSessionRouter(analyzer, testStore())

	w := postJSON(router, "/sessions", map[string]string{"upload_id": "u-1"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", w.Code)
	}
	var created map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &created)
	sessionID := created["session_id"].(string)

	final := pollSession(t, router, sessionID)
	if final["state"] != string(service.StateError) {
		t.Fatalf("Expected error state, got %v", final["state"])
	}
	if final["error"] != "Document could not be parsed" {
		t.Errorf("Expected service message, got %v", final["error"])
	}
	if _, present := final["result"]; present {
		t.Error("Error response must not carry a result")
	}
}

func TestSessionRestartSupersedes(t *testing.T) {
	analyzer := &fakeAnalyzer{
		respond: func(ctx context.Context, desc model.RequestDescriptor) (*model.AnalysisResult, error) {
			return testResult("contract-" + desc.SampleID), nil
		},
	}
	router := setupSessionRouter(analyzer, testStore())

	w := postJSON(router, "/sessions", map[string]string{"sample_id": "fair"})
	var created map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &created)
	sessionID := created["session_id"].(string)
	pollSession(t, router, sessionID)

	w = postJSON(router, "/sessions/"+sessionID+"/restart", map[string]string{"sample_id": "abusive"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202 on restart, got %d", w.Code)
	}

	final := pollSession(t, router, sessionID)
	result := final["result"].(map[string]interface{})
	if result["contract_id"] != "contract-abusive" {
		t.Errorf("Expected restarted result, got %v", result["contract_id"])
	}
}

func TestSessionRestartNotFound(t *testing.T) {
	router := setupSessionRouter(&fakeAnalyzer{}, testStore())

	w := postJSON(router, "/sessions/no-such-session/restart", map[string]string{"sample_id": "fair"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestSessionCreateLogsSessionID(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	defer slog.SetDefault(previous)

	analyzer := &fakeAnalyzer{
		respond: func(ctx context.Context, desc model.RequestDescriptor) (*model.AnalysisResult, error) {
			return testResult("contract-1"), nil
		},
	}
	router := setupSessionRouter(analyzer, testStore())

	w := postJSON(router, "/sessions", map[string]string{"sample_id": "fair"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", w.Code)
	}

	var created map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &created)
	sessionID := created["session_id"].(string)

	// The background run also logs; wait for it so the buffer is quiescent.
	pollSession(t, router, sessionID)

	output := buf.String()
	if !strings.Contains(output, "analysis session started") {
		t.Errorf("Expected start log line, got %q", output)
	}
	if !strings.Contains(output, "session_id="+sessionID) {
		t.Errorf("Expected session_id field in log output, got %q", output)
	}
}

func TestSessionDelete(t *testing.T) {
	analyzer := &fakeAnalyzer{
		respond: func(ctx context.Context, desc model.RequestDescriptor) (*model.AnalysisResult, error) {
			return testResult("contract-1"), nil
		},
	}
	store := testStore()
	router := setupSessionRouter(analyzer, store)

	w := postJSON(router, "/sessions", map[string]string{"sample_id": "fair"})
	var created map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &created)
	sessionID := created["session_id"].(string)

	req := httptest.NewRequest("DELETE", "/sessions/"+sessionID, nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w2.Code)
	}

	req = httptest.NewRequest("GET", "/sessions/"+sessionID, nil)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)
	if w3.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w3.Code)
	}

	req = httptest.NewRequest("DELETE", "/sessions/"+sessionID, nil)
	w4 := httptest.NewRecorder()
	router.ServeHTTP(w4, req)
	if w4.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", w4.Code)
	}
}
