package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/anthonydaros/ContractAI/service"
)

func setupSamplesRouter() *gin.Engine {
	h := NewSamplesHandler(service.NewSamplesService())

	router := gin.New()
	router.GET("/samples", h.List)
	router.GET("/samples/:id", h.Get)
	return router
}

func TestSamplesList(t *testing.T) {
	router := setupSamplesRouter()

	req := httptest.NewRequest("GET", "/samples", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string][]map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	samples := response["samples"]
	if len(samples) != 3 {
		t.Fatalf("Expected 3 samples, got %d", len(samples))
	}
	if samples[0]["id"] != "fair" {
		t.Errorf("Expected first sample fair, got %v", samples[0]["id"])
	}
}

func TestSamplesGet(t *testing.T) {
	router := setupSamplesRouter()

	req := httptest.NewRequest("GET", "/samples/fair", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var sample map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &sample); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	content, _ := sample["content"].(string)
	if content == "" {
		t.Error("Expected full contract content in response")
	}
}

func TestSamplesGetNotFound(t *testing.T) {
	router := setupSamplesRouter()

	req := httptest.NewRequest("GET", "/samples/no-such-sample", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
