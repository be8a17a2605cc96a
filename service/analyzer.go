package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/anthonydaros/ContractAI/config"
	"github.com/anthonydaros/ContractAI/model"
)

// Analyzer is the contract the session controller needs from the analysis
// backend. AnalyzerService is the HTTP implementation; tests substitute fakes.
type Analyzer interface {
	Analyze(ctx context.Context, desc model.RequestDescriptor) (*model.AnalysisResult, error)
}

// ServiceError is a failure reported by the analysis service itself, carrying
// a message fit for display. Transport and parse failures are plain errors.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("analysis service error (status %d): %s", e.StatusCode, e.Message)
}

// AnalyzerService talks to the external contract-analysis backend.
type AnalyzerService struct {
	config     *config.AnalyzerConfig
	httpClient *http.Client
}

func NewAnalyzerService(cfg *config.AnalyzerConfig) *AnalyzerService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &AnalyzerService{
		config:     cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// analyzeRequest is the wire shape of the analyze call.
type analyzeRequest struct {
	Source   string `json:"source"`
	SampleID string `json:"sample_id,omitempty"`
	UploadID string `json:"upload_id,omitempty"`
}

// errorBody is the JSON shape of non-2xx responses. The backend uses
// "detail"; "message" is accepted as a fallback.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// UploadReceipt is the backend's acknowledgement of a submitted document.
type UploadReceipt struct {
	UploadID    string `json:"upload_id"`
	Filename    string `json:"filename"`
	TextLength  int    `json:"text_length"`
	TextPreview string `json:"text_preview"`
}

// Analyze submits a descriptor and returns a validated analysis result.
// A malformed body or an enum value outside its closed set is an error;
// no partial result is ever returned.
func (s *AnalyzerService) Analyze(ctx context.Context, desc model.RequestDescriptor) (*model.AnalysisResult, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	reqBody := analyzeRequest{
		Source:   desc.Source(),
		SampleID: desc.SampleID,
		UploadID: desc.UploadID,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/analyze", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(body),
		}
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis response: %w", err)
	}

	return &result, nil
}

// SubmitUpload forwards an admitted document to the backend for parsing.
// Callers run the admission gate first; this method trusts its input.
func (s *AnalyzerService) SubmitUpload(ctx context.Context, fileBytes []byte, filename string) (*UploadReceipt, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := part.Write(fileBytes); err != nil {
		return nil, fmt.Errorf("failed to write form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if s.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(body),
		}
	}

	var receipt UploadReceipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if receipt.UploadID == "" {
		return nil, fmt.Errorf("upload response missing upload_id")
	}

	return &receipt, nil
}

// serverMessage extracts the human-readable message from an error body,
// falling back to a generic message when the body carries neither field.
func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Detail != "" {
			return eb.Detail
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return "The analysis service reported a failure. Please try again."
}
