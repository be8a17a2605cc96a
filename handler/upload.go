package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anthonydaros/ContractAI/pkg/admission"
	"github.com/anthonydaros/ContractAI/pkg/logger"
	"github.com/anthonydaros/ContractAI/service"
)

// UploadHandler admits candidate documents and forwards them to the
// analysis backend. Admission failures are resolved locally and never reach
// the network.
type UploadHandler struct {
	gate     *admission.Gate
	analyzer *service.AnalyzerService
}

func NewUploadHandler(gate *admission.Gate, analyzer *service.AnalyzerService) *UploadHandler {
	return &UploadHandler{
		gate:     gate,
		analyzer: analyzer,
	}
}

// Upload validates the candidate through the admission gate, then forwards
// the bytes and relays the backend's receipt.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	verdict := h.gate.Admit(admission.Candidate{
		Name:              header.Filename,
		DeclaredMediaType: header.Header.Get("Content-Type"),
		SizeBytes:         header.Size,
	})
	if !verdict.Admitted {
		status, message := rejectionResponse(verdict.Reason)
		logger.Warn(c.Request.Context(), "upload rejected",
			"filename", header.Filename,
			"reason", verdict.Reason,
			"size", header.Size,
		)
		c.JSON(status, gin.H{"error": message, "reason": string(verdict.Reason)})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	receipt, err := h.analyzer.SubmitUpload(c.Request.Context(), data, header.Filename)
	if err != nil {
		logger.Error(c.Request.Context(), "upload forwarding failed",
			"filename", header.Filename,
			"error", err,
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to process document. Please try again."})
		return
	}

	logger.Info(c.Request.Context(), "upload accepted",
		"upload_id", receipt.UploadID,
		"filename", receipt.Filename,
		"text_length", receipt.TextLength,
	)

	c.JSON(http.StatusOK, receipt)
}

// rejectionResponse maps an admission reason to an HTTP status and a
// user-facing message.
func rejectionResponse(reason admission.Reason) (int, string) {
	switch reason {
	case admission.ReasonEmptyFile:
		return http.StatusBadRequest, "The file is empty"
	case admission.ReasonUnsupportedExtension:
		return http.StatusBadRequest, "Only PDF, DOCX and TXT files are supported"
	case admission.ReasonUnsupportedMediaType:
		return http.StatusUnsupportedMediaType, "The file's media type is not supported"
	case admission.ReasonTooLarge:
		return http.StatusRequestEntityTooLarge, "The file exceeds the 10 MB limit"
	}
	return http.StatusBadRequest, "The file could not be accepted"
}
