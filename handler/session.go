package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anthonydaros/ContractAI/model"
	"github.com/anthonydaros/ContractAI/pkg/logger"
	"github.com/anthonydaros/ContractAI/service"
)

// SessionHandler exposes the analysis session lifecycle: create-and-start,
// observe, cancel. The browser polls the observation endpoint while a
// session is loading.
type SessionHandler struct {
	analyzer service.Analyzer
	store    *service.SessionStore
}

func NewSessionHandler(analyzer service.Analyzer, store *service.SessionStore) *SessionHandler {
	return &SessionHandler{
		analyzer: analyzer,
		store:    store,
	}
}

type createSessionRequest struct {
	SampleID string `json:"sample_id"`
	UploadID string `json:"upload_id"`
}

// Create starts a new analysis session for a sample or an admitted upload.
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	desc := model.RequestDescriptor{SampleID: req.SampleID, UploadID: req.UploadID}
	if err := desc.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := uuid.New().String()
	sess := service.NewSession(sessionID, h.analyzer)

	if err := sess.Start(desc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.store.Save(sess)

	logger.Info(sessionContext(c, sessionID), "analysis session started",
		"source", desc.Source(),
	)

	c.JSON(http.StatusAccepted, gin.H{
		"session_id": sessionID,
		"state":      service.StateLoading,
	})
}

// sessionContext tags the request context with the session ID so log lines
// written for this session carry it.
func sessionContext(c *gin.Context, sessionID string) context.Context {
	return context.WithValue(c.Request.Context(), logger.SessionIDKey, sessionID)
}

// Get returns the session's current state, plus the result on success or
// the message on error.
func (h *SessionHandler) Get(c *gin.Context) {
	sess := h.store.Get(c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	snap := sess.Snapshot()
	response := gin.H{
		"session_id": sess.ID,
		"state":      snap.State,
	}
	if snap.Result != nil {
		response["result"] = snap.Result
	}
	if snap.Error != "" {
		response["error"] = snap.Error
	}

	c.JSON(http.StatusOK, response)
}

// Restart re-runs an existing session with a new descriptor. Any request in
// flight for the previous descriptor is superseded.
func (h *SessionHandler) Restart(c *gin.Context) {
	sess := h.store.Get(c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	desc := model.RequestDescriptor{SampleID: req.SampleID, UploadID: req.UploadID}
	if err := sess.Start(desc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info(sessionContext(c, sess.ID), "analysis session restarted",
		"source", desc.Source(),
	)

	c.JSON(http.StatusAccepted, gin.H{
		"session_id": sess.ID,
		"state":      service.StateLoading,
	})
}

// Delete cancels any in-flight request and destroys the session.
func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if h.store.Get(id) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	h.store.Delete(id)
	logger.Info(sessionContext(c, id), "analysis session cancelled")
	c.JSON(http.StatusOK, gin.H{"message": "Session cancelled"})
}
