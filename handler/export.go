package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anthonydaros/ContractAI/pkg/logger"
	"github.com/anthonydaros/ContractAI/service"
)

// ExportHandler turns a completed session into a downloadable PDF report
// and issues signed share links. Both are one-shot actions; neither touches
// session state.
type ExportHandler struct {
	store     *service.SessionStore
	export    *service.ExportService
	share     *service.ShareLinkService
	artifacts *service.ArtifactService // nil when object storage is not configured
}

func NewExportHandler(store *service.SessionStore, export *service.ExportService, share *service.ShareLinkService, artifacts *service.ArtifactService) *ExportHandler {
	return &ExportHandler{
		store:     store,
		export:    export,
		share:     share,
		artifacts: artifacts,
	}
}

// completedSession fetches a session and verifies it has a result to act on.
func (h *ExportHandler) completedSession(c *gin.Context) (*service.Session, service.Snapshot, bool) {
	sess := h.store.Get(c.Param("id"))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, service.Snapshot{}, false
	}

	snap := sess.Snapshot()
	if snap.State != service.StateSuccess {
		c.JSON(http.StatusConflict, gin.H{"error": "Analysis is not complete"})
		return nil, service.Snapshot{}, false
	}

	return sess, snap, true
}

// ExportPDF streams the session's report as a PDF download.
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	sess, snap, ok := h.completedSession(c)
	if !ok {
		return
	}

	pdfBytes, err := h.export.RenderPDF(snap.Result)
	if err != nil {
		logger.Error(c.Request.Context(), "report rendering failed", "session_id", sess.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	filename := fmt.Sprintf("contract-analysis-%s.pdf", sess.ID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// Share issues a signed link to the session's result. When artifact storage
// is configured, the rendered report is uploaded there as well and a direct
// download URL is included.
func (h *ExportHandler) Share(c *gin.Context) {
	sess, snap, ok := h.completedSession(c)
	if !ok {
		return
	}

	token, expiresAt, err := h.share.Issue(sess.ID)
	if err != nil {
		logger.Error(c.Request.Context(), "share link issuing failed", "session_id", sess.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sharing is not available"})
		return
	}

	response := gin.H{
		"token":      token,
		"url":        "/api/shared/" + token,
		"expires_at": expiresAt.Format(time.RFC3339),
	}

	if h.artifacts != nil {
		if artifactURL, err := h.storeArtifact(c, sess.ID, snap, expiresAt); err != nil {
			// The signed API link still works; storage is best-effort.
			logger.Warn(c.Request.Context(), "report artifact storage failed", "session_id", sess.ID, "error", err)
		} else {
			response["artifact_url"] = artifactURL
		}
	}

	c.JSON(http.StatusOK, response)
}

func (h *ExportHandler) storeArtifact(c *gin.Context, sessionID string, snap service.Snapshot, expiresAt time.Time) (string, error) {
	pdfBytes, err := h.export.RenderPDF(snap.Result)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("reports/%s.pdf", sessionID)
	ctx := c.Request.Context()

	if err := h.artifacts.StoreReport(ctx, objectName, pdfBytes); err != nil {
		return "", err
	}

	return h.artifacts.PresignedURL(ctx, objectName, time.Until(expiresAt))
}

// Shared serves a result referenced by a share token.
func (h *ExportHandler) Shared(c *gin.Context) {
	sessionID, err := h.share.Verify(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Share link is invalid or expired"})
		return
	}

	sess := h.store.Get(sessionID)
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shared analysis is no longer available"})
		return
	}

	snap := sess.Snapshot()
	if snap.State != service.StateSuccess {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shared analysis is no longer available"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": snap.Result})
}
