package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anthonydaros/ContractAI/service"
)

// SamplesHandler serves the built-in demo contracts.
type SamplesHandler struct {
	samples *service.SamplesService
}

func NewSamplesHandler(samples *service.SamplesService) *SamplesHandler {
	return &SamplesHandler{samples: samples}
}

// List returns previews of all demo contracts.
func (h *SamplesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"samples": h.samples.List()})
}

// Get returns one demo contract with its full content.
func (h *SamplesHandler) Get(c *gin.Context) {
	sample, ok := h.samples.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sample not found"})
		return
	}

	c.JSON(http.StatusOK, sample)
}
