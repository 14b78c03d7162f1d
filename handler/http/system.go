package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var errInvalidLimit = errors.New("limit must be a positive integer")

type healthResponse struct {
	Status string `json:"status"`
	Ollama string `json:"ollama"`
}

// CheckHealth godoc
// @Summary Check system health status
// @Tags system
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func (h *Handler) CheckHealth(c *gin.Context) {
	status := healthResponse{
		Status: "healthy",
		Ollama: "up",
	}

	if _, err := h.ollamaClient.Models(c.Request.Context()); err != nil {
		status.Status = "degraded"
		status.Ollama = "down"
	}

	sendJSON(c, http.StatusOK, status)
}

// GetInfo godoc
// @Summary Service configuration summary
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /info [get]
func (h *Handler) GetInfo(c *gin.Context) {
	matcher := h.pipeline.Matcher()
	sendJSON(c, http.StatusOK, gin.H{
		"model":                h.modelName,
		"dataset_size":         matcher.Dataset().Len(),
		"confidence_threshold": matcher.Threshold(),
	})
}
