package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the declared shape of GET /api/health.
type HealthResponse struct {
	Status       string `json:"status"` // "healthy" | "degraded"
	OCRAvailable bool   `json:"ocr_available"`
	AIAvailable  bool   `json:"ai_available"`
}

// handleHealth probes both dependencies from configuration alone and
// reports healthy only when both look usable. Always 200; degradation
// is in the body, not the status code.
func (s *Server) handleHealth(c *gin.Context) {
	ocrOK := s.ocrProbe != nil && s.ocrProbe.Available()
	aiOK := s.llmProbe != nil && s.llmProbe.Available()

	status := "healthy"
	if !ocrOK || !aiOK {
		status = "degraded"
	}
	s.logger.Info("server.health", "ocr_available", ocrOK, "ai_available", aiOK, "status", status)

	c.JSON(http.StatusOK, HealthResponse{
		Status:       status,
		OCRAvailable: ocrOK,
		AIAvailable:  aiOK,
	})
}
