package sideeffect

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medicare-health/assistant-api/internal/handler"
	"github.com/medicare-health/assistant-api/internal/model"
)

// Analyzer never fails; upstream trouble is already absorbed into the
// fallback result by the service.
type Analyzer interface {
	Analyze(ctx context.Context, report *model.SymptomReport) model.Output[model.TriageResult]
}

type Handler struct {
	service Analyzer
}

func NewHandler(service Analyzer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/side-effects/analyze", h.Analyze)
}

func (h *Handler) Analyze(c *gin.Context) {
	var req model.SymptomReport
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	// Symptoms are trimmed at the boundary; a report that is all whitespace
	// has nothing to analyze.
	cleaned := make([]string, 0, len(req.Symptoms))
	for _, s := range req.Symptoms {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("at least one symptom is required"))
		return
	}
	req.Symptoms = cleaned

	output := h.service.Analyze(c.Request.Context(), &req)
	c.JSON(http.StatusOK, handler.NewAnalysisResponse(output.Result, output.Source))
}
