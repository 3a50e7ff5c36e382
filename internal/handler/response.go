package handler

import (
	"time"

	"github.com/medicare-health/assistant-api/internal/model"
)

// Response is the envelope every endpoint returns.
type Response struct {
	OK          bool         `json:"ok"`
	Data        any          `json:"data,omitempty"`
	Source      model.Source `json:"source,omitempty"`
	GeneratedAt *time.Time   `json:"generated_at,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// NewAnalysisResponse wraps an analyzer result with its provenance tag and
// a generation timestamp.
func NewAnalysisResponse(data any, source model.Source) Response {
	now := time.Now().UTC()
	return Response{
		OK:          true,
		Data:        data,
		Source:      source,
		GeneratedAt: &now,
	}
}

func NewSuccessResponse(data any) Response {
	return Response{OK: true, Data: data}
}

func NewErrorResponse(message string) Response {
	return Response{OK: false, Error: message}
}
