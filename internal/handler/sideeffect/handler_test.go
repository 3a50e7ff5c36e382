package sideeffect_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sideeffectHandler "github.com/medicare-health/assistant-api/internal/handler/sideeffect"
	"github.com/medicare-health/assistant-api/internal/model"
)

type fakeAnalyzer struct {
	lastReport *model.SymptomReport
	output     model.Output[model.TriageResult]
}

func (f *fakeAnalyzer) Analyze(_ context.Context, report *model.SymptomReport) model.Output[model.TriageResult] {
	f.lastReport = report
	return f.output
}

func newRouter(analyzer *fakeAnalyzer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	sideeffectHandler.NewHandler(analyzer).RegisterRoutes(api)
	return r
}

func post(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/side-effects/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeSuccessEnvelope(t *testing.T) {
	analyzer := &fakeAnalyzer{
		output: model.Output[model.TriageResult]{
			Result: model.TriageResult{
				Severity:   model.SeverityLow,
				Urgency:    model.UrgencySelfMonitor,
				Confidence: 0.9,
				Disclaimer: model.TriageDisclaimer,
			},
			Source: model.SourceLLM,
		},
	}
	r := newRouter(analyzer)

	w := post(t, r, `{"medicine_name":"Metformin","symptoms":["mild nausea"]}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK          bool               `json:"ok"`
		Data        model.TriageResult `json:"data"`
		Source      string             `json:"source"`
		GeneratedAt string             `json:"generated_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "llm", resp.Source)
	assert.NotEmpty(t, resp.GeneratedAt)
	assert.Equal(t, model.SeverityLow, resp.Data.Severity)
}

func TestAnalyzeTrimsSymptomsBeforeService(t *testing.T) {
	analyzer := &fakeAnalyzer{output: model.Output[model.TriageResult]{Source: model.SourceFallback}}
	r := newRouter(analyzer)

	w := post(t, r, `{"medicine_name":"Metformin","symptoms":["  dizziness  ","","   "]}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, analyzer.lastReport)
	assert.Equal(t, []string{"dizziness"}, analyzer.lastReport.Symptoms)
}

func TestAnalyzeRejectsWhitespaceOnlySymptoms(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	r := newRouter(analyzer)

	w := post(t, r, `{"medicine_name":"Metformin","symptoms":["   ","\t"]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, analyzer.lastReport)
	assert.Contains(t, w.Body.String(), "at least one symptom is required")
}

func TestAnalyzeRejectsInvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"medicine_name":`},
		{name: "missing medicine name", body: `{"symptoms":["nausea"]}`},
		{name: "missing symptoms", body: `{"medicine_name":"Metformin"}`},
		{name: "age out of range", body: `{"medicine_name":"Metformin","symptoms":["nausea"],"patient_age":200}`},
	}

	r := newRouter(&fakeAnalyzer{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, r, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				OK    bool   `json:"ok"`
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.OK)
			assert.NotEmpty(t, resp.Error)
		})
	}
}
