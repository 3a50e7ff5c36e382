package sideeffect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/medicare-health/assistant-api/internal/model"
)

const maxListEntries = 10

// normalizeTriage coerces the loosely typed model output into a bounded
// TriageResult. Declared types in the payload are never trusted: every
// field is stringified, checked against its allowed values and defaulted.
func normalizeTriage(data map[string]any) model.TriageResult {
	severity := model.Severity(strings.ToLower(strings.TrimSpace(stringify(data["severity"]))))
	if _, ok := model.UrgencyForSeverity[severity]; !ok {
		severity = model.SeverityMedium
	}

	// Urgency is fully determined by severity; a disagreeing model value is
	// replaced by the table pair.
	urgency := model.UrgencyForSeverity[severity]

	doctorNeeded := severity != model.SeverityLow
	if v, ok := data["doctor_consultation_needed"].(bool); ok {
		doctorNeeded = v
	}
	// High and emergency always require a clinician, whatever the model said.
	if severity == model.SeverityHigh || severity == model.SeverityEmergency {
		doctorNeeded = true
	}

	return model.TriageResult{
		Severity:                 severity,
		DoctorConsultationNeeded: doctorNeeded,
		Urgency:                  urgency,
		PossibleReasons:          coerceList(data["possible_reasons"], maxListEntries),
		ImmediateActions:         coerceList(data["immediate_actions"], maxListEntries),
		WarningSigns:             coerceList(data["warning_signs"], maxListEntries),
		Recommendation:           strings.TrimSpace(stringify(data["recommendation"])),
		Confidence:               parseConfidence(data["confidence"]),
		Disclaimer:               model.TriageDisclaimer,
	}
}

// parseConfidence accepts numbers or numeric strings, defaults to 0.5 when
// unparseable, and clamps to [0, 1].
func parseConfidence(v any) float64 {
	confidence := 0.5
	switch n := v.(type) {
	case float64:
		confidence = n
	case int:
		confidence = float64(n)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			confidence = parsed
		}
	}
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

// coerceList accepts a list of values (each stringified and trimmed, empties
// dropped, truncated to max) or a single non-empty string wrapped as a
// one-element list. Anything else yields an empty list.
func coerceList(v any, max int) []string {
	switch value := v.(type) {
	case []any:
		cleaned := make([]string, 0, len(value))
		for _, entry := range value {
			if s := strings.TrimSpace(stringify(entry)); s != "" {
				cleaned = append(cleaned, s)
			}
			if len(cleaned) == max {
				break
			}
		}
		return cleaned
	case string:
		if s := strings.TrimSpace(value); s != "" {
			return []string{s}
		}
	}
	return []string{}
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}
