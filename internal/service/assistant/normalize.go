package assistant

import (
	"fmt"
	"strings"

	"github.com/medicare-health/assistant-api/internal/model"
)

const maxListEntries = 6

// normalizeChat coerces the loosely typed model output into a ChatResult.
// ImageReceived is filled in by the caller from the actual input; the
// model's opinion on it is discarded here.
func normalizeChat(data map[string]any) model.ChatResult {
	emergency := false
	if v, ok := data["emergency"].(bool); ok {
		emergency = v
	}

	return model.ChatResult{
		Reply:            strings.TrimSpace(stringify(data["reply"])),
		MedicineUses:     coerceList(data["medicine_uses"], maxListEntries),
		HealthGuidance:   coerceList(data["health_guidance"], maxListEntries),
		DietGuidance:     coerceList(data["diet_guidance"], maxListEntries),
		ExerciseGuidance: coerceList(data["exercise_guidance"], maxListEntries),
		Precautions:      coerceList(data["precautions"], maxListEntries),
		ImageReceived:    false,
		Emergency:        emergency,
		Disclaimer:       model.AssistantDisclaimer,
	}
}

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
