package sideeffect

import (
	"fmt"
	"strings"

	"github.com/medicare-health/assistant-api/internal/model"
)

// buildPrompt renders the report into a deterministic prompt. Optional
// fields use literal "unknown"/"none" placeholders so the same report
// always yields the same prompt text.
func buildPrompt(report *model.SymptomReport) string {
	dose := report.Dose
	if dose == "" {
		dose = "unknown"
	}
	takenAt := "unknown"
	if report.TakenAt != nil {
		takenAt = report.TakenAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	age := "unknown"
	if report.PatientAge != nil {
		age = fmt.Sprintf("%d", *report.PatientAge)
	}
	gender := report.PatientGender
	if gender == "" {
		gender = "unknown"
	}
	conditions := strings.Join(report.KnownConditions, ", ")
	if conditions == "" {
		conditions = "none"
	}
	notes := report.ExtraNotes
	if notes == "" {
		notes = "none"
	}

	var b strings.Builder
	b.WriteString("You are a careful clinical triage assistant.\n")
	b.WriteString("Task: Analyze possible side-effects for the medicine and symptoms below.\n")
	b.WriteString("Return STRICT JSON only with keys:\n")
	b.WriteString(`{"severity":"low|medium|high|emergency",` +
		`"doctor_consultation_needed":true|false,` +
		`"urgency":"self_monitor|call_doctor_24h|seek_urgent_care|emergency_now",` +
		`"possible_reasons":["..."],` +
		`"immediate_actions":["..."],` +
		`"warning_signs":["..."],` +
		`"recommendation":"...",` +
		`"confidence":0.0}` + "\n")
	b.WriteString("Safety rules:\n")
	b.WriteString("1) If life-threatening symptoms are possible, mark emergency.\n")
	b.WriteString("2) Be conservative. If uncertain, increase urgency.\n")
	b.WriteString("3) No markdown, no explanation outside JSON.\n\n")
	fmt.Fprintf(&b, "Medicine name: %s\n", report.MedicineName)
	fmt.Fprintf(&b, "Dose: %s\n", dose)
	fmt.Fprintf(&b, "Taken at: %s\n", takenAt)
	fmt.Fprintf(&b, "Symptoms: %s\n", strings.Join(report.Symptoms, ", "))
	fmt.Fprintf(&b, "Age: %s\n", age)
	fmt.Fprintf(&b, "Gender: %s\n", gender)
	fmt.Fprintf(&b, "Known conditions: %s\n", conditions)
	fmt.Fprintf(&b, "Extra notes: %s\n", notes)
	return b.String()
}
