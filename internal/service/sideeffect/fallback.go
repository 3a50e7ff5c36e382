package sideeffect

import (
	"strings"

	"github.com/medicare-health/assistant-api/internal/model"
)

// fallbackConfidence is deliberately below the normalization default: a
// rule-based guess should never look more certain than a model answer.
const fallbackConfidence = 0.45

var emergencyTerms = []string{
	"chest pain",
	"shortness of breath",
	"breathlessness",
	"fainting",
	"seizure",
	"unconscious",
	"severe bleeding",
	"swelling of face",
	"swelling of tongue",
	"anaphylaxis",
}

var highTerms = []string{
	"high fever",
	"persistent vomiting",
	"bloody stool",
	"black stool",
	"confusion",
	"severe headache",
	"severe rash",
	"yellow eyes",
	"yellow skin",
}

var recommendationBySeverity = map[model.Severity]string{
	model.SeverityLow:       "Monitor symptoms, hydrate, and continue tracking. If symptoms persist, consult your doctor.",
	model.SeverityMedium:    "Consult your doctor within 24 hours for guidance and possible medicine adjustment.",
	model.SeverityHigh:      "Seek urgent medical care today and avoid the next dose until advised by a clinician.",
	model.SeverityEmergency: "Seek emergency care immediately or call emergency services now.",
}

// fallbackTriage is the network-free rule path: emergency terms win, then
// high terms, then a symptom-count heuristic. Same input, same output.
func fallbackTriage(report *model.SymptomReport) model.TriageResult {
	symptomsText := strings.ToLower(strings.Join(report.Symptoms, " | "))

	severity := model.SeverityLow
	doctorNeeded := false

	switch {
	case containsAny(symptomsText, emergencyTerms):
		severity = model.SeverityEmergency
		doctorNeeded = true
	case containsAny(symptomsText, highTerms):
		severity = model.SeverityHigh
		doctorNeeded = true
	case len(report.Symptoms) >= 3:
		severity = model.SeverityMedium
		doctorNeeded = true
	}

	return model.TriageResult{
		Severity:                 severity,
		DoctorConsultationNeeded: doctorNeeded,
		Urgency:                  model.UrgencyForSeverity[severity],
		PossibleReasons: []string{
			"Possible medicine side effect",
			"Interaction with another medicine",
			"Underlying condition worsening",
		},
		ImmediateActions: []string{
			"Record exact symptom start time",
			"Avoid self-medicating additional drugs",
			"Keep hydration and rest",
		},
		WarningSigns: []string{
			"Breathing difficulty",
			"Chest pain",
			"Severe swelling/rash",
		},
		Recommendation: recommendationBySeverity[severity],
		Confidence:     fallbackConfidence,
		Disclaimer:     model.TriageDisclaimer,
	}
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
