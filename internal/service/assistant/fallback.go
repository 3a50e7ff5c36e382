package assistant

import (
	"strings"

	"github.com/medicare-health/assistant-api/internal/model"
)

// Note this phrase set is narrower than the analyzer's symptom terms: chat
// messages are free prose, so only unambiguous phrases trigger the urgent
// reply.
var emergencyPhrases = []string{
	"chest pain",
	"severe breathlessness",
	"fainting",
	"seizure",
	"unconscious",
	"heavy bleeding",
}

const (
	genericReply = "I can help explain medicines from your prescription and provide health guidance. " +
		"Please share medicine names, schedule, and any symptoms for a more accurate answer."
	urgentReply = "Your message may include emergency warning signs. " +
		"Please seek immediate medical care or call emergency services now."
)

// fallbackChat is the canned reply path used when the model is unavailable
// or its output is unusable.
func fallbackChat(turn *model.ChatTurn) model.ChatResult {
	message := strings.ToLower(turn.UserMessage)

	emergency := false
	for _, phrase := range emergencyPhrases {
		if strings.Contains(message, phrase) {
			emergency = true
			break
		}
	}

	reply := genericReply
	if emergency {
		reply = urgentReply
	}

	return model.ChatResult{
		Reply: reply,
		MedicineUses: []string{
			"Share medicine name and purpose to get use-specific guidance.",
			"Follow doctor-prescribed timing and dose exactly.",
		},
		HealthGuidance: []string{
			"Track symptoms with date/time and discuss persistent issues with a clinician.",
			"Do not stop essential medicines abruptly without advice.",
		},
		DietGuidance: []string{
			"Stay hydrated and maintain balanced meals with protein and fiber.",
			"Avoid alcohol unless your doctor confirms safety with medicines.",
		},
		ExerciseGuidance: []string{
			"Use moderate daily activity such as walking unless advised otherwise.",
			"Pause exercise and seek care if dizziness, chest pain, or severe weakness occurs.",
		},
		Precautions: []string{
			"Check drug interactions before adding OTC medicines or supplements.",
			"Report allergy symptoms such as rash, swelling, or breathing trouble urgently.",
		},
		ImageReceived: turn.HasImage(),
		Emergency:     emergency,
		Disclaimer:    model.AssistantDisclaimer,
	}
}
