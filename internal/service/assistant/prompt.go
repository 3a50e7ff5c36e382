package assistant

import (
	"fmt"
	"strings"

	"github.com/medicare-health/assistant-api/internal/model"
)

func buildPrompt(turn *model.ChatTurn) string {
	var history strings.Builder
	for _, entry := range turn.History {
		fmt.Fprintf(&history, "- %s\n", entry)
	}
	historyBlock := strings.TrimRight(history.String(), "\n")
	if historyBlock == "" {
		historyBlock = "none"
	}

	prescription := turn.PrescriptionText
	if prescription == "" {
		prescription = "none"
	}

	imageNote := "No prescription image attached."
	if turn.HasImage() {
		imageNote = "A prescription image is attached. Extract relevant medicine details from it."
	}

	var b strings.Builder
	b.WriteString("You are an experienced medication and wellness assistant.\n")
	b.WriteString("Goals:\n")
	b.WriteString("1) Explain medicine usage from the provided prescription/context.\n")
	b.WriteString("2) Give practical guidance on health, medicine safety, exercise, food, and diet.\n")
	b.WriteString("3) Use simple patient-friendly language.\n")
	b.WriteString("4) If you suspect emergency risk, set emergency=true and clearly advise urgent care.\n\n")
	b.WriteString("Return STRICT JSON only with this schema:\n")
	b.WriteString(`{"reply":"short paragraph answer",` +
		`"medicine_uses":["..."],` +
		`"health_guidance":["..."],` +
		`"diet_guidance":["..."],` +
		`"exercise_guidance":["..."],` +
		`"precautions":["..."],` +
		`"emergency":true|false}` + "\n")
	b.WriteString("Rules:\n")
	b.WriteString("- No markdown, no extra keys.\n")
	b.WriteString("- Never prescribe dosage changes as a doctor replacement.\n")
	b.WriteString("- Keep each list concise (max 6 points).\n\n")
	fmt.Fprintf(&b, "Image context: %s\n", imageNote)
	fmt.Fprintf(&b, "Prescription text:\n%s\n\n", prescription)
	fmt.Fprintf(&b, "Conversation history:\n%s\n\n", historyBlock)
	fmt.Fprintf(&b, "User question:\n%s\n", turn.UserMessage)
	return b.String()
}
