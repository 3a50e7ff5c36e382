package model

// AssistantDisclaimer is attached verbatim to every chat reply.
const AssistantDisclaimer = "This assistant offers general medication and wellness " +
	"guidance, not medical diagnosis. Always confirm changes with your doctor."

// ChatTurn is the assistant chat request body. AIConsent must be true or
// the request is rejected before it reaches the assistant.
type ChatTurn struct {
	UserMessage               string   `json:"user_message" binding:"required,max=4000"`
	PrescriptionText          string   `json:"prescription_text" binding:"omitempty,max=6000"`
	PrescriptionImageBase64   string   `json:"prescription_image_base64" binding:"omitempty,max=6000000"`
	PrescriptionImageMIMEType string   `json:"prescription_image_mime_type" binding:"omitempty,imagemime"`
	History                   []string `json:"history" binding:"omitempty,max=12,dive,max=4000"`
	AIConsent                 bool     `json:"ai_consent"`
}

// HasImage reports whether the turn carries a usable inline image: both the
// payload and its MIME type must be present.
func (t *ChatTurn) HasImage() bool {
	return t.PrescriptionImageBase64 != "" && t.PrescriptionImageMIMEType != ""
}

// ChatResult is the strictly typed assistant output.
type ChatResult struct {
	Reply            string   `json:"reply"`
	MedicineUses     []string `json:"medicine_uses"`
	HealthGuidance   []string `json:"health_guidance"`
	DietGuidance     []string `json:"diet_guidance"`
	ExerciseGuidance []string `json:"exercise_guidance"`
	Precautions      []string `json:"precautions"`
	ImageReceived    bool     `json:"image_received"`
	Emergency        bool     `json:"emergency"`
	Disclaimer       string   `json:"disclaimer"`
}
