package model

import "time"

// Severity buckets a symptom report into one of four triage levels.
type Severity string

const (
	SeverityLow       Severity = "low"
	SeverityMedium    Severity = "medium"
	SeverityHigh      Severity = "high"
	SeverityEmergency Severity = "emergency"
)

// Urgency is the recommended escalation path for a given severity.
type Urgency string

const (
	UrgencySelfMonitor   Urgency = "self_monitor"
	UrgencyCallDoctor24h Urgency = "call_doctor_24h"
	UrgencySeekUrgent    Urgency = "seek_urgent_care"
	UrgencyEmergencyNow  Urgency = "emergency_now"
)

// UrgencyForSeverity is the canonical severity→urgency mapping. Any
// urgency coming back from the model that is not one of these four values
// is replaced by the entry for the (possibly defaulted) severity.
var UrgencyForSeverity = map[Severity]Urgency{
	SeverityLow:       UrgencySelfMonitor,
	SeverityMedium:    UrgencyCallDoctor24h,
	SeverityHigh:      UrgencySeekUrgent,
	SeverityEmergency: UrgencyEmergencyNow,
}

// Source marks where an analysis result came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Output wraps a pipeline result with its provenance tag.
type Output[T any] struct {
	Result T
	Source Source
}

// TriageDisclaimer is attached verbatim to every triage result.
const TriageDisclaimer = "This is educational support, not a diagnosis. " +
	"If symptoms are severe or worsening, contact a doctor immediately."

// SymptomReport is the analyze request body.
type SymptomReport struct {
	MedicineName    string     `json:"medicine_name" binding:"required,min=1,max=120"`
	Dose            string     `json:"dose" binding:"omitempty,max=120"`
	TakenAt         *time.Time `json:"taken_at"`
	Symptoms        []string   `json:"symptoms" binding:"required,min=1,max=20,dive,max=200"`
	PatientAge      *int       `json:"patient_age" binding:"omitempty,gte=0,lte=120"`
	PatientGender   string     `json:"patient_gender" binding:"omitempty,max=40"`
	KnownConditions []string   `json:"known_conditions" binding:"omitempty,max=20,dive,max=200"`
	ExtraNotes      string     `json:"extra_notes" binding:"omitempty,max=1000"`
}

// TriageResult is the strictly typed analyzer output.
type TriageResult struct {
	Severity                 Severity `json:"severity"`
	DoctorConsultationNeeded bool     `json:"doctor_consultation_needed"`
	Urgency                  Urgency  `json:"urgency"`
	PossibleReasons          []string `json:"possible_reasons"`
	ImmediateActions         []string `json:"immediate_actions"`
	WarningSigns             []string `json:"warning_signs"`
	Recommendation           string   `json:"recommendation"`
	Confidence               float64  `json:"confidence"`
	Disclaimer               string   `json:"disclaimer"`
}
