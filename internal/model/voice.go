package model

import "time"

// CallResponse is the caller's answer to a reminder, independent of the
// call lifecycle status.
type CallResponse string

const (
	CallResponsePending CallResponse = "pending"
	CallResponseTaken   CallResponse = "taken"
	CallResponseMissed  CallResponse = "missed"
)

// CallRecord tracks one outbound reminder call. Records are created on
// placement, mutated by webhook callbacks, and kept for the process
// lifetime.
type CallRecord struct {
	CallSID      string       `json:"call_sid"`
	To           string       `json:"to"`
	Status       string       `json:"status"`
	Response     CallResponse `json:"response"`
	SpeechResult string       `json:"speech_result"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ReminderMode selects the spoken intro script.
type ReminderMode string

const (
	ModeCaregiverPatient ReminderMode = "caregiver_patient"
	ModeSelfPatient      ReminderMode = "self_patient"
)

// VoiceReminderCallRequest is the place-call request body.
type VoiceReminderCallRequest struct {
	ToPhone       string `json:"to_phone" binding:"required,max=40"`
	PatientName   string `json:"patient_name" binding:"omitempty,max=120"`
	CaregiverName string `json:"caregiver_name" binding:"omitempty,max=120"`
	MedicineName  string `json:"medicine_name" binding:"required,max=120"`
	Dosage        string `json:"dosage" binding:"omitempty,max=120"`
	ScheduledTime string `json:"scheduled_time" binding:"omitempty,max=60"`
	DateKey       string `json:"date_key" binding:"omitempty,max=40"`
	Mode          string `json:"mode" binding:"omitempty,oneof=caregiver_patient self_patient"`
}

// VoiceReminderCallData is returned after a call is accepted by the
// telephony provider.
type VoiceReminderCallData struct {
	CallSID string `json:"call_sid"`
	Status  string `json:"status"`
}
