// Package voice places outbound medicine-reminder calls and tracks each
// call's lifecycle and the caller's response in memory.
package voice

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/medicare-health/assistant-api/internal/config"
	"github.com/medicare-health/assistant-api/internal/model"
	"github.com/medicare-health/assistant-api/pkg/metrics"
)

// ErrNotConfigured is returned when telephony credentials or the public
// callback base URL are missing. There is no fallback for placing a call.
var ErrNotConfigured = errors.New(
	"voice calling is not configured: set PUBLIC_BASE_URL, TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_VOICE_FROM_NUMBER")

// CallCreator is the single telephony operation we consume. The twilio-go
// Api service satisfies it; tests inject a fake.
type CallCreator interface {
	CreateCall(params *openapi.CreateCallParams) (*openapi.ApiV2010Call, error)
}

type Service struct {
	cfg     config.TwilioConfig
	calls   CallCreator
	store   *CallStore
	metrics *metrics.Metrics
}

func NewService(cfg config.TwilioConfig, calls CallCreator, store *CallStore, m *metrics.Metrics) *Service {
	return &Service{
		cfg:     cfg,
		calls:   calls,
		store:   store,
		metrics: m,
	}
}

// Store exposes the call tracker to the webhook handlers.
func (s *Service) Store() *CallStore {
	return s.store
}

// PublicBaseURL is the externally reachable base for webhook callbacks.
func (s *Service) PublicBaseURL() string {
	return strings.TrimRight(s.cfg.PublicBaseURL, "/")
}

// PlaceCall asks the telephony provider to dial the destination and speak
// the reminder. One attempt, no retry; configuration and phone problems are
// reported to the caller.
func (s *Service) PlaceCall(req *model.VoiceReminderCallRequest) (*model.VoiceReminderCallData, error) {
	if !s.cfg.Configured() || s.calls == nil {
		return nil, ErrNotConfigured
	}

	to, err := NormalizePhone(req.ToPhone)
	if err != nil {
		return nil, invalidPhoneError(req.ToPhone)
	}

	mode := req.Mode
	if mode == "" {
		mode = string(model.ModeCaregiverPatient)
	}
	query := url.Values{
		"patient_name":   {req.PatientName},
		"caregiver_name": {req.CaregiverName},
		"medicine_name":  {req.MedicineName},
		"dosage":         {req.Dosage},
		"scheduled_time": {req.ScheduledTime},
		"date_key":       {req.DateKey},
		"mode":           {mode},
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(s.cfg.VoiceFromNumber)
	params.SetUrl(fmt.Sprintf("%s/api/v1/voice/twiml?%s", s.PublicBaseURL(), query.Encode()))
	params.SetMethod("POST")
	params.SetStatusCallback(s.PublicBaseURL() + "/api/v1/voice/status")
	params.SetStatusCallbackMethod("POST")
	params.SetStatusCallbackEvent([]string{"initiated", "ringing", "answered", "completed"})

	call, err := s.calls.CreateCall(params)
	if err != nil {
		s.metrics.CallsFailed.Inc()
		return nil, fmt.Errorf("failed to place reminder call: %w", err)
	}

	sid := deref(call.Sid)
	status := deref(call.Status)
	if status == "" {
		status = "queued"
	}

	s.store.Create(sid, to, status)
	s.metrics.CallsPlaced.Inc()

	return &model.VoiceReminderCallData{CallSID: sid, Status: status}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
