package voice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/medicare-health/assistant-api/internal/config"
	"github.com/medicare-health/assistant-api/internal/model"
	"github.com/medicare-health/assistant-api/pkg/metrics"
)

type fakeCallCreator struct {
	params *openapi.CreateCallParams
	call   *openapi.ApiV2010Call
	err    error
}

func (f *fakeCallCreator) CreateCall(params *openapi.CreateCallParams) (*openapi.ApiV2010Call, error) {
	f.params = params
	return f.call, f.err
}

func strptr(s string) *string { return &s }

func configuredTwilio() config.TwilioConfig {
	return config.TwilioConfig{
		AccountSID:      "ACtest",
		AuthToken:       "secret",
		VoiceFromNumber: "+15005550006",
		PublicBaseURL:   "https://reminders.example.com/",
	}
}

func TestPlaceCallNotConfigured(t *testing.T) {
	svc := NewService(config.TwilioConfig{}, nil, NewCallStore(), metrics.NewNop())

	_, err := svc.PlaceCall(&model.VoiceReminderCallRequest{
		ToPhone:      "9876543210",
		MedicineName: "Metformin",
	})

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPlaceCallInvalidPhone(t *testing.T) {
	creator := &fakeCallCreator{}
	svc := NewService(configuredTwilio(), creator, NewCallStore(), metrics.NewNop())

	_, err := svc.PlaceCall(&model.VoiceReminderCallRequest{
		ToPhone:      "not a number",
		MedicineName: "Metformin",
	})

	assert.ErrorIs(t, err, ErrInvalidPhone)
	assert.Nil(t, creator.params)
}

func TestPlaceCallSuccess(t *testing.T) {
	creator := &fakeCallCreator{
		call: &openapi.ApiV2010Call{Sid: strptr("CA999"), Status: strptr("queued")},
	}
	store := NewCallStore()
	svc := NewService(configuredTwilio(), creator, store, metrics.NewNop())

	data, err := svc.PlaceCall(&model.VoiceReminderCallRequest{
		ToPhone:       "9876543210",
		PatientName:   "Asha",
		CaregiverName: "Ravi",
		MedicineName:  "Metformin",
		Dosage:        "500mg",
		ScheduledTime: "8:00 AM",
		DateKey:       "2026-08-26",
	})

	require.NoError(t, err)
	assert.Equal(t, "CA999", data.CallSID)
	assert.Equal(t, "queued", data.Status)

	require.NotNil(t, creator.params)
	assert.Equal(t, "+919876543210", *creator.params.To)
	assert.Equal(t, "+15005550006", *creator.params.From)
	assert.Contains(t, *creator.params.Url, "https://reminders.example.com/api/v1/voice/twiml?")
	assert.Contains(t, *creator.params.Url, "medicine_name=Metformin")
	assert.Contains(t, *creator.params.Url, "mode=caregiver_patient")
	assert.Equal(t, "https://reminders.example.com/api/v1/voice/status", *creator.params.StatusCallback)

	record, err := store.Get("CA999")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", record.To)
	assert.Equal(t, model.CallResponsePending, record.Response)
}

func TestPlaceCallDefaultsMissingStatus(t *testing.T) {
	creator := &fakeCallCreator{call: &openapi.ApiV2010Call{Sid: strptr("CA1")}}
	svc := NewService(configuredTwilio(), creator, NewCallStore(), metrics.NewNop())

	data, err := svc.PlaceCall(&model.VoiceReminderCallRequest{
		ToPhone:      "9876543210",
		MedicineName: "Metformin",
	})

	require.NoError(t, err)
	assert.Equal(t, "queued", data.Status)
}

func TestPlaceCallProviderError(t *testing.T) {
	creator := &fakeCallCreator{err: errors.New("twilio rejected the call")}
	store := NewCallStore()
	svc := NewService(configuredTwilio(), creator, store, metrics.NewNop())

	_, err := svc.PlaceCall(&model.VoiceReminderCallRequest{
		ToPhone:      "9876543210",
		MedicineName: "Metformin",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to place reminder call")
	_, getErr := store.Get("")
	assert.ErrorIs(t, getErr, ErrNotFound)
}
