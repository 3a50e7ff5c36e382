package voice

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go/twiml"

	"github.com/medicare-health/assistant-api/internal/handler"
	"github.com/medicare-health/assistant-api/internal/model"
	"github.com/medicare-health/assistant-api/internal/service/voice"
	"github.com/medicare-health/assistant-api/pkg/metrics"
)

const (
	sayVoice    = "alice"
	sayLanguage = "en-IN"
)

type Handler struct {
	service *voice.Service
	metrics *metrics.Metrics
}

func NewHandler(service *voice.Service, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	vr := r.Group("/voice")
	{
		vr.POST("/reminder/call", h.PlaceReminderCall)
		vr.GET("/reminder/result/:callSid", h.CallResult)
		vr.POST("/twiml", h.TwiML)
		vr.POST("/gather", h.Gather)
		vr.POST("/status", h.StatusCallback)
	}
}

func (h *Handler) PlaceReminderCall(c *gin.Context) {
	var req model.VoiceReminderCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	data, err := h.service.PlaceCall(&req)
	if err != nil {
		// Missing telephony configuration and unusable phone numbers have no
		// fallback; the caller has to know the call was not placed.
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(data))
}

func (h *Handler) CallResult(c *gin.Context) {
	callSID := strings.TrimSpace(c.Param("callSid"))

	record, err := h.service.Store().Get(callSID)
	if err != nil {
		if errors.Is(err, voice.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("call result not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(record))
}

// TwiML speaks the reminder and gathers the caller's answer by speech or
// keypad. Template fields arrive on the query string, placed there by
// PlaceCall.
func (h *Handler) TwiML(c *gin.Context) {
	patient := queryOr(c, "patient_name", "patient")
	caregiver := queryOr(c, "caregiver_name", "caregiver")
	medicine := queryOr(c, "medicine_name", "medicine")
	dosage := queryOr(c, "dosage", "as prescribed")
	scheduledTime := queryOr(c, "scheduled_time", "now")
	dateKey := queryOr(c, "date_key", "today")
	mode := queryOr(c, "mode", string(model.ModeCaregiverPatient))

	var intro string
	if mode == string(model.ModeSelfPatient) {
		intro = "This is an automated medicine reminder. " +
			"It is time to take " + medicine + ", " + dosage + ", at " + scheduledTime + " on " + dateKey + "."
	} else {
		intro = "This is an automated call set by " + caregiver + ". " +
			"Hello " + patient + ", it is time to take " + medicine + ", " + dosage + ", " +
			"at " + scheduledTime + " on " + dateKey + "."
	}

	gatherAction := h.service.PublicBaseURL() + "/api/v1/voice/gather?" + url.Values{
		"patient_name":   {patient},
		"medicine_name":  {medicine},
		"scheduled_time": {scheduledTime},
		"date_key":       {dateKey},
	}.Encode()

	gather := &twiml.VoiceGather{
		Input:         "speech dtmf",
		Timeout:       "60",
		SpeechTimeout: "auto",
		Action:        gatherAction,
		Method:        "POST",
		InnerElements: []twiml.Element{
			&twiml.VoiceSay{Message: intro, Voice: sayVoice, Language: sayLanguage},
			&twiml.VoicePause{Length: "1"},
			&twiml.VoiceSay{
				Message: "Please say yes if you took your medicine. " +
					"If you do not respond within one minute, this dose will be marked as missed.",
				Voice:    sayVoice,
				Language: sayLanguage,
			},
		},
	}

	h.renderTwiML(c,
		gather,
		&twiml.VoiceSay{
			Message:  "No response received. This reminder is marked as missed. Take care.",
			Voice:    sayVoice,
			Language: sayLanguage,
		},
		&twiml.VoiceHangup{},
	)
}

// Gather interprets the caller's answer. A spoken yes ("yes", "haan", or a
// bare "ha") or keypress 1 marks the dose as taken; anything else is missed.
func (h *Handler) Gather(c *gin.Context) {
	spoken := strings.ToLower(strings.TrimSpace(c.PostForm("SpeechResult")))
	pressed := strings.TrimSpace(c.PostForm("Digits"))
	callSID := strings.TrimSpace(c.PostForm("CallSid"))
	toPhone := strings.TrimSpace(c.PostForm("To"))

	taken := pressed == "1"
	if spoken != "" {
		if strings.Contains(spoken, "yes") || strings.Contains(spoken, "haan") || spoken == "ha" {
			taken = true
		}
	}

	response := model.CallResponseMissed
	if taken {
		response = model.CallResponseTaken
	}

	if callSID != "" {
		h.service.Store().RecordResponse(callSID, toPhone, response, strings.TrimSpace(c.PostForm("SpeechResult")))
		h.metrics.CallsResponded.WithLabelValues(string(response)).Inc()
	}

	if taken {
		h.renderTwiML(c,
			&twiml.VoiceSay{
				Message:  "Thank you. Your response has been recorded as taken. Stay healthy.",
				Voice:    sayVoice,
				Language: sayLanguage,
			},
			&twiml.VoiceHangup{},
		)
		return
	}

	h.renderTwiML(c,
		&twiml.VoiceSay{
			Message:  "No valid yes response detected. This reminder is marked as missed.",
			Voice:    sayVoice,
			Language: sayLanguage,
		},
		&twiml.VoicePause{Length: "1"},
		&twiml.VoiceSay{
			Message:  "Please take your medicine as soon as possible or contact your caregiver.",
			Voice:    sayVoice,
			Language: sayLanguage,
		},
		&twiml.VoiceHangup{},
	)
}

func (h *Handler) StatusCallback(c *gin.Context) {
	callSID := strings.TrimSpace(c.PostForm("CallSid"))
	status := strings.TrimSpace(c.PostForm("CallStatus"))
	if status == "" {
		status = "unknown"
	}

	if callSID != "" {
		h.service.Store().RecordStatus(callSID, status)
	}
	c.String(http.StatusOK, "ok")
}

func (h *Handler) renderTwiML(c *gin.Context, verbs ...twiml.Element) {
	doc, err := twiml.Voice(verbs)
	if err != nil {
		log.Error().Err(err).Msg("failed to render voice markup")
		c.String(http.StatusInternalServerError, "voice markup error")
		return
	}
	c.Data(http.StatusOK, "application/xml", []byte(doc))
}

func queryOr(c *gin.Context, key, fallback string) string {
	if v := strings.TrimSpace(c.Query(key)); v != "" {
		return v
	}
	return fallback
}
