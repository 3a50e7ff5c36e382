package assistant_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare-health/assistant-api/internal/gemini"
	"github.com/medicare-health/assistant-api/internal/model"
	"github.com/medicare-health/assistant-api/internal/service/assistant"
	"github.com/medicare-health/assistant-api/pkg/metrics"
)

type fakeLLM struct {
	resp    *gemini.GenerateResponse
	err     error
	lastReq *gemini.GenerateRequest
}

func (f *fakeLLM) GenerateContent(_ context.Context, req *gemini.GenerateRequest) (*gemini.GenerateResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func textResponse(text string) *gemini.GenerateResponse {
	return &gemini.GenerateResponse{
		Candidates: []gemini.Candidate{
			{Content: &gemini.Content{Parts: []gemini.Part{{Text: text}}}},
		},
	}
}

func newService(llm gemini.Client) *assistant.Service {
	return assistant.NewService(llm, time.Second, metrics.NewNop())
}

func TestChatWithoutCredentialUsesFallback(t *testing.T) {
	svc := newService(nil)

	out := svc.Chat(context.Background(), &model.ChatTurn{UserMessage: "what is this medicine for?"})

	assert.Equal(t, model.SourceFallback, out.Source)
	assert.False(t, out.Result.Emergency)
	assert.NotEmpty(t, out.Result.Reply)
	assert.Len(t, out.Result.DietGuidance, 2)
}

func TestChatFallbackFlagsEmergencyPhrases(t *testing.T) {
	svc := newService(nil)

	out := svc.Chat(context.Background(), &model.ChatTurn{
		UserMessage: "My father has Chest Pain after his morning dose",
	})

	assert.Equal(t, model.SourceFallback, out.Source)
	assert.True(t, out.Result.Emergency)
	assert.Contains(t, out.Result.Reply, "emergency")
}

func TestChatModelErrorFallsBack(t *testing.T) {
	svc := newService(&fakeLLM{err: errors.New("upstream down")})

	out := svc.Chat(context.Background(), &model.ChatTurn{UserMessage: "is walking fine with this medicine?"})

	assert.Equal(t, model.SourceFallback, out.Source)
}

func TestChatNormalizesModelOutput(t *testing.T) {
	llm := &fakeLLM{resp: textResponse(`{
		"reply": "  Take it after food.  ",
		"medicine_uses": ["pain relief", "", "fever"],
		"health_guidance": "rest well",
		"emergency": true,
		"image_received": true
	}`)}
	svc := newService(llm)

	out := svc.Chat(context.Background(), &model.ChatTurn{UserMessage: "how should I take this?"})

	require.Equal(t, model.SourceLLM, out.Source)
	assert.Equal(t, "Take it after food.", out.Result.Reply)
	assert.Equal(t, []string{"pain relief", "fever"}, out.Result.MedicineUses)
	assert.Equal(t, []string{"rest well"}, out.Result.HealthGuidance)
	assert.Equal(t, []string{}, out.Result.Precautions)
	assert.True(t, out.Result.Emergency)
	// No image was supplied, so the model's claim is discarded.
	assert.False(t, out.Result.ImageReceived)
	assert.Equal(t, model.AssistantDisclaimer, out.Result.Disclaimer)
}

func TestChatListsTruncatedToSix(t *testing.T) {
	llm := &fakeLLM{resp: textResponse(`{
		"reply": "ok",
		"precautions": ["a","b","c","d","e","f","g","h"]
	}`)}
	svc := newService(llm)

	out := svc.Chat(context.Background(), &model.ChatTurn{UserMessage: "precautions?"})

	require.Equal(t, model.SourceLLM, out.Source)
	assert.Len(t, out.Result.Precautions, 6)
}

func TestChatImageReceivedReflectsInput(t *testing.T) {
	turnWithImage := &model.ChatTurn{
		UserMessage:               "what does my prescription say?",
		PrescriptionImageBase64:   "aGVsbG8=",
		PrescriptionImageMIMEType: "image/png",
	}

	t.Run("llm path", func(t *testing.T) {
		llm := &fakeLLM{resp: textResponse(`{"reply":"ok","image_received":false}`)}
		svc := newService(llm)

		out := svc.Chat(context.Background(), turnWithImage)

		require.Equal(t, model.SourceLLM, out.Source)
		assert.True(t, out.Result.ImageReceived)
	})

	t.Run("fallback path", func(t *testing.T) {
		svc := newService(&fakeLLM{err: errors.New("down")})

		out := svc.Chat(context.Background(), turnWithImage)

		require.Equal(t, model.SourceFallback, out.Source)
		assert.True(t, out.Result.ImageReceived)
	})
}

func TestChatSendsInlineImageToModel(t *testing.T) {
	llm := &fakeLLM{resp: textResponse(`{"reply":"ok"}`)}
	svc := newService(llm)

	svc.Chat(context.Background(), &model.ChatTurn{
		UserMessage:               "read my prescription",
		PrescriptionImageBase64:   "aGVsbG8=",
		PrescriptionImageMIMEType: "image/jpeg",
	})

	require.NotNil(t, llm.lastReq)
	require.Len(t, llm.lastReq.Contents, 1)
	parts := llm.lastReq.Contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
	assert.Equal(t, "aGVsbG8=", parts[1].InlineData.Data)
}

func TestChatImageIgnoredWithoutMIMEType(t *testing.T) {
	llm := &fakeLLM{resp: textResponse(`{"reply":"ok"}`)}
	svc := newService(llm)

	out := svc.Chat(context.Background(), &model.ChatTurn{
		UserMessage:             "read my prescription",
		PrescriptionImageBase64: "aGVsbG8=",
	})

	require.NotNil(t, llm.lastReq)
	assert.Len(t, llm.lastReq.Contents[0].Parts, 1)
	assert.False(t, out.Result.ImageReceived)
}
