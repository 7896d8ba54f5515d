package extraction

import (
	"context"
	"errors"
	"fmt"

	"dispatch-server/internal/observability"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// ErrMalformedResponse indicates the model returned output that does not fit
// the expected schema.
var ErrMalformedResponse = errors.New("malformed extraction response")

const extractionModel = openai.ChatModelGPT4o

// Extractor derives structured call data from raw transcripts using OpenAI
// chat completions in JSON mode.
type Extractor struct {
	client openai.Client
	logger *observability.Logger
}

func New(apiKey string, logger *observability.Logger, opts ...option.RequestOption) (*Extractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	options := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Extractor{
		client: openai.NewClient(options...),
		logger: logger,
	}, nil
}

// ExtractCheckin extracts structured check-in data from a transcript.
func (e *Extractor) ExtractCheckin(ctx context.Context, transcript string) (CheckinData, error) {
	content, err := e.complete(ctx, buildCheckinPrompt(transcript))
	if err != nil {
		return CheckinData{}, err
	}

	data, err := decodeCheckin(content)
	if err != nil {
		e.logger.Error(ctx, "failed to decode check-in extraction", err)
		return CheckinData{}, err
	}
	return data, nil
}

// ExtractEmergency extracts structured emergency data from a transcript.
func (e *Extractor) ExtractEmergency(ctx context.Context, transcript string) (EmergencyData, error) {
	content, err := e.complete(ctx, buildEmergencyPrompt(transcript))
	if err != nil {
		return EmergencyData{}, err
	}

	data, err := decodeEmergency(content)
	if err != nil {
		e.logger.Error(ctx, "failed to decode emergency extraction", err)
		return EmergencyData{}, err
	}
	return data, nil
}

func (e *Extractor) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: extractionModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		e.logger.Error(ctx, "extraction completion failed", err)
		return "", fmt.Errorf("extraction completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrMalformedResponse
	}
	return resp.Choices[0].Message.Content, nil
}
