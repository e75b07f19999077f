package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrEmptyResponse = errors.New("gemini returned no text")

// GeminiClient implements TextClassifier and TextGenerator on top of the
// Gemini API. It is safe for concurrent use: a GenerativeModel is built per
// call so no per-request settings are shared.
type GeminiClient struct {
	client          *genai.Client
	classifierModel string
	narrativeModel  string
}

func NewGeminiClient(ctx context.Context, apiKey, classifierModel, narrativeModel string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{
		client:          client,
		classifierModel: classifierModel,
		narrativeModel:  narrativeModel,
	}, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// ClassifyJSON sends the instruction as system text and the user input as
// the only user turn, requesting an application/json answer.
func (g *GeminiClient) ClassifyJSON(ctx context.Context, instruction, input string) (json.RawMessage, error) {
	model := g.client.GenerativeModel(g.classifierModel)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0)
	model.SystemInstruction = genai.NewUserContent(genai.Text(instruction))

	text, err := g.generate(ctx, model, input)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.narrativeModel)
	return g.generate(ctx, model, prompt)
}

func (g *GeminiClient) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
