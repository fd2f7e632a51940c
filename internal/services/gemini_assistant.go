package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movie-booking/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrEmptyCompletion = errors.New("assistant returned no content")

// GeminiAssistant is the ChatAssistant backed by Google's Gemini API.
type GeminiAssistant struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiAssistant(ctx context.Context, cfg config.ChatConfig) (*GeminiAssistant, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(chatSystemInstruction)},
	}
	model.SetMaxOutputTokens(cfg.MaxTokens)

	return &GeminiAssistant{client: client, model: model}, nil
}

func (g *GeminiAssistant) Complete(ctx context.Context, message string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func (g *GeminiAssistant) Close() error {
	return g.client.Close()
}
