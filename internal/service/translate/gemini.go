package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiBackend 基于 Gemini 的翻译后端
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend 创建 Gemini 翻译后端
func NewGeminiBackend(ctx context.Context, apiKey, modelName string) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &GeminiBackend{client: client, model: modelName}, nil
}

// Translate 翻译文本
func (b *GeminiBackend) Translate(ctx context.Context, text, source, target string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llmSystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model,
		genai.Text(fmt.Sprintf(llmUserTemplate, source, target, text)), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini translation failed: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", errors.New("empty translation")
	}
	return out, nil
}
