package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiService backs all three generative collaborators of the pipeline:
// embeddings, structured scoring and code synthesis.
type GeminiService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	CompleteJSON(ctx context.Context, system, user string) (string, error)
	Complete(ctx context.Context, system, user string, maxTokens int32, temperature float32) (string, error)
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

func NewGeminiService(ctx context.Context, apiKey string) (GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  "gemini-2.5-flash",
		embedModel: "text-embedding-004",
	}, nil
}

// Embed implements GeminiService.
func (g *geminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// CompleteJSON implements GeminiService. The model is constrained to a JSON
// response body and a low temperature for consistent judging.
func (g *geminiService) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	temperature := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	}

	prompt := fmt.Sprintf("%s\n\n%s", system, user)
	return g.generate(ctx, prompt, config)
}

// Complete implements GeminiService.
func (g *geminiService) Complete(ctx context.Context, system, user string, maxTokens int32, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}

	prompt := fmt.Sprintf("%s\n\n%s", system, user)
	return g.generate(ctx, prompt, config)
}

func (g *geminiService) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}
