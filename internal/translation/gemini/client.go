package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// Generator sends one prompt to a model with a specific API key.
type Generator interface {
	Generate(ctx context.Context, apiKey, model, system, prompt string) (string, error)
}

// genaiGenerator keeps one genai client per API key.
type genaiGenerator struct {
	mu      sync.Mutex
	clients map[string]*genai.Client
}

func newGenaiGenerator() *genaiGenerator {
	return &genaiGenerator{clients: make(map[string]*genai.Client)}
}

func (g *genaiGenerator) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.clients[apiKey]; ok {
		return c, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	g.clients[apiKey] = c
	return c, nil
}

func (g *genaiGenerator) Generate(ctx context.Context, apiKey, model, system, prompt string) (string, error) {
	c, err := g.client(ctx, apiKey)
	if err != nil {
		return "", err
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.2),
		ResponseMIMEType:  "application/json",
	}
	result, err := c.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}
	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text.String(), nil
}

// isRateLimited reports whether err means the key is throttled or out of quota.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
