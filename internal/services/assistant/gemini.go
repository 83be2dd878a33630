package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/magabrotheeeer/destipicker/internal/config"
)

// ErrNoAPIKey возвращается NewGemini, если ключ не задан.
var ErrNoAPIKey = errors.New("gemini api key is not configured")

// Gemini — Model поверх Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini создаёт клиента Gemini.
func NewGemini(ctx context.Context, cfg config.Gemini) (*Gemini, error) {
	const op = "assistant.NewGemini"
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoAPIKey)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Gemini{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Generate отправляет подсказку и изображения одним сообщением пользователя.
func (g *Gemini) Generate(ctx context.Context, prompt string, images []Image) (string, error) {
	const op = "assistant.Gemini.Generate"
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	parts := make([]*genai.Part, 0, len(images)+1)
	parts = append(parts, genai.NewPartFromText(prompt))
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, p := range candidate.Content.Parts {
			b.WriteString(p.Text)
		}
		break
	}
	return b.String(), nil
}
