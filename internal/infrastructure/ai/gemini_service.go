package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/ports"
)

// Verificar en tiempo de compilación que GeminiService implementa LLMService.
var _ ports.LLMService = (*GeminiService)(nil)

// GeminiService adaptador que implementa LLMService con el SDK google.golang.org/genai.
// ResponseMIMEType=application/json obliga a Gemini a devolver JSON puro.
type GeminiService struct {
	client *genai.Client
	model  string
}

// NewGeminiService construye el adaptador. model suele ser "gemini-2.0-flash".
func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("AI: GEMINI_API_KEY no configurado")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("AI: crear cliente Gemini: %w", err)
	}
	return &GeminiService{client: client, model: model}, nil
}

// AnalyzePipeline envía el snapshot a Gemini y devuelve el análisis.
func (s *GeminiService) AnalyzePipeline(ctx context.Context, snapshot ports.PipelineSnapshot) (*dto.PipelineInsightsDTO, error) {
	content, err := userContent(snapshot)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Models.GenerateContent(ctx,
		s.model,
		[]*genai.Content{genai.NewContentFromText(content, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr[float32](0.2),
			MaxOutputTokens:   1024,
		},
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: Gemini: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}
	return parseInsights(text)
}
