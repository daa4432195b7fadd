package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/ports"
)

// Verificar en tiempo de compilación que AnthropicService implementa LLMService.
var _ ports.LLMService = (*AnthropicService)(nil)

const anthropicMaxTokens = 1024

// AnthropicService adaptador que implementa LLMService con el SDK oficial de Anthropic (Claude).
type AnthropicService struct {
	client anthropic.Client
	apiKey string
	model  string
}

// NewAnthropicService construye el adaptador. opts permite sobreescribir
// endpoint o reintentos (tests).
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicService(apiKey, model string, timeout time.Duration, opts ...option.RequestOption) *AnthropicService {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(1),
	}
	return &AnthropicService{
		client: anthropic.NewClient(append(base, opts...)...),
		apiKey: apiKey,
		model:  model,
	}
}

// AnalyzePipeline envía el snapshot a Claude y devuelve el análisis.
func (s *AnthropicService) AnalyzePipeline(ctx context.Context, snapshot ports.PipelineSnapshot) (*dto.PipelineInsightsDTO, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado")
	}
	content, err := userContent(snapshot)
	if err != nil {
		return nil, err
	}

	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: anthropicMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(content)),
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("AI: Anthropic HTTP %d: %w", apiErr.StatusCode, err)
		}
		return nil, fmt.Errorf("AI: llamada a Anthropic fallida: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("AI: Claude devolvió respuesta vacía")
	}
	return parseInsights(text.String())
}
