package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/ports"
)

// systemPrompt define el rol del modelo y el formato de salida.
const systemPrompt = `You are a B2B sales operations analyst for a telecom services company.
You receive an aggregated snapshot of the sales pipeline as JSON.
Return ONLY a valid JSON object (no markdown, no code fences) with this exact structure:
{
  "summary": "<2-4 sentence narrative of the pipeline health>",
  "risks": ["<short risk>", "..."],
  "recommendations": ["<short actionable recommendation>", "..."],
  "confidence_score": <number between 0.0 and 1.0>
}

Rules:
- At most 5 risks and 5 recommendations.
- Base every statement on the snapshot; do not invent customers or amounts.
- If the snapshot includes a "question", answer it inside the summary.`

// insightsPayload forma esperada del JSON devuelto por el modelo.
type insightsPayload struct {
	Summary         string   `json:"summary"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
	ConfidenceScore float64  `json:"confidence_score"`
}

func userContent(s ports.PipelineSnapshot) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("AI: serializar snapshot: %w", err)
	}
	return "Pipeline snapshot:\n" + string(b), nil
}

// parseInsights extrae y normaliza la respuesta del modelo.
func parseInsights(raw string) (*dto.PipelineInsightsDTO, error) {
	clean := extractJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", raw)
	}
	var p insightsPayload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de análisis: %w (JSON extraído: %s)", err, clean)
	}
	if strings.TrimSpace(p.Summary) == "" {
		return nil, fmt.Errorf("AI: el modelo no devolvió summary")
	}
	conf := p.ConfidenceScore
	if conf < 0 {
		conf = 0
	} else if conf > 1 {
		conf = 1
	}
	return &dto.PipelineInsightsDTO{
		Summary:         strings.TrimSpace(p.Summary),
		Risks:           limit(p.Risks, 5),
		Recommendations: limit(p.Recommendations, 5),
		ConfidenceScore: conf,
	}, nil
}

func limit(items []string, n int) []string {
	out := make([]string, 0, n)
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" && len(out) < n {
			out = append(out, s)
		}
	}
	return out
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el primer objeto JSON bien formado de un texto libre.
//  1. Eliminar bloques de código markdown (```json … ``` o ``` … ```).
//  2. Usar regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
