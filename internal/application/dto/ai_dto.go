package dto

// PipelineInsightsRequest pregunta opcional para orientar el análisis.
type PipelineInsightsRequest struct {
	Question string `json:"question"`
}

// PipelineInsightsDTO análisis del pipeline generado por el LLM.
type PipelineInsightsDTO struct {
	Summary         string   `json:"summary"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
	ConfidenceScore float64  `json:"confidence_score"`
}
