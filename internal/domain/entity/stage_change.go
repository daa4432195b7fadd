package entity

import "time"

// StageChange registro histórico de un cambio de etapa (auditoría).
type StageChange struct {
	ID            string
	OpportunityID string
	FromStage     Stage
	ToStage       Stage
	ChangedBy     *string
	ChangedAt     time.Time
}
