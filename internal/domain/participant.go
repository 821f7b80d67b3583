package domain

// ParticipantSummary is the read-only view of a counterparty owned by the
// participant service.
type ParticipantSummary struct {
	ID              int64
	Code            string
	Name            string
	TaxID           string
	PersonType      string
	ParticipantType string
}
