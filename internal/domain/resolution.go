package domain

import "time"

// Outcome classifies how a submission ended.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeValidation Outcome = "validation"
	OutcomeTransport  Outcome = "transport"
	OutcomeDecode     Outcome = "decode"
	OutcomeSemantic   Outcome = "semantic"
)

// Resolution is the diagnostic record of one submission. It never carries the
// resolved media itself.
type Resolution struct {
	ID         int
	SessionKey string
	InputURL   string
	Outcome    Outcome
	HTTPStatus int
	Stale      bool // settled after a newer submission and was discarded
	Duration   time.Duration
	CreatedAt  time.Time
}
