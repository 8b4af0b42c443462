package models

// Profile accumulates the answers of the primary questionnaire. Numeric
// fields stay nil until the user reaches the corresponding step; qualitative
// fields only feed explanation text, never scoring.
type Profile struct {
	Style      *string  `json:"style,omitempty"`
	Frequency  *float64 `json:"frequency,omitempty"`
	TicketCost *float64 `json:"ticket_cost,omitempty"`
	WinRate    *float64 `json:"win_rate,omitempty"`
	WinSize    *float64 `json:"win_size,omitempty"`

	Budget     *string `json:"budget,omitempty"`
	Risk       *string `json:"risk,omitempty"`
	DrawType   *string `json:"draw_type,omitempty"`
	Format     *string `json:"format,omitempty"`
	Motivation *string `json:"motivation,omitempty"`
}

// Style values accepted on the first questionnaire step.
const (
	StyleInstant = "instant"
	StyleTirage  = "tirage"
	StyleAny     = "any"
)

// RefinementAnswers are the three categorical answers of the refinement
// questionnaire. A nil field means the step was not answered yet.
type RefinementAnswers struct {
	PricePriority *string `json:"price_priority,omitempty"`
	RiskFeeling   *string `json:"risk_feeling,omitempty"`
	PlayRhythm    *string `json:"play_rhythm,omitempty"`
}

const (
	PriceEconomy  = "economy"
	PriceBalance  = "balance"
	PricePremium  = "premium"
	PriceDontCare = "dontcare"

	RiskAvoid   = "avoid"
	RiskNeutral = "neutral"
	RiskSeek    = "seek"

	RhythmOften     = "often"
	RhythmSometimes = "sometimes"
	RhythmRare      = "rare"
)

// QuestionnaireState is the wire view of a wizard for the UI.
type QuestionnaireState struct {
	StepIndex       int            `json:"step_index"`
	StepCount       int            `json:"step_count"`
	Field           string         `json:"field"`
	Title           string         `json:"title"`
	Options         []StepOption   `json:"options"`
	ProgressPercent int            `json:"progress_percent"`
	Error           *string        `json:"error,omitempty"`
	Submitted       bool           `json:"submitted"`
	Answers         map[string]any `json:"answers"`
}

type StepOption struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}
