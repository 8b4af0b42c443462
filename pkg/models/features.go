package models

// UniversalFeatures is the four-dimensional scoring representation shared by
// catalog items and the user's desired target. Wire names follow the scorer
// contract, not Go conventions.
type UniversalFeatures struct {
	Name       string  `json:"name"`
	WinRate    float64 `json:"win_rate"`
	WinSize    float64 `json:"win_size"`
	Frequency  float64 `json:"frequency"`
	TicketCost float64 `json:"ticket_cost"`
}

// FeatureWeights are the per-axis importance multipliers derived from the
// refinement questionnaire. Each is kept inside [0.5, 1.5].
type FeatureWeights struct {
	WinRateK    float64 `json:"win_rate_k"`
	WinSizeK    float64 `json:"win_size_k"`
	FrequencyK  float64 `json:"frequency_k"`
	TicketCostK float64 `json:"ticket_cost_k"`
}

// DesiredFeatures is the user's target vector together with its weights.
type DesiredFeatures struct {
	UniversalFeatures
	FeatureWeights
}

// NeutralWeights returns the identity weight vector.
func NeutralWeights() FeatureWeights {
	return FeatureWeights{
		WinRateK:    1.0,
		WinSizeK:    1.0,
		FrequencyK:  1.0,
		TicketCostK: 1.0,
	}
}
