package models

import (
	"time"

	"github.com/google/uuid"
)

// BestOfRequest is the scorer wire contract. The profile travels with the
// request for the scorer's own bookkeeping; nothing here depends on it.
type BestOfRequest struct {
	Desired    DesiredFeatures     `json:"universal_props_with_k"`
	RealValues []UniversalFeatures `json:"real_values"`
	Profile    Profile             `json:"p"`
}

// BestOfEntry is one scored item in the scorer response. The response is not
// required to be sorted nor to cover every submitted item.
type BestOfEntry struct {
	Diff           float64           `json:"diff"`
	Name           string            `json:"name"`
	UniversalProps UniversalFeatures `json:"universal_props"`
}

// RankedItem pairs a catalog item with its scorer distance; lower is better.
type RankedItem struct {
	Diff float64     `json:"diff"`
	Item CatalogItem `json:"item"`
}

// ShortlistRequest asks for the top-K matches for a completed profile.
type ShortlistRequest struct {
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	Profile   Profile    `json:"profile" binding:"required"`
	Count     int        `json:"count" binding:"omitempty,min=1,max=20"`
}

type ShortlistResponse struct {
	SessionID   *uuid.UUID   `json:"session_id,omitempty"`
	Items       []RankedItem `json:"items"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// FinalRequest re-ranks the catalog with refinement weights and returns the
// single best match.
type FinalRequest struct {
	SessionID *uuid.UUID        `json:"session_id,omitempty"`
	Profile   Profile           `json:"profile" binding:"required"`
	Answers   RefinementAnswers `json:"answers"`
}

type FinalResponse struct {
	SessionID   *uuid.UUID     `json:"session_id,omitempty"`
	Item        *RankedItem    `json:"item,omitempty"`
	Weights     FeatureWeights `json:"weights"`
	GeneratedAt time.Time      `json:"generated_at"`
}
