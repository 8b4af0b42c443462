package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

type DrawKind string

const (
	DrawInstant   DrawKind = "instant"
	DrawScheduled DrawKind = "scheduled"
)

type Channel string

const (
	ChannelOnline  Channel = "online"
	ChannelOffline Channel = "offline"
)

// CatalogItem is a single recommendable lottery product after normalization.
// One snapshot is rebuilt on every upstream fetch; items are never persisted.
type CatalogItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceMinor  int64    `json:"price_minor"`
	RiskTier    RiskTier `json:"risk_tier"`
	DrawKind    DrawKind `json:"draw_kind"`
	Channel     Channel  `json:"channel"`
	Features    []string `json:"features"`

	// LastDrawSequenceNumber carries the provider draw counter through
	// normalization so the newness bookkeeping can compare visits.
	LastDrawSequenceNumber *int64 `json:"last_draw_sequence_number,omitempty"`
	IsNew                  bool   `json:"is_new"`
}

// FlexInt decodes provider fields that arrive either as a JSON number or as a
// numeric string. Unparseable values decode as null.
type FlexInt struct {
	Value int64
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		f.Valid = false
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		f.Valid = false
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f.Valid = false
		return nil
	}
	f.Value = n
	f.Valid = true
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// StolotoDraw is the provider-shaped draw record embedded in a game.
type StolotoDraw struct {
	ID         int64   `json:"id"`
	Number     FlexInt `json:"number"`
	SuperPrize int64   `json:"superPrize"`
	Date       int64   `json:"date"`
	BetCost    float64 `json:"betCost"`
}

// StolotoGame is a scheduled-draw game as returned by the draws endpoint.
type StolotoGame struct {
	Name             string       `json:"name"`
	Active           bool         `json:"active"`
	Draw             *StolotoDraw `json:"draw"`
	CompletedDraw    *StolotoDraw `json:"completedDraw"`
	MaxBetSize       int64        `json:"maxBetSize"`
	MaxTicketCost    int64        `json:"maxTicketCost"`
	MaxTicketCostVip int64        `json:"maxTicketCostVip"`
}

type StolotoDrawsResponse struct {
	RequestStatus string        `json:"requestStatus"`
	Games         []StolotoGame `json:"games"`
}

// MomentCard is an instant-type card from the momental endpoint.
type MomentCard struct {
	LotteryID       string `json:"lotteryId"`
	DisplayedName   string `json:"displayedName"`
	TicketPriceInfo string `json:"ticketPriceInfo"`
	SuperPrizeValue string `json:"superPrizeValue"`
	LotterySlogan   string `json:"lotterySlogan"`
}

type MomentalSection struct {
	Title       string       `json:"title"`
	MomentCards []MomentCard `json:"momentCards"`
}

type MomentalResponse struct {
	Data []MomentalSection `json:"data"`
}

// CatalogResponse is the catalog endpoint payload: the normalized snapshot
// plus the quick picks shown before the questionnaire starts.
type CatalogResponse struct {
	Style      string        `json:"style"`
	Items      []CatalogItem `json:"items"`
	QuickPicks []CatalogItem `json:"quick_picks"`
}
