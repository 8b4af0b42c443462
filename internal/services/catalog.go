package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/treyzar/lotto-advisor/internal/config"
	"github.com/treyzar/lotto-advisor/internal/database"
	"github.com/treyzar/lotto-advisor/pkg/models"
)

// Risk tier thresholds on the top prize, in rubles.
const (
	highRiskPrizeThreshold = 100_000_000
	lowRiskPrizeThreshold  = 10_000_000
)

// Readable display names instead of provider codes like "6x45".
var gameDisplayNames = map[string]string{
	"6x49":           "Спортлото «6 из 49»",
	"5x36":           "Спортлото «5 из 36»",
	"6x45":           "Спортлото «6 из 45»",
	"7x49":           "Спортлото «7 из 49»",
	"bingo75":        "Бинго-75",
	"ruslotto":       "Русское лото",
	"udachanasdachu": "Удача на сдачу",
	"dvazhdydva":     "Проще, чем дважды два",
	"4x20":           "Спортлото «4 из 20»",
	"oxota-vyzov":    "Охота. Вызов",
	"top3":           "Топ-3",
}

func gameDisplayName(code string) string {
	if name, ok := gameDisplayNames[code]; ok {
		return name
	}
	return code
}

// StolotoClient talks to the upstream draws/games API.
type StolotoClient struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

func NewStolotoClient(cfg config.StolotoConfig, logger *logrus.Logger) *StolotoClient {
	return &StolotoClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

func (c *StolotoClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build upstream request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode upstream response: %w", err)
	}
	return nil
}

// GetDraws fetches the scheduled-draw games.
func (c *StolotoClient) GetDraws(ctx context.Context) (*models.StolotoDrawsResponse, error) {
	var resp models.StolotoDrawsResponse
	if err := c.get(ctx, "/draws/", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMomental fetches the instant-card sections. The endpoint historically
// returned either a bare section array or a {data: [...]} envelope; both are
// accepted.
func (c *StolotoClient) GetMomental(ctx context.Context) (*models.MomentalResponse, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/draw/momental", &raw); err != nil {
		return nil, err
	}

	var resp models.MomentalResponse
	if err := json.Unmarshal(raw, &resp); err == nil && len(resp.Data) > 0 {
		return &resp, nil
	}

	var sections []models.MomentalSection
	if err := json.Unmarshal(raw, &sections); err == nil {
		return &models.MomentalResponse{Data: sections}, nil
	}

	// Unknown shape degrades to an empty catalog, not an error.
	return &models.MomentalResponse{}, nil
}

// CatalogService builds normalized catalog snapshots per style, caches them in
// the warm Redis tier and maintains the "new since last visit" bookkeeping in
// the hot tier.
type CatalogService struct {
	stoloto *StolotoClient
	redis   *database.RedisClients
	cfg     *config.RecommendationConfig
	logger  *logrus.Logger
	printer *message.Printer
}

func NewCatalogService(
	stoloto *StolotoClient,
	redis *database.RedisClients,
	cfg *config.RecommendationConfig,
	logger *logrus.Logger,
) *CatalogService {
	return &CatalogService{
		stoloto: stoloto,
		redis:   redis,
		cfg:     cfg,
		logger:  logger,
		printer: message.NewPrinter(language.Russian),
	}
}

func (cs *CatalogService) formatPrize(value int64) string {
	if value <= 0 {
		return "0"
	}
	return cs.printer.Sprint(number.Decimal(value))
}

// CatalogForStyle returns the normalized snapshot for a style, from cache
// when fresh. Styles: instant, tirage, any.
func (cs *CatalogService) CatalogForStyle(ctx context.Context, style string) ([]models.CatalogItem, error) {
	if style == "" {
		style = models.StyleAny
	}

	if items, ok := cs.cachedCatalog(ctx, style); ok {
		return items, nil
	}

	items, err := cs.fetchCatalog(ctx, style)
	observeCatalogFetch(style, err)
	if err != nil {
		return nil, err
	}

	cs.cacheCatalog(ctx, style, items)
	cs.markNewness(ctx, items)
	return items, nil
}

func (cs *CatalogService) fetchCatalog(ctx context.Context, style string) ([]models.CatalogItem, error) {
	switch style {
	case models.StyleInstant:
		momental, err := cs.stoloto.GetMomental(ctx)
		if err != nil {
			return nil, err
		}
		return cs.NormalizeMomentCards(firstSectionCards(momental)), nil

	case models.StyleTirage:
		draws, err := cs.stoloto.GetDraws(ctx)
		if err != nil {
			return nil, err
		}
		return cs.NormalizeDraws(dropLastGame(draws.Games)), nil

	default:
		momental, err := cs.stoloto.GetMomental(ctx)
		if err != nil {
			return nil, err
		}
		draws, err := cs.stoloto.GetDraws(ctx)
		if err != nil {
			return nil, err
		}
		merged := cs.NormalizeMomentCards(firstSectionCards(momental))
		return append(merged, cs.NormalizeDraws(dropLastGame(draws.Games))...), nil
	}
}

func firstSectionCards(resp *models.MomentalResponse) []models.MomentCard {
	if resp == nil || len(resp.Data) == 0 {
		return nil
	}
	return resp.Data[0].MomentCards
}

// The draws feed ends with a service entry that is not a playable game.
func dropLastGame(games []models.StolotoGame) []models.StolotoGame {
	if len(games) == 0 {
		return games
	}
	return games[:len(games)-1]
}

// NormalizeDraws converts scheduled-draw games into catalog items. Inactive
// games are filtered out; malformed optional fields degrade to defaults and
// never fail the batch.
func (cs *CatalogService) NormalizeDraws(games []models.StolotoGame) []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(games))
	for _, game := range games {
		if !game.Active {
			continue
		}
		items = append(items, cs.normalizeDrawGame(game))
	}
	return items
}

func (cs *CatalogService) normalizeDrawGame(game models.StolotoGame) models.CatalogItem {
	displayName := gameDisplayName(game.Name)

	var superPrize int64
	if game.Draw != nil && game.Draw.SuperPrize > 0 {
		superPrize = game.Draw.SuperPrize
	} else if game.CompletedDraw != nil {
		superPrize = game.CompletedDraw.SuperPrize
	}

	risk := models.RiskMedium
	if superPrize >= highRiskPrizeThreshold {
		risk = models.RiskHigh
	} else if superPrize <= lowRiskPrizeThreshold {
		risk = models.RiskLow
	}

	// Ticket price is the cheaper of the two provider-reported maximums;
	// a zero VIP cost means the plain maximum is the only one known.
	price := game.MaxTicketCost
	if game.MaxTicketCostVip > 0 && game.MaxTicketCostVip < price {
		price = game.MaxTicketCostVip
	}
	if price < 0 {
		price = 0
	}

	var drawID int64
	var drawNumber string
	if game.Draw != nil {
		drawID = game.Draw.ID
		if game.Draw.Number.Valid {
			drawNumber = strconv.FormatInt(game.Draw.Number.Value, 10)
		}
	}

	features := make([]string, 0, 5)
	if drawNumber != "" {
		features = append(features, "Тираж №"+drawNumber)
	}
	if superPrize > 0 {
		features = append(features, "Суперприз: "+cs.formatPrize(superPrize)+" ₽")
	}
	if game.CompletedDraw != nil && game.CompletedDraw.Date > 0 {
		date := time.Unix(game.CompletedDraw.Date, 0).Format("02.01.2006")
		features = append(features, "Прошлый тираж: "+date)
	}
	features = append(features,
		"Макс. ставка: "+cs.formatPrize(game.MaxBetSize)+" ₽",
		"Макс. стоимость билета: "+cs.formatPrize(game.MaxTicketCost)+" ₽",
	)

	item := models.CatalogItem{
		ID:          fmt.Sprintf("%s-%d", game.Name, drawID),
		Name:        displayName,
		Description: "Тиражная лотерея " + displayName + " с суперпризом до " + cs.formatPrize(superPrize) + " ₽.",
		PriceMinor:  price,
		RiskTier:    risk,
		DrawKind:    models.DrawScheduled,
		Channel:     models.ChannelOnline,
		Features:    features,
	}

	if seq := lastDrawSequence(game); seq != nil {
		item.LastDrawSequenceNumber = seq
	}

	return item
}

func lastDrawSequence(game models.StolotoGame) *int64 {
	if game.CompletedDraw != nil && game.CompletedDraw.Number.Valid {
		n := game.CompletedDraw.Number.Value
		return &n
	}
	if game.Draw != nil && game.Draw.Number.Valid {
		n := game.Draw.Number.Value
		return &n
	}
	return nil
}

// NormalizeMomentCards converts instant cards into catalog items.
func (cs *CatalogService) NormalizeMomentCards(cards []models.MomentCard) []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(cards))
	for _, card := range cards {
		name := card.DisplayedName
		if name == "" {
			name = card.LotteryID
		}

		description := card.LotterySlogan
		if description == "" {
			description = "Моментальная лотерея " + name + ", результат сразу после стирания защитного слоя."
		}

		features := make([]string, 0, 3)
		if card.TicketPriceInfo != "" {
			features = append(features, "Цена билета: "+card.TicketPriceInfo)
		} else {
			features = append(features, "Доступная цена")
		}
		if card.SuperPrizeValue != "" {
			features = append(features, "Суперприз: "+card.SuperPrizeValue)
		} else {
			features = append(features, "Много мелких призов")
		}
		features = append(features, "Результат сразу")

		items = append(items, models.CatalogItem{
			ID:          card.LotteryID,
			Name:        name,
			Description: description,
			PriceMinor:  ParsePriceText(card.TicketPriceInfo),
			RiskTier:    models.RiskLow,
			DrawKind:    models.DrawInstant,
			Channel:     models.ChannelOffline,
			Features:    features,
		})
	}
	return items
}

// ParsePriceText extracts a price from free text like "от 100 ₽" by
// concatenating digit groups. Malformed or absent text yields 0.
func ParsePriceText(text string) int64 {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	price, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0
	}
	return price
}

// QuickPicks returns the first items of the snapshot for the pre-questionnaire
// teaser block.
func (cs *CatalogService) QuickPicks(items []models.CatalogItem) []models.CatalogItem {
	n := cs.cfg.QuickPicksCount
	if n <= 0 || n > len(items) {
		n = len(items)
	}
	return items[:n]
}

func (cs *CatalogService) cachedCatalog(ctx context.Context, style string) ([]models.CatalogItem, bool) {
	if cs.redis == nil || cs.redis.Warm == nil {
		return nil, false
	}
	raw, err := cs.redis.Warm.Get(ctx, "catalog:"+style).Bytes()
	if err != nil {
		return nil, false
	}
	var items []models.CatalogItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (cs *CatalogService) cacheCatalog(ctx context.Context, style string, items []models.CatalogItem) {
	if cs.redis == nil || cs.redis.Warm == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := cs.redis.Warm.Set(ctx, "catalog:"+style, raw, cs.cfg.CatalogCacheTTL).Err(); err != nil {
		cs.logger.WithError(err).Debug("Failed to cache catalog snapshot")
	}
}

// markNewness flags items whose draw sequence advanced since the last fetch.
// The hot Redis tier is the external key-value collaborator here; any failure
// simply leaves IsNew false.
func (cs *CatalogService) markNewness(ctx context.Context, items []models.CatalogItem) {
	if cs.redis == nil || cs.redis.Hot == nil {
		return
	}
	for i := range items {
		seq := items[i].LastDrawSequenceNumber
		if seq == nil {
			continue
		}
		key := "lastseen:draw:" + items[i].ID
		prev, err := cs.redis.Hot.Get(ctx, key).Int64()
		if err == nil && *seq > prev {
			items[i].IsNew = true
		}
		if err := cs.redis.Hot.Set(ctx, key, *seq, 0).Err(); err != nil {
			cs.logger.WithError(err).Debug("Failed to record last seen draw number")
		}
	}
}

// RegisterVisit bumps the per-visitor counter and returns the new value.
func (cs *CatalogService) RegisterVisit(ctx context.Context, visitorID string) int64 {
	if cs.redis == nil || cs.redis.Hot == nil || visitorID == "" {
		return 0
	}
	count, err := cs.redis.Hot.Incr(ctx, "visits:"+visitorID).Result()
	if err != nil {
		cs.logger.WithError(err).Debug("Failed to bump visit counter")
		return 0
	}
	return count
}
