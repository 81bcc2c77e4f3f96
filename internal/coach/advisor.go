package coach

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "legacy-guardians/internal/errors"
	"legacy-guardians/internal/market"
	"legacy-guardians/internal/models"
)

// Advisor produces coach replies. Implementations never return an error to
// the caller: the mentor is always available, failures degrade to canned
// encouragement.
type Advisor interface {
	// Ask answers a free-text question in the selected coach's voice.
	Ask(ctx context.Context, coach models.Coach, view models.PortfolioView, question string) string
	// ReactToTrade comments on a just-executed trade.
	ReactToTrade(ctx context.Context, coach models.Coach, view models.PortfolioView, action models.TradeAction) string
}

// Mentor is the LLM-backed Advisor. A single completion attempt per
// request, no retries; any failure falls back to the persona's canned pool.
type Mentor struct {
	client LLMClient
	logger zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMentor creates an Advisor on top of an LLM client. A nil client is
// allowed and always falls back, which keeps offline play working.
func NewMentor(client LLMClient, logger zerolog.Logger) *Mentor {
	return &Mentor{
		client: client,
		logger: logger.With().Str("component", "coach").Logger(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Ask answers a free-text question, falling back to canned advice when the
// model is unreachable.
func (m *Mentor) Ask(ctx context.Context, coach models.Coach, view models.PortfolioView, question string) string {
	prompt := portfolioPrompt(view) + "\nQuestion: " + question
	return m.complete(ctx, coach, prompt, nil)
}

// ReactToTrade comments on an executed trade. The fallback keeps the trade
// context ("Nice buy on apple! ...") so even canned replies feel aware.
func (m *Mentor) ReactToTrade(ctx context.Context, coach models.Coach, view models.PortfolioView, action models.TradeAction) string {
	verb := "bought"
	if action.Side == models.SideSell {
		verb = "sold"
	}
	prompt := fmt.Sprintf("%s\nThe player just %s %s units of %s at $%s. React briefly to this trade.",
		portfolioPrompt(view), verb, action.Quantity.StringFixed(4), action.Asset, action.Price.StringFixed(2))
	return m.complete(ctx, coach, prompt, &action)
}

// complete performs the single LLM attempt and swallows failures.
func (m *Mentor) complete(ctx context.Context, coach models.Coach, userPrompt string, action *models.TradeAction) string {
	if m.client != nil {
		reply, err := m.client.CompleteWithSystem(ctx, systemPrompt(coach.Style), userPrompt)
		if err == nil && strings.TrimSpace(reply) != "" {
			return reply
		}
		if err != nil {
			aerr := apperrors.NewAdvisoryError(coach.Style, "completion", err)
			m.logger.Warn().Err(aerr).Msg("falling back to canned advice")
		}
	}
	return m.fallback(coach, action)
}

// fallback picks a canned reply from the persona's pool, prefixed with
// trade context when a trade triggered the request.
func (m *Mentor) fallback(coach models.Coach, action *models.TradeAction) string {
	style := canonicalStyle(coach.Style)
	pool := fallbackPools[style]

	m.mu.Lock()
	reply := pool[m.rng.Intn(len(pool))]
	m.mu.Unlock()

	if action != nil {
		prefix := "Nice buy"
		if action.Side == models.SideSell {
			prefix = "Smart sell"
		}
		reply = fmt.Sprintf("%s on %s! %s", prefix, action.Asset, reply)
	}
	return reply
}

// portfolioPrompt renders the snapshot the advisory request was made
// against. The snapshot is taken before the request, so concurrent ticks
// cannot change what the coach sees.
func portfolioPrompt(view models.PortfolioView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Player portfolio at tick %d:\n", view.Tick)
	fmt.Fprintf(&b, "- Cash: $%s\n", view.Cash.StringFixed(2))

	assets := make([]string, 0, len(view.Holdings))
	for asset := range view.Holdings {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	for _, asset := range assets {
		h := view.Holdings[asset]
		if !h.Shares.IsPositive() {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s shares, avg cost $%s, now $%s (worth $%s)\n",
			market.DisplayName(asset), h.Shares.StringFixed(4),
			h.AvgCost.StringFixed(2), h.CurrentPrice.StringFixed(2),
			h.Value().StringFixed(2))
	}
	fmt.Fprintf(&b, "- Total value: $%s", view.TotalValue().StringFixed(2))
	return b.String()
}
