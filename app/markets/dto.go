package markets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joefazee/betsolana/internal/formatter"
	"github.com/joefazee/betsolana/internal/sanitizer"
	"github.com/joefazee/betsolana/internal/validator"
	"github.com/joefazee/betsolana/models"
)

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
	StatusAll      = "all"

	SortNewest    = "newest"
	SortLiquidity = "liquidity"
)

// MarketFilters represents filters for market queries
// @Description Filters for searching and filtering markets
type MarketFilters struct {
	Status  string `form:"status"`
	Creator string `form:"creator"`
	Search  string `form:"search"`
	SortBy  string `form:"sort_by"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1"`
}

// QuoteRequest represents a prospective bet to price
type QuoteRequest struct {
	Side   string `form:"side" binding:"required"`
	Amount uint64 `form:"amount" binding:"required"`
}

// RecordClaimRequest represents an observed WinningsClaimed event
// @Description Payload describing a confirmed claim transaction
type RecordClaimRequest struct {
	Claimant  string    `json:"claimant" binding:"required"`
	Amount    uint64    `json:"amount" binding:"required,gt=0"`
	Signature string    `json:"signature" binding:"required"`
	ClaimedAt time.Time `json:"claimed_at,omitempty"`
}

// Validate checks the filters and strips markup from the search term
func (f *MarketFilters) Validate(v *validator.Validator, maxSearchRunes int, stripper sanitizer.HTMLStripperer) bool {
	f.Search = stripper.StripHTML(f.Search)

	v.Check(f.Status == "" || validator.In(f.Status, StatusOpen, StatusResolved, StatusAll), "status", "Status must be one of open, resolved, all")
	v.Check(f.SortBy == "" || validator.In(f.SortBy, SortNewest, SortLiquidity), "sort_by", "Sort must be one of newest, liquidity")
	v.Check(f.Creator == "" || validator.IsPublicKey(f.Creator), "creator", "Creator must be a wallet address")
	v.Check(validator.MaxRunes(f.Search, maxSearchRunes), "search", "Search term is too long")

	return v.Valid()
}

// Validate checks the quote request
func (r *QuoteRequest) Validate(v *validator.Validator) bool {
	_, err := models.ParseSide(r.Side)
	v.Check(err == nil, "side", "Side must be yes or no")
	v.Check(r.Amount > 0, "amount", "Amount must be greater than zero")

	return v.Valid()
}

// Validate checks the claim payload
func (r *RecordClaimRequest) Validate(v *validator.Validator) bool {
	v.Check(validator.NotBlank(r.Claimant), "claimant", "Claimant is required")
	v.Check(validator.IsPublicKey(r.Claimant), "claimant", "Claimant must be a wallet address")
	v.Check(r.Amount > 0, "amount", "Amount must be greater than zero")
	v.Check(validator.NotBlank(r.Signature), "signature", "Signature is required")
	v.Check(validator.IsSignature(r.Signature), "signature", "Signature must be a transaction signature")

	return v.Valid()
}

// OddsResponse represents the implied probability of each side
type OddsResponse struct {
	YesPct     decimal.Decimal `json:"yes_pct"`
	NoPct      decimal.Decimal `json:"no_pct"`
	YesDisplay string          `json:"yes_display"`
	NoDisplay  string          `json:"no_display"`
}

// PositionResponse represents the viewer's stake and payout in a market
type PositionResponse struct {
	YesStaked      models.Lamports `json:"yes_staked"`
	NoStaked       models.Lamports `json:"no_staked"`
	TotalStaked    models.Lamports `json:"total_staked"`
	YesPayout      models.Lamports `json:"yes_payout"`
	NoPayout       models.Lamports `json:"no_payout"`
	Payout         models.Lamports `json:"payout"`
	Realized       bool            `json:"realized"`
	TotalStakedSOL string          `json:"total_staked_sol"`
	PayoutSOL      string          `json:"payout_sol"`
}

// MarketResponse represents a market in list view
// @Description Market information for list display
type MarketResponse struct {
	Address           string            `json:"address"`
	MarketID          uint64            `json:"market_id"`
	Creator           string            `json:"creator"`
	CreatorShort      string            `json:"creator_short"`
	Question          string            `json:"question"`
	Status            string            `json:"status"`
	Outcome           models.Outcome    `json:"outcome"`
	TotalYes          models.Lamports   `json:"total_yes"`
	TotalNo           models.Lamports   `json:"total_no"`
	TotalLiquidity    models.Lamports   `json:"total_liquidity"`
	TotalYesSOL       string            `json:"total_yes_sol"`
	TotalNoSOL        string            `json:"total_no_sol"`
	TotalLiquiditySOL string            `json:"total_liquidity_sol"`
	Odds              OddsResponse      `json:"odds"`
	Position          *PositionResponse `json:"position,omitempty"`
	Claimable         bool              `json:"claimable"`
	Claimed           bool              `json:"claimed"`
}

// MarketDetailResponse represents detailed market information
// @Description Detailed market information including bettor counts
type MarketDetailResponse struct {
	MarketResponse
	YesBettors int       `json:"yes_bettors"`
	NoBettors  int       `json:"no_bettors"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// MarketListResponse represents a page of markets
type MarketListResponse struct {
	Markets []MarketResponse `json:"markets"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
	Skipped int              `json:"skipped"`
}

// DashboardResponse represents the viewer's overview across all markets
type DashboardResponse struct {
	Viewer             string           `json:"viewer"`
	Created            []MarketResponse `json:"created"`
	Positions          []MarketResponse `json:"positions"`
	ClaimableCount     int              `json:"claimable_count"`
	TotalStaked        models.Lamports  `json:"total_staked"`
	TotalStakedSOL     string           `json:"total_staked_sol"`
	ClaimablePayout    models.Lamports  `json:"claimable_payout"`
	ClaimablePayoutSOL string           `json:"claimable_payout_sol"`
}

// QuoteResponse represents the projected outcome of a bet
type QuoteResponse struct {
	Address            string          `json:"address"`
	Side               models.Side     `json:"side"`
	Amount             models.Lamports `json:"amount"`
	Profit             models.Lamports `json:"profit"`
	EstimatedReturn    models.Lamports `json:"estimated_return"`
	AmountSOL          string          `json:"amount_sol"`
	ProfitSOL          string          `json:"profit_sol"`
	EstimatedReturnSOL string          `json:"estimated_return_sol"`
	OddsBefore         OddsResponse    `json:"odds_before"`
	OddsAfter          OddsResponse    `json:"odds_after"`
}

// ClaimResponse represents a recorded claim
type ClaimResponse struct {
	ID            uuid.UUID       `json:"id"`
	MarketAddress string          `json:"market_address"`
	Claimant      string          `json:"claimant"`
	Amount        models.Lamports `json:"amount"`
	AmountSOL     string          `json:"amount_sol"`
	Signature     string          `json:"signature"`
	ClaimedAt     time.Time       `json:"claimed_at"`
}

// RefreshResponse reports a forced snapshot reload
type RefreshResponse struct {
	Markets   int       `json:"markets"`
	Skipped   int       `json:"skipped"`
	FetchedAt time.Time `json:"fetched_at"`
}

// marketView bundles everything derived for one market and one viewer
type marketView struct {
	market    *models.Market
	odds      models.Odds
	position  *models.UserPosition
	claimable bool
	claimed   bool
}

// ToOddsResponse converts odds to their display form
func ToOddsResponse(o models.Odds) OddsResponse {
	return OddsResponse{
		YesPct:     o.YesPct,
		NoPct:      o.NoPct,
		YesDisplay: formatter.FormatPercentage(o.YesPct),
		NoDisplay:  formatter.FormatPercentage(o.NoPct),
	}
}

// ToPositionResponse converts a position to its display form
func ToPositionResponse(p *models.UserPosition) *PositionResponse {
	if p == nil {
		return nil
	}
	return &PositionResponse{
		YesStaked:      p.Yes.Staked,
		NoStaked:       p.No.Staked,
		TotalStaked:    p.TotalStaked,
		YesPayout:      p.Yes.Payout,
		NoPayout:       p.No.Payout,
		Payout:         p.Payout(),
		Realized:       p.Realized,
		TotalStakedSOL: formatSOL(p.TotalStaked),
		PayoutSOL:      formatSOL(p.Payout()),
	}
}

// ToMarketResponse converts a derived market view to its response form
func ToMarketResponse(v *marketView, stripper sanitizer.HTMLStripperer) MarketResponse {
	m := v.market
	status := StatusOpen
	if m.Resolved {
		status = StatusResolved
	}
	creator := m.Creator.String()

	return MarketResponse{
		Address:           m.Address.String(),
		MarketID:          m.ID,
		Creator:           creator,
		CreatorShort:      formatter.TruncateAddress(creator, 4),
		Question:          stripper.StripHTML(m.Question),
		Status:            status,
		Outcome:           m.Outcome,
		TotalYes:          m.TotalYes,
		TotalNo:           m.TotalNo,
		TotalLiquidity:    m.TotalPool(),
		TotalYesSOL:       formatSOL(m.TotalYes),
		TotalNoSOL:        formatSOL(m.TotalNo),
		TotalLiquiditySOL: formatSOL(m.TotalPool()),
		Odds:              ToOddsResponse(v.odds),
		Position:          ToPositionResponse(v.position),
		Claimable:         v.claimable,
		Claimed:           v.claimed,
	}
}

// ToMarketResponseList converts a list of market views
func ToMarketResponseList(views []*marketView, stripper sanitizer.HTMLStripperer) []MarketResponse {
	out := make([]MarketResponse, len(views))
	for i, v := range views {
		out[i] = ToMarketResponse(v, stripper)
	}
	return out
}

// ToMarketDetailResponse converts a market view to its detailed form
func ToMarketDetailResponse(v *marketView, fetchedAt time.Time, stripper sanitizer.HTMLStripperer) *MarketDetailResponse {
	return &MarketDetailResponse{
		MarketResponse: ToMarketResponse(v, stripper),
		YesBettors:     len(v.market.YesStakes),
		NoBettors:      len(v.market.NoStakes),
		FetchedAt:      fetchedAt,
	}
}

// ToQuoteResponse converts a bet quote to its response form
func ToQuoteResponse(address string, q *models.BetQuote) *QuoteResponse {
	return &QuoteResponse{
		Address:            address,
		Side:               q.Side,
		Amount:             q.Amount,
		Profit:             q.Profit,
		EstimatedReturn:    q.EstimatedReturn,
		AmountSOL:          formatSOL(q.Amount),
		ProfitSOL:          formatSOL(q.Profit),
		EstimatedReturnSOL: formatSOL(q.EstimatedReturn),
		OddsBefore:         ToOddsResponse(q.OddsBefore),
		OddsAfter:          ToOddsResponse(q.OddsAfter),
	}
}

// ToClaimResponse converts a claim model to its response form
func ToClaimResponse(c *models.Claim) ClaimResponse {
	return ClaimResponse{
		ID:            c.ID,
		MarketAddress: c.MarketAddress,
		Claimant:      c.Claimant,
		Amount:        models.Lamports(c.Amount),
		AmountSOL:     formatter.FormatSOL(c.Amount),
		Signature:     c.Signature,
		ClaimedAt:     c.ClaimedAt,
	}
}

func formatSOL(l models.Lamports) string {
	return formatter.FormatSOL(uint64(l))
}
