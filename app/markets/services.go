package markets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/errgroup"

	"github.com/joefazee/betsolana/internal/cache"
	"github.com/joefazee/betsolana/internal/logger"
	"github.com/joefazee/betsolana/internal/sanitizer"
	"github.com/joefazee/betsolana/models"
)

// service implements the Service interface
type service struct {
	ledger        Ledger
	claims        ClaimRepository
	snapshots     *cache.Loader[models.Snapshot]
	config        *Config
	pricingEngine PricingEngine
	logger        logger.Logger
	stripper      sanitizer.HTMLStripperer
	now           func() time.Time
}

// NewService creates a new market service
func NewService(
	ledger Ledger,
	claims ClaimRepository,
	snapshotCache cache.Cache[models.Snapshot],
	config *Config,
	pricingEngine PricingEngine,
	log logger.Logger,
	stripper sanitizer.HTMLStripperer,
) Service {
	loader := cache.NewLoader[models.Snapshot](snapshotCache, config.SnapshotTTL)
	loader.OnStoreError = func(key string, err error) {
		log.Warn("failed to cache market snapshot", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	return &service{
		ledger:        ledger,
		claims:        claims,
		snapshots:     loader,
		config:        config,
		pricingEngine: pricingEngine,
		logger:        log,
		stripper:      stripper,
		now:           time.Now,
	}
}

// ListMarkets returns a filtered, sorted page of markets derived for the viewer
func (s *service) ListMarkets(ctx context.Context, viewer solana.PublicKey, filters *MarketFilters) (*MarketListResponse, error) {
	if filters == nil {
		filters = &MarketFilters{}
	}
	s.applyFilterDefaults(filters)

	var creator solana.PublicKey
	if filters.Creator != "" {
		key, err := solana.PublicKeyFromBase58(filters.Creator)
		if err != nil {
			return nil, models.ErrInvalidPublicKey
		}
		creator = key
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	claimed, err := s.claimedMarkets(ctx, viewer)
	if err != nil {
		return nil, err
	}

	markets, skipped := s.normalize(&snap)
	search := strings.ToLower(filters.Search)

	views := make([]*marketView, 0, len(markets))
	for _, m := range markets {
		if !matchesStatus(m, filters.Status) {
			continue
		}
		if !creator.IsZero() && !m.IsCreatedBy(creator) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(m.Question), search) {
			continue
		}
		views = append(views, s.derive(m, viewer, claimed[m.Address.String()]))
	}

	sortViews(views, filters.SortBy)
	total := len(views)

	return &MarketListResponse{
		Markets: ToMarketResponseList(paginate(views, filters.Page, filters.PerPage), s.stripper),
		Total:   int64(total),
		Page:    filters.Page,
		PerPage: filters.PerPage,
		Skipped: skipped,
	}, nil
}

// GetMarket returns one market derived for the viewer. Addresses missing from
// the snapshot are read directly from the ledger.
func (s *service) GetMarket(ctx context.Context, address, viewer solana.PublicKey) (*MarketDetailResponse, error) {
	market, fetchedAt, err := s.loadMarket(ctx, address)
	if err != nil {
		return nil, err
	}

	claimed := false
	if !viewer.IsZero() {
		claimed, err = s.claims.HasClaimed(ctx, address.String(), viewer.String())
		if err != nil {
			return nil, fmt.Errorf("failed to load claim state: %w", err)
		}
	}

	return ToMarketDetailResponse(s.derive(market, viewer, claimed), fetchedAt, s.stripper), nil
}

// GetDashboard summarizes the viewer's created markets and positions
func (s *service) GetDashboard(ctx context.Context, viewer solana.PublicKey) (*DashboardResponse, error) {
	if viewer.IsZero() {
		return nil, models.ErrViewerRequired
	}

	var (
		snap    models.Snapshot
		claimed map[string]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.snapshot(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		claimed, err = s.claimedMarkets(gctx, viewer)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	markets, _ := s.normalize(&snap)

	var created, positions []*marketView
	resp := &DashboardResponse{Viewer: viewer.String()}
	for _, m := range markets {
		v := s.derive(m, viewer, claimed[m.Address.String()])
		if m.IsCreatedBy(viewer) {
			created = append(created, v)
		}
		if v.position == nil {
			continue
		}
		positions = append(positions, v)
		resp.TotalStaked += v.position.TotalStaked
		if v.claimable {
			resp.ClaimableCount++
			resp.ClaimablePayout += v.position.Payout()
		}
	}

	sortViews(created, SortNewest)
	sortViews(positions, SortNewest)

	resp.Created = ToMarketResponseList(created, s.stripper)
	resp.Positions = ToMarketResponseList(positions, s.stripper)
	resp.TotalStakedSOL = formatSOL(resp.TotalStaked)
	resp.ClaimablePayoutSOL = formatSOL(resp.ClaimablePayout)
	return resp, nil
}

// QuoteBet prices a prospective bet against the market's current pools
func (s *service) QuoteBet(ctx context.Context, address solana.PublicKey, req *QuoteRequest) (*QuoteResponse, error) {
	side, err := models.ParseSide(req.Side)
	if err != nil {
		return nil, err
	}
	if req.Amount == 0 {
		return nil, models.ErrInvalidBetAmount
	}

	market, _, err := s.loadMarket(ctx, address)
	if err != nil {
		return nil, err
	}

	quote, err := s.pricingEngine.QuoteBet(market, side, models.Lamports(req.Amount))
	if err != nil {
		return nil, err
	}
	return ToQuoteResponse(address.String(), quote), nil
}

// RecordClaim stores an observed claim for a winning stake. Replaying the same
// signature returns the stored claim.
func (s *service) RecordClaim(ctx context.Context, address solana.PublicKey, req *RecordClaimRequest) (*ClaimResponse, error) {
	claimant, err := solana.PublicKeyFromBase58(req.Claimant)
	if err != nil {
		return nil, models.ErrInvalidPublicKey
	}

	claim := &models.Claim{
		MarketAddress: address.String(),
		Claimant:      claimant.String(),
		Amount:        req.Amount,
		Signature:     req.Signature,
		ClaimedAt:     req.ClaimedAt.UTC(),
	}
	if req.ClaimedAt.IsZero() {
		claim.ClaimedAt = s.now().UTC()
	}
	if err := claim.Validate(); err != nil {
		return nil, err
	}

	if stored, err := s.storedClaim(ctx, claim); stored != nil || err != nil {
		return stored, err
	}

	market, _, err := s.loadMarket(ctx, address)
	if err != nil {
		return nil, err
	}
	if !market.Resolved {
		return nil, models.ErrMarketNotResolved
	}

	position := s.pricingEngine.ComputePosition(market, claimant)
	if !s.pricingEngine.IsClaimable(market, position, false) {
		return nil, models.ErrNotAWinner
	}
	if expected := position.Payout(); models.Lamports(claim.Amount) != expected {
		s.logger.Warn("claimed amount differs from derived payout", map[string]interface{}{
			"market":    claim.MarketAddress,
			"claimant":  claim.Claimant,
			"claimed":   claim.Amount,
			"derived":   uint64(expected),
			"signature": claim.Signature,
		})
	}

	if err := s.claims.Create(ctx, claim); err != nil {
		if !errors.Is(err, models.ErrAlreadyClaimed) {
			return nil, fmt.Errorf("failed to record claim: %w", err)
		}
		// lost a race with a concurrent write; a replay of the same
		// signature still answers with the stored row
		if stored, lookupErr := s.storedClaim(ctx, claim); stored != nil || lookupErr != nil {
			return stored, lookupErr
		}
		return nil, models.ErrAlreadyClaimed
	}

	s.logger.Info("claim recorded", map[string]interface{}{
		"market":   claim.MarketAddress,
		"claimant": claim.Claimant,
		"amount":   claim.Amount,
	})

	resp := ToClaimResponse(claim)
	return &resp, nil
}

// storedClaim looks for a claim already recorded in the same market. A
// matching signature is a replay and returns the stored claim; the same
// claimant under another signature is ErrAlreadyClaimed. Both nil means the
// claim is new.
func (s *service) storedClaim(ctx context.Context, claim *models.Claim) (*ClaimResponse, error) {
	existing, err := s.claims.GetByMarket(ctx, claim.MarketAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}
	for i := range existing {
		if existing[i].Signature == claim.Signature {
			resp := ToClaimResponse(&existing[i])
			return &resp, nil
		}
		if existing[i].Claimant == claim.Claimant {
			return nil, models.ErrAlreadyClaimed
		}
	}
	return nil, nil
}

// GetClaims returns the claims recorded for a market
func (s *service) GetClaims(ctx context.Context, address solana.PublicKey) ([]ClaimResponse, error) {
	claims, err := s.claims.GetByMarket(ctx, address.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}

	out := make([]ClaimResponse, len(claims))
	for i := range claims {
		out[i] = ToClaimResponse(&claims[i])
	}
	return out, nil
}

// Refresh drops the cached snapshot and loads a fresh one
func (s *service) Refresh(ctx context.Context) (*RefreshResponse, error) {
	if err := s.snapshots.Forget(ctx, s.config.SnapshotKey); err != nil {
		s.logger.Warn("failed to drop cached snapshot", map[string]interface{}{
			"error": err.Error(),
		})
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	markets, skipped := s.normalize(&snap)
	return &RefreshResponse{
		Markets:   len(markets),
		Skipped:   skipped,
		FetchedAt: snap.FetchedAt,
	}, nil
}

func (s *service) snapshot(ctx context.Context) (models.Snapshot, error) {
	return s.snapshots.Get(ctx, s.config.SnapshotKey, func(ctx context.Context) (models.Snapshot, error) {
		raw, err := s.ledger.FetchMarkets(ctx)
		if err != nil {
			return models.Snapshot{}, fmt.Errorf("%w: %w", models.ErrLedgerUnavailable, err)
		}
		return *models.NewSnapshot(raw, s.now().UTC()), nil
	})
}

// loadMarket finds and normalizes a single market
func (s *service) loadMarket(ctx context.Context, address solana.PublicKey) (*models.Market, time.Time, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	raw, ok := snap.Find(address)
	fetchedAt := snap.FetchedAt
	if !ok {
		raw, err = s.ledger.FetchMarket(ctx, address)
		switch {
		case errors.Is(err, models.ErrRecordNotFound):
			return nil, time.Time{}, models.ErrRecordNotFound
		case errors.Is(err, models.ErrMalformedMarket):
			return nil, time.Time{}, err
		case err != nil:
			return nil, time.Time{}, fmt.Errorf("%w: %w", models.ErrLedgerUnavailable, err)
		}
		fetchedAt = s.now().UTC()
	}

	market, err := Normalize(raw)
	if err != nil {
		return nil, time.Time{}, err
	}
	return market, fetchedAt, nil
}

// normalize returns the well-formed markets of a snapshot and the count of
// records that were skipped.
func (s *service) normalize(snap *models.Snapshot) ([]*models.Market, int) {
	markets, rejected := NormalizeSnapshot(snap)
	for _, err := range rejected {
		fields := map[string]interface{}{"error": err.Error()}
		var malformed *models.MalformedMarketError
		if errors.As(err, &malformed) {
			fields["address"] = malformed.Address.String()
			fields["reason"] = malformed.Reason
		}
		s.logger.Warn("skipping malformed market", fields)
	}
	return markets, len(rejected)
}

func (s *service) claimedMarkets(ctx context.Context, viewer solana.PublicKey) (map[string]bool, error) {
	if viewer.IsZero() {
		return map[string]bool{}, nil
	}
	claimed, err := s.claims.ClaimedMarkets(ctx, viewer.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load claim state: %w", err)
	}
	return claimed, nil
}

func (s *service) derive(m *models.Market, viewer solana.PublicKey, claimed bool) *marketView {
	v := &marketView{
		market:  m,
		odds:    s.pricingEngine.ComputeOdds(m),
		claimed: claimed,
	}
	if viewer.IsZero() {
		return v
	}
	v.position = s.pricingEngine.ComputePosition(m, viewer)
	v.claimable = s.pricingEngine.IsClaimable(m, v.position, claimed)
	return v
}

func (s *service) applyFilterDefaults(filters *MarketFilters) {
	if filters.Status == "" {
		filters.Status = StatusAll
	}
	if filters.SortBy == "" {
		filters.SortBy = SortNewest
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PerPage < 1 {
		filters.PerPage = s.config.DefaultPageSize
	}
	if filters.PerPage > s.config.MaxPageSize {
		filters.PerPage = s.config.MaxPageSize
	}
	filters.Search = strings.TrimSpace(filters.Search)
	if r := []rune(filters.Search); len(r) > s.config.SearchMaxRunes {
		filters.Search = string(r[:s.config.SearchMaxRunes])
	}
}

func matchesStatus(m *models.Market, status string) bool {
	switch status {
	case StatusOpen:
		return m.IsOpen()
	case StatusResolved:
		return m.Resolved
	default:
		return true
	}
}

// sortViews orders newest first (highest market id), or by total pool with
// newest as the tie-breaker.
func sortViews(views []*marketView, sortBy string) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].market, views[j].market
		if sortBy == SortLiquidity && a.TotalPool() != b.TotalPool() {
			return a.TotalPool() > b.TotalPool()
		}
		if a.ID != b.ID {
			return a.ID > b.ID
		}
		return a.Address.String() < b.Address.String()
	})
}

// paginate slices one page out of views. Pages past the end are empty; the
// bound is checked before multiplying so huge page numbers cannot overflow.
func paginate(views []*marketView, page, perPage int) []*marketView {
	if page < 1 || perPage < 1 {
		return []*marketView{}
	}
	pages := len(views) / perPage
	if len(views)%perPage != 0 {
		pages++
	}
	if page-1 >= pages {
		return []*marketView{}
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > len(views) {
		end = len(views)
	}
	return views[start:end]
}
