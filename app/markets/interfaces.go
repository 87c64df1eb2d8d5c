package markets

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/joefazee/betsolana/models"
)

// Ledger reads raw market accounts from the chain
type Ledger interface {
	FetchMarkets(ctx context.Context) ([]models.RawMarket, error)
	FetchMarket(ctx context.Context, address solana.PublicKey) (*models.RawMarket, error)
}

// ClaimRepository defines the interface for claim data access
type ClaimRepository interface {
	Create(ctx context.Context, claim *models.Claim) error
	HasClaimed(ctx context.Context, marketAddress, claimant string) (bool, error)
	ClaimedMarkets(ctx context.Context, claimant string) (map[string]bool, error)
	GetByMarket(ctx context.Context, marketAddress string) ([]models.Claim, error)
}

// Service defines the interface for market business logic.
// A zero viewer key means an anonymous request.
type Service interface {
	ListMarkets(ctx context.Context, viewer solana.PublicKey, filters *MarketFilters) (*MarketListResponse, error)
	GetMarket(ctx context.Context, address, viewer solana.PublicKey) (*MarketDetailResponse, error)
	GetDashboard(ctx context.Context, viewer solana.PublicKey) (*DashboardResponse, error)
	QuoteBet(ctx context.Context, address solana.PublicKey, req *QuoteRequest) (*QuoteResponse, error)
	RecordClaim(ctx context.Context, address solana.PublicKey, req *RecordClaimRequest) (*ClaimResponse, error)
	GetClaims(ctx context.Context, address solana.PublicKey) ([]ClaimResponse, error)
	Refresh(ctx context.Context) (*RefreshResponse, error)
}

// PricingEngine defines the market derivations: positions, odds, claimability
// and bet quotes. Implementations are pure.
type PricingEngine interface {
	ComputePosition(market *models.Market, viewer solana.PublicKey) *models.UserPosition
	ComputeOdds(market *models.Market) models.Odds
	IsClaimable(market *models.Market, position *models.UserPosition, claimed bool) bool
	QuoteBet(market *models.Market, side models.Side, amount models.Lamports) (*models.BetQuote, error)
}
