package markets

import (
	"context"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"

	"github.com/joefazee/betsolana/models"
)

// testKey returns a deterministic non-zero public key
func testKey(b byte) solana.PublicKey {
	var k solana.PublicKey
	for i := range k {
		k[i] = b
	}
	return k
}

var (
	alice = testKey(1)
	bob   = testKey(2)
	carol = testKey(3)
)

func stake(who solana.PublicKey, amount uint64) models.RawStake {
	return models.RawStake{Bettor: who, Amount: amount}
}

// rawMarket builds a consistent raw record whose pool totals match its stakes
func rawMarket(id uint64, creator solana.PublicKey, yes, no []models.RawStake) models.RawMarket {
	raw := models.RawMarket{
		Address:    testKey(byte(100 + id)),
		ID:         id,
		Creator:    creator,
		Question:   "Will market " + strconv.FormatUint(id, 10) + " resolve yes?",
		YesBettors: yes,
		NoBettors:  no,
	}
	for _, s := range yes {
		raw.TotalYesAmount += s.Amount
	}
	for _, s := range no {
		raw.TotalNoAmount += s.Amount
	}
	return raw
}

func resolvedAs(raw models.RawMarket, side models.Side) models.RawMarket {
	raw.Resolved = true
	raw.Outcome = models.RawOutcome{Yes: side == models.SideYes, No: side == models.SideNo}
	return raw
}

func mustNormalize(raw models.RawMarket) *models.Market {
	m, err := Normalize(&raw)
	if err != nil {
		panic(err)
	}
	return m
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) FetchMarkets(ctx context.Context) ([]models.RawMarket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawMarket), args.Error(1)
}

func (m *MockLedger) FetchMarket(ctx context.Context, address solana.PublicKey) (*models.RawMarket, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RawMarket), args.Error(1)
}

type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Create(ctx context.Context, claim *models.Claim) error {
	return m.Called(ctx, claim).Error(0)
}

func (m *MockClaimRepository) HasClaimed(ctx context.Context, marketAddress, claimant string) (bool, error) {
	args := m.Called(ctx, marketAddress, claimant)
	return args.Bool(0), args.Error(1)
}

func (m *MockClaimRepository) ClaimedMarkets(ctx context.Context, claimant string) (map[string]bool, error) {
	args := m.Called(ctx, claimant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockClaimRepository) GetByMarket(ctx context.Context, marketAddress string) ([]models.Claim, error) {
	args := m.Called(ctx, marketAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Claim), args.Error(1)
}

type MockService struct {
	mock.Mock
}

func (m *MockService) ListMarkets(ctx context.Context, viewer solana.PublicKey, filters *MarketFilters) (*MarketListResponse, error) {
	args := m.Called(ctx, viewer, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MarketListResponse), args.Error(1)
}

func (m *MockService) GetMarket(ctx context.Context, address, viewer solana.PublicKey) (*MarketDetailResponse, error) {
	args := m.Called(ctx, address, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MarketDetailResponse), args.Error(1)
}

func (m *MockService) GetDashboard(ctx context.Context, viewer solana.PublicKey) (*DashboardResponse, error) {
	args := m.Called(ctx, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DashboardResponse), args.Error(1)
}

func (m *MockService) QuoteBet(ctx context.Context, address solana.PublicKey, req *QuoteRequest) (*QuoteResponse, error) {
	args := m.Called(ctx, address, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*QuoteResponse), args.Error(1)
}

func (m *MockService) RecordClaim(ctx context.Context, address solana.PublicKey, req *RecordClaimRequest) (*ClaimResponse, error) {
	args := m.Called(ctx, address, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ClaimResponse), args.Error(1)
}

func (m *MockService) GetClaims(ctx context.Context, address solana.PublicKey) ([]ClaimResponse, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ClaimResponse), args.Error(1)
}

func (m *MockService) Refresh(ctx context.Context) (*RefreshResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RefreshResponse), args.Error(1)
}

// passthroughStripper leaves text untouched
type passthroughStripper struct{}

func (passthroughStripper) StripHTML(s string) string { return s }
