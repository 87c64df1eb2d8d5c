package markets

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/betsolana/internal/cache"
	"github.com/joefazee/betsolana/internal/logger"
	"github.com/joefazee/betsolana/models"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type serviceFixture struct {
	ledger *MockLedger
	claims *MockClaimRepository
	svc    *service

	open, wonByAlice, lostByAlice, empty, broken models.RawMarket
}

// newServiceFixture seeds a ledger with four well-formed markets and one
// malformed record:
//
//	1 open      creator carol  yes alice 500, bob 14500  no carol 12000
//	2 yes       creator alice  yes alice 1000
//	3 no        creator bob    yes alice 500             no bob 1000
//	4 open      creator alice  empty
//	5 resolved without an outcome
func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		ledger: new(MockLedger),
		claims: new(MockClaimRepository),
	}
	f.open = rawMarket(1, carol,
		[]models.RawStake{stake(alice, 500), stake(bob, 14500)},
		[]models.RawStake{stake(carol, 12000)})
	f.wonByAlice = resolvedAs(rawMarket(2, alice, []models.RawStake{stake(alice, 1000)}, nil), models.SideYes)
	f.lostByAlice = resolvedAs(rawMarket(3, bob,
		[]models.RawStake{stake(alice, 500)},
		[]models.RawStake{stake(bob, 1000)}), models.SideNo)
	f.empty = rawMarket(4, alice, nil, nil)
	f.broken = rawMarket(5, bob, nil, nil)
	f.broken.Resolved = true

	snapshotCache := cache.NewMemoryCacheWithOptions[models.Snapshot](1, 0)
	config := GetDefaultConfig()
	f.svc = NewService(f.ledger, f.claims, snapshotCache, config, NewPricingEngine(config),
		logger.NewNullLogger(), passthroughStripper{}).(*service)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func (f *serviceFixture) all() []models.RawMarket {
	return []models.RawMarket{f.open, f.wonByAlice, f.lostByAlice, f.empty, f.broken}
}

func (f *serviceFixture) expectSnapshot() {
	f.ledger.On("FetchMarkets", mock.Anything).Return(f.all(), nil).Once()
}

func ids(markets []MarketResponse) []uint64 {
	out := make([]uint64, len(markets))
	for i, m := range markets {
		out[i] = m.MarketID
	}
	return out
}

func TestService_ListMarkets(t *testing.T) {
	ctx := context.Background()

	t.Run("Anonymous viewer gets odds only", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()

		result, err := f.svc.ListMarkets(ctx, solana.PublicKey{}, nil)
		require.NoError(t, err)
		assert.Equal(t, []uint64{4, 3, 2, 1}, ids(result.Markets))
		assert.Equal(t, int64(4), result.Total)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 20, result.PerPage)
		for _, m := range result.Markets {
			assert.Nil(t, m.Position)
			assert.False(t, m.Claimable)
		}
		assert.Equal(t, "0.5556", result.Markets[3].Odds.YesPct.String())
		f.ledger.AssertExpectations(t)
		f.claims.AssertNotCalled(t, "ClaimedMarkets", mock.Anything, mock.Anything)
	})

	t.Run("Viewer positions and claim state", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()
		f.claims.On("ClaimedMarkets", mock.Anything, alice.String()).Return(map[string]bool{}, nil)

		result, err := f.svc.ListMarkets(ctx, alice, &MarketFilters{})
		require.NoError(t, err)

		byID := map[uint64]MarketResponse{}
		for _, m := range result.Markets {
			byID[m.MarketID] = m
		}
		require.NotNil(t, byID[1].Position)
		assert.Equal(t, models.Lamports(900), byID[1].Position.Payout)
		assert.False(t, byID[1].Claimable)
		assert.True(t, byID[2].Claimable)
		assert.Equal(t, models.Lamports(1000), byID[2].Position.Payout)
		assert.False(t, byID[3].Claimable)
		assert.Equal(t, models.Lamports(0), byID[3].Position.Payout)
		assert.Nil(t, byID[4].Position)
	})

	t.Run("Claimed markets are not claimable", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()
		f.claims.On("ClaimedMarkets", mock.Anything, alice.String()).
			Return(map[string]bool{f.wonByAlice.Address.String(): true}, nil)

		result, err := f.svc.ListMarkets(ctx, alice, &MarketFilters{Status: StatusResolved})
		require.NoError(t, err)
		require.Equal(t, []uint64{3, 2}, ids(result.Markets))
		assert.True(t, result.Markets[1].Claimed)
		assert.False(t, result.Markets[1].Claimable)
	})

	t.Run("Filters and sorting", func(t *testing.T) {
		tests := []struct {
			name     string
			filters  MarketFilters
			expected []uint64
			total    int64
		}{
			{"Open", MarketFilters{Status: StatusOpen}, []uint64{4, 1}, 2},
			{"Resolved", MarketFilters{Status: StatusResolved}, []uint64{3, 2}, 2},
			{"Creator", MarketFilters{Creator: alice.String()}, []uint64{4, 2}, 2},
			{"Search", MarketFilters{Search: "  MARKET 3 "}, []uint64{3}, 1},
			{"Liquidity", MarketFilters{SortBy: SortLiquidity}, []uint64{1, 3, 2, 4}, 4},
			{"Second page", MarketFilters{Page: 2, PerPage: 3}, []uint64{1}, 4},
			{"Past the end", MarketFilters{Page: 9, PerPage: 3}, []uint64{}, 4},
			{"Huge page number", MarketFilters{Page: math.MaxInt, PerPage: 20}, []uint64{}, 4},
			{"Huge page with one per page", MarketFilters{Page: math.MaxInt, PerPage: 1}, []uint64{}, 4},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newServiceFixture(t)
				f.expectSnapshot()
				filters := tt.filters

				result, err := f.svc.ListMarkets(ctx, solana.PublicKey{}, &filters)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, ids(result.Markets))
				assert.Equal(t, tt.total, result.Total)
			})
		}
	})

	t.Run("Page size is capped", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()

		result, err := f.svc.ListMarkets(ctx, solana.PublicKey{}, &MarketFilters{PerPage: 1000})
		require.NoError(t, err)
		assert.Equal(t, 100, result.PerPage)
	})

	t.Run("Invalid creator", func(t *testing.T) {
		f := newServiceFixture(t)

		result, err := f.svc.ListMarkets(ctx, solana.PublicKey{}, &MarketFilters{Creator: "nope"})
		assert.ErrorIs(t, err, models.ErrInvalidPublicKey)
		assert.Nil(t, result)
		f.ledger.AssertNotCalled(t, "FetchMarkets", mock.Anything)
	})

	t.Run("Snapshot is cached", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()

		_, err := f.svc.ListMarkets(ctx, solana.PublicKey{}, nil)
		require.NoError(t, err)
		_, err = f.svc.ListMarkets(ctx, solana.PublicKey{}, nil)
		require.NoError(t, err)
		f.ledger.AssertNumberOfCalls(t, "FetchMarkets", 1)
	})

	t.Run("Ledger failure", func(t *testing.T) {
		f := newServiceFixture(t)
		f.ledger.On("FetchMarkets", mock.Anything).Return(nil, assert.AnError)

		result, err := f.svc.ListMarkets(ctx, solana.PublicKey{}, nil)
		assert.ErrorIs(t, err, models.ErrLedgerUnavailable)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, result)
	})

	t.Run("Claim lookup failure", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()
		f.claims.On("ClaimedMarkets", mock.Anything, alice.String()).Return(nil, assert.AnError)

		result, err := f.svc.ListMarkets(ctx, alice, nil)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, result)
	})
}

func TestService_GetMarket(t *testing.T) {
	ctx := context.Background()

	t.Run("From snapshot", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()
		f.claims.On("HasClaimed", mock.Anything, f.open.Address.String(), alice.String()).Return(false, nil)

		result, err := f.svc.GetMarket(ctx, f.open.Address, alice)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), result.MarketID)
		assert.Equal(t, StatusOpen, result.Status)
		assert.Equal(t, 2, result.YesBettors)
		assert.Equal(t, 1, result.NoBettors)
		assert.Equal(t, fixedNow, result.FetchedAt)
		require.NotNil(t, result.Position)
		assert.Equal(t, models.Lamports(900), result.Position.YesPayout)
		f.claims.AssertExpectations(t)
	})

	t.Run("Anonymous viewer skips claim lookup", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()

		result, err := f.svc.GetMarket(ctx, f.wonByAlice.Address, solana.PublicKey{})
		require.NoError(t, err)
		assert.Nil(t, result.Position)
		assert.False(t, result.Claimable)
		f.claims.AssertNotCalled(t, "HasClaimed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Falls back to the ledger", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()
		fresh := rawMarket(42, bob, nil, []models.RawStake{stake(bob, 10)})
		f.ledger.On("FetchMarket", mock.Anything, fresh.Address).Return(&fresh, nil)

		result, err := f.svc.GetMarket(ctx, fresh.Address, solana.PublicKey{})
		require.NoError(t, err)
		assert.Equal(t, uint64(42), result.MarketID)
		assert.Equal(t, fixedNow, result.FetchedAt)
	})

	t.Run("Errors", func(t *testing.T) {
		missing := testKey(200)

		tests := []struct {
			name      string
			ledgerErr error
			expected  error
		}{
			{"Not found", models.ErrRecordNotFound, models.ErrRecordNotFound},
			{"Malformed", &models.MalformedMarketError{Address: missing, Reason: "truncated"}, models.ErrMalformedMarket},
			{"Unavailable", assert.AnError, models.ErrLedgerUnavailable},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newServiceFixture(t)
				f.expectSnapshot()
				f.ledger.On("FetchMarket", mock.Anything, missing).Return(nil, tt.ledgerErr)

				result, err := f.svc.GetMarket(ctx, missing, solana.PublicKey{})
				assert.ErrorIs(t, err, tt.expected)
				assert.Nil(t, result)
			})
		}
	})

	t.Run("Malformed snapshot record", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()

		result, err := f.svc.GetMarket(ctx, f.broken.Address, solana.PublicKey{})
		assert.ErrorIs(t, err, models.ErrMalformedMarket)
		assert.Nil(t, result)
	})
}

func TestService_GetDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()
		f.claims.On("ClaimedMarkets", mock.Anything, alice.String()).Return(map[string]bool{}, nil)

		result, err := f.svc.GetDashboard(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, alice.String(), result.Viewer)
		assert.Equal(t, []uint64{4, 2}, ids(result.Created))
		assert.Equal(t, []uint64{3, 2, 1}, ids(result.Positions))
		assert.Equal(t, models.Lamports(2000), result.TotalStaked)
		assert.Equal(t, 1, result.ClaimableCount)
		assert.Equal(t, models.Lamports(1000), result.ClaimablePayout)
		assert.NotEmpty(t, result.ClaimablePayoutSOL)
	})

	t.Run("Claimed winnings drop out", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()
		f.claims.On("ClaimedMarkets", mock.Anything, alice.String()).
			Return(map[string]bool{f.wonByAlice.Address.String(): true}, nil)

		result, err := f.svc.GetDashboard(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, 0, result.ClaimableCount)
		assert.Equal(t, models.Lamports(0), result.ClaimablePayout)
	})

	t.Run("Viewer required", func(t *testing.T) {
		f := newServiceFixture(t)

		result, err := f.svc.GetDashboard(ctx, solana.PublicKey{})
		assert.ErrorIs(t, err, models.ErrViewerRequired)
		assert.Nil(t, result)
	})

	t.Run("Ledger failure", func(t *testing.T) {
		f := newServiceFixture(t)
		f.ledger.On("FetchMarkets", mock.Anything).Return(nil, assert.AnError)
		f.claims.On("ClaimedMarkets", mock.Anything, alice.String()).Return(map[string]bool{}, nil).Maybe()

		result, err := f.svc.GetDashboard(ctx, alice)
		assert.ErrorIs(t, err, models.ErrLedgerUnavailable)
		assert.Nil(t, result)
	})
}

func TestService_QuoteBet(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()

		quote, err := f.svc.QuoteBet(ctx, f.open.Address, &QuoteRequest{Side: "YES", Amount: 3000})
		require.NoError(t, err)
		assert.Equal(t, f.open.Address.String(), quote.Address)
		assert.Equal(t, models.SideYes, quote.Side)
		assert.Equal(t, models.Lamports(2000), quote.Profit)
		assert.Equal(t, models.Lamports(5000), quote.EstimatedReturn)
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name     string
			market   func(f *serviceFixture) solana.PublicKey
			req      QuoteRequest
			snapshot bool
			expected error
		}{
			{"Bad side", func(f *serviceFixture) solana.PublicKey { return f.open.Address },
				QuoteRequest{Side: "maybe", Amount: 1}, false, models.ErrInvalidBetSide},
			{"Zero amount", func(f *serviceFixture) solana.PublicKey { return f.open.Address },
				QuoteRequest{Side: "no"}, false, models.ErrInvalidBetAmount},
			{"Resolved", func(f *serviceFixture) solana.PublicKey { return f.wonByAlice.Address },
				QuoteRequest{Side: "no", Amount: 1}, true, models.ErrMarketResolved},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newServiceFixture(t)
				if tt.snapshot {
					f.expectSnapshot()
				}
				req := tt.req

				quote, err := f.svc.QuoteBet(ctx, tt.market(f), &req)
				assert.ErrorIs(t, err, tt.expected)
				assert.Nil(t, quote)
			})
		}
	})
}

func TestService_RecordClaim(t *testing.T) {
	ctx := context.Background()
	signature := solana.Signature{9, 9, 9}.String()

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()
		market := f.wonByAlice.Address.String()
		f.claims.On("GetByMarket", mock.Anything, market).Return([]models.Claim{}, nil)
		f.claims.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Claim) bool {
			return c.MarketAddress == market && c.Claimant == alice.String() &&
				c.Amount == 1000 && c.ClaimedAt.Equal(fixedNow)
		})).Return(nil)

		claim, err := f.svc.RecordClaim(ctx, f.wonByAlice.Address, &RecordClaimRequest{
			Claimant:  alice.String(),
			Amount:    1000,
			Signature: signature,
		})
		require.NoError(t, err)
		assert.Equal(t, models.Lamports(1000), claim.Amount)
		assert.Equal(t, signature, claim.Signature)
		f.claims.AssertExpectations(t)
	})

	t.Run("Amount mismatch is still recorded", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()
		f.claims.On("GetByMarket", mock.Anything, f.wonByAlice.Address.String()).Return([]models.Claim{}, nil)
		f.claims.On("Create", mock.Anything, mock.Anything).Return(nil)

		rec := logger.NewRecorder()
		f.svc.logger = rec

		claim, err := f.svc.RecordClaim(ctx, f.wonByAlice.Address, &RecordClaimRequest{
			Claimant:  alice.String(),
			Amount:    999,
			Signature: signature,
		})
		require.NoError(t, err)
		assert.Equal(t, models.Lamports(999), claim.Amount)

		warnings := rec.Entries(logger.LevelWarn)
		require.Len(t, warnings, 1)
		assert.Equal(t, uint64(1000), warnings[0].Properties["derived"])
	})

	t.Run("Replayed signature returns the stored claim", func(t *testing.T) {
		f := newServiceFixture(t)
		stored := models.Claim{
			ID:            uuid.New(),
			MarketAddress: f.wonByAlice.Address.String(),
			Claimant:      alice.String(),
			Amount:        1000,
			Signature:     signature,
			ClaimedAt:     fixedNow.Add(-time.Hour),
		}
		f.claims.On("GetByMarket", mock.Anything, stored.MarketAddress).Return([]models.Claim{stored}, nil)

		claim, err := f.svc.RecordClaim(ctx, f.wonByAlice.Address, &RecordClaimRequest{
			Claimant:  alice.String(),
			Amount:    1000,
			Signature: signature,
		})
		require.NoError(t, err)
		assert.Equal(t, stored.ID, claim.ID)
		f.claims.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.ledger.AssertNotCalled(t, "FetchMarkets", mock.Anything)
	})

	t.Run("Second claim by the same wallet", func(t *testing.T) {
		f := newServiceFixture(t)
		stored := models.Claim{
			MarketAddress: f.wonByAlice.Address.String(),
			Claimant:      alice.String(),
			Signature:     solana.Signature{1}.String(),
		}
		f.claims.On("GetByMarket", mock.Anything, stored.MarketAddress).Return([]models.Claim{stored}, nil)

		claim, err := f.svc.RecordClaim(ctx, f.wonByAlice.Address, &RecordClaimRequest{
			Claimant:  alice.String(),
			Amount:    1000,
			Signature: signature,
		})
		assert.ErrorIs(t, err, models.ErrAlreadyClaimed)
		assert.Nil(t, claim)
	})

	t.Run("Rejections", func(t *testing.T) {
		tests := []struct {
			name     string
			market   func(f *serviceFixture) solana.PublicKey
			req      RecordClaimRequest
			lookups  bool
			expected error
		}{
			{"Invalid claimant", func(f *serviceFixture) solana.PublicKey { return f.wonByAlice.Address },
				RecordClaimRequest{Claimant: "nope", Amount: 1, Signature: signature}, false, models.ErrInvalidPublicKey},
			{"Invalid signature", func(f *serviceFixture) solana.PublicKey { return f.wonByAlice.Address },
				RecordClaimRequest{Claimant: alice.String(), Amount: 1, Signature: "abc"}, false, models.ErrInvalidSignature},
			{"Zero amount", func(f *serviceFixture) solana.PublicKey { return f.wonByAlice.Address },
				RecordClaimRequest{Claimant: alice.String(), Signature: signature}, false, models.ErrInvalidClaimAmount},
			{"Open market", func(f *serviceFixture) solana.PublicKey { return f.open.Address },
				RecordClaimRequest{Claimant: alice.String(), Amount: 900, Signature: signature}, true, models.ErrMarketNotResolved},
			{"Losing side", func(f *serviceFixture) solana.PublicKey { return f.lostByAlice.Address },
				RecordClaimRequest{Claimant: alice.String(), Amount: 500, Signature: signature}, true, models.ErrNotAWinner},
			{"No stake", func(f *serviceFixture) solana.PublicKey { return f.wonByAlice.Address },
				RecordClaimRequest{Claimant: bob.String(), Amount: 500, Signature: signature}, true, models.ErrNotAWinner},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newServiceFixture(t)
				address := tt.market(f)
				if tt.lookups {
					f.expectSnapshot()
					f.claims.On("GetByMarket", mock.Anything, address.String()).Return([]models.Claim{}, nil)
				}
				req := tt.req

				claim, err := f.svc.RecordClaim(ctx, address, &req)
				assert.ErrorIs(t, err, tt.expected)
				assert.Nil(t, claim)
				f.claims.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Repository failure", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()
		f.claims.On("GetByMarket", mock.Anything, f.wonByAlice.Address.String()).Return([]models.Claim{}, nil)
		f.claims.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

		claim, err := f.svc.RecordClaim(ctx, f.wonByAlice.Address, &RecordClaimRequest{
			Claimant:  alice.String(),
			Amount:    1000,
			Signature: signature,
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, claim)
	})

	t.Run("Concurrent replay answers with the stored claim", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()
		market := f.wonByAlice.Address.String()
		stored := models.Claim{
			ID:            uuid.New(),
			MarketAddress: market,
			Claimant:      alice.String(),
			Amount:        1000,
			Signature:     signature,
			ClaimedAt:     fixedNow,
		}
		f.claims.On("GetByMarket", mock.Anything, market).Return([]models.Claim{}, nil).Once()
		f.claims.On("Create", mock.Anything, mock.Anything).Return(models.ErrAlreadyClaimed)
		f.claims.On("GetByMarket", mock.Anything, market).Return([]models.Claim{stored}, nil).Once()

		claim, err := f.svc.RecordClaim(ctx, f.wonByAlice.Address, &RecordClaimRequest{
			Claimant:  alice.String(),
			Amount:    1000,
			Signature: signature,
		})
		require.NoError(t, err)
		assert.Equal(t, stored.ID, claim.ID)
		f.claims.AssertExpectations(t)
	})

	t.Run("Signature already used in another market", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectSnapshot()
		f.claims.On("GetByMarket", mock.Anything, f.wonByAlice.Address.String()).Return([]models.Claim{}, nil)
		f.claims.On("Create", mock.Anything, mock.Anything).Return(models.ErrAlreadyClaimed)

		claim, err := f.svc.RecordClaim(ctx, f.wonByAlice.Address, &RecordClaimRequest{
			Claimant:  alice.String(),
			Amount:    1000,
			Signature: signature,
		})
		assert.ErrorIs(t, err, models.ErrAlreadyClaimed)
		assert.Nil(t, claim)
		f.claims.AssertNumberOfCalls(t, "GetByMarket", 2)
	})
}

func TestService_GetClaims(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture(t)
		market := f.wonByAlice.Address
		f.claims.On("GetByMarket", mock.Anything, market.String()).Return([]models.Claim{
			{ID: uuid.New(), MarketAddress: market.String(), Claimant: alice.String(), Amount: 1_500_000_000},
		}, nil)

		claims, err := f.svc.GetClaims(ctx, market)
		require.NoError(t, err)
		require.Len(t, claims, 1)
		assert.Equal(t, alice.String(), claims[0].Claimant)
		assert.Equal(t, "1.5", claims[0].AmountSOL)
	})

	t.Run("Repository failure", func(t *testing.T) {
		f := newServiceFixture(t)
		f.claims.On("GetByMarket", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		claims, err := f.svc.GetClaims(ctx, f.open.Address)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, claims)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.expectSnapshot()
	f.ledger.On("FetchMarkets", mock.Anything).Return([]models.RawMarket{f.open}, nil).Once()

	first, err := f.svc.ListMarkets(ctx, solana.PublicKey{}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), first.Total)

	refreshed, err := f.svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.Markets)
	assert.Equal(t, 0, refreshed.Skipped)
	assert.Equal(t, fixedNow, refreshed.FetchedAt)

	second, err := f.svc.ListMarkets(ctx, solana.PublicKey{}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.Total)
	f.ledger.AssertNumberOfCalls(t, "FetchMarkets", 2)
}

func TestPaginate(t *testing.T) {
	views := make([]*marketView, 5)
	for i := range views {
		views[i] = &marketView{}
	}

	tests := []struct {
		name          string
		page, perPage int
		want          int
	}{
		{"First page", 1, 2, 2},
		{"Last partial page", 3, 2, 1},
		{"One past the end", 4, 2, 0},
		{"Exact fit", 1, 5, 5},
		{"Max int page", math.MaxInt, 20, 0},
		{"Max int page size", 1, math.MaxInt, 5},
		{"Max int both", math.MaxInt, math.MaxInt, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []*marketView
			require.NotPanics(t, func() { got = paginate(views, tt.page, tt.perPage) })
			assert.Len(t, got, tt.want)
		})
	}

	assert.Empty(t, paginate(nil, 1, 10))
}
