package markets

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joefazee/betsolana/models"
)

// claimRepository implements the ClaimRepository interface using GORM
type claimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{
		db: db,
	}
}

// Create stores a claim. A row that collides with a stored claim, either on
// the signature or on (market, claimant), is not written and
// ErrAlreadyClaimed is returned.
func (r *claimRepository) Create(ctx context.Context, claim *models.Claim) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(claim)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrAlreadyClaimed
	}
	return nil
}

// HasClaimed reports whether the claimant already claimed in a market
func (r *claimRepository) HasClaimed(ctx context.Context, marketAddress, claimant string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Claim{}).
		Where("market_address = ? AND claimant = ?", marketAddress, claimant).
		Count(&count).Error
	return count > 0, err
}

// ClaimedMarkets returns the set of market addresses the claimant claimed in
func (r *claimRepository) ClaimedMarkets(ctx context.Context, claimant string) (map[string]bool, error) {
	var addresses []string
	err := r.db.WithContext(ctx).
		Model(&models.Claim{}).
		Where("claimant = ?", claimant).
		Distinct().
		Pluck("market_address", &addresses).Error
	if err != nil {
		return nil, err
	}

	claimed := make(map[string]bool, len(addresses))
	for _, a := range addresses {
		claimed[a] = true
	}
	return claimed, nil
}

// GetByMarket returns every claim recorded for a market, oldest first
func (r *claimRepository) GetByMarket(ctx context.Context, marketAddress string) ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.WithContext(ctx).
		Where("market_address = ?", marketAddress).
		Order("claimed_at ASC").
		Find(&claims).Error
	return claims, err
}
