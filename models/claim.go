package models

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Claim records an observed WinningsClaimed event for one claimant in one market
type Claim struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MarketAddress string    `gorm:"type:varchar(44);not null;index:idx_claims_market_claimant,priority:1" json:"market_address"`
	Claimant      string    `gorm:"type:varchar(44);not null;index:idx_claims_market_claimant,priority:2;index:idx_claims_claimant" json:"claimant"`
	Amount        uint64    `gorm:"type:bigint;not null" json:"amount"`
	Signature     string    `gorm:"type:varchar(88);not null;unique" json:"signature"`
	ClaimedAt     time.Time `gorm:"type:timestamptz;not null" json:"claimed_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for Claim model
func (*Claim) TableName() string {
	return "claims"
}

// BeforeCreate sets up the model before creation
func (c *Claim) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.ClaimedAt.IsZero() {
		c.ClaimedAt = time.Now().UTC()
	}
	return nil
}

// Validate performs validation on the claim model
func (c *Claim) Validate() error {
	if _, err := solana.PublicKeyFromBase58(c.MarketAddress); err != nil {
		return ErrInvalidMarketAddress
	}
	if _, err := solana.PublicKeyFromBase58(c.Claimant); err != nil {
		return ErrInvalidPublicKey
	}
	if c.Amount == 0 {
		return ErrInvalidClaimAmount
	}
	if _, err := solana.SignatureFromBase58(c.Signature); err != nil {
		return ErrInvalidSignature
	}
	return nil
}
