package models

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrMalformedMarket      = errors.New("malformed market")
	ErrInvalidMarketAddress = errors.New("invalid market address")
	ErrInvalidPublicKey     = errors.New("invalid public key")
	ErrMarketResolved       = errors.New("market already resolved")
	ErrMarketNotResolved    = errors.New("market is not resolved")

	ErrInvalidBetAmount = errors.New("invalid bet amount")
	ErrInvalidBetSide   = errors.New("invalid bet side")
	ErrAmountOverflow   = errors.New("amount overflows lamports")

	ErrNotAWinner         = errors.New("claimant holds no winning stake")
	ErrAlreadyClaimed     = errors.New("winnings already claimed")
	ErrInvalidClaimAmount = errors.New("invalid claim amount")
	ErrInvalidSignature   = errors.New("invalid transaction signature")
	ErrViewerRequired     = errors.New("viewer wallet address required")

	ErrLedgerUnavailable = errors.New("ledger unavailable")

	ErrInvalidCacheTTL                 = errors.New("invalid snapshot cache ttl")
	ErrInvalidPageSize                 = errors.New("invalid page size limits")
	ErrInvalidOddsPrecision            = errors.New("invalid odds precision")
	ErrInvalidRPCEndpoint              = errors.New("invalid rpc endpoint")
	ErrInvalidProgramID                = errors.New("invalid program id")
	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")

	ErrRecordNotFound = errors.New("record not found")
)

// MalformedMarketError reports a raw market record that violates the
// canonical market invariants. It matches ErrMalformedMarket.
type MalformedMarketError struct {
	Address solana.PublicKey
	Reason  string
}

func (e *MalformedMarketError) Error() string {
	return fmt.Sprintf("malformed market %s: %s", e.Address, e.Reason)
}

func (e *MalformedMarketError) Is(target error) bool {
	return target == ErrMalformedMarket
}
