package models

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// RawOutcome is the ledger's outcome tag. At most one field is set;
// neither set means the market is undecided.
type RawOutcome struct {
	Yes bool `json:"yes,omitempty"`
	No  bool `json:"no,omitempty"`
}

// RawStake is a bettor entry as stored on the ledger
type RawStake struct {
	Bettor solana.PublicKey `json:"bettor"`
	Amount uint64           `json:"amount"`
}

// RawMarket is a market account as fetched from the ledger, before any
// consistency checks.
type RawMarket struct {
	Address        solana.PublicKey `json:"address"`
	ID             uint64           `json:"id"`
	Creator        solana.PublicKey `json:"creator"`
	Question       string           `json:"question"`
	Resolved       bool             `json:"resolved"`
	Outcome        RawOutcome       `json:"outcome"`
	TotalYesAmount uint64           `json:"total_yes_amount"`
	TotalNoAmount  uint64           `json:"total_no_amount"`
	YesBettors     []RawStake       `json:"yes_bettors"`
	NoBettors      []RawStake       `json:"no_bettors"`
}

// Snapshot is an immutable set of raw market records taken at one point in
// time. Callers own it and pass it explicitly to derivation.
type Snapshot struct {
	Markets   []RawMarket `json:"markets"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// NewSnapshot copies the records into a new snapshot
func NewSnapshot(markets []RawMarket, fetchedAt time.Time) *Snapshot {
	cp := make([]RawMarket, len(markets))
	copy(cp, markets)
	return &Snapshot{Markets: cp, FetchedAt: fetchedAt}
}

// Len returns the number of records in the snapshot
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Markets)
}

// Find returns the record at the given account address
func (s *Snapshot) Find(address solana.PublicKey) (*RawMarket, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Markets {
		if s.Markets[i].Address.Equals(address) {
			return &s.Markets[i], true
		}
	}
	return nil, false
}

// Age returns how long ago the snapshot was taken
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}
