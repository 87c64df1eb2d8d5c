package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// LamportsPerSOL is the number of lamports in one SOL
const LamportsPerSOL = 1_000_000_000

// Lamports is an on-chain amount in the smallest SOL unit
type Lamports uint64

// Outcome is the resolution state of a market
type Outcome uint8

const (
	OutcomeUndecided Outcome = iota
	OutcomeYes
	OutcomeNo
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUndecided:
		return "undecided"
	case OutcomeYes:
		return "yes"
	case OutcomeNo:
		return "no"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// MarshalJSON renders the outcome as its lowercase name
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// Side is one of the two sides of a binary market
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// ParseSide parses a side name, case-insensitively
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideYes:
		return SideYes, nil
	case SideNo:
		return SideNo, nil
	default:
		return "", ErrInvalidBetSide
	}
}

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == SideYes {
		return SideNo
	}
	return SideYes
}

// Outcome returns the resolution outcome that makes this side win
func (s Side) Outcome() Outcome {
	if s == SideYes {
		return OutcomeYes
	}
	return OutcomeNo
}

// Stake is one bettor's commitment on one side of one market
type Stake struct {
	Identity solana.PublicKey `json:"identity"`
	Amount   Lamports         `json:"amount"`
}

// Market is the canonical, validated form of an on-chain market account.
// Resolved is true iff Outcome is not OutcomeUndecided, and each pool total
// equals the sum of its stake list.
type Market struct {
	Address   solana.PublicKey
	ID        uint64
	Creator   solana.PublicKey
	Question  string
	Resolved  bool
	Outcome   Outcome
	TotalYes  Lamports
	TotalNo   Lamports
	YesStakes []Stake
	NoStakes  []Stake
}

// Pool returns the total staked on a side
func (m *Market) Pool(side Side) Lamports {
	if side == SideYes {
		return m.TotalYes
	}
	return m.TotalNo
}

// Stakes returns the stake list of a side
func (m *Market) Stakes(side Side) []Stake {
	if side == SideYes {
		return m.YesStakes
	}
	return m.NoStakes
}

// TotalPool returns the liquidity across both sides
func (m *Market) TotalPool() Lamports {
	return m.TotalYes + m.TotalNo
}

// WinningSide returns the side that won, or false while the market is open
func (m *Market) WinningSide() (Side, bool) {
	switch m.Outcome {
	case OutcomeYes:
		return SideYes, true
	case OutcomeNo:
		return SideNo, true
	default:
		return "", false
	}
}

// IsOpen reports whether the market still accepts bets
func (m *Market) IsOpen() bool {
	return !m.Resolved
}

// StakeOf sums every entry the identity holds on a side
func (m *Market) StakeOf(side Side, identity solana.PublicKey) Lamports {
	var total Lamports
	for _, s := range m.Stakes(side) {
		if s.Identity.Equals(identity) {
			total += s.Amount
		}
	}
	return total
}

// IsCreatedBy reports whether the identity created the market
func (m *Market) IsCreatedBy(identity solana.PublicKey) bool {
	return m.Creator.Equals(identity)
}
