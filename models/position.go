package models

import "github.com/shopspring/decimal"

// SidePosition is the viewer's exposure on one side of a market
type SidePosition struct {
	Staked Lamports `json:"staked"`
	Payout Lamports `json:"payout"`
}

// UserPosition is the viewer's derived stake and payout in one market.
// It only exists when TotalStaked is positive.
type UserPosition struct {
	Yes         SidePosition `json:"yes"`
	No          SidePosition `json:"no"`
	TotalStaked Lamports     `json:"total_staked"`
	// Realized is set once the market is resolved and payouts are final.
	Realized bool `json:"realized"`
}

// Side returns the position held on one side
func (p *UserPosition) Side(side Side) SidePosition {
	if side == SideYes {
		return p.Yes
	}
	return p.No
}

// HasBothSides reports dual-sided exposure
func (p *UserPosition) HasBothSides() bool {
	return p.Yes.Staked > 0 && p.No.Staked > 0
}

// Payout is the actual payout of a resolved market, or the best of the
// per-side projections while the market is open.
func (p *UserPosition) Payout() Lamports {
	if p.Realized {
		return p.Yes.Payout + p.No.Payout
	}
	if p.Yes.Payout > p.No.Payout {
		return p.Yes.Payout
	}
	return p.No.Payout
}

// Odds is the implied probability of each side. YesPct + NoPct == 1.
type Odds struct {
	YesPct decimal.Decimal `json:"yes_pct"`
	NoPct  decimal.Decimal `json:"no_pct"`
}

// Pct returns the implied probability of a side
func (o Odds) Pct(side Side) decimal.Decimal {
	if side == SideYes {
		return o.YesPct
	}
	return o.NoPct
}

// BetQuote is the projected outcome of a prospective bet
type BetQuote struct {
	Side            Side     `json:"side"`
	Amount          Lamports `json:"amount"`
	Profit          Lamports `json:"profit"`
	EstimatedReturn Lamports `json:"estimated_return"`
	OddsBefore      Odds     `json:"odds_before"`
	OddsAfter       Odds     `json:"odds_after"`
}
