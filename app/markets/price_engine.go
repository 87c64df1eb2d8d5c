package markets

import (
	"math"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/joefazee/betsolana/models"
)

var half = decimal.New(5, -1)

// pricingEngine implements the PricingEngine interface
type pricingEngine struct {
	config *Config
}

// NewPricingEngine creates a new pricing engine
func NewPricingEngine(config *Config) PricingEngine {
	return &pricingEngine{
		config: config,
	}
}

// ComputePosition derives the viewer's position in a market, or nil when the
// viewer has nothing staked. Open markets get a projected payout per side;
// resolved markets pay only the winning side.
func (pe *pricingEngine) ComputePosition(market *models.Market, viewer solana.PublicKey) *models.UserPosition {
	yesStaked := market.StakeOf(models.SideYes, viewer)
	noStaked := market.StakeOf(models.SideNo, viewer)
	if yesStaked == 0 && noStaked == 0 {
		return nil
	}

	position := &models.UserPosition{
		Yes:         models.SidePosition{Staked: yesStaked},
		No:          models.SidePosition{Staked: noStaked},
		TotalStaked: yesStaked + noStaked,
		Realized:    market.Resolved,
	}

	if !market.Resolved {
		position.Yes.Payout = projectPayout(yesStaked, market.TotalYes, market.TotalNo)
		position.No.Payout = projectPayout(noStaked, market.TotalNo, market.TotalYes)
		return position
	}

	winner, ok := market.WinningSide()
	if !ok {
		return position
	}
	payout := projectPayout(market.StakeOf(winner, viewer), market.Pool(winner), market.Pool(winner.Opposite()))
	if winner == models.SideYes {
		position.Yes.Payout = payout
	} else {
		position.No.Payout = payout
	}
	return position
}

// ComputeOdds returns the implied probability of each side. An empty market
// is even; otherwise the yes share is rounded and no takes the remainder.
func (pe *pricingEngine) ComputeOdds(market *models.Market) models.Odds {
	return pe.oddsFor(market.TotalYes, market.TotalNo)
}

// IsClaimable reports whether the viewer can claim winnings right now
func (pe *pricingEngine) IsClaimable(market *models.Market, position *models.UserPosition, claimed bool) bool {
	if !market.Resolved || position == nil || claimed {
		return false
	}
	winner, ok := market.WinningSide()
	if !ok {
		return false
	}
	return position.Side(winner).Staked > 0
}

// QuoteBet projects the profit of adding amount to one side of an open market.
// The bet joins its own pool before the share of the opposing pool is taken.
func (pe *pricingEngine) QuoteBet(market *models.Market, side models.Side, amount models.Lamports) (*models.BetQuote, error) {
	if market.Resolved {
		return nil, models.ErrMarketResolved
	}
	if amount == 0 {
		return nil, models.ErrInvalidBetAmount
	}
	if side != models.SideYes && side != models.SideNo {
		return nil, models.ErrInvalidBetSide
	}

	own := market.Pool(side)
	other := market.Pool(side.Opposite())
	if uint64(amount) > math.MaxUint64-uint64(own)-uint64(other) {
		return nil, models.ErrAmountOverflow
	}

	newOwn := own + amount
	profit := mulDiv(amount, other, newOwn)

	yes, no := market.TotalYes, market.TotalNo
	if side == models.SideYes {
		yes = newOwn
	} else {
		no = newOwn
	}

	return &models.BetQuote{
		Side:            side,
		Amount:          amount,
		Profit:          profit,
		EstimatedReturn: profit + amount,
		OddsBefore:      pe.ComputeOdds(market),
		OddsAfter:       pe.oddsFor(yes, no),
	}, nil
}

func (pe *pricingEngine) oddsFor(yes, no models.Lamports) models.Odds {
	total := decimal.NewFromUint64(uint64(yes)).Add(decimal.NewFromUint64(uint64(no)))
	if total.IsZero() {
		return models.Odds{YesPct: half, NoPct: half}
	}
	yesPct := decimal.NewFromUint64(uint64(yes)).DivRound(total, pe.config.OddsPrecision)
	return models.Odds{
		YesPct: yesPct,
		NoPct:  decimal.NewFromInt(1).Sub(yesPct),
	}
}

// projectPayout is stake*opposingPool/ownPool + stake, truncated. An empty own
// pool pays nothing.
func projectPayout(stake, ownPool, opposingPool models.Lamports) models.Lamports {
	if stake == 0 || ownPool == 0 {
		return 0
	}
	return mulDiv(stake, opposingPool, ownPool) + stake
}

// mulDiv computes a*b/c with truncation and no intermediate overflow
func mulDiv(a, b, c models.Lamports) models.Lamports {
	if c == 0 {
		return 0
	}
	q, _ := decimal.NewFromUint64(uint64(a)).
		Mul(decimal.NewFromUint64(uint64(b))).
		QuoRem(decimal.NewFromUint64(uint64(c)), 0)
	return models.Lamports(q.BigInt().Uint64())
}
