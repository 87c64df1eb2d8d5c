package markets

import (
	"fmt"
	"math"
	"strings"

	"github.com/joefazee/betsolana/models"
)

// Normalize turns a raw ledger record into a canonical Market. Records that
// break the market invariants are rejected with a *models.MalformedMarketError.
func Normalize(raw *models.RawMarket) (*models.Market, error) {
	malformed := func(format string, args ...interface{}) error {
		return &models.MalformedMarketError{Address: raw.Address, Reason: fmt.Sprintf(format, args...)}
	}

	if raw.Address.IsZero() {
		return nil, malformed("missing account address")
	}
	if strings.TrimSpace(raw.Question) == "" {
		return nil, malformed("empty question")
	}

	outcome, err := normalizeOutcome(raw)
	if err != nil {
		return nil, malformed("%s", err.Error())
	}

	yesStakes, yesSum, ok := normalizeStakes(raw.YesBettors)
	if !ok {
		return nil, malformed("yes stakes overflow")
	}
	noStakes, noSum, ok := normalizeStakes(raw.NoBettors)
	if !ok {
		return nil, malformed("no stakes overflow")
	}
	if yesSum != raw.TotalYesAmount {
		return nil, malformed("yes pool %d does not match stake sum %d", raw.TotalYesAmount, yesSum)
	}
	if noSum != raw.TotalNoAmount {
		return nil, malformed("no pool %d does not match stake sum %d", raw.TotalNoAmount, noSum)
	}
	if raw.TotalYesAmount > math.MaxUint64-raw.TotalNoAmount {
		return nil, malformed("combined pool overflows")
	}

	return &models.Market{
		Address:   raw.Address,
		ID:        raw.ID,
		Creator:   raw.Creator,
		Question:  raw.Question,
		Resolved:  raw.Resolved,
		Outcome:   outcome,
		TotalYes:  models.Lamports(raw.TotalYesAmount),
		TotalNo:   models.Lamports(raw.TotalNoAmount),
		YesStakes: yesStakes,
		NoStakes:  noStakes,
	}, nil
}

func normalizeOutcome(raw *models.RawMarket) (models.Outcome, error) {
	tag := raw.Outcome
	switch {
	case tag.Yes && tag.No:
		return models.OutcomeUndecided, fmt.Errorf("outcome carries both yes and no")
	case raw.Resolved && !tag.Yes && !tag.No:
		return models.OutcomeUndecided, fmt.Errorf("resolved without an outcome")
	case !raw.Resolved && (tag.Yes || tag.No):
		return models.OutcomeUndecided, fmt.Errorf("outcome set on an unresolved market")
	case tag.Yes:
		return models.OutcomeYes, nil
	case tag.No:
		return models.OutcomeNo, nil
	default:
		return models.OutcomeUndecided, nil
	}
}

// normalizeStakes copies entries in source order and sums them, reporting
// false if the sum overflows.
func normalizeStakes(raw []models.RawStake) ([]models.Stake, uint64, bool) {
	stakes := make([]models.Stake, 0, len(raw))
	var sum uint64
	for _, r := range raw {
		if r.Amount > math.MaxUint64-sum {
			return nil, 0, false
		}
		sum += r.Amount
		stakes = append(stakes, models.Stake{Identity: r.Bettor, Amount: models.Lamports(r.Amount)})
	}
	return stakes, sum, true
}

// NormalizeSnapshot normalizes every record of a snapshot. Malformed records
// are returned separately so callers can report them without failing the batch.
func NormalizeSnapshot(snap *models.Snapshot) ([]*models.Market, []error) {
	markets := make([]*models.Market, 0, snap.Len())
	var rejected []error
	if snap == nil {
		return markets, nil
	}
	for i := range snap.Markets {
		m, err := Normalize(&snap.Markets[i])
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		markets = append(markets, m)
	}
	return markets, rejected
}
