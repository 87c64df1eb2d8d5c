package ledger

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/joefazee/betsolana/models"
)

var (
	// ErrUnexpectedAccount is returned for data that is not a Market account.
	// It matches models.ErrRecordNotFound.
	ErrUnexpectedAccount = fmt.Errorf("%w: account is not a market", models.ErrRecordNotFound)
	// ErrUnknownOutcome is returned for an outcome variant outside the program's enum
	ErrUnknownOutcome = errors.New("unknown outcome variant")
)

// MarketDiscriminator is the Anchor account discriminator of Market
var MarketDiscriminator = bin.TypeID{219, 190, 213, 55, 0, 227, 198, 154}

const (
	outcomeUndecided uint8 = iota
	outcomeYes
	outcomeNo
)

type bettorAccount struct {
	Bettor solana.PublicKey
	Amount uint64
}

// marketAccount mirrors the on-chain Market layout
type marketAccount struct {
	ID         uint64
	Creator    solana.PublicKey
	Question   string
	Resolved   bool
	Outcome    uint8
	TotalYes   uint64
	TotalNo    uint64
	YesBettors []bettorAccount
	NoBettors  []bettorAccount
}

func (m *marketAccount) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	disc, err := decoder.ReadTypeID()
	if err != nil {
		return fmt.Errorf("read discriminator: %w", err)
	}
	if disc != MarketDiscriminator {
		return fmt.Errorf("%w: discriminator %v", ErrUnexpectedAccount, disc[:])
	}

	if m.ID, err = decoder.ReadUint64(bin.LE); err != nil {
		return fmt.Errorf("read id: %w", err)
	}
	if m.Creator, err = readPublicKey(decoder); err != nil {
		return fmt.Errorf("read creator: %w", err)
	}
	if m.Question, err = decoder.ReadString(); err != nil {
		return fmt.Errorf("read question: %w", err)
	}
	if m.Resolved, err = decoder.ReadBool(); err != nil {
		return fmt.Errorf("read resolved: %w", err)
	}
	if m.Outcome, err = decoder.ReadUint8(); err != nil {
		return fmt.Errorf("read outcome: %w", err)
	}
	if m.Outcome > outcomeNo {
		return fmt.Errorf("%w: %d", ErrUnknownOutcome, m.Outcome)
	}
	if m.TotalYes, err = decoder.ReadUint64(bin.LE); err != nil {
		return fmt.Errorf("read total_yes: %w", err)
	}
	if m.TotalNo, err = decoder.ReadUint64(bin.LE); err != nil {
		return fmt.Errorf("read total_no: %w", err)
	}
	if m.YesBettors, err = readBettors(decoder); err != nil {
		return fmt.Errorf("read yes_bettors: %w", err)
	}
	if m.NoBettors, err = readBettors(decoder); err != nil {
		return fmt.Errorf("read no_bettors: %w", err)
	}
	return nil
}

func (m marketAccount) MarshalWithEncoder(encoder *bin.Encoder) (err error) {
	if err = encoder.WriteBytes(MarketDiscriminator[:], false); err != nil {
		return err
	}
	if err = encoder.WriteUint64(m.ID, bin.LE); err != nil {
		return err
	}
	if err = encoder.WriteBytes(m.Creator[:], false); err != nil {
		return err
	}
	if err = encoder.WriteString(m.Question); err != nil {
		return err
	}
	if err = encoder.WriteBool(m.Resolved); err != nil {
		return err
	}
	if err = encoder.WriteUint8(m.Outcome); err != nil {
		return err
	}
	if err = encoder.WriteUint64(m.TotalYes, bin.LE); err != nil {
		return err
	}
	if err = encoder.WriteUint64(m.TotalNo, bin.LE); err != nil {
		return err
	}
	if err = writeBettors(encoder, m.YesBettors); err != nil {
		return err
	}
	return writeBettors(encoder, m.NoBettors)
}

func readPublicKey(decoder *bin.Decoder) (solana.PublicKey, error) {
	b, err := decoder.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}

func readBettors(decoder *bin.Decoder) ([]bettorAccount, error) {
	n, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return nil, err
	}
	// each entry is 40 bytes, so a length past the remaining data is corrupt
	if uint64(n)*40 > uint64(decoder.Remaining()) {
		return nil, fmt.Errorf("vec length %d exceeds remaining data", n)
	}
	out := make([]bettorAccount, 0, n)
	for i := uint32(0); i < n; i++ {
		key, err := readPublicKey(decoder)
		if err != nil {
			return nil, err
		}
		amount, err := decoder.ReadUint64(bin.LE)
		if err != nil {
			return nil, err
		}
		out = append(out, bettorAccount{Bettor: key, Amount: amount})
	}
	return out, nil
}

func writeBettors(encoder *bin.Encoder, bettors []bettorAccount) error {
	if err := encoder.WriteUint32(uint32(len(bettors)), bin.LE); err != nil {
		return err
	}
	for _, b := range bettors {
		if err := encoder.WriteBytes(b.Bettor[:], false); err != nil {
			return err
		}
		if err := encoder.WriteUint64(b.Amount, bin.LE); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMarket decodes a Market account's data into a raw market record
func DecodeMarket(address solana.PublicKey, data []byte) (*models.RawMarket, error) {
	var acc marketAccount
	if err := acc.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, err
	}
	return acc.toRaw(address), nil
}

// EncodeMarket is the inverse of DecodeMarket. Outcome tags that are both
// set cannot be represented and encode as undecided.
func EncodeMarket(raw *models.RawMarket) ([]byte, error) {
	acc := marketAccount{
		ID:         raw.ID,
		Creator:    raw.Creator,
		Question:   raw.Question,
		Resolved:   raw.Resolved,
		TotalYes:   raw.TotalYesAmount,
		TotalNo:    raw.TotalNoAmount,
		YesBettors: fromRawStakes(raw.YesBettors),
		NoBettors:  fromRawStakes(raw.NoBettors),
	}
	switch {
	case raw.Outcome.Yes && !raw.Outcome.No:
		acc.Outcome = outcomeYes
	case raw.Outcome.No && !raw.Outcome.Yes:
		acc.Outcome = outcomeNo
	}

	buf := new(bytes.Buffer)
	if err := acc.MarshalWithEncoder(bin.NewBorshEncoder(buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *marketAccount) toRaw(address solana.PublicKey) *models.RawMarket {
	return &models.RawMarket{
		Address:  address,
		ID:       m.ID,
		Creator:  m.Creator,
		Question: m.Question,
		Resolved: m.Resolved,
		Outcome: models.RawOutcome{
			Yes: m.Outcome == outcomeYes,
			No:  m.Outcome == outcomeNo,
		},
		TotalYesAmount: m.TotalYes,
		TotalNoAmount:  m.TotalNo,
		YesBettors:     toRawStakes(m.YesBettors),
		NoBettors:      toRawStakes(m.NoBettors),
	}
}

func toRawStakes(in []bettorAccount) []models.RawStake {
	out := make([]models.RawStake, len(in))
	for i, b := range in {
		out[i] = models.RawStake{Bettor: b.Bettor, Amount: b.Amount}
	}
	return out
}

func fromRawStakes(in []models.RawStake) []bettorAccount {
	out := make([]bettorAccount, len(in))
	for i, s := range in {
		out[i] = bettorAccount{Bettor: s.Bettor, Amount: s.Amount}
	}
	return out
}
