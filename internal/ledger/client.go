package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/joefazee/betsolana/internal/logger"
	"github.com/joefazee/betsolana/models"
)

// accountReader is the subset of *rpc.Client the ledger uses
type accountReader interface {
	GetProgramAccountsWithOpts(ctx context.Context, publicKey solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error)
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
}

// Client reads Market accounts of the betting program over JSON-RPC
type Client struct {
	rpc        accountReader
	program    solana.PublicKey
	commitment rpc.CommitmentType
	config     *Config
	logger     logger.Logger
}

// NewClient creates a ledger client for the configured endpoint
func NewClient(config *Config, log logger.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newClient(rpc.New(config.RPCEndpoint), config, log), nil
}

func newClient(reader accountReader, config *Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Client{
		rpc:        reader,
		program:    config.Program(),
		commitment: config.CommitmentType(),
		config:     config,
		logger:     log,
	}
}

// FetchMarkets returns every decodable Market account owned by the program.
// Accounts that fail to decode are logged and skipped.
func (c *Client) FetchMarkets(ctx context.Context) ([]models.RawMarket, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	accounts, err := c.rpc.GetProgramAccountsWithOpts(ctx, c.program, &rpc.GetProgramAccountsOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingBase64,
		Filters: []rpc.RPCFilter{
			{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: solana.Base58(MarketDiscriminator[:])}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getProgramAccounts markets: %w", err)
	}

	out := make([]models.RawMarket, 0, len(accounts))
	for _, item := range accounts {
		if item == nil || item.Account == nil || item.Account.Data == nil {
			continue
		}
		raw, err := DecodeMarket(item.Pubkey, item.Account.Data.GetBinary())
		if err != nil {
			c.logger.Warn("failed to decode market account", map[string]interface{}{
				"address": item.Pubkey.String(),
				"error":   err.Error(),
			})
			continue
		}
		out = append(out, *raw)
	}

	c.logger.Debug("fetched market accounts", map[string]interface{}{
		"accounts": len(accounts),
		"decoded":  len(out),
	})
	return out, nil
}

// FetchMarket reads a single Market account
func (c *Client) FetchMarket(ctx context.Context, address solana.PublicKey) (*models.RawMarket, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.rpc.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingBase64,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, models.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getAccountInfo %s: %w", address, err)
	}
	if res == nil || res.Value == nil || res.Value.Data == nil {
		return nil, models.ErrRecordNotFound
	}
	if !res.Value.Owner.Equals(c.program) {
		return nil, fmt.Errorf("%w: owner %s", ErrUnexpectedAccount, res.Value.Owner)
	}

	raw, err := DecodeMarket(address, res.Value.Data.GetBinary())
	if err != nil && !errors.Is(err, ErrUnexpectedAccount) {
		return nil, &models.MalformedMarketError{Address: address, Reason: err.Error()}
	}
	return raw, err
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.Timeout)
}
