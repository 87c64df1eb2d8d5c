package ledger

import (
	"net/url"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/joefazee/betsolana/models"
)

// DefaultProgramID is the deployed betting program on devnet
const DefaultProgramID = "6JRShtnTuvqR6Ntvir7Dv3FXVRZhA34EMWXW4zJRZfzx"

// Config holds the Solana RPC settings
type Config struct {
	RPCEndpoint string        `env:"SOLANA_RPC_URL" env-default:"https://api.devnet.solana.com"`
	ProgramID   string        `env:"BETSOLANA_PROGRAM_ID" env-default:"6JRShtnTuvqR6Ntvir7Dv3FXVRZhA34EMWXW4zJRZfzx"`
	Commitment  string        `env:"SOLANA_COMMITMENT" env-default:"confirmed" validate:"oneof=processed confirmed finalized"`
	Timeout     time.Duration `env:"SOLANA_RPC_TIMEOUT" env-default:"10s"`
}

// Validate validates the ledger configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.RPCEndpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return models.ErrInvalidRPCEndpoint
	}

	if _, err := solana.PublicKeyFromBase58(c.ProgramID); err != nil {
		return models.ErrInvalidProgramID
	}

	return nil
}

// Program returns the parsed program id
func (c *Config) Program() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(c.ProgramID)
}

// CommitmentType maps the configured level onto the rpc type
func (c *Config) CommitmentType() rpc.CommitmentType {
	switch c.Commitment {
	case "processed":
		return rpc.CommitmentProcessed
	case "finalized":
		return rpc.CommitmentFinalized
	default:
		return rpc.CommitmentConfirmed
	}
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		RPCEndpoint: rpc.DevNet_RPC,
		ProgramID:   DefaultProgramID,
		Commitment:  "confirmed",
		Timeout:     10 * time.Second,
	}
}
