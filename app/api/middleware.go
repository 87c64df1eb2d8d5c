package api

import (
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
)

const (
	// WalletHeader carries the viewer's wallet address
	WalletHeader = "X-Wallet-Address"
	viewerQuery  = "viewer"
	viewerKey    = "viewer"
)

// Viewer parses the optional viewer wallet from the X-Wallet-Address header,
// falling back to the viewer query parameter. Requests without one continue
// anonymously; an unparsable address is rejected.
func Viewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(WalletHeader))
		if raw == "" {
			raw = strings.TrimSpace(c.Query(viewerQuery))
		}
		if raw == "" {
			c.Next()
			return
		}

		key, err := solana.PublicKeyFromBase58(raw)
		if err != nil || key.IsZero() {
			BadRequestResponse(c, "invalid wallet address")
			c.Abort()
			return
		}

		c.Set(viewerKey, key)
		c.Next()
	}
}

// RequireViewer rejects requests that reach it without a viewer wallet
func RequireViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetViewer(c).IsZero() {
			BadRequestResponse(c, "wallet address required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetViewer returns the viewer set by Viewer, or the zero key
func GetViewer(c *gin.Context) solana.PublicKey {
	v, exists := c.Get(viewerKey)
	if !exists {
		return solana.PublicKey{}
	}
	key, ok := v.(solana.PublicKey)
	if !ok {
		return solana.PublicKey{}
	}
	return key
}
