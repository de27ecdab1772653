package hexocat

import (
	"crypto/subtle"

	"github.com/ca-srg/hexocat/internal/types"
)

// Authorize reports whether a request carrying token may use the command.
// Development accepts everything; staging and production require the token
// to equal the configured key exactly.
func Authorize(cfg *types.Config, token string) bool {
	switch cfg.Environment {
	case types.Development:
		return true
	case types.Staging, types.Production:
		return subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Key)) == 1
	default:
		return false
	}
}
