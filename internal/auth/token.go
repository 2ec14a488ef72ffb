// Package auth supplies bearer token management for the hkbase transport.
package auth

import (
	"context"
	"os"

	"github.com/valescamoura/hkgo/internal/constants"
)

// TokenManager provides the bearer token attached to outgoing requests.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	SetToken(token string)
}

// StaticTokenManager holds a fixed token.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager creates a token manager for a fixed token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken implements TokenManager.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

// SetToken implements TokenManager.
func (m *StaticTokenManager) SetToken(token string) {
	m.token = token
}

// ResolveToken returns token, falling back to the process-wide default from
// the environment when it is empty.
func ResolveToken(token string) string {
	if token != "" {
		return token
	}

	return os.Getenv(constants.AuthTokenEnv)
}
