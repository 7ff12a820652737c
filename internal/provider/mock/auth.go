package mock

import (
	"context"
	"strings"

	"github.com/bobmcallan/quantdash/internal/interfaces"
	"github.com/bobmcallan/quantdash/internal/models"
)

const (
	// MockToken is the bearer credential issued by the mock authenticator.
	MockToken = "mock-jwt-token"

	demoUserID   = "1"
	demoUserName = "Demo User"
	demoAvatar   = "https://via.placeholder.com/40"
)

// Authenticator accepts any non-empty credentials and returns the demo identity.
type Authenticator struct{}

// NewAuthenticator creates a mock Authenticator.
func NewAuthenticator() *Authenticator {
	return &Authenticator{}
}

// Login returns the demo user bound to email.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, interfaces.ErrInvalidCredentials
	}
	return &models.AuthResult{
		User: models.User{
			ID:     demoUserID,
			Name:   demoUserName,
			Email:  email,
			Avatar: demoAvatar,
		},
		Token: MockToken,
	}, nil
}

// Register returns a user carrying the supplied name.
func (a *Authenticator) Register(ctx context.Context, name, email, password string) (*models.AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, interfaces.ErrInvalidCredentials
	}
	return &models.AuthResult{
		User: models.User{
			ID:     demoUserID,
			Name:   name,
			Email:  email,
			Avatar: demoAvatar,
		},
		Token: MockToken,
	}, nil
}
