package ports

import (
	"context"

	"github.com/bookkeep/library-records/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // empty defaults to domain.RoleMember
}

// TokenResult is returned by a successful login.
type TokenResult struct {
	AccessToken string
	TokenType   string
}

// Principal is the identity carried by a verified token.
type Principal struct {
	MemberID int64
	Name     string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Member, error)
	Login(ctx context.Context, username, password string) (*TokenResult, error)
	VerifyToken(token string) (*Principal, error)
}
