package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/catalog-backend/internal/model"
)

// AccountFinder looks up a single account by email, loading its role in
// the same call. It returns ErrAccountNotFound when no row matches.
type AccountFinder interface {
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
}

// Resolver maps a verified token subject back to the stored account.
type Resolver struct {
	Accounts AccountFinder
}

// Resolve returns the account whose email equals subject.
func (r Resolver) Resolve(ctx context.Context, subject string) (*model.Account, error) {
	a, err := r.Accounts.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("resolve account: %w", err)
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	return a, nil
}
