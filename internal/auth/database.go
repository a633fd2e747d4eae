package auth

import (
	"context"
	"errors"

	"github.com/jayakrishna0023/fleet-guardian/pkg/database/queries"
)

// DatabaseOperators reads operators from the users table.
type DatabaseOperators struct {
	repo *queries.UserRepository
}

func NewDatabaseOperators(repo *queries.UserRepository) *DatabaseOperators {
	return &DatabaseOperators{repo: repo}
}

func (d *DatabaseOperators) Lookup(ctx context.Context, username string) (*Operator, error) {
	user, err := d.repo.GetByUsername(ctx, username)
	if errors.Is(err, queries.ErrUserNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	return &Operator{ID: user.ID, Username: user.Username, PasswordHash: user.PasswordHash}, nil
}
