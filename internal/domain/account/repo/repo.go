package repo

import (
	"context"

	"github.com/campushq/account-service/internal/domain/account/model"
	"github.com/google/uuid"
)

type AccountRepo interface {
	Create(ctx context.Context, a model.Account) (uuid.UUID, error)

	GetByEmail(ctx context.Context, email string) (model.Account, error)

	GetByID(ctx context.Context, id uuid.UUID) (model.Account, error)

	Update(ctx context.Context, a model.Account) error

	// UpdateCredentials persists a new password hash together with the bumped
	// token version in a single statement. The pair must never be split: a
	// new hash with a stale version would leave old tokens alive forever.
	UpdateCredentials(ctx context.Context, id uuid.UUID, passwordHash string, tokenVersion int) error

	Delete(ctx context.Context, id uuid.UUID) error
}
