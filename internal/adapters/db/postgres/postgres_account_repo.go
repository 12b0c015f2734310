package postgres

import (
	"context"
	"errors"

	customErrors "github.com/campushq/account-service/internal/domain/account/errors"
	"github.com/campushq/account-service/internal/domain/account/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pg unique_violation
const codeUniqueViolation = "23505"

type PostgresAccountRepo struct {
	db *gorm.DB
}

func NewPostgresAccountRepo(db *gorm.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

func (p *PostgresAccountRepo) Create(ctx context.Context, acct model.Account) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&acct)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, customErrors.WrapInternal(err, "Create")
	}
	return acct.ID, nil
}

func (p *PostgresAccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	var a model.Account
	res := p.db.WithContext(ctx).Where("email = ?", email).First(&a)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Account{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Account{}, customErrors.WrapInternal(err, "GetByEmail")
	}

	return a, nil
}

func (p *PostgresAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	var a model.Account
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&a)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Account{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Account{}, customErrors.WrapInternal(err, "GetByID")
	}

	return a, nil
}

func (p *PostgresAccountRepo) Update(ctx context.Context, acct model.Account) error {
	res := p.db.WithContext(ctx).Save(&acct)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return customErrors.ErrAlreadyExists
		}
		return customErrors.WrapInternal(err, "Update")
	}

	return nil
}

// UpdateCredentials writes the new hash and the bumped version in a single
// UPDATE, so a crash can never leave a fresh hash next to a stale version.
func (p *PostgresAccountRepo) UpdateCredentials(ctx context.Context, id uuid.UUID, passwordHash string, tokenVersion int) error {
	res := p.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"token_version": tokenVersion,
		})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateCredentials")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}

func (p *PostgresAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&model.Account{}, "id = ?", id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "Delete")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}

// isUniqueViolation recognizes a duplicate key both through gorm's
// translated sentinel (TranslateError: true) and through the raw pgx/v5
// driver error, so the mapping holds whichever way the handle was opened.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
