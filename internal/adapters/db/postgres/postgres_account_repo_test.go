package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/campushq/account-service/internal/domain/account/errors"
	"github.com/campushq/account-service/internal/domain/account/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.Account{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestPostgresAccountRepo_CRUD(t *testing.T) {
	repo := NewPostgresAccountRepo(setupDB(t))
	ctx := context.Background()

	acct := model.Account{
		ID:           uuid.New(),
		Email:        "a@x.com",
		FirstName:    "A",
		LastName:     "B",
		PasswordHash: "h",
		TokenVersion: 1,
	}
	id, err := repo.Create(ctx, acct)
	if err != nil || id != acct.ID {
		t.Fatalf("create %v", err)
	}

	got, err := repo.GetByEmail(ctx, acct.Email)
	if err != nil || got.ID != acct.ID {
		t.Fatalf("get by email %v", err)
	}
	got2, err := repo.GetByID(ctx, acct.ID)
	if err != nil || got2.Email != acct.Email {
		t.Fatalf("get by id %v", err)
	}

	got2.FirstName = "Updated"
	if err := repo.Update(ctx, got2); err != nil {
		t.Fatalf("update %v", err)
	}

	if err := repo.Delete(ctx, acct.ID); err != nil {
		t.Fatalf("delete %v", err)
	}
	if _, err := repo.GetByID(ctx, acct.ID); !errors.IsNotFound(err) {
		t.Fatalf("expected not found")
	}
}

func TestPostgresAccountRepo_DuplicateEmailCreate(t *testing.T) {
	repo := NewPostgresAccountRepo(setupDB(t))
	ctx := context.Background()

	first := model.Account{ID: uuid.New(), Email: "a@x.com", FirstName: "A", LastName: "B", PasswordHash: "h", TokenVersion: 1}
	if _, err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create %v", err)
	}

	dup := model.Account{ID: uuid.New(), Email: "a@x.com", FirstName: "C", LastName: "D", PasswordHash: "h", TokenVersion: 1}
	if _, err := repo.Create(ctx, dup); !errors.IsAlreadyExists(err) {
		t.Fatalf("duplicate email must map to already exists, got %v", err)
	}
}

func TestPostgresAccountRepo_DuplicateEmailUpdate(t *testing.T) {
	repo := NewPostgresAccountRepo(setupDB(t))
	ctx := context.Background()

	a := model.Account{ID: uuid.New(), Email: "a@x.com", FirstName: "A", LastName: "B", PasswordHash: "h", TokenVersion: 1}
	b := model.Account{ID: uuid.New(), Email: "b@x.com", FirstName: "C", LastName: "D", PasswordHash: "h", TokenVersion: 1}
	if _, err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create %v", err)
	}
	if _, err := repo.Create(ctx, b); err != nil {
		t.Fatalf("create %v", err)
	}

	b.Email = "a@x.com"
	if err := repo.Update(ctx, b); !errors.IsAlreadyExists(err) {
		t.Fatalf("email collision on update must map to already exists, got %v", err)
	}
}

func TestUniqueViolationDetection(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("pgx unique violation not recognized")
	}
	if !isUniqueViolation(fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"})) {
		t.Fatal("wrapped pgx unique violation not recognized")
	}
	if !isUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatal("translated duplicate key not recognized")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation must not look like a duplicate")
	}
}

func TestPostgresAccountRepo_UpdateCredentials(t *testing.T) {
	repo := NewPostgresAccountRepo(setupDB(t))
	ctx := context.Background()

	acct := model.Account{ID: uuid.New(), Email: "a@x.com", FirstName: "A", LastName: "B", PasswordHash: "old", TokenVersion: 1}
	if _, err := repo.Create(ctx, acct); err != nil {
		t.Fatalf("create %v", err)
	}

	if err := repo.UpdateCredentials(ctx, acct.ID, "new", 2); err != nil {
		t.Fatalf("update credentials %v", err)
	}

	got, err := repo.GetByID(ctx, acct.ID)
	if err != nil {
		t.Fatalf("get %v", err)
	}
	if got.PasswordHash != "new" || got.TokenVersion != 2 {
		t.Fatalf("hash and version must change together, got hash=%q version=%d", got.PasswordHash, got.TokenVersion)
	}
}

func TestPostgresAccountRepo_UpdateCredentialsMissing(t *testing.T) {
	repo := NewPostgresAccountRepo(setupDB(t))

	err := repo.UpdateCredentials(context.Background(), uuid.New(), "h", 2)
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgresAccountRepo_DeleteMissing(t *testing.T) {
	repo := NewPostgresAccountRepo(setupDB(t))

	if err := repo.Delete(context.Background(), uuid.New()); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
