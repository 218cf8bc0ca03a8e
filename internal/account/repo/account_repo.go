package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-animal-go/internal/account/entity"
	"github.com/ovaphlow/pitchfork/service-animal-go/pkg/database"
)

var (
	ErrNotFound  = errors.New("account not found")
	ErrDuplicate = errors.New("account already exists")
	// ErrMissingHash is returned when an account without a secret hash is
	// about to be persisted.
	ErrMissingHash = errors.New("account secret hash is required")
)

// AccountRepo provides data access for the accounts table using sqlx.
type AccountRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewAccountRepo bounds every query by timeout (no bound when <= 0).
func NewAccountRepo(db *sqlx.DB, timeout time.Duration) *AccountRepo {
	return &AccountRepo{db: db, timeout: timeout}
}

// Create inserts a new account. A duplicate identity or token is reported
// by the unique indexes and returned as ErrDuplicate.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	if a.SecretHash == "" {
		return ErrMissingHash
	}
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	const q = `INSERT INTO accounts (id, identity, secret_hash, bearer_token, created_at)
		VALUES (:id, :identity, :secret_hash, :bearer_token, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, a); err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByIdentity returns the account registered under identity or ErrNotFound.
func (r *AccountRepo) GetByIdentity(ctx context.Context, identity string) (*entity.Account, error) {
	const q = `SELECT id, identity, secret_hash, bearer_token, created_at FROM accounts WHERE identity = ?`
	return r.get(ctx, q, identity)
}

// GetByBearerToken returns the account whose token exactly equals token or
// ErrNotFound.
func (r *AccountRepo) GetByBearerToken(ctx context.Context, token string) (*entity.Account, error) {
	const q = `SELECT id, identity, secret_hash, bearer_token, created_at FROM accounts WHERE bearer_token = ?`
	return r.get(ctx, q, token)
}

func (r *AccountRepo) get(ctx context.Context, q string, arg any) (*entity.Account, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	var row entity.Account
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(q), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select account: %w", err)
	}
	return &row, nil
}
