package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-animal-go/internal/profile/entity"
	"github.com/ovaphlow/pitchfork/service-animal-go/pkg/database"
)

var (
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicate means the owner already has a profile.
	ErrDuplicate = errors.New("profile already exists")
)

// ProfileRepo provides data access for the profiles table using sqlx.
type ProfileRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewProfileRepo(db *sqlx.DB, timeout time.Duration) *ProfileRepo {
	return &ProfileRepo{db: db, timeout: timeout}
}

// row is the storage shape; created_at is kept as unix milliseconds.
type row struct {
	ID            string          `db:"id"`
	OwnerIdentity string          `db:"owner_identity"`
	Name          string          `db:"name"`
	BirthDate     int64           `db:"birth_date"`
	Gender        string          `db:"gender"`
	Weight        sql.NullFloat64 `db:"weight"`
	Breed         string          `db:"breed"`
	CreatedAt     int64           `db:"created_at"`
}

func toRow(p *entity.Profile) row {
	r := row{
		ID:            p.ID,
		OwnerIdentity: p.OwnerIdentity,
		Name:          p.Name,
		BirthDate:     p.BirthDate,
		Gender:        p.Gender,
		Breed:         p.Breed,
		CreatedAt:     p.CreatedAt.UnixMilli(),
	}
	if p.Weight != nil {
		r.Weight = sql.NullFloat64{Float64: *p.Weight, Valid: true}
	}
	return r
}

func (r row) profile() *entity.Profile {
	p := &entity.Profile{
		ID:            r.ID,
		OwnerIdentity: r.OwnerIdentity,
		Name:          r.Name,
		CreatedAt:     time.UnixMilli(r.CreatedAt).UTC(),
		BirthDate:     r.BirthDate,
		Gender:        r.Gender,
		Breed:         r.Breed,
	}
	if r.Weight.Valid {
		w := r.Weight.Float64
		p.Weight = &w
	}
	return p
}

// Create inserts a profile. A second profile for the same owner is rejected
// by the unique index and returned as ErrDuplicate.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	const q = `INSERT INTO profiles (id, owner_identity, name, birth_date, gender, weight, breed, created_at)
		VALUES (:id, :owner_identity, :name, :birth_date, :gender, :weight, :breed, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, toRow(p)); err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByOwner returns the profile owned by identity or ErrNotFound.
func (r *ProfileRepo) GetByOwner(ctx context.Context, identity string) (*entity.Profile, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	const q = `SELECT id, owner_identity, name, birth_date, gender, weight, breed, created_at
		FROM profiles WHERE owner_identity = ?`
	var rw row
	if err := r.db.GetContext(ctx, &rw, r.db.Rebind(q), identity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select profile: %w", err)
	}
	return rw.profile(), nil
}
