package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	accountentity "github.com/ovaphlow/pitchfork/service-animal-go/internal/account/entity"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/profile/entity"
	profilerepo "github.com/ovaphlow/pitchfork/service-animal-go/internal/profile/repo"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/validate"
	"github.com/ovaphlow/pitchfork/service-animal-go/pkg/utilities"
)

// Store is the persistence the profile flows need.
type Store interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByOwner(ctx context.Context, identity string) (*entity.Profile, error)
}

// Service creates and reads the caller's animal profile. Every operation
// takes the authorized account; the owner is never read from input.
type Service struct {
	store Store
	ids   *utilities.IDGenerator
	now   func() time.Time
}

// NewService wires the service. A nil ids generator falls back to KSUIDs.
func NewService(store Store, ids *utilities.IDGenerator) *Service {
	return &Service{store: store, ids: ids, now: time.Now}
}

// CreateInput carries the client supplied fields. Pointers mark fields
// whose absence differs from their zero value.
type CreateInput struct {
	Name      string   `json:"name" validate:"min=2,max=20"`
	BirthDate *int64   `json:"birthDate" validate:"required"`
	Gender    string   `json:"gender" validate:"required"`
	Weight    *float64 `json:"weight" validate:"omitempty,gte=0"`
	Breed     string   `json:"breed" validate:"required"`
}

// Create stores a new profile owned by account. An account holds at most
// one profile; a second one is a conflict.
func (s *Service) Create(ctx context.Context, account accountentity.Account, in CreateInput) (entity.Profile, error) {
	if err := validateInput(&in); err != nil {
		return entity.Profile{}, err
	}
	p := entity.Profile{
		ID:            s.ids.Next(),
		OwnerIdentity: account.Identity,
		Name:          in.Name,
		CreatedAt:     time.UnixMilli(s.now().UnixMilli()).UTC(),
		BirthDate:     *in.BirthDate,
		Gender:        in.Gender,
		Weight:        in.Weight,
		Breed:         in.Breed,
	}
	if err := s.store.Create(ctx, &p); err != nil {
		if errors.Is(err, profilerepo.ErrDuplicate) {
			return entity.Profile{}, apperr.Conflict("animal profile already exists", err)
		}
		return entity.Profile{}, apperr.Infrastructure(err)
	}
	return p, nil
}

// Get returns the profile owned by account.
func (s *Service) Get(ctx context.Context, account accountentity.Account) (entity.Profile, error) {
	p, err := s.store.GetByOwner(ctx, account.Identity)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return entity.Profile{}, apperr.NotFound("animal profile not found")
		}
		return entity.Profile{}, apperr.Infrastructure(err)
	}
	return *p, nil
}

// validateInput trims the string fields and checks them against the tags on
// CreateInput. Gender is free text; any non-empty value is kept as sent.
func validateInput(in *CreateInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Breed = strings.TrimSpace(in.Breed)
	return validate.Struct(in)
}
