package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ovaphlow/pitchfork/service-animal-go/internal/account/entity"
	accountrepo "github.com/ovaphlow/pitchfork/service-animal-go/internal/account/repo"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/validate"
	"github.com/ovaphlow/pitchfork/service-animal-go/pkg/utilities"
)

// Store is the persistence the credential flows need.
type Store interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByIdentity(ctx context.Context, identity string) (*entity.Account, error)
}

// CredentialService orchestrates registration and login.
type CredentialService struct {
	store  Store
	hasher SecretHasher
	tokens TokenGenerator
	newID  func() string
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewCredentialService wires the service. A nil hasher or token generator
// falls back to bcrypt at the default cost and 128-byte random tokens.
func NewCredentialService(store Store, hasher SecretHasher, tokens TokenGenerator) *CredentialService {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	if tokens == nil {
		tokens = RandomTokenGenerator{}
	}
	return &CredentialService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		newID:  utilities.NewKSUID,
		now:    time.Now,
	}
}

// ErrBadCredentials is returned by Login for an unknown identity and for a
// wrong secret alike.
var ErrBadCredentials = apperr.Authentication(apperr.CodeBadCredentials, nil)

// Register validates the credentials, hashes the secret, issues a token and
// persists the account. It returns the token only after the insert has been
// acknowledged by the store.
func (s *CredentialService) Register(ctx context.Context, identity, secret string) (string, error) {
	if err := validateCredentials(identity, secret); err != nil {
		return "", err
	}
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return "", apperr.Infrastructure(fmt.Errorf("hash secret: %w", err))
	}
	token, err := s.tokens.Generate()
	if err != nil {
		return "", apperr.Infrastructure(fmt.Errorf("generate token: %w", err))
	}
	a := &entity.Account{
		ID:          s.newID(),
		Identity:    identity,
		SecretHash:  hash,
		BearerToken: token,
		CreatedAt:   s.now().UnixMilli(),
	}
	if err := s.store.Create(ctx, a); err != nil {
		if errors.Is(err, accountrepo.ErrDuplicate) {
			return "", apperr.Conflict("identity already taken", err)
		}
		return "", apperr.Infrastructure(err)
	}
	return a.BearerToken, nil
}

// Login returns the account's existing bearer token when secret matches.
func (s *CredentialService) Login(ctx context.Context, identity, secret string) (string, error) {
	a, err := s.store.GetByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, accountrepo.ErrNotFound) {
			// burn one comparison so a miss costs as much as a wrong secret
			s.hasher.Verify(s.dummy(), secret)
			return "", ErrBadCredentials
		}
		return "", apperr.Infrastructure(err)
	}
	if a.SecretHash == "" || !s.hasher.Verify(a.SecretHash, secret) {
		return "", ErrBadCredentials
	}
	return a.BearerToken, nil
}

func (s *CredentialService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-secret")
	})
	return s.dummyHash
}

// credentials bounds identities to 2-20 and secrets to 5-20 characters.
// Secrets are also capped at 72 bytes because bcrypt ignores the rest.
type credentials struct {
	Name     string `json:"name" validate:"min=2,max=20"`
	Password string `json:"password" validate:"min=5,max=20,maxbytes=72"`
}

func validateCredentials(identity, secret string) error {
	return validate.Struct(credentials{Name: identity, Password: secret})
}
