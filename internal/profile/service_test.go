package profile

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountentity "github.com/ovaphlow/pitchfork/service-animal-go/internal/account/entity"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-animal-go/internal/profile/entity"
	profilerepo "github.com/ovaphlow/pitchfork/service-animal-go/internal/profile/repo"
	"github.com/ovaphlow/pitchfork/service-animal-go/pkg/utilities"
)

// memStore mimics the unique index on owner_identity.
type memStore struct {
	mu       sync.Mutex
	profiles map[string]entity.Profile
	creates  int
	err      error
}

func newMemStore() *memStore {
	return &memStore{profiles: make(map[string]entity.Profile)}
}

func (m *memStore) Create(_ context.Context, p *entity.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.err != nil {
		return m.err
	}
	if _, ok := m.profiles[p.OwnerIdentity]; ok {
		return profilerepo.ErrDuplicate
	}
	m.profiles[p.OwnerIdentity] = *p
	return nil
}

func (m *memStore) GetByOwner(_ context.Context, identity string) (*entity.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[identity]
	if !ok {
		return nil, profilerepo.ErrNotFound
	}
	return &p, nil
}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	ids, err := utilities.NewIDGenerator(1)
	require.NoError(t, err)
	return NewService(store, ids)
}

func int64p(v int64) *int64       { return &v }
func float64p(v float64) *float64 { return &v }

func rex() CreateInput {
	return CreateInput{Name: "Rex", BirthDate: int64p(1000), Gender: "m", Breed: "lab"}
}

var (
	alice = accountentity.Account{ID: "a1", Identity: "alice", BearerToken: "t1"}
	bob   = accountentity.Account{ID: "b1", Identity: "bob", BearerToken: "t2"}
)

func TestCreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMemStore())

	created, err := svc.Create(ctx, alice, rex())
	require.NoError(t, err)
	assert.Equal(t, "alice", created.OwnerIdentity)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "Rex", got.Name)
	assert.Equal(t, int64(1000), got.BirthDate)
	assert.Nil(t, got.Weight)
}

func TestGet_IsScopedToAccount(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newMemStore())
	_, err := svc.Create(ctx, alice, rex())
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreate_OnePerAccount(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestService(t, store)

	_, err := svc.Create(ctx, alice, rex())
	require.NoError(t, err)

	second := rex()
	second.Name = "Fido"
	_, err = svc.Create(ctx, alice, second)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	got, err := svc.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Rex", got.Name)

	// another account is unaffected
	_, err = svc.Create(ctx, bob, second)
	require.NoError(t, err)
}

func TestCreate_Normalizes(t *testing.T) {
	svc := newTestService(t, newMemStore())
	in := CreateInput{Name: "  Rex ", BirthDate: int64p(0), Gender: " Female ", Weight: float64p(0), Breed: " lab "}

	p, err := svc.Create(context.Background(), alice, in)
	require.NoError(t, err)
	assert.Equal(t, "Rex", p.Name)
	assert.Equal(t, "Female", p.Gender)
	assert.Equal(t, "lab", p.Breed)
	assert.Equal(t, int64(0), p.BirthDate)
	require.NotNil(t, p.Weight)
	assert.Zero(t, *p.Weight)
}

func TestCreate_AcceptsAnyGender(t *testing.T) {
	for _, gender := range []string{"m", "hona", "hane", "neutered male", "X"} {
		t.Run(gender, func(t *testing.T) {
			svc := newTestService(t, newMemStore())
			in := rex()
			in.Gender = gender

			p, err := svc.Create(context.Background(), alice, in)
			require.NoError(t, err)
			assert.Equal(t, gender, p.Gender)
		})
	}
}

func TestCreate_ValidationNeverReachesStore(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateInput)
		fields []string
	}{
		{"short name", func(in *CreateInput) { in.Name = "R" }, []string{"name"}},
		{"long name", func(in *CreateInput) { in.Name = strings.Repeat("r", 21) }, []string{"name"}},
		{"missing birth date", func(in *CreateInput) { in.BirthDate = nil }, []string{"birthDate"}},
		{"missing gender", func(in *CreateInput) { in.Gender = " " }, []string{"gender"}},
		{"negative weight", func(in *CreateInput) { in.Weight = float64p(-0.1) }, []string{"weight"}},
		{"missing breed", func(in *CreateInput) { in.Breed = "" }, []string{"breed"}},
		{"empty", func(in *CreateInput) { *in = CreateInput{} }, []string{"name", "birthDate", "gender", "breed"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestService(t, store)
			in := rex()
			tc.mutate(&in)

			_, err := svc.Create(context.Background(), alice, in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			var got []string
			for _, f := range apperr.FieldsOf(err) {
				got = append(got, f.Field)
			}
			assert.Equal(t, tc.fields, got)
			assert.Zero(t, store.creates)
		})
	}
}

func TestStoreFailuresAreInfrastructure(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.err = errors.New("database is locked")
	svc := newTestService(t, store)

	_, err := svc.Create(ctx, alice, rex())
	assert.Equal(t, apperr.KindInfrastructure, apperr.KindOf(err))
	_, err = svc.Get(ctx, alice)
	assert.Equal(t, apperr.KindInfrastructure, apperr.KindOf(err))
	assert.ErrorIs(t, err, store.err)
}

func TestNilIDGeneratorFallsBack(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	p, err := svc.Create(context.Background(), alice, rex())
	require.NoError(t, err)
	assert.Len(t, p.ID, 27)
}
