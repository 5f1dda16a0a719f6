package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brightreach/campaignai/internal/domain"
)

// MockOrgRepository is a mock implementation of OrgRepository
type MockOrgRepository struct {
	mock.Mock
}

func (m *MockOrgRepository) Create(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrgRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrgRepository) GetByName(ctx context.Context, name string) (*domain.Organization, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrgRepository) List(ctx context.Context) ([]*domain.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Organization), args.Error(1)
}

func (m *MockOrgRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAPIKeyRepository is a mock implementation of APIKeyRepository
type MockAPIKeyRepository struct {
	mock.Mock
}

func (m *MockAPIKeyRepository) Create(ctx context.Context, key *domain.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockAPIKeyRepository) GetByHash(ctx context.Context, hash string) (*domain.APIKey, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) GetByOrgID(ctx context.Context, orgID string) ([]*domain.APIKey, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAuthService_CreateOrg(t *testing.T) {
	orgRepo := new(MockOrgRepository)
	keyRepo := new(MockAPIKeyRepository)
	svc := NewAuthService(orgRepo, keyRepo, &MockUUIDGenerator{})

	orgRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	org, err := svc.CreateOrg(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", org.Name)
	assert.NotEmpty(t, org.ID)
}

func TestAuthService_CreateOrg_EmptyName(t *testing.T) {
	svc := NewAuthService(new(MockOrgRepository), new(MockAPIKeyRepository), &MockUUIDGenerator{})

	_, err := svc.CreateOrg(context.Background(), "")
	assert.Error(t, err)
}

func TestAuthService_CreateAPIKey(t *testing.T) {
	orgRepo := new(MockOrgRepository)
	keyRepo := new(MockAPIKeyRepository)
	svc := NewAuthService(orgRepo, keyRepo, &MockUUIDGenerator{})

	orgRepo.On("GetByID", mock.Anything, "org-1").Return(&domain.Organization{ID: "org-1", Name: "Acme"}, nil)

	var savedKey *domain.APIKey
	keyRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedKey = args.Get(1).(*domain.APIKey)
		}).
		Return(nil)

	token, err := svc.CreateAPIKey(context.Background(), "org-1", "ci key")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(token, "cpn_"))
	assert.True(t, IsValidAPIToken(token))

	require.NotNil(t, savedKey)
	assert.NotEqual(t, token, savedKey.KeyHash)
	assert.Len(t, savedKey.KeyHash, 64)
}

func TestAuthService_CreateAPIKey_UnknownOrg(t *testing.T) {
	orgRepo := new(MockOrgRepository)
	svc := NewAuthService(orgRepo, new(MockAPIKeyRepository), &MockUUIDGenerator{})

	orgRepo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrOrganizationNotFound)

	_, err := svc.CreateAPIKey(context.Background(), "missing", "key")
	assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
}

func TestAuthService_ValidateAPIKey(t *testing.T) {
	token := "cpn_" + strings.Repeat("ab", 32)

	t.Run("valid key resolves org", func(t *testing.T) {
		keyRepo := new(MockAPIKeyRepository)
		svc := NewAuthService(new(MockOrgRepository), keyRepo, &MockUUIDGenerator{})

		keyRepo.On("GetByHash", mock.Anything, mock.Anything).Return(&domain.APIKey{
			ID:    "key-1",
			OrgID: "org-1",
		}, nil)

		orgID, err := svc.ValidateAPIKey(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "org-1", orgID)
	})

	t.Run("unknown key reads as invalid", func(t *testing.T) {
		keyRepo := new(MockAPIKeyRepository)
		svc := NewAuthService(new(MockOrgRepository), keyRepo, &MockUUIDGenerator{})

		keyRepo.On("GetByHash", mock.Anything, mock.Anything).Return(nil, domain.ErrAPIKeyNotFound)

		_, err := svc.ValidateAPIKey(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrInvalidAPIKey)
	})

	t.Run("revoked key rejected", func(t *testing.T) {
		keyRepo := new(MockAPIKeyRepository)
		svc := NewAuthService(new(MockOrgRepository), keyRepo, &MockUUIDGenerator{})

		now := time.Now().UTC()
		keyRepo.On("GetByHash", mock.Anything, mock.Anything).Return(&domain.APIKey{
			ID:        "key-1",
			OrgID:     "org-1",
			RevokedAt: &now,
		}, nil)

		_, err := svc.ValidateAPIKey(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrAPIKeyRevoked)
	})

	t.Run("malformed token rejected without lookup", func(t *testing.T) {
		keyRepo := new(MockAPIKeyRepository)
		svc := NewAuthService(new(MockOrgRepository), keyRepo, &MockUUIDGenerator{})

		_, err := svc.ValidateAPIKey(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, domain.ErrInvalidAPIKey)
		keyRepo.AssertNotCalled(t, "GetByHash")
	})
}

func TestIsValidAPIToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		valid bool
	}{
		{"valid lowercase", "cpn_" + strings.Repeat("ab", 32), true},
		{"valid uppercase hex", "cpn_" + strings.Repeat("AB", 32), true},
		{"wrong prefix", "api_" + strings.Repeat("ab", 32), false},
		{"too short", "cpn_abcd", false},
		{"too long", "cpn_" + strings.Repeat("ab", 33), false},
		{"non-hex chars", "cpn_" + strings.Repeat("zz", 32), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidAPIToken(tt.token))
		})
	}
}
