package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/models"
)

type memoryUsers struct {
	byEmail map[string]*models.User
	err     error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: make(map[string]*models.User)}
}

func (m *memoryUsers) CreateUser(_ context.Context, u *models.User) error {
	m.byEmail[u.Email] = u
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byEmail[email], nil
}

func (m *memoryUsers) CountUsers(context.Context) (int, error) {
	return len(m.byEmail), nil
}

func TestPasswordAuthenticator_Register(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUsers()
	a := NewPasswordAuthenticator(users, bcrypt.MinCost)

	first, err := a.Register(ctx, "  Alice@Example.com ", " Alice ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", first.Email)
	assert.Equal(t, "Alice", first.DisplayName)
	assert.True(t, first.IsAdmin(), "first user becomes admin")
	assert.NotEqual(t, "password123", first.PasswordHash)

	second, err := a.Register(ctx, "bob@example.com", "Bob", "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, second.Role)
	assert.False(t, second.IsAdmin())

	tests := []struct {
		name, email, displayName, password string
		want                               error
	}{
		{"duplicate email", "ALICE@example.com", "Alice", "password123", ErrEmailExists},
		{"weak password", "carol@example.com", "Carol", "short", ErrWeakPassword},
		{"bad email", "not-an-email", "Carol", "password123", ErrInvalidEmail},
		{"blank name", "carol@example.com", "   ", "password123", ErrMissingName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.email, tt.displayName, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPasswordAuthenticator_Authenticate(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUsers()
	a := NewPasswordAuthenticator(users, bcrypt.MinCost)

	registered, err := a.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)

	got, err := a.Authenticate(ctx, "Alice@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, got.ID)

	_, err = a.Authenticate(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	users.err = errors.New("db down")
	_, err = a.Authenticate(ctx, "alice@example.com", "password123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", time.Hour)
	user := &models.User{ID: "u1", Email: "alice@example.com", Role: models.RoleAdmin}

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "u1", claims.Subject)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", time.Hour)
	user := &models.User{ID: "u1", Email: "alice@example.com", Role: models.RoleUser}

	t.Run("expired", func(t *testing.T) {
		past := NewJWTManager("0123456789abcdef", time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := past.Generate(user)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("fedcba9876543210", time.Hour)
		token, err := other.Generate(user)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
			UserID:           "u1",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
		})
		signed, err := token.SignedString([]byte("0123456789abcdef"))
		require.NoError(t, err)

		_, err = m.Validate(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
