package unit

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/security"
	"rentstack-backend/internal/service"
)

func newAuthService() (service.AuthService, *MockCustomerRepo, security.TokenManager) {
	customers := new(MockCustomerRepo)
	tokens := security.NewTokenManager("unit-test-secret", 15, 10080)
	return service.NewAuthService(customers, tokens), customers, tokens
}

func hashedPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, customers, tokens := newAuthService()
		customers.On("GetByEmail", ctx, "new@test.com").Return(nil, sql.ErrNoRows)
		customers.On("Create", ctx, mock.MatchedBy(func(c *domain.Customer) bool {
			return c.Email == "new@test.com"
		})).Return(nil)

		customer, access, refresh, err := svc.Signup(ctx, "New User", "new@test.com", "555-0100", "longenough")
		require.NoError(t, err)
		assert.Equal(t, domain.CustomerRoleCustomer, customer.Role)
		assert.NotEqual(t, "longenough", customer.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte("longenough")))

		claims, err := tokens.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, security.TokenTypeAccess, claims.Type)
		claims, err = tokens.ValidateToken(refresh)
		require.NoError(t, err)
		assert.Equal(t, security.TokenTypeRefresh, claims.Type)
	})

	t.Run("Short password", func(t *testing.T) {
		svc, customers, _ := newAuthService()
		_, _, _, err := svc.Signup(ctx, "New User", "new@test.com", "", "short")
		assertValidationError(t, err, domain.ErrKindMissingField, "password")
		customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		svc, customers, _ := newAuthService()
		customers.On("GetByEmail", ctx, "taken@test.com").Return(testCustomer(), nil)

		_, _, _, err := svc.Signup(ctx, "New User", "taken@test.com", "", "longenough")
		assertValidationError(t, err, domain.ErrKindMissingField, "email")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, customers, tokens := newAuthService()
		customer := testCustomer()
		customer.PasswordHash = hashedPassword(t, "correct-horse")
		customers.On("GetByEmail", ctx, customer.Email).Return(customer, nil)

		access, refresh, err := svc.Login(ctx, customer.Email, "correct-horse")
		require.NoError(t, err)
		assert.NotEmpty(t, refresh)

		claims, err := tokens.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, claims.CustomerID)
		assert.Equal(t, string(domain.CustomerRoleCustomer), claims.Role)
	})

	t.Run("Wrong password", func(t *testing.T) {
		svc, customers, _ := newAuthService()
		customer := testCustomer()
		customer.PasswordHash = hashedPassword(t, "correct-horse")
		customers.On("GetByEmail", ctx, customer.Email).Return(customer, nil)

		_, _, err := svc.Login(ctx, customer.Email, "battery-staple")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("Unknown email reports the same error", func(t *testing.T) {
		svc, customers, _ := newAuthService()
		customers.On("GetByEmail", ctx, "nobody@test.com").Return(nil, sql.ErrNoRows)

		_, _, err := svc.Login(ctx, "nobody@test.com", "whatever")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("Blocked account", func(t *testing.T) {
		svc, customers, _ := newAuthService()
		customer := testCustomer()
		customer.PasswordHash = hashedPassword(t, "correct-horse")
		customer.Blocked = true
		customers.On("GetByEmail", ctx, customer.Email).Return(customer, nil)

		_, _, err := svc.Login(ctx, customer.Email, "correct-horse")
		assertValidationError(t, err, domain.ErrKindCustomerIneligible, "email")
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, customers, tokens := newAuthService()
		customer := testCustomer()
		refresh, err := tokens.GenerateRefreshToken(customer.ID, customer.Email)
		require.NoError(t, err)
		customers.On("GetByID", ctx, customer.ID).Return(customer, nil)

		access, newRefresh, err := svc.RefreshToken(ctx, refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, newRefresh)

		claims, err := tokens.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, security.TokenTypeAccess, claims.Type)
	})

	t.Run("Access token is rejected", func(t *testing.T) {
		svc, _, tokens := newAuthService()
		access, err := tokens.GenerateAccessToken(1, "renter@test.com", "CUSTOMER")
		require.NoError(t, err)

		_, _, err = svc.RefreshToken(ctx, access)
		assert.ErrorIs(t, err, security.ErrWrongTokenType)
	})

	t.Run("Garbage token is rejected", func(t *testing.T) {
		svc, _, _ := newAuthService()
		_, _, err := svc.RefreshToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})
}
