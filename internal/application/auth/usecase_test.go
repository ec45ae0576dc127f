package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

const secret = "auth-test-secret"

func newAuth() *auth.AuthUseCase {
	repo := memory.NewUserRepository(memory.New())
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "test"}).
		WithHashCost(bcrypt.MinCost)
}

func TestRegisterAndLogin(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: " Ana@Example.com ", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, entity.RoleOperator, user.Role)
	assert.Equal(t, "ana@example.com", user.Name, "sin nombre se usa el email")

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@example.com", Password: "otraclave"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	login, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "12345678"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse(secret, login.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, entity.RoleOperator, role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegister_Validaciones(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "sin-arroba", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSeedAdmin_SoloUnaVez(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	admin, err := uc.SeedAdmin(ctx, dto.SeedAdminRequest{Name: "Admin", Email: "admin@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)

	_, err = uc.SeedAdmin(ctx, dto.SeedAdminRequest{Email: "otro@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
