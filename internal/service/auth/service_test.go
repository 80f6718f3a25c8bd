package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/service/auth"
	"github.com/vladislavdragonenkov/pos/internal/storage/memory"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := auth.NewService(memory.NewUserRepository())

	user, err := svc.Register("maria", "segredo", domain.RoleManager)
	require.NoError(t, err)
	require.Equal(t, domain.RoleManager, user.Role)
	require.NotEqual(t, "segredo", user.PasswordDigest, "password must not be stored in clear")

	logged, err := svc.Login("maria", "segredo")
	require.NoError(t, err)
	require.Equal(t, "maria", logged.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := auth.NewService(memory.NewUserRepository())

	_, err := svc.Register("maria", "segredo", domain.RoleClerk)
	require.NoError(t, err)

	_, err = svc.Login("maria", "errado")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Неизвестный логин даёт ту же ошибку, что и неверный пароль.
	_, err = svc.Login("ghost", "segredo")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc := auth.NewService(memory.NewUserRepository())

	_, err := svc.Register("  ", "segredo", domain.RoleClerk)
	require.ErrorIs(t, err, domain.ErrUsernameRequired)

	_, err = svc.Register("maria", "", domain.RoleClerk)
	require.ErrorIs(t, err, domain.ErrPasswordRequired)

	_, err = svc.Register("maria", "segredo", domain.Role("admin"))
	require.ErrorIs(t, err, domain.ErrRoleInvalid)

	_, err = svc.Register("maria", "segredo", domain.RoleClerk)
	require.NoError(t, err)

	_, err = svc.Register("Maria", "outro", domain.RoleClerk)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
}
