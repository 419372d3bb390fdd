package users

import (
	"testing"

	"business-finance-backend/internal/apierror"
	"business-finance-backend/internal/models"
	"business-finance-backend/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return NewService(repository.NewUserRepository(db), []byte("test-secret"))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register(RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	token, loggedIn, err := svc.Login(LoginInput{Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Name: "Ada II", Email: "ada@example.com", Password: "other password"})
	var ve *apierror.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, _, err = svc.Login(LoginInput{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apierror.ErrUnauthorized)

	// unknown email is indistinguishable from a bad password
	_, _, err = svc.Login(LoginInput{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, apierror.ErrUnauthorized)
}
