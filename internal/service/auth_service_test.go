package service_test

import (
	"context"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository/memory"
	"alcyxob/workout-tracker/internal/service"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAuthService() service.AuthService {
	return service.NewAuthService(memory.NewStore().Users(), domain.SystemClock{}, "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService()

	trainer, err := auth.Register(ctx, service.RegisterInput{
		Name: "Coach", Email: "coach@example.com", Password: "s3cret!", Role: domain.RoleTrainer,
	})
	require.NoError(t, err)
	assert.Empty(t, trainer.PasswordHash)
	assert.False(t, trainer.ID.IsZero())

	trainee, err := auth.Register(ctx, service.RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "pw", Role: domain.RoleTrainee, TrainerID: &trainer.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, trainer.ID, *trainee.TrainerID)

	token, user, err := auth.Login(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, trainee.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, trainee.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleTrainee, claims.Role)
}

func TestRegister_Rejections(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService()
	trainee, err := auth.Register(ctx, service.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "pw", Role: domain.RoleTrainee})
	require.NoError(t, err)

	_, err = auth.Register(ctx, service.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "pw", Role: domain.RoleTrainee})
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)

	_, err = auth.Register(ctx, service.RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "pw", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = auth.Register(ctx, service.RegisterInput{Name: "Bob", Email: "", Password: "pw", Role: domain.RoleTrainee})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// The named trainer has to exist and be a trainer
	_, err = auth.Register(ctx, service.RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "pw", Role: domain.RoleTrainee, TrainerID: &trainee.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
	missing := primitive.NewObjectID()
	_, err = auth.Register(ctx, service.RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "pw", Role: domain.RoleTrainee, TrainerID: &missing})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService()
	_, err := auth.Register(ctx, service.RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "pw", Role: domain.RoleTrainee})
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	_, _, err = auth.Login(ctx, "nobody@example.com", "pw")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	_, _, err = auth.Login(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseToken_Rejects(t *testing.T) {
	auth := newAuthService()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &service.TokenClaims{
		UserID: primitive.NewObjectID().Hex(),
		Role:   domain.RoleTrainee,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.ParseToken(signed)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &service.TokenClaims{
		UserID: primitive.NewObjectID().Hex(),
		Role:   domain.RoleTrainee,
	})
	signed, err = foreign.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = auth.ParseToken(signed)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = auth.ParseToken("not-a-token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}
