package service

import (
	"context"
	"fitacademy_backend/internal/model"
	"fitacademy_backend/internal/repository"
	"fitacademy_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	svc := NewAuthService(repository.NewUserRepository(db), cfg)

	user := &model.User{Name: "Kim", Email: "kim@example.com", Password: "supersecret", Package: model.PackageAcademy}
	require.NoError(t, svc.Register(user))

	// password is stored hashed
	var stored model.User
	require.NoError(t, db.Where("email = ?", "kim@example.com").First(&stored).Error)
	assert.NotEqual(t, "supersecret", stored.Password)

	token, err := svc.Login("kim@example.com", "supersecret")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, model.PackageAcademy, claims.Package)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testConfig())

	first := &model.User{Name: "Kim", Email: "kim@example.com", Password: "supersecret"}
	require.NoError(t, svc.Register(first))

	dup := &model.User{Name: "Other", Email: "kim@example.com", Password: "different"}
	assert.ErrorIs(t, svc.Register(dup), util.ErrEmailRegistered)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.JWT.Secret = "test-secret"
	svc := NewAuthService(repository.NewUserRepository(db), cfg)

	user := &model.User{Name: "Kim", Email: "kim@example.com", Password: "supersecret"}
	require.NoError(t, svc.Register(user))

	_, err := svc.Login("kim@example.com", "wrong")
	assert.Error(t, err)
	_, err = svc.Login("nobody@example.com", "supersecret")
	assert.Error(t, err)
}

func TestEntitlementFlagsForPackage(t *testing.T) {
	cases := []struct {
		pkg       model.MemberPackage
		training  bool
		nutrition bool
	}{
		{model.PackageAcademy, false, false},
		{model.PackageTraining, true, false},
		{model.PackageNutrition, false, true},
		{model.PackageAllAccess, true, true},
	}
	for _, c := range cases {
		flags := FlagsForPackage(c.pkg)
		assert.Equal(t, c.training, flags.HasTrainingAccess, string(c.pkg))
		assert.Equal(t, c.nutrition, flags.HasNutritionAccess, string(c.pkg))
	}
}

func TestEntitlementResolveWithoutCache(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(repository.NewUserRepository(db), nil)

	user := &model.User{Name: "Pat", Email: "pat@example.com", Password: "x", Package: model.PackageNutrition}
	require.NoError(t, db.Create(user).Error)

	flags, err := svc.Resolve(context.Background(), user.ID, "")
	require.NoError(t, err)
	assert.False(t, flags.HasTrainingAccess)
	assert.True(t, flags.HasNutritionAccess)

	_, err = svc.Resolve(context.Background(), 9999, "")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	// a missing user is an error even with a token package in hand
	_, err = svc.Resolve(context.Background(), 9999, model.PackageAllAccess)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestEntitlementFallsBackToTokenPackage(t *testing.T) {
	db := newTestDB(t)
	svc := NewEntitlementService(repository.NewUserRepository(db), nil)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	flags, err := svc.Resolve(context.Background(), 1, model.PackageTraining)
	require.NoError(t, err)
	assert.True(t, flags.HasTrainingAccess)
	assert.False(t, flags.HasNutritionAccess)

	_, err = svc.Resolve(context.Background(), 1, "")
	assert.Error(t, err)
}
