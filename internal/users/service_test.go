package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agrisetu/agrisetu-backend/pkg/db/models"
	"github.com/agrisetu/agrisetu-backend/pkg/enums"
	pkgerrors "github.com/agrisetu/agrisetu-backend/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Ravi Kumar",
		Email:        "ravi@example.com",
		PasswordHash: "hash",
		Role:         enums.UserRoleFarmer,
		IsActive:     true,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func TestGetProfile(t *testing.T) {
	conn := openTestDB(t)
	user := seedUser(t, conn)

	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)

	got, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, got.Email)
	require.Equal(t, enums.UserRoleFarmer, got.Role)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateProfile(t *testing.T) {
	conn := openTestDB(t)
	user := seedUser(t, conn)

	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)

	name := "Ravi K"
	avatar := "https://images.agrisetu.app/avatars/ravi.jpg"
	got, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Name:      &name,
		AvatarURL: &avatar,
	})
	require.NoError(t, err)
	require.Equal(t, "Ravi K", got.Name)
	require.NotNil(t, got.AvatarURL)
	require.Equal(t, avatar, *got.AvatarURL)

	empty := "   "
	_, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{Name: &empty})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCurrentUserDegradesToNil(t *testing.T) {
	conn := openTestDB(t)

	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)

	got, err := svc.CurrentUser(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCurrentUserDegradesOnDependencyFailure(t *testing.T) {
	conn := openTestDB(t)
	user := seedUser(t, conn)

	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	got, err := svc.CurrentUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}
