package models

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agrisetu/agrisetu-backend/pkg/enums"
)

// The schema tags must migrate cleanly on sqlite, which is what every
// package-level test suite runs against.
func TestAutoMigrateAllModelsOnSqlite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&User{},
		&Product{},
		&CartItem{},
		&Order{},
		&OrderLine{},
		&SoilTest{},
		&FieldScan{},
		&PlantingPlan{},
		&CropProfile{},
		&OutboxEvent{},
	))

	// ids come from the BeforeCreate hooks, not a database default
	user := User{
		Name:         "Meera Patel",
		Email:        "meera@example.com",
		PasswordHash: "hash",
		Role:         enums.UserRoleFarmer,
		IsActive:     true,
	}
	require.NoError(t, conn.Create(&user).Error)
	require.NotEqual(t, uuid.Nil, user.ID)
}
