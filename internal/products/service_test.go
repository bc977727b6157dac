package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
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
	require.NoError(t, conn.AutoMigrate(&models.Product{}, &models.CropProfile{}))
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, name string, category enums.ProductCategory, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Category:    category,
		Price:       decimal.NewFromInt(499),
		Description: "test product",
		ImageURL:    "https://images.agrisetu.app/products/x.jpg",
		Rating:      decimal.NewFromFloat(4.2),
		IsActive:    active,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestListProducts(t *testing.T) {
	conn := openTestDB(t)
	seedProduct(t, conn, "Hybrid Tomato Seeds", enums.ProductCategorySeeds, true)
	seedProduct(t, conn, "Urea 45kg", enums.ProductCategoryFertilizers, true)
	seedProduct(t, conn, "Retired Sprayer", enums.ProductCategoryTools, false)

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	all, err := svc.ListProducts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	seeds, err := svc.ListProducts(context.Background(), "Seeds")
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	require.Equal(t, "Hybrid Tomato Seeds", seeds[0].Name)

	_, err = svc.ListProducts(context.Background(), "Gadgets")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetProduct(t *testing.T) {
	conn := openTestDB(t)
	product := seedProduct(t, conn, "Hybrid Tomato Seeds", enums.ProductCategorySeeds, true)
	inactive := seedProduct(t, conn, "Retired Sprayer", enums.ProductCategoryTools, false)

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	got, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, product.Name, got.Name)
	require.True(t, got.Price.Equal(decimal.NewFromInt(499)))

	_, err = svc.GetProduct(context.Background(), inactive.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateProduct(t *testing.T) {
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	created, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:        "  Drip Irrigation Kit ",
		Category:    "Tools",
		Price:       decimal.NewFromInt(2499),
		Description: "50m kit for small plots",
		ImageURL:    "https://images.agrisetu.app/products/drip.jpg",
	})
	require.NoError(t, err)
	require.Equal(t, "Drip Irrigation Kit", created.Name)
	require.Equal(t, enums.ProductCategoryTools, created.Category)

	// the new listing is immediately visible
	got, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, got.Price.Equal(decimal.NewFromInt(2499)))

	cases := []CreateProductRequest{
		{Name: " ", Category: "Tools", Price: decimal.NewFromInt(1)},
		{Name: "x", Category: "Gadgets", Price: decimal.NewFromInt(1)},
		{Name: "x", Category: "Tools", Price: decimal.NewFromInt(-1)},
	}
	for i, req := range cases {
		_, err := svc.CreateProduct(context.Background(), req)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "case %d", i)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code(), "case %d", i)
	}
}

func TestUpdateProduct(t *testing.T) {
	conn := openTestDB(t)
	product := seedProduct(t, conn, "Urea 45kg", enums.ProductCategoryFertilizers, true)

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	price := decimal.NewFromInt(550)
	inactive := false
	updated, err := svc.UpdateProduct(context.Background(), product.ID, UpdateProductRequest{
		Price:    &price,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	require.True(t, updated.Price.Equal(price))

	// delisted products drop out of the public read path
	_, err = svc.GetProduct(context.Background(), product.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	// but the admin path can still relist them
	active := true
	_, err = svc.UpdateProduct(context.Background(), product.ID, UpdateProductRequest{IsActive: &active})
	require.NoError(t, err)
	_, err = svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)

	bad := decimal.NewFromInt(-5)
	_, err = svc.UpdateProduct(context.Background(), product.ID, UpdateProductRequest{Price: &bad})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.UpdateProduct(context.Background(), uuid.New(), UpdateProductRequest{Price: &price})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCropProfiles(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, conn.Create(&models.CropProfile{
		ID:       uuid.New(),
		Name:     "Wheat",
		Season:   enums.CropSeasonRabi,
		Duration: "120-150 days",
		Pests:    pq.StringArray{"Aphids", "Termites"},
		ImageURL: "https://images.agrisetu.app/crops/wheat.jpg",
	}).Error)

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	list, err := svc.ListCropProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, []string{"Aphids", "Termites"}, list[0].Pests)

	profile, err := svc.GetCropProfile(context.Background(), " Wheat ")
	require.NoError(t, err)
	require.Equal(t, enums.CropSeasonRabi, profile.Season)

	_, err = svc.GetCropProfile(context.Background(), "Barley")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
