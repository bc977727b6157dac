package fieldscans

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
	"github.com/agrisetu/agrisetu-backend/pkg/gemini"
)

type stubVisionClient struct {
	text string
	err  error
}

func (s *stubVisionClient) Complete(context.Context, string) (string, error) {
	return s.text, s.err
}

func (s *stubVisionClient) CompleteVision(context.Context, string, []byte, string) (string, error) {
	return s.text, s.err
}

func (s *stubVisionClient) CompleteGrounded(context.Context, string) (*gemini.GroundedCompletion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &gemini.GroundedCompletion{Text: s.text}, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.FieldScan{}))
	return conn
}

func TestScanGradesRisk(t *testing.T) {
	conn := openTestDB(t)
	stub := &stubVisionClient{text: "# Tomato\nEarly blight detected. Risk Score: High\n- Remove affected leaves"}

	svc, err := NewService(NewRepository(conn), stub, nil)
	require.NoError(t, err)

	got, err := svc.Scan(context.Background(), uuid.New(), ScanRequest{
		ImageURL: "https://images.agrisetu.app/scans/1.jpg",
		Image:    []byte{0xff, 0xd8},
		MimeType: "image/jpeg",
	})
	require.NoError(t, err)
	require.Equal(t, enums.RiskLevelHigh, got.RiskLevel)
	require.NotEmpty(t, got.Report.Sections)
}

func TestScanFallsBackToMediumRisk(t *testing.T) {
	conn := openTestDB(t)
	stub := &stubVisionClient{text: "Healthy plant, keep watering on schedule."}

	svc, err := NewService(NewRepository(conn), stub, nil)
	require.NoError(t, err)

	got, err := svc.Scan(context.Background(), uuid.New(), ScanRequest{
		ImageURL: "https://images.agrisetu.app/scans/2.jpg",
		Image:    []byte{0xff, 0xd8},
	})
	require.NoError(t, err)
	require.Equal(t, enums.RiskLevelMedium, got.RiskLevel)
}

func TestScanValidationAndFailure(t *testing.T) {
	conn := openTestDB(t)
	stub := &stubVisionClient{err: pkgerrors.New(pkgerrors.CodeProviderRejected, "rejected")}

	svc, err := NewService(NewRepository(conn), stub, nil)
	require.NoError(t, err)

	_, err = svc.Scan(context.Background(), uuid.New(), ScanRequest{Image: []byte{1}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Scan(context.Background(), uuid.New(), ScanRequest{ImageURL: "https://x/1.jpg"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// provider failure stores nothing
	_, err = svc.Scan(context.Background(), uuid.New(), ScanRequest{
		ImageURL: "https://x/1.jpg",
		Image:    []byte{1},
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeProviderRejected, typed.Code())

	var count int64
	require.NoError(t, conn.Model(&models.FieldScan{}).Count(&count).Error)
	require.Zero(t, count)

	history, err := svc.History(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Empty(t, history)
}
