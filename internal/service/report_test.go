package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmazurov/order_service/internal/models"
	"github.com/kmazurov/order_service/internal/repo"
)

func newReportService(db *gorm.DB) *ReportService {
	return &ReportService{
		Orders: &repo.OrderRepo{DB: db},
		Logs:   &repo.OrderLogRepo{DB: db},
	}
}

func TestReportService_Daily_Empty(t *testing.T) {
	t.Parallel()

	svc := newReportService(newTestDB(t))

	report, err := svc.GenerateDailyReport(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, report.TotalOrders)
	assert.Zero(t, report.TotalAmount)
	assert.Zero(t, report.AverageOrderValue)
	for _, status := range models.AllOrderStatuses {
		assert.Equal(t, 0, report.OrdersByStatus[status])
	}
}

func TestReportService_Daily_Fixture(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newReportService(db)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	seedOrder(t, db, models.OrderStatusCompleted, 100, day.Add(9*time.Hour))
	seedOrder(t, db, models.OrderStatusPending, 50, day.Add(12*time.Hour))
	seedOrder(t, db, models.OrderStatusCompleted, 100, day.Add(23*time.Hour+30*time.Minute))
	// outside the window
	seedOrder(t, db, models.OrderStatusCompleted, 999, day.AddDate(0, 0, 1).Add(time.Hour))

	report, err := svc.GenerateDailyReport(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", report.Date)
	assert.Equal(t, 3, report.TotalOrders)
	assert.InDelta(t, 250, report.TotalAmount, 0.001)
	assert.InDelta(t, 250.0/3, report.AverageOrderValue, 0.001)
	assert.Equal(t, map[models.OrderStatus]int{
		models.OrderStatusPending:    1,
		models.OrderStatusProcessing: 0,
		models.OrderStatusCompleted:  2,
		models.OrderStatusCancelled:  0,
	}, report.OrdersByStatus)

	// the read is followed by an audit write
	var count int64
	require.NoError(t, db.Model(&models.OrderLog{}).
		Where("order_id = ? AND action = ?", repo.SystemOrderID, "REPORT_GENERATED").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestReportService_Range_GroupsByDay(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newReportService(db)

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	seedOrder(t, db, models.OrderStatusCompleted, 10, start.Add(8*time.Hour))
	seedOrder(t, db, models.OrderStatusCompleted, 20, start.Add(10*time.Hour))
	seedOrder(t, db, models.OrderStatusPending, 5, start.AddDate(0, 0, 2).Add(time.Hour))

	report, err := svc.GenerateDateRangeReport(context.Background(), start, start.AddDate(0, 0, 2))
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", report.StartDate)
	assert.Equal(t, "2025-03-12", report.EndDate)
	assert.Equal(t, 3, report.TotalOrders)
	assert.InDelta(t, 35, report.TotalAmount, 0.001)

	require.Len(t, report.OrdersByDay, 2)
	first := report.OrdersByDay["2025-03-10"]
	assert.Equal(t, 2, first.Count)
	assert.InDelta(t, 30, first.Amount, 0.001)
	third := report.OrdersByDay["2025-03-12"]
	assert.Equal(t, 1, third.Count)
	assert.InDelta(t, 5, third.Amount, 0.001)
}

func TestReportService_Automatic_SwallowsRepoFailure(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newReportService(db)

	seedOrder(t, db, models.OrderStatusCompleted, 42, time.Now().AddDate(0, 0, -1))
	require.NotPanics(t, func() {
		svc.GenerateAutomaticDailyReport(context.Background())
	})

	// a broken store must be logged and swallowed, not crash the job
	require.NoError(t, db.Migrator().DropTable(&models.Order{}))
	require.NotPanics(t, func() {
		svc.GenerateAutomaticDailyReport(context.Background())
	})
}

func TestReportService_Range_Reversed(t *testing.T) {
	t.Parallel()

	svc := newReportService(newTestDB(t))

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	_, err := svc.GenerateDateRangeReport(context.Background(), start, start.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
