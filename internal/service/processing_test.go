package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmazurov/order_service/internal/models"
	"github.com/kmazurov/order_service/internal/repo"
)

func newProcessingService(db *gorm.DB, delay time.Duration) *ProcessingService {
	return &ProcessingService{
		Orders: &repo.OrderRepo{DB: db},
		Logs:   &repo.OrderLogRepo{DB: db},
		Delay:  delay,
	}
}

func TestProcessingService_ProcessOrder_Completes(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newProcessingService(db, 0)
	ctx := context.Background()

	order := seedOrder(t, db, models.OrderStatusPending, 42, time.Now())

	require.NoError(t, svc.ProcessOrder(ctx, order.ID))

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusCompleted, stored.Status)
	// two status writes, one version bump each
	assert.EqualValues(t, 2, stored.Version)

	var actions []string
	require.NoError(t, db.Model(&models.OrderLog{}).
		Where("order_id = ?", order.ID.String()).
		Order("id ASC").
		Pluck("action", &actions).Error)
	assert.Equal(t, []string{"PROCESSING_STARTED", "PROCESSING_COMPLETED"}, actions)
}

func TestProcessingService_ProcessOrder_NotFound(t *testing.T) {
	t.Parallel()

	svc := newProcessingService(newTestDB(t), 0)

	err := svc.ProcessOrder(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProcessingService_ProcessOrder_CancelledContextLeavesProcessing(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newProcessingService(db, 5*time.Second)

	order := seedOrder(t, db, models.OrderStatusPending, 10, time.Now())

	// deadline hits while the work step is still sleeping
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := svc.ProcessOrder(ctx, order.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// no compensation: the first transition already happened
	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)
}

func TestProcessingService_ProcessOrder_ConcurrentChangeConflicts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	order := seedOrder(t, db, models.OrderStatusPending, 10, time.Now())

	// another writer bumps the version between load and CAS
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("version", order.Version+1).Error)

	stale := *order
	err := (&repo.OrderRepo{DB: db}).UpdateStatus(ctx, &stale, models.OrderStatusProcessing)
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrStatusConflict)
}

func TestProcessingService_Cleanup_OnlyStalePending(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newProcessingService(db, 0)
	ctx := context.Background()

	stale := seedOrder(t, db, models.OrderStatusPending, 10, time.Now().Add(-2*time.Hour))
	fresh := seedOrder(t, db, models.OrderStatusPending, 10, time.Now().Add(-10*time.Minute))
	done := seedOrder(t, db, models.OrderStatusCompleted, 10, time.Now().Add(-2*time.Hour))

	require.NoError(t, svc.CleanupOldPendingOrders(ctx))

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", stale.ID).Error)
	assert.Equal(t, models.OrderStatusCompleted, stored.Status)

	stored = models.Order{}
	require.NoError(t, db.First(&stored, "id = ?", fresh.ID).Error)
	assert.Equal(t, models.OrderStatusPending, stored.Status)

	stored = models.Order{}
	require.NoError(t, db.First(&stored, "id = ?", done.ID).Error)
	assert.Equal(t, models.OrderStatusCompleted, stored.Status)
	assert.EqualValues(t, 0, stored.Version)
}
