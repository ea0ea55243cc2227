package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmazurov/order_service/internal/models"
	"github.com/kmazurov/order_service/internal/repo"
	"github.com/kmazurov/order_service/internal/transport"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.User{},
		&models.OrderLog{},
	))
	return db
}

type publishedEvent struct {
	Topic string
	Key   string
	Event interface{}
}

type stubPublisher struct {
	events []publishedEvent
	err    error
}

func (p *stubPublisher) PublishEvent(ctx context.Context, topic, key string, event interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func newOrderService(t *testing.T, db *gorm.DB) (*OrderService, *stubPublisher) {
	t.Helper()

	pub := &stubPublisher{}
	svc := &OrderService{
		Orders:   &repo.OrderRepo{DB: db},
		Logs:     &repo.OrderLogRepo{DB: db},
		Producer: pub,
		Topic:    "order_created",
	}
	return svc, pub
}

func validCreateRequest() transport.CreateOrderRequest {
	return transport.CreateOrderRequest{
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		Items: []transport.OrderItemRequest{
			{Name: "Widget", Quantity: 2, Price: 29.99},
			{Name: "Gadget", Quantity: 1, Price: 5.50},
		},
		Notes: "leave at the door",
	}
}

func seedOrder(t *testing.T, db *gorm.DB, status models.OrderStatus, total float64, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		CustomerName:  "Seed Customer",
		CustomerEmail: "seed@example.com",
		TotalAmount:   total,
		Status:        status,
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}
