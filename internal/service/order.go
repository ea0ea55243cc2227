package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/mail"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmazurov/order_service/internal/logging"
	"github.com/kmazurov/order_service/internal/models"
	"github.com/kmazurov/order_service/internal/repo"
	"github.com/kmazurov/order_service/internal/transport"
	"github.com/kmazurov/order_service/internal/util"
)

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrNotFound           = errors.New("not found")           // 404
	ErrConflict           = errors.New("conflict")            // 409
	ErrInvalidCredentials = errors.New("invalid credentials") // 401
)

// EventPublisher is the fire-and-forget side of the event channel.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

// OrderIndexer mirrors created orders into the search index, best effort.
type OrderIndexer interface {
	IndexOrder(ctx context.Context, order *models.Order) error
}

type OrderService struct {
	Orders   *repo.OrderRepo
	Logs     *repo.OrderLogRepo
	Producer EventPublisher
	Indexer  OrderIndexer
	Topic    string
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (svc *OrderService) Create(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create")

	if req.CustomerName == "" {
		return nil, fmt.Errorf("%w: customerName required", ErrValidation)
	}
	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		return nil, fmt.Errorf("%w: customerEmail invalid", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for i := range req.Items {
		if req.Items[i].Name == "" {
			return nil, fmt.Errorf("%w: item name required", ErrValidation)
		}
		if req.Items[i].Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
		}
		if req.Items[i].Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}

		items = append(items, models.OrderItem{
			Name:     req.Items[i].Name,
			Quantity: req.Items[i].Quantity,
			Price:    req.Items[i].Price,
		})
		total += req.Items[i].Price * float64(req.Items[i].Quantity)
	}

	order := &models.Order{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Items:         items,
		TotalAmount:   roundCents(total),
		Status:        models.OrderStatusPending,
		Notes:         req.Notes,
	}

	saved, err := svc.Orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	svc.Logs.CreateLog(ctx, saved.ID.String(), "CREATE", saved, "success", "")

	// Best-effort notification: a lost event is re-driven by the hourly
	// pending sweep, so the 201 stands either way.
	event := transport.OrderCreatedEvent{ID: saved.ID, Items: saved.Items}
	if err := svc.Producer.PublishEvent(ctx, svc.Topic, saved.ID.String(), event); err != nil {
		l.Warn("publish_failed", "order_id", saved.ID, "error", err)
	}

	if svc.Indexer != nil {
		if err := svc.Indexer.IndexOrder(ctx, saved); err != nil {
			l.Warn("index_failed", "order_id", saved.ID, "error", err)
		}
	}

	l.Info("order_created", "order_id", saved.ID, "total", saved.TotalAmount)
	return saved, nil
}

func (svc *OrderService) FindOne(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := svc.Orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

func (svc *OrderService) FindAll(ctx context.Context, page, limit int) (*transport.OrderList, error) {
	offset, size := util.Calculate(page, limit)
	if page < 1 {
		page = 1
	}

	orders, total, err := svc.Orders.List(ctx, offset, size)
	if err != nil {
		return nil, err
	}

	return &transport.OrderList{
		Items: orders,
		Meta: transport.ListMeta{
			TotalItems:   total,
			ItemCount:    len(orders),
			ItemsPerPage: size,
			TotalPages:   util.TotalPages(total, size),
			CurrentPage:  page,
		},
	}, nil
}

// Cancel turns a still-pending order into cancelled; any further state is a
// conflict, since processing may already have picked it up.
func (svc *OrderService) Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := svc.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %s is %s", ErrConflict, id, order.Status)
	}

	if err := svc.Orders.UpdateStatus(ctx, order, models.OrderStatusCancelled); err != nil {
		if errors.Is(err, repo.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: order %s changed concurrently", ErrConflict, id)
		}
		return nil, err
	}

	svc.Logs.CreateLog(ctx, order.ID.String(), "CANCELLED", order, "success", "")
	return order, nil
}
