package repo

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/kmazurov/order_service/internal/logging"
	"github.com/kmazurov/order_service/internal/models"
)

// SystemOrderID marks audit entries that belong to no single order.
const SystemOrderID = "system"

type OrderLogRepo struct {
	DB *gorm.DB
}

// CreateLog is a best-effort side channel: marshal/insert failures are
// logged and never surfaced to the caller.
func (r *OrderLogRepo) CreateLog(ctx context.Context, orderID, action string, data any, status, errorMessage string) {
	l := logging.FromContext(ctx).With("repo", "orderlog", "action", action, "order_id", orderID)

	payload, err := json.Marshal(data)
	if err != nil {
		l.Warn("audit_marshal_failed", "error", err)
		payload = nil
	}

	entry := models.OrderLog{
		OrderID:      orderID,
		Action:       action,
		Data:         string(payload),
		Status:       status,
		ErrorMessage: errorMessage,
	}
	if err := r.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		l.Warn("audit_write_failed", "error", err)
	}
}
