package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// AllOrderStatuses is the fixed set reports bucket by, zero counts included.
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

type Order struct {
	ID            uuid.UUID   `gorm:"primaryKey"                      json:"id"`
	CustomerName  string      `gorm:"not null"                        json:"customerName"`
	CustomerEmail string      `gorm:"not null"                        json:"customerEmail"`
	Items         []OrderItem `gorm:"constraint:OnDelete:CASCADE"     json:"items"`
	TotalAmount   float64     `gorm:"not null"                        json:"totalAmount"`
	Status        OrderStatus `gorm:"not null;default:pending;index"  json:"status"`
	Notes         string      `json:"notes,omitempty"`
	Version       int64       `gorm:"not null;default:0"              json:"-"`
	CreatedAt     time.Time   `gorm:"index"                           json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"   json:"-"`
	OrderID  uuid.UUID `gorm:"index;not null"             json:"-"`
	Name     string    `gorm:"not null"                   json:"name"`
	Quantity int       `gorm:"not null;check:quantity>0"  json:"quantity"`
	Price    float64   `gorm:"not null"                   json:"price"`
}

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"             json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"   json:"email"`
	Name         string    `gorm:"not null"               json:"name"`
	PasswordHash string    `gorm:"not null"               json:"-"`
	Role         string    `gorm:"not null;default:user"  json:"role"`
	IsActive     bool      `gorm:"not null;default:true"  json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// OrderLog is the best-effort audit trail; OrderID holds "system" for
// entries not tied to a single order.
type OrderLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      string    `gorm:"index;not null"           json:"orderId"`
	Action       string    `gorm:"not null"                 json:"action"`
	Data         string    `json:"data,omitempty"`
	Status       string    `gorm:"not null"                 json:"status"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
