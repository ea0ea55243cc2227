package transport

import (
	"github.com/google/uuid"

	"github.com/kmazurov/order_service/internal/models"
)

type OrderItemRequest struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type CreateOrderRequest struct {
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	Items         []OrderItemRequest `json:"items"`
	Notes         string             `json:"notes,omitempty"`
}

type ListMeta struct {
	TotalItems   int64 `json:"totalItems"`
	ItemCount    int   `json:"itemCount"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalPages   int64 `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
}

type OrderList struct {
	Items []models.Order `json:"items"`
	Meta  ListMeta       `json:"meta"`
}

// OrderCreatedEvent is the wire payload on the order_created topic.
type OrderCreatedEvent struct {
	ID    uuid.UUID          `json:"id"`
	Items []models.OrderItem `json:"items"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserProfile struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}

type LoginResponse struct {
	User        UserProfile `json:"user"`
	AccessToken string      `json:"access_token"`
}

type DailyReport struct {
	Date              string                     `json:"date"`
	TotalOrders       int                        `json:"totalOrders"`
	TotalAmount       float64                    `json:"totalAmount"`
	AverageOrderValue float64                    `json:"averageOrderValue"`
	OrdersByStatus    map[models.OrderStatus]int `json:"ordersByStatus"`
}

type DayBucket struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

type RangeReport struct {
	Date              string                     `json:"date"`
	StartDate         string                     `json:"startDate"`
	EndDate           string                     `json:"endDate"`
	TotalOrders       int                        `json:"totalOrders"`
	TotalAmount       float64                    `json:"totalAmount"`
	AverageOrderValue float64                    `json:"averageOrderValue"`
	OrdersByStatus    map[models.OrderStatus]int `json:"ordersByStatus"`
	OrdersByDay       map[string]DayBucket       `json:"ordersByDay"`
}
