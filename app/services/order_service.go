package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/pkg/apperr"
	"github.com/idlikadai/backend/pkg/event"
	"github.com/idlikadai/backend/pkg/metrics"
)

// OrderStore is the order persistence the engine needs.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	ListAll(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (bool, error)
}

// OrderCreated is the payload fired on the "order.created" event once an
// order is durably committed. Listeners hand it to the notification queue;
// nothing on this path can fail the order.
type OrderCreated struct {
	Order      models.Order
	DisplayID  string
	BuyerEmail string
}

// OrderService implements the order engine: validation, creation, scoped
// listing and the status state machine.
type OrderService struct {
	orders OrderStore
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

// OrderItemInput is one line of an order request.
type OrderItemInput struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// CreateOrderInput is the order placement payload.
type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items"`
	Total           float64          `json:"total"`
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone"`
	CustomerEmail   string           `json:"customer_email"`
	DeliveryMethod  string           `json:"delivery_method"`
	Description     string           `json:"description"`
	CustomerAddress string           `json:"customer_address"`
}

// ValidateOrder collects every violation, not just the first.
func ValidateOrder(in CreateOrderInput) []string {
	var errs []string

	if len(in.Items) == 0 {
		errs = append(errs, "Items array is required and must not be empty")
	} else {
		for i, item := range in.Items {
			n := i + 1
			if item.MenuItemID == "" {
				errs = append(errs, fmt.Sprintf("Item %d: menu_item_id is required", n))
			}
			if item.Name == "" {
				errs = append(errs, fmt.Sprintf("Item %d: name is required", n))
			}
			if item.Quantity < 1 {
				errs = append(errs, fmt.Sprintf("Item %d: quantity must be at least 1", n))
			}
			if item.Price < 0 {
				errs = append(errs, fmt.Sprintf("Item %d: price must be a positive number", n))
			}
		}
	}

	if in.Total <= 0 {
		errs = append(errs, "Total must be a positive number")
	}

	method := models.DeliveryMethod(strings.ToLower(in.DeliveryMethod))
	if in.DeliveryMethod != "" && !method.Valid() {
		errs = append(errs, `Delivery method must be either "pickup" or "delivery"`)
	}

	if len(strings.TrimSpace(in.CustomerName)) < 2 {
		errs = append(errs, "Customer name is required and must be at least 2 characters")
	}
	if len(strings.TrimSpace(in.CustomerPhone)) < 10 {
		errs = append(errs, "Customer phone is required and must be at least 10 characters")
	}
	if len(strings.TrimSpace(in.Description)) < 5 {
		errs = append(errs, "Order description is required and must be at least 5 characters")
	}
	if method == models.MethodDelivery && strings.TrimSpace(in.CustomerAddress) == "" {
		errs = append(errs, "Customer address is required for delivery orders")
	}

	return errs
}

// Create validates and persists an order for the requester, then fires the
// order.created event. The order is committed before any notification is
// attempted; notification failures never surface here.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput, requester *models.User) (*models.Order, error) {
	if errs := ValidateOrder(in); len(errs) > 0 {
		return nil, apperr.Invalid(errs...)
	}

	method := models.DeliveryMethod(strings.ToLower(in.DeliveryMethod))
	if in.DeliveryMethod == "" {
		method = models.MethodPickup
	}

	items := make([]models.OrderItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = models.OrderItem{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Price:      it.Price,
		}
	}

	order := &models.Order{
		Items:           items,
		Total:           in.Total,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		DeliveryMethod:  method,
		Description:     in.Description,
		CustomerAddress: in.CustomerAddress,
		Status:          models.StatusPending,
		UserID:          requester.ID.Hex(),
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create order", err)
	}

	metrics.OrdersCreated.Inc()

	buyerEmail := in.CustomerEmail
	if buyerEmail == "" {
		buyerEmail = requester.Email
	}
	event.Fire("order.created", OrderCreated{
		Order:      *order,
		DisplayID:  order.DisplayID(),
		BuyerEmail: buyerEmail,
	})

	return order, nil
}

// List returns all orders for sellers, own orders for buyers, newest first.
func (s *OrderService) List(ctx context.Context, requester *models.User) ([]models.Order, error) {
	var (
		orders []models.Order
		err    error
	)
	if requester.Role == models.RoleSeller {
		orders, err = s.orders.ListAll(ctx)
	} else {
		orders, err = s.orders.ListByUser(ctx, requester.ID.Hex())
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch orders", err)
	}
	return orders, nil
}

// UpdateStatus overwrites the order status. Any status may follow any other;
// only membership in the fixed set is enforced.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (models.OrderStatus, error) {
	next := models.OrderStatus(status)
	if !next.Valid() {
		return "", apperr.New(apperr.Validation,
			fmt.Sprintf("Invalid status. Must be one of: %s", models.StatusNames()))
	}

	found, err := s.orders.UpdateStatus(ctx, id, next)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "Failed to update order status", err)
	}
	if !found {
		return "", apperr.New(apperr.NotFound, "Order not found")
	}

	metrics.OrderStatusUpdates.WithLabelValues(string(next)).Inc()
	return next, nil
}
