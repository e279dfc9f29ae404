package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/idlikadai/backend/pkg/collection"
)

// OrderStatus is the order lifecycle state. Any status may follow any other;
// membership in this set is the only rule enforced.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status, in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled}
}

// Valid reports whether s is a member of the fixed status set.
func (s OrderStatus) Valid() bool {
	return collection.Contains(OrderStatuses(), func(v OrderStatus) bool { return v == s })
}

// StatusNames returns the valid statuses joined for error messages.
func StatusNames() string {
	names := collection.Map(OrderStatuses(), func(s OrderStatus) string { return string(s) })
	return strings.Join(names, ", ")
}

// DeliveryMethod is how the customer receives the order.
type DeliveryMethod string

const (
	MethodPickup   DeliveryMethod = "pickup"
	MethodDelivery DeliveryMethod = "delivery"
)

// Valid reports whether m is pickup or delivery.
func (m DeliveryMethod) Valid() bool {
	return m == MethodPickup || m == MethodDelivery
}

// OrderItem is a denormalized copy of a menu item at order time, so menu
// deletions never affect past orders.
type OrderItem struct {
	MenuItemID string  `bson:"menu_item_id" json:"menu_item_id"`
	Name       string  `bson:"name" json:"name"`
	Quantity   int     `bson:"quantity" json:"quantity"`
	Price      float64 `bson:"price" json:"price"`
}

// Order is a placed order, owned by the buyer who created it.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Total           float64            `bson:"total" json:"total"`
	CustomerName    string             `bson:"customer_name" json:"customer_name"`
	CustomerPhone   string             `bson:"customer_phone" json:"customer_phone"`
	DeliveryMethod  DeliveryMethod     `bson:"delivery_method" json:"delivery_method"`
	Description     string             `bson:"description" json:"description"`
	CustomerAddress string             `bson:"customer_address,omitempty" json:"customer_address,omitempty"`
	Status          OrderStatus        `bson:"status" json:"status"`
	UserID          string             `bson:"user_id" json:"-"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// DisplayID derives the human-facing order reference: the last 6 characters
// of the storage id, uppercased. Cosmetic only, never stored.
func (o *Order) DisplayID() string {
	hex := o.ID.Hex()
	if len(hex) < 6 {
		return strings.ToUpper(hex)
	}
	return strings.ToUpper(hex[len(hex)-6:])
}
