package notifications_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/app/notifications"
)

func sampleOrder() models.Order {
	return models.Order{
		Items: []models.OrderItem{
			{MenuItemID: "a1", Name: "Idli", Quantity: 2, Price: 40},
			{MenuItemID: "b2", Name: "Filter Coffee", Quantity: 1, Price: 30},
		},
		Total:          110,
		CustomerName:   "Ravi Kumar",
		CustomerPhone:  "9876543210",
		DeliveryMethod: models.MethodPickup,
		Description:    "Extra chutney please",
		Status:         models.StatusPending,
		UserID:         "64f1b2c3d4e5f6a7b8c9d0e1",
		CreatedAt:      time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestOrderConfirmationMail(t *testing.T) {
	n := &notifications.OrderConfirmation{Order: sampleOrder(), DisplayID: "C9D0E1"}

	assert.Equal(t, []string{"mail"}, n.Via())

	mail := n.ToMail()
	assert.Equal(t, "Order Confirmation - Order #C9D0E1", mail.Subject)

	assert.Contains(t, mail.Body, "Order Confirmed!")
	assert.Contains(t, mail.Body, "Dear Ravi Kumar,")
	assert.Contains(t, mail.Body, "Order ID:</strong> C9D0E1")
	assert.Contains(t, mail.Body, "14 Mar 2025 09:30")
	assert.Contains(t, mail.Body, "  - Idli x 2 = Rs. 80.00")
	assert.Contains(t, mail.Body, "  - Filter Coffee x 1 = Rs. 30.00")
	assert.Contains(t, mail.Body, "Total: Rs. 110.00")
	assert.Contains(t, mail.Body, "Method:</strong> Pickup")

	assert.Contains(t, mail.Text, "Thank you for choosing idli kadai!")
	assert.Contains(t, mail.Text, "Order ID: C9D0E1")
}

func TestOrderConfirmationDeliveryMethod(t *testing.T) {
	order := sampleOrder()
	order.DeliveryMethod = models.MethodDelivery
	order.CustomerAddress = "12 Temple Street"
	order.Description = ""

	mail := (&notifications.OrderConfirmation{Order: order, DisplayID: "C9D0E1"}).ToMail()

	assert.Contains(t, mail.Body, "Method:</strong> Home Delivery")
	// With no description, the address stands in for it.
	assert.Contains(t, mail.Body, "Order Description: 12 Temple Street")
}

func TestNewOrderAlertMail(t *testing.T) {
	n := &notifications.NewOrderAlert{Order: sampleOrder(), DisplayID: "C9D0E1"}

	assert.Equal(t, []string{"mail"}, n.Via())

	mail := n.ToMail()
	assert.Equal(t, "New Order Received - Order #C9D0E1", mail.Subject)

	assert.Contains(t, mail.Body, "New Order Received!")
	assert.Contains(t, mail.Body, "PENDING", "seller sees the status uppercased")
	assert.Contains(t, mail.Body, "User ID:</strong> 64f1b2c3d4e5f6a7b8c9d0e1")
	assert.Contains(t, mail.Body, "Please process this order as soon as possible.")

	assert.Contains(t, mail.Text, "Phone: 9876543210")
	assert.Contains(t, mail.Text, "User ID: 64f1b2c3d4e5f6a7b8c9d0e1")
}
