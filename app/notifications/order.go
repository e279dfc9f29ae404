// Package notifications defines the emails this application sends.
package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/pkg/collection"
	"github.com/idlikadai/backend/pkg/notification"
)

// orderView is the data both order templates render.
type orderView struct {
	OrderID      string
	CustomerName string
	Phone        string
	Description  string
	Date         string
	Status       string
	StatusUpper  string
	Method       string
	Items        string
	Total        string
	UserID       string
}

func viewOf(order models.Order, displayID string) orderView {
	lines := collection.Map(order.Items, func(it models.OrderItem) string {
		return fmt.Sprintf("  - %s x %d = Rs. %.2f", it.Name, it.Quantity, it.Price*float64(it.Quantity))
	})

	method := "Pickup"
	if order.DeliveryMethod == models.MethodDelivery {
		method = "Home Delivery"
	}

	description := order.Description
	if description == "" {
		description = order.CustomerAddress
	}

	return orderView{
		OrderID:      displayID,
		CustomerName: order.CustomerName,
		Phone:        order.CustomerPhone,
		Description:  description,
		Date:         order.CreatedAt.Format("02 Jan 2006 15:04"),
		Status:       string(order.Status),
		StatusUpper:  strings.ToUpper(string(order.Status)),
		Method:       method,
		Items:        strings.Join(lines, "\n"),
		Total:        fmt.Sprintf("%.2f", order.Total),
		UserID:       order.UserID,
	}
}

var buyerHTML = template.Must(template.New("buyer").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4CAF50;">Order Confirmed!</h2>
  <p>Dear {{.CustomerName}},</p>
  <p>Thank you for your order! We have received your order and it's being prepared.</p>

  <div style="background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px;">
    <h3>Order Details</h3>
    <p><strong>Order ID:</strong> {{.OrderID}}</p>
    <p><strong>Order Date:</strong> {{.Date}}</p>
    <p><strong>Status:</strong> {{.Status}}</p>
    <p><strong>Method:</strong> {{.Method}}</p>

    <h4>Items Ordered:</h4>
    <pre style="background-color: white; padding: 10px; border-radius: 3px;">{{.Items}}</pre>

    <p style="font-size: 18px; font-weight: bold; color: #4CAF50;">Total: Rs. {{.Total}}</p>
  </div>

  <p><strong>Order &amp; Delivery Information:</strong></p>
  <p>Name: {{.CustomerName}}</p>
  <p>Phone: {{.Phone}}</p>
  <p>Order Description: {{.Description}}</p>

  <p>We'll notify you once your order is ready for pickup/delivery.</p>
  <p>Thank you for choosing idli kadai!</p>
</div>
`))

var sellerHTML = template.Must(template.New("seller").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #ff9800;">New Order Received!</h2>
  <p>You have received a new order that needs to be processed.</p>

  <div style="background-color: #fff3cd; padding: 15px; margin: 20px 0; border-radius: 5px; border-left: 4px solid #ff9800;">
    <h3>Order Details</h3>
    <p><strong>Order ID:</strong> {{.OrderID}}</p>
    <p><strong>Order Date:</strong> {{.Date}}</p>
    <p><strong>Status:</strong> <span style="color: #ff9800; font-weight: bold;">{{.StatusUpper}}</span></p>

    <h4>Items Ordered:</h4>
    <pre style="background-color: white; padding: 10px; border-radius: 3px;">{{.Items}}</pre>

    <p style="font-size: 18px; font-weight: bold; color: #ff9800;">Total: Rs. {{.Total}}</p>
  </div>

  <div style="background-color: #e3f2fd; padding: 15px; margin: 20px 0; border-radius: 5px;">
    <h3>Order &amp; Customer Information</h3>
    <p><strong>Name:</strong> {{.CustomerName}}</p>
    <p><strong>Phone:</strong> {{.Phone}}</p>
    <p><strong>Order Description:</strong> {{.Description}}</p>
    <p><strong>User ID:</strong> {{.UserID}}</p>
  </div>

  <p style="color: #f44336; font-weight: bold;">Please process this order as soon as possible.</p>
  <p>Login to your seller dashboard to update the order status.</p>
</div>
`))

// OrderConfirmation is the email sent to the buyer after an order is placed.
type OrderConfirmation struct {
	Order     models.Order
	DisplayID string
}

func (n *OrderConfirmation) Via() []string { return []string{"mail"} }

func (n *OrderConfirmation) ToMail() notification.MailData {
	view := viewOf(n.Order, n.DisplayID)

	var body bytes.Buffer
	if err := buyerHTML.Execute(&body, view); err != nil {
		// Template is static; an execute failure means a broken view struct.
		panic(err)
	}

	return notification.MailData{
		Subject: fmt.Sprintf("Order Confirmation - Order #%s", n.DisplayID),
		Body:    body.String(),
		Text: fmt.Sprintf(
			"Order Confirmed!\n\nDear %s,\n\nThank you for your order! We have received your order and it's being prepared.\n\nOrder Details:\nOrder ID: %s\nOrder Date: %s\nStatus: %s\nMethod: %s\n\nItems Ordered:\n%s\n\nTotal: Rs. %s\n\nOrder & Delivery Information:\nName: %s\nPhone: %s\nOrder Description: %s\n\nWe'll notify you once your order is ready.\nThank you for choosing idli kadai!",
			view.CustomerName, view.OrderID, view.Date, view.Status, view.Method,
			view.Items, view.Total, view.CustomerName, view.Phone, view.Description,
		),
	}
}

// NewOrderAlert is the email sent to the seller when a new order arrives.
type NewOrderAlert struct {
	Order     models.Order
	DisplayID string
}

func (n *NewOrderAlert) Via() []string { return []string{"mail"} }

func (n *NewOrderAlert) ToMail() notification.MailData {
	view := viewOf(n.Order, n.DisplayID)

	var body bytes.Buffer
	if err := sellerHTML.Execute(&body, view); err != nil {
		panic(err)
	}

	return notification.MailData{
		Subject: fmt.Sprintf("New Order Received - Order #%s", n.DisplayID),
		Body:    body.String(),
		Text: fmt.Sprintf(
			"New Order Received!\n\nYou have received a new order that needs to be processed.\n\nOrder Details:\nOrder ID: %s\nOrder Date: %s\nStatus: %s\n\nItems Ordered:\n%s\n\nTotal: Rs. %s\n\nCustomer & Order Information:\nName: %s\nPhone: %s\nOrder Description: %s\nUser ID: %s\n\nPlease process this order as soon as possible.\nLogin to your seller dashboard to update the order status.",
			view.OrderID, view.Date, view.Status, view.Items, view.Total,
			view.CustomerName, view.Phone, view.Description, view.UserID,
		),
	}
}
