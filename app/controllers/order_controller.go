package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/idlikadai/backend/app/services"
	"github.com/idlikadai/backend/pkg/bind"
	"github.com/idlikadai/backend/pkg/middleware"
	"github.com/idlikadai/backend/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Create handles POST /orders (any authenticated user).
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateOrderInput
	if _, err := bind.JSON(r, &in); err != nil {
		response.Detail(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := c.service.Create(r.Context(), in, middleware.UserFrom(r.Context()))
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"id":               order.ID.Hex(),
		"orderId":          order.DisplayID(),
		"items":            order.Items,
		"total":            order.Total,
		"customer_name":    order.CustomerName,
		"customer_phone":   order.CustomerPhone,
		"delivery_method":  order.DeliveryMethod,
		"description":      order.Description,
		"customer_address": order.CustomerAddress,
		"status":           order.Status,
		"created_at":       order.CreatedAt,
		"message":          "Order created successfully. Confirmation email sent.",
	})
}

// List handles GET /orders. Sellers see every order, buyers only their own.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.List(r.Context(), middleware.UserFrom(r.Context()))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, orders)
}

// UpdateStatus handles PUT /orders/{order_id}/status (seller only). The new
// status is read from the query string or, failing that, the body.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		var body struct {
			Status string `json:"status"`
		}
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		status = body.Status
	}

	updated, err := c.service.UpdateStatus(r.Context(), chi.URLParam(r, "order_id"), status)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order status updated successfully",
		"status":  updated,
	})
}
