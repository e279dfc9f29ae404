package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/idlikadai/backend/app/controllers"
	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/app/services"
	"github.com/idlikadai/backend/pkg/auth"
	"github.com/idlikadai/backend/pkg/middleware"
	"github.com/idlikadai/backend/pkg/rbac"
	"github.com/idlikadai/backend/pkg/router"
)

// ─── In-memory stores ─────────────────────────────────────────────────────────

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*models.User{}} }

func (s *memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[username], nil
}

func (s *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUsers) FindSeller(_ context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Role == models.RoleSeller {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUsers) CountByEmail(_ context.Context, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			n++
		}
	}
	return n, nil
}

func (s *memUsers) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.Username] = user
	return nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []models.LoginHistory
}

func (s *memAudit) Insert(_ context.Context, entry *models.LoginHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *memAudit) Recent(_ context.Context, limit int64) ([]models.LoginHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LoginHistory, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

func (s *memAudit) last() models.LoginHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[len(s.entries)-1]
}

type memOrders struct {
	mu     sync.Mutex
	orders []models.Order
}

func (s *memOrders) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = primitive.NewObjectID()
	s.orders = append(s.orders, *order)
	return nil
}

func (s *memOrders) ListAll(_ context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...), nil
}

func (s *memOrders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memOrders) UpdateStatus(_ context.Context, id string, status models.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID.Hex() == id {
			s.orders[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

// ─── Test server ──────────────────────────────────────────────────────────────

type testAPI struct {
	handler http.Handler
	users   *memUsers
	audit   *memAudit
	orders  *memOrders
}

// newTestAPI wires the controllers through the real router, authentication
// and role middleware, backed by in-memory stores. A seller account is
// pre-seeded the way the bootstrap migration would.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	users := newMemUsers()
	audit := &memAudit{}
	orders := &memOrders{}

	hash, err := auth.HashPassword("sellerpass")
	require.NoError(t, err)
	users.users["meena"] = &models.User{
		ID:             primitive.NewObjectID(),
		Username:       "meena",
		Email:          "seller@koththu.com",
		HashedPassword: hash,
		Role:           models.RoleSeller,
	}

	authService := services.NewAuthService(users, audit)
	orderService := services.NewOrderService(orders)

	authController := controllers.NewAuthController(authService)
	orderController := controllers.NewOrderController(orderService)

	authenticate := middleware.Authenticate(func(ctx context.Context, username string) (*models.User, error) {
		return users.FindByUsername(ctx, username)
	})
	sellerOnly := []router.Middleware{authenticate, rbac.HasRole(models.RoleSeller)}

	r := router.New()
	r.Use(middleware.ClientIP)

	r.Post("/register", "auth.register", authController.Register)
	r.Post("/token", "auth.login", authController.Login)
	r.Get("/me", "auth.me", authController.Me, authenticate)
	r.Get("/login-history", "auth.history", authController.LoginHistory, sellerOnly...)
	r.Post("/orders", "orders.create", orderController.Create, authenticate)
	r.Get("/orders", "orders.list", orderController.List, authenticate)
	r.Put("/orders/{order_id}/status", "orders.status", orderController.UpdateStatus, sellerOnly...)

	return &testAPI{handler: r.Handler(), users: users, audit: audit, orders: orders}
}

func (api *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	return rec
}

func asJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (api *testAPI) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := api.do(t, http.MethodPost, "/token", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := asJSON(t, rec)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func orderPayload() map[string]interface{} {
	return map[string]interface{}{
		"items": []map[string]interface{}{
			{"menu_item_id": "m1", "name": "Idli", "quantity": 2, "price": 40},
		},
		"total":          80,
		"customer_name":  "Ravi Kumar",
		"customer_phone": "9876543210",
		"description":    "Less spicy please",
	}
}

// ─── Scenario ─────────────────────────────────────────────────────────────────

func TestOrderLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	// Buyer signs up.
	rec := api.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "ravi", "email": "ravi@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := asJSON(t, rec)
	assert.Equal(t, "ravi", body["username"])
	assert.Equal(t, "buyer", body["role"])
	assert.NotEmpty(t, body["id"])
	assert.NotContains(t, rec.Body.String(), "hashed_password")

	// A wrong password is rejected with an opaque detail; the precise
	// reason lands only in the audit trail.
	rec = api.do(t, http.MethodPost, "/token", "", map[string]string{
		"username": "ravi", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect username or password", asJSON(t, rec)["detail"])
	failed := api.audit.last()
	assert.False(t, failed.Success)
	require.NotNil(t, failed.Error)
	assert.Equal(t, "Incorrect password", *failed.Error)

	buyerToken := api.login(t, "ravi", "secret1")

	// The buyer places an order.
	rec = api.do(t, http.MethodPost, "/orders", buyerToken, orderPayload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = asJSON(t, rec)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "pickup", body["delivery_method"], "pickup is the default method")
	assert.Len(t, body["orderId"], 6)
	assert.Equal(t, "Order created successfully. Confirmation email sent.", body["message"])
	orderID, _ := body["id"].(string)
	require.NotEmpty(t, orderID)

	// Buyers cannot move an order through the lifecycle.
	rec = api.do(t, http.MethodPut, "/orders/"+orderID+"/status?status=preparing", buyerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not enough permissions. Seller access required.", asJSON(t, rec)["detail"])

	// The seller can.
	sellerToken := api.login(t, "meena", "sellerpass")
	rec = api.do(t, http.MethodPut, "/orders/"+orderID+"/status?status=preparing", sellerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = asJSON(t, rec)
	assert.Equal(t, "Order status updated successfully", body["message"])
	assert.Equal(t, "preparing", body["status"])
}

func TestOrderListingIsScopedByRole(t *testing.T) {
	api := newTestAPI(t)

	for _, u := range []string{"ravi", "kumar"} {
		rec := api.do(t, http.MethodPost, "/register", "", map[string]string{
			"username": u, "email": u + "@example.com", "password": "secret1",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		token := api.login(t, u, "secret1")
		rec = api.do(t, http.MethodPost, "/orders", token, orderPayload())
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	var mine []models.Order
	rec := api.do(t, http.MethodGet, "/orders", api.login(t, "ravi", "secret1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 1, "buyers see only their own orders")

	var all []models.Order
	rec = api.do(t, http.MethodGet, "/orders", api.login(t, "meena", "sellerpass"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2, "sellers see every order")
}

func TestPublicSignupCannotCreateSellers(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "sneaky", "email": "sneaky@example.com",
		"password": "secret1", "role": "seller",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Seller registration is not allowed via public signup", asJSON(t, rec)["detail"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token provided", asJSON(t, rec)["detail"])

	rec = api.do(t, http.MethodGet, "/login-history", api.login(t, "meena", "sellerpass"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/orders", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", asJSON(t, rec)["detail"])
}

func TestOrderValidationOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "ravi", "email": "ravi@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := api.login(t, "ravi", "secret1")

	rec = api.do(t, http.MethodPost, "/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{}, "total": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := asJSON(t, rec)
	assert.Equal(t, "Validation failed", body["detail"])
	errs, _ := body["errors"].([]interface{})
	assert.Contains(t, errs, "Items array is required and must not be empty")
	assert.Contains(t, errs, "Total must be a positive number")
}
