// Package routes wires every HTTP endpoint to its handler.
package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/idlikadai/backend/app/controllers"
	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/app/repositories"
	"github.com/idlikadai/backend/app/services"
	"github.com/idlikadai/backend/pkg/metrics"
	"github.com/idlikadai/backend/pkg/middleware"
	"github.com/idlikadai/backend/pkg/rbac"
	"github.com/idlikadai/backend/pkg/response"
	"github.com/idlikadai/backend/pkg/router"
	"github.com/idlikadai/backend/pkg/storage"
)

// RegisterAPI mounts every route. The router arrives with the global
// middleware chain already applied.
func RegisterAPI(r *router.Router) {
	users := repositories.NewUserRepository()
	menu := repositories.NewMenuRepository()
	orders := repositories.NewOrderRepository()
	history := repositories.NewLoginHistoryRepository()

	authService := services.NewAuthService(users, history)
	menuService := services.NewMenuService(menu)
	orderService := services.NewOrderService(orders)

	authController := controllers.NewAuthController(authService)
	menuController := controllers.NewMenuController(menuService)
	orderController := controllers.NewOrderController(orderService)
	emailController := controllers.NewEmailController()
	healthController := controllers.NewHealthController()

	authenticate := middleware.Authenticate(func(ctx context.Context, username string) (*models.User, error) {
		return users.FindByUsername(ctx, username)
	})
	sellerOnly := []router.Middleware{authenticate, rbac.HasRole(models.RoleSeller)}

	// Credential endpoints are rate limited per IP.
	loginLimit := middleware.RateLimit(20, time.Minute)

	r.Get("/", "root", healthController.Root)
	r.Get("/health", "health", healthController.Health)

	// Auth
	r.Post("/register", "auth.register", authController.Register, loginLimit)
	r.Post("/token", "auth.login", authController.Login, loginLimit)
	r.Get("/me", "auth.me", authController.Me, authenticate)
	r.Get("/login-history", "auth.history", authController.LoginHistory, sellerOnly...)
	r.Post("/sellers", "auth.sellers.create", authController.CreateSeller, sellerOnly...)
	// Aliases kept for older frontend builds.
	r.Post("/auth/sellers", "", authController.CreateSeller, sellerOnly...)
	r.Post("/admin/sellers", "", authController.CreateSeller, sellerOnly...)

	// Menu
	r.Get("/menu", "menu.list", menuController.List)
	r.Post("/menu", "menu.create", menuController.Create, sellerOnly...)
	r.Put("/menu/{item_id}", "menu.update", menuController.Update, sellerOnly...)
	r.Delete("/menu/{item_id}", "menu.delete", menuController.Delete, sellerOnly...)

	// Orders
	r.Post("/orders", "orders.create", orderController.Create, authenticate)
	r.Get("/orders", "orders.list", orderController.List, authenticate)
	r.Put("/orders/{order_id}/status", "orders.status", orderController.UpdateStatus, sellerOnly...)

	// Email diagnostics
	r.Get("/email/health", "email.health", emailController.Health)
	r.Post("/email/test", "email.test", emailController.Test)

	// Uploaded menu images.
	r.Mount("/uploads", http.StripPrefix("/uploads", http.FileServer(http.Dir(storage.LocalRoot()))))

	// Prometheus scrape endpoint.
	r.Get("/metrics", "metrics", metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Detail(w, http.StatusNotFound, "Route not found")
	})
}
