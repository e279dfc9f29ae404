// Package controllers holds the HTTP handlers. They decode and validate the
// request, call a service, and shape the response; all business rules live
// in the services.
package controllers

import (
	"net/http"
	"sort"

	"github.com/idlikadai/backend/app/services"
	"github.com/idlikadai/backend/pkg/auth"
	"github.com/idlikadai/backend/pkg/bind"
	"github.com/idlikadai/backend/pkg/middleware"
	"github.com/idlikadai/backend/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register handles POST /register. Public signup always produces a buyer.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Detail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, messagesOf(errs))
		return
	}

	user, err := c.service.Register(r.Context(), in, middleware.IPFrom(r.Context()))
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, user.Public())
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /token. Failure detail is deliberately opaque; the
// precise reason lands only in the audit trail.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Detail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.Detail(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := c.service.Authenticate(r.Context(), in.Username, in.Password, middleware.IPFrom(r.Context()))
	if err != nil {
		response.Fail(w, err)
		return
	}

	token, err := auth.GenerateToken(user.Username)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user.Public(),
	})
}

// Me handles GET /me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	response.JSON(w, http.StatusOK, user.Public())
}

// LoginHistory handles GET /login-history (seller only).
func (c *AuthController) LoginHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := c.service.LoginHistory(r.Context())
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, entries)
}

// CreateSeller handles POST /sellers and its aliases (seller only).
func (c *AuthController) CreateSeller(w http.ResponseWriter, r *http.Request) {
	var in services.CreateSellerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Detail(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationFailed(w, messagesOf(errs))
		return
	}

	user, err := c.service.CreateSeller(r.Context(), in, middleware.IPFrom(r.Context()))
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, user.Public())
}

// messagesOf flattens field errors into a stable slice for the errors array.
func messagesOf(errs map[string]string) []string {
	out := make([]string, 0, len(errs))
	for _, msg := range errs {
		out = append(out, msg)
	}
	sort.Strings(out)
	return out
}
