package controllers

import (
	"net/http"

	"github.com/idlikadai/backend/pkg/database"
	"github.com/idlikadai/backend/pkg/response"
)

// HealthController serves the liveness endpoints.
type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Root handles GET /.
func (c *HealthController) Root(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"message": "idli kadai API"})
}

// Health handles GET /health: process liveness plus database connectivity.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"mongodb": database.State(r.Context()),
	})
}
