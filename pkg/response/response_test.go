package response_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idlikadai/backend/pkg/apperr"
	"github.com/idlikadai/backend/pkg/logger"
	"github.com/idlikadai/backend/pkg/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Detail(rec, http.StatusNotFound, "Route not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, "Route not found", body["detail"])
	assert.NotContains(t, body, "errors")
}

func TestValidationFailed(t *testing.T) {
	rec := httptest.NewRecorder()
	response.ValidationFailed(rec, []string{"Total must be a positive number"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Validation failed", body["detail"])
	assert.Equal(t, []interface{}{"Total must be a positive number"}, body["errors"])
}

func TestFailMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantDetail string
	}{
		{apperr.New(apperr.Unauthenticated, "Incorrect username or password"), 401, "Incorrect username or password"},
		{apperr.New(apperr.Forbidden, "Not enough permissions. Seller access required."), 403, "Not enough permissions. Seller access required."},
		{apperr.New(apperr.Conflict, "Username already registered"), 400, "Username already registered"},
		{apperr.New(apperr.NotFound, "Menu item not found"), 404, "Menu item not found"},
		{apperr.Invalid("Item 1: name is required"), 400, "Validation failed"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		response.Fail(rec, tc.err)

		assert.Equal(t, tc.wantStatus, rec.Code)
		assert.Equal(t, tc.wantDetail, decode(t, rec)["detail"])
	}
}

func TestFailLogsInternalCause(t *testing.T) {
	var buf bytes.Buffer
	old := logger.L
	logger.L = slog.New(slog.NewTextHandler(&buf, nil))
	t.Cleanup(func() { logger.L = old })

	rec := httptest.NewRecorder()
	response.Fail(rec, apperr.Wrap(apperr.Internal, "Failed to create order",
		errors.New("mongo: connection reset by peer")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Failed to create order", body["detail"])
	assert.NotContains(t, rec.Body.String(), "connection reset", "cause stays server-side")
	assert.Contains(t, buf.String(), "connection reset by peer", "cause must reach the server log")
}

func TestFailDoesNotLogExpectedKinds(t *testing.T) {
	var buf bytes.Buffer
	old := logger.L
	logger.L = slog.New(slog.NewTextHandler(&buf, nil))
	t.Cleanup(func() { logger.L = old })

	rec := httptest.NewRecorder()
	response.Fail(rec, apperr.New(apperr.NotFound, "Order not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, buf.String())
}

func TestFailHidesUnexpectedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Fail(rec, errors.New("dial tcp 10.0.0.5:27017: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Internal server error", body["detail"], "internal causes never reach the client")
}

func TestJSONWritesValue(t *testing.T) {
	rec := httptest.NewRecorder()
	response.JSON(rec, http.StatusOK, map[string]string{"message": "idli kadai API"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "idli kadai API", decode(t, rec)["message"])
}
