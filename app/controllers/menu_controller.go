package controllers

import (
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/idlikadai/backend/app/services"
	"github.com/idlikadai/backend/pkg/bind"
	"github.com/idlikadai/backend/pkg/logger"
	"github.com/idlikadai/backend/pkg/response"
	"github.com/idlikadai/backend/pkg/storage"
	"github.com/idlikadai/backend/pkg/validate"
)

// maxUploadBytes caps menu image uploads at 8 MB.
const maxUploadBytes = 8 << 20

type MenuController struct {
	service *services.MenuService
}

func NewMenuController(service *services.MenuService) *MenuController {
	return &MenuController{service: service}
}

// List handles GET /menu. Public, no authentication.
func (c *MenuController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.service.List(r.Context())
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// Create handles POST /menu (seller only). Accepts JSON or multipart form
// data with an optional "image" file.
func (c *MenuController) Create(w http.ResponseWriter, r *http.Request) {
	in, uploadedURL, ok := c.decodeItem(w, r)
	if !ok {
		return
	}

	item, err := c.service.Create(r.Context(), in, uploadedURL)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, item)
}

// Update handles PUT /menu/{item_id} (seller only). The stored document is
// replaced with the submitted fields.
func (c *MenuController) Update(w http.ResponseWriter, r *http.Request) {
	in, uploadedURL, ok := c.decodeItem(w, r)
	if !ok {
		return
	}

	item, err := c.service.Update(r.Context(), chi.URLParam(r, "item_id"), in, uploadedURL)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, item)
}

// Delete handles DELETE /menu/{item_id} (seller only).
func (c *MenuController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), chi.URLParam(r, "item_id")); err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Menu item deleted successfully"})
}

// decodeItem reads a menu item payload from either a JSON body or a
// multipart form, storing any uploaded image. Writes the error response
// itself and returns ok=false on failure.
func (c *MenuController) decodeItem(w http.ResponseWriter, r *http.Request) (services.MenuItemInput, *string, bool) {
	var in services.MenuItemInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			response.Detail(w, http.StatusBadRequest, "Invalid form data")
			return in, nil, false
		}

		in.Name = r.FormValue("name")
		in.Description = r.FormValue("description")
		in.Category = r.FormValue("category")
		if price, err := strconv.ParseFloat(r.FormValue("price"), 64); err == nil {
			in.Price = price
		}
		if v := r.FormValue("available"); v != "" {
			available := v == "true" || v == "1"
			in.Available = &available
		}
		if v := r.FormValue("image_url"); v != "" {
			in.ImageURL = &v
		}

		errs := validate.Struct(&in)
		if validate.HasErrors(errs) {
			response.ValidationFailed(w, messagesOf(errs))
			return in, nil, false
		}

		file, header, err := r.FormFile("image")
		if err == http.ErrMissingFile {
			return in, nil, true
		}
		if err != nil {
			response.Detail(w, http.StatusBadRequest, "Invalid image upload")
			return in, nil, false
		}
		defer file.Close()

		url, err := storeImage(file, header)
		if err != nil {
			logger.Error("menu image store failed", "error", err)
			response.Detail(w, http.StatusInternalServerError, "Failed to store image")
			return in, nil, false
		}
		return in, &url, true
	}

	if errs, err := bind.JSON(r, &in); err != nil {
		response.Detail(w, http.StatusBadRequest, err.Error())
		return in, nil, false
	} else if errs != nil {
		response.ValidationFailed(w, messagesOf(errs))
		return in, nil, false
	}
	return in, nil, true
}

// storeImage writes the upload to the configured disk under a collision-safe
// name and returns its public URL.
func storeImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(header.Filename)
	name := fmt.Sprintf("menu-%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)

	if err := storage.PutStream(name, file); err != nil {
		return "", err
	}
	return storage.URL(name), nil
}
