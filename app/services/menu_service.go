package services

import (
	"context"
	"time"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/pkg/apperr"
	"github.com/idlikadai/backend/pkg/cache"
)

// MenuStore is the menu persistence the catalog needs.
type MenuStore interface {
	ListAvailable(ctx context.Context) ([]models.MenuItem, error)
	FindByID(ctx context.Context, id string) (*models.MenuItem, error)
	Create(ctx context.Context, item *models.MenuItem) error
	Replace(ctx context.Context, id string, item *models.MenuItem) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

const (
	menuCacheKey = "menu:available"
	menuCacheTTL = 30 * time.Second
)

// MenuService implements the menu catalog. Mutations are seller-only; the
// authorization gate enforces that before these methods run.
type MenuService struct {
	menu MenuStore
}

func NewMenuService(menu MenuStore) *MenuService {
	return &MenuService{menu: menu}
}

// MenuItemInput is the create/update payload. Validation happens at the
// boundary before the service is invoked.
type MenuItemInput struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Description string  `json:"description" validate:"required,min=10"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,min=2"`
	Available   *bool   `json:"available"`
	ImageURL    *string `json:"image_url"`
}

// List returns every available item. Results are cached briefly; a cache
// miss or unavailable Redis falls through to the store.
func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	var cached []models.MenuItem
	if cache.Get(menuCacheKey, &cached) {
		return cached, nil
	}

	items, err := s.menu.ListAvailable(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch menu", err)
	}

	cache.Set(menuCacheKey, items, menuCacheTTL) //nolint:errcheck
	return items, nil
}

// Create persists a new item. uploadedURL, when set, is the public path of a
// stored image file and overrides any client-supplied image_url.
func (s *MenuService) Create(ctx context.Context, in MenuItemInput, uploadedURL *string) (*models.MenuItem, error) {
	item := s.build(in, uploadedURL, true)
	item.CreatedAt = time.Now().UTC()

	if err := s.menu.Create(ctx, item); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create menu item", err)
	}

	cache.Del(menuCacheKey) //nolint:errcheck
	return item, nil
}

// Update replaces the whole document: fields absent from the input become
// absent on the record, they are not preserved from the prior value.
func (s *MenuService) Update(ctx context.Context, id string, in MenuItemInput, uploadedURL *string) (*models.MenuItem, error) {
	existing, err := s.menu.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to update menu item", err)
	}
	if existing == nil {
		return nil, apperr.New(apperr.NotFound, "Menu item not found")
	}

	item := s.build(in, uploadedURL, false)
	item.CreatedAt = existing.CreatedAt

	found, err := s.menu.Replace(ctx, id, item)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to update menu item", err)
	}
	if !found {
		return nil, apperr.New(apperr.NotFound, "Menu item not found")
	}

	cache.Del(menuCacheKey) //nolint:errcheck
	return item, nil
}

// Delete removes the item permanently. Orders keep denormalized item copies,
// so deletion never affects them.
func (s *MenuService) Delete(ctx context.Context, id string) error {
	found, err := s.menu.Delete(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to delete menu item", err)
	}
	if !found {
		return apperr.New(apperr.NotFound, "Menu item not found")
	}

	cache.Del(menuCacheKey) //nolint:errcheck
	return nil
}

// build turns input into a document. availableDefault applies on create,
// where an omitted available flag means true; an update leaves it exactly as
// sent (replace, not merge).
func (s *MenuService) build(in MenuItemInput, uploadedURL *string, availableDefault bool) *models.MenuItem {
	available := availableDefault
	if in.Available != nil {
		available = *in.Available
	}

	imageURL := in.ImageURL
	if uploadedURL != nil {
		imageURL = uploadedURL
	}

	return &models.MenuItem{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageURL:    imageURL,
		Available:   available,
	}
}
