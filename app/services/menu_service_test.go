package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/app/services"
	"github.com/idlikadai/backend/pkg/apperr"
)

type fakeMenuStore struct {
	items []models.MenuItem
}

func (f *fakeMenuStore) ListAvailable(_ context.Context) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, it := range f.items {
		if it.Available {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeMenuStore) FindByID(_ context.Context, id string) (*models.MenuItem, error) {
	for _, it := range f.items {
		if it.ID.Hex() == id {
			found := it
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeMenuStore) Create(_ context.Context, item *models.MenuItem) error {
	item.ID = primitive.NewObjectID()
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeMenuStore) Replace(_ context.Context, id string, item *models.MenuItem) (bool, error) {
	for i, it := range f.items {
		if it.ID.Hex() == id {
			item.ID = it.ID
			f.items[i] = *item
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMenuStore) Delete(_ context.Context, id string) (bool, error) {
	for i, it := range f.items {
		if it.ID.Hex() == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func menuInput() services.MenuItemInput {
	return services.MenuItemInput{
		Name:        "Idli",
		Description: "Steamed rice cakes, four per plate",
		Price:       40,
		Category:    "Breakfast",
	}
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestMenuCreateDefaultsAvailable(t *testing.T) {
	svc := services.NewMenuService(&fakeMenuStore{})

	item, err := svc.Create(context.Background(), menuInput(), nil)
	require.NoError(t, err)

	assert.True(t, item.Available, "omitted available flag defaults to true on create")
	assert.False(t, item.ID.IsZero())
	assert.False(t, item.CreatedAt.IsZero())
}

func TestMenuCreateExplicitUnavailable(t *testing.T) {
	svc := services.NewMenuService(&fakeMenuStore{})

	in := menuInput()
	in.Available = boolPtr(false)
	item, err := svc.Create(context.Background(), in, nil)
	require.NoError(t, err)
	assert.False(t, item.Available)
}

func TestMenuCreateUploadedImageWins(t *testing.T) {
	svc := services.NewMenuService(&fakeMenuStore{})

	in := menuInput()
	in.ImageURL = strPtr("https://cdn.example.com/stale.jpg")
	item, err := svc.Create(context.Background(), in, strPtr("/uploads/menu-1.jpg"))
	require.NoError(t, err)

	require.NotNil(t, item.ImageURL)
	assert.Equal(t, "/uploads/menu-1.jpg", *item.ImageURL, "a stored upload overrides the client url")
}

func TestMenuListFiltersUnavailable(t *testing.T) {
	store := &fakeMenuStore{}
	svc := services.NewMenuService(store)

	_, err := svc.Create(context.Background(), menuInput(), nil)
	require.NoError(t, err)

	hidden := menuInput()
	hidden.Name = "Seasonal Special"
	hidden.Available = boolPtr(false)
	_, err = svc.Create(context.Background(), hidden, nil)
	require.NoError(t, err)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Idli", items[0].Name)
}

func TestMenuUpdateReplacesWholeDocument(t *testing.T) {
	store := &fakeMenuStore{}
	svc := services.NewMenuService(store)

	in := menuInput()
	in.ImageURL = strPtr("/uploads/menu-old.jpg")
	created, err := svc.Create(context.Background(), in, nil)
	require.NoError(t, err)

	// Update omits available and image_url. Replace semantics: available
	// becomes false and the image is gone, nothing carries over.
	updated, err := svc.Update(context.Background(), created.ID.Hex(), menuInput(), nil)
	require.NoError(t, err)

	assert.False(t, updated.Available)
	assert.Nil(t, updated.ImageURL)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "creation time survives the replace")
}

func TestMenuUpdateNotFound(t *testing.T) {
	svc := services.NewMenuService(&fakeMenuStore{})

	_, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), menuInput(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Equal(t, "Menu item not found", err.Error())
}

func TestMenuDelete(t *testing.T) {
	store := &fakeMenuStore{}
	svc := services.NewMenuService(store)

	created, err := svc.Create(context.Background(), menuInput(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID.Hex()))
	assert.Empty(t, store.items)

	err = svc.Delete(context.Background(), created.ID.Hex())
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
