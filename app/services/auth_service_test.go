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
	"github.com/idlikadai/backend/pkg/auth"
)

// ─── Fakes ────────────────────────────────────────────────────────────────────

type fakeUserStore struct {
	users     []*models.User
	createErr error
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindSeller(_ context.Context) (*models.User, error) {
	for _, u := range f.users {
		if u.Role == models.RoleSeller {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) CountByEmail(_ context.Context, email string) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.Email == email {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = primitive.NewObjectID()
	f.users = append(f.users, user)
	return nil
}

type fakeAuditStore struct {
	entries []models.LoginHistory
}

func (f *fakeAuditStore) Insert(_ context.Context, entry *models.LoginHistory) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditStore) Recent(_ context.Context, limit int64) ([]models.LoginHistory, error) {
	if int64(len(f.entries)) <= limit {
		return f.entries, nil
	}
	return f.entries[int64(len(f.entries))-limit:], nil
}

func newAuthFixture() (*services.AuthService, *fakeUserStore, *fakeAuditStore) {
	users := &fakeUserStore{}
	audit := &fakeAuditStore{}
	return services.NewAuthService(users, audit), users, audit
}

func seedUser(t *testing.T, store *fakeUserStore, username, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Username: username, Email: email, HashedPassword: hash, Role: role}
	require.NoError(t, store.Create(context.Background(), u))
	return u
}

// ─── Registration ─────────────────────────────────────────────────────────────

func TestRegisterCreatesBuyer(t *testing.T) {
	svc, users, audit := newAuthFixture()

	user, err := svc.Register(context.Background(), services.RegisterInput{
		Username: "ravi", Email: "Ravi@Example.COM", Password: "secret1",
	}, "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, models.RoleBuyer, user.Role)
	assert.Equal(t, "ravi@example.com", user.Email, "email is stored lower-cased")
	assert.NotEmpty(t, user.HashedPassword)
	assert.NotEqual(t, "secret1", user.HashedPassword)
	assert.Len(t, users.users, 1)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, models.ActionRegistration, entry.Action)
	assert.True(t, entry.Success)
	assert.Equal(t, "10.0.0.1", entry.IPAddress)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, user.ID.Hex(), *entry.UserID)
}

func TestRegisterExplicitBuyerRoleAllowed(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), services.RegisterInput{
		Username: "ravi", Email: "ravi@example.com", Password: "secret1", Role: "buyer",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuyer, user.Role)
}

func TestRegisterRejectsSellerRole(t *testing.T) {
	svc, users, audit := newAuthFixture()

	_, err := svc.Register(context.Background(), services.RegisterInput{
		Username: "mallory", Email: "m@example.com", Password: "secret1", Role: "seller",
	}, "10.0.0.2")
	require.Error(t, err)

	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
	assert.Equal(t, "Seller registration is not allowed via public signup", err.Error())
	assert.Empty(t, users.users, "no account may be created")

	// The rejected attempt still leaves an audit entry.
	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, models.ActionRegistration, entry.Action)
	assert.False(t, entry.Success)
	assert.Equal(t, "mallory", entry.Username)
	require.NotNil(t, entry.Error)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, users, audit := newAuthFixture()
	seedUser(t, users, "ravi", "first@example.com", "secret1", models.RoleBuyer)

	_, err := svc.Register(context.Background(), services.RegisterInput{
		Username: "ravi", Email: "second@example.com", Password: "secret1",
	}, "")
	require.Error(t, err)

	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Equal(t, "Username already registered", err.Error())

	require.Len(t, audit.entries, 1)
	assert.False(t, audit.entries[0].Success)
}

func TestRegisterEmailAccountCap(t *testing.T) {
	svc, users, _ := newAuthFixture()
	seedUser(t, users, "one", "shared@example.com", "secret1", models.RoleBuyer)
	seedUser(t, users, "two", "shared@example.com", "secret1", models.RoleBuyer)

	// Third account on the same email is still allowed.
	_, err := svc.Register(context.Background(), services.RegisterInput{
		Username: "three", Email: "shared@example.com", Password: "secret1",
	}, "")
	require.NoError(t, err)

	// Fourth is not. Case differences do not dodge the cap.
	_, err = svc.Register(context.Background(), services.RegisterInput{
		Username: "four", Email: "SHARED@example.com", Password: "secret1",
	}, "")
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Equal(t, "This email has reached the maximum of 3 accounts", err.Error())
}

// ─── Seller creation ──────────────────────────────────────────────────────────

func TestCreateSeller(t *testing.T) {
	svc, _, audit := newAuthFixture()

	user, err := svc.CreateSeller(context.Background(), services.CreateSellerInput{
		Username: "kitchen", Email: "kitchen@example.com", Password: "secret1",
	}, "10.0.0.3")
	require.NoError(t, err)

	assert.Equal(t, models.RoleSeller, user.Role)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.ActionCreateSeller, audit.entries[0].Action)
	assert.True(t, audit.entries[0].Success)
}

func TestCreateSellerDuplicateUsername(t *testing.T) {
	svc, users, audit := newAuthFixture()
	seedUser(t, users, "kitchen", "a@example.com", "secret1", models.RoleSeller)

	_, err := svc.CreateSeller(context.Background(), services.CreateSellerInput{
		Username: "kitchen", Email: "b@example.com", Password: "secret1",
	}, "")
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	require.Len(t, audit.entries, 1)
	assert.False(t, audit.entries[0].Success)
}

// ─── Login ────────────────────────────────────────────────────────────────────

func TestAuthenticateSuccess(t *testing.T) {
	svc, users, audit := newAuthFixture()
	seeded := seedUser(t, users, "ravi", "ravi@example.com", "secret1", models.RoleBuyer)

	user, err := svc.Authenticate(context.Background(), "ravi", "secret1", "10.0.0.4")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, models.ActionLogin, entry.Action)
	assert.True(t, entry.Success)
	assert.Nil(t, entry.Error)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc, _, audit := newAuthFixture()

	_, err := svc.Authenticate(context.Background(), "ghost", "whatever", "")
	require.Error(t, err)

	// The caller sees the opaque message; the audit trail keeps the real one.
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
	assert.Equal(t, "Incorrect username or password", err.Error())

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.False(t, entry.Success)
	require.NotNil(t, entry.Error)
	assert.Equal(t, "User not found", *entry.Error)
	assert.Equal(t, "unknown", entry.IPAddress)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, users, audit := newAuthFixture()
	seedUser(t, users, "ravi", "ravi@example.com", "secret1", models.RoleBuyer)

	_, err := svc.Authenticate(context.Background(), "ravi", "wrong", "")
	require.Error(t, err)
	assert.Equal(t, "Incorrect username or password", err.Error())

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.False(t, entry.Success)
	require.NotNil(t, entry.Error)
	assert.Equal(t, "Incorrect password", *entry.Error)
	require.NotNil(t, entry.UserID, "resolved account is still recorded")
}

// ─── Lookups ──────────────────────────────────────────────────────────────────

func TestCurrentUser(t *testing.T) {
	svc, users, _ := newAuthFixture()
	seedUser(t, users, "ravi", "ravi@example.com", "secret1", models.RoleBuyer)

	user, err := svc.CurrentUser(context.Background(), "ravi")
	require.NoError(t, err)
	assert.Equal(t, "ravi", user.Username)

	_, err = svc.CurrentUser(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}

func TestLoginHistoryReturnsRecent(t *testing.T) {
	svc, _, audit := newAuthFixture()
	for i := 0; i < 3; i++ {
		_, _ = svc.Authenticate(context.Background(), "ghost", "nope", "")
	}

	entries, err := svc.LoginHistory(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Len(t, audit.entries, 3, "one entry per attempt")
}
