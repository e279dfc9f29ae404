package services

import (
	"context"
	"strings"
	"time"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/app/repositories"
	"github.com/idlikadai/backend/pkg/apperr"
	"github.com/idlikadai/backend/pkg/auth"
	"github.com/idlikadai/backend/pkg/logger"
	"github.com/idlikadai/backend/pkg/metrics"
)

// UserStore is the account persistence the auth service needs.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindSeller(ctx context.Context) (*models.User, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	Create(ctx context.Context, user *models.User) error
}

// AuditStore is the append-only login/registration trail.
type AuditStore interface {
	Insert(ctx context.Context, entry *models.LoginHistory) error
	Recent(ctx context.Context, limit int64) ([]models.LoginHistory, error)
}

// maxAccountsPerEmail caps how many accounts may share one email address.
// The count-then-insert has a race window under concurrent registrations;
// the cap is best-effort, not a hard invariant.
const maxAccountsPerEmail = 3

// AuthService implements registration, login and seller creation, writing
// exactly one audit entry per attempt whatever the outcome.
type AuthService struct {
	users UserStore
	audit AuditStore
}

func NewAuthService(users UserStore, audit AuditStore) *AuthService {
	return &AuthService{users: users, audit: audit}
}

// RegisterInput is the public signup payload. Role is accepted only so a
// seller self-signup attempt can be rejected explicitly.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"nullable,in=buyer,seller"`
}

// Register creates a buyer account. Public signup can never create sellers.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, ip string) (*models.User, error) {
	if in.Role == string(models.RoleSeller) {
		err := apperr.New(apperr.Forbidden, "Seller registration is not allowed via public signup")
		s.record(ctx, auditAttempt{username: in.Username, action: models.ActionRegistration, ip: ip, err: err})
		return nil, err
	}

	user, err := s.createAccount(ctx, in.Username, in.Email, in.Password, models.RoleBuyer)
	if err != nil {
		s.record(ctx, auditAttempt{username: in.Username, action: models.ActionRegistration, ip: ip, err: err})
		return nil, err
	}

	s.record(ctx, auditAttempt{user: user, action: models.ActionRegistration, ip: ip})
	return user, nil
}

// CreateSellerInput is the seller-creation payload. The caller must already
// be an authenticated seller; the authorization gate enforces that.
type CreateSellerInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// CreateSeller creates an account with the seller role.
func (s *AuthService) CreateSeller(ctx context.Context, in CreateSellerInput, ip string) (*models.User, error) {
	user, err := s.createAccount(ctx, in.Username, in.Email, in.Password, models.RoleSeller)
	if err != nil {
		s.record(ctx, auditAttempt{username: in.Username, action: models.ActionCreateSeller, ip: ip, err: err})
		return nil, err
	}

	s.record(ctx, auditAttempt{user: user, action: models.ActionCreateSeller, ip: ip})
	return user, nil
}

// createAccount holds the uniqueness and email-cap rules shared by public
// registration and seller creation.
func (s *AuthService) createAccount(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Registration failed", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.Conflict, "Username already registered")
	}

	emailLower := strings.ToLower(strings.TrimSpace(email))
	count, err := s.users.CountByEmail(ctx, emailLower)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Registration failed", err)
	}
	if count >= maxAccountsPerEmail {
		return nil, apperr.New(apperr.Conflict, "This email has reached the maximum of 3 accounts")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Registration failed", err)
	}

	user := &models.User{
		Username:       username,
		Email:          emailLower,
		HashedPassword: hash,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, apperr.New(apperr.Conflict, "Username already registered")
		}
		return nil, apperr.Wrap(apperr.Internal, "Registration failed", err)
	}

	return user, nil
}

// Authenticate verifies the credentials. The external error never reveals
// whether the username or the password was wrong; the audit entry does.
func (s *AuthService) Authenticate(ctx context.Context, username, password, ip string) (*models.User, error) {
	opaque := apperr.New(apperr.Unauthenticated, "Incorrect username or password")

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Login failed", err)
	}

	if user == nil {
		s.record(ctx, auditAttempt{username: username, action: models.ActionLogin, ip: ip, reason: "User not found"})
		return nil, opaque
	}

	if !auth.CheckPassword(user.HashedPassword, password) {
		s.record(ctx, auditAttempt{username: username, user: user, action: models.ActionLogin, ip: ip, reason: "Incorrect password"})
		return nil, opaque
	}

	s.record(ctx, auditAttempt{user: user, action: models.ActionLogin, ip: ip})
	return user, nil
}

// CurrentUser resolves a verified token subject to its account.
func (s *AuthService) CurrentUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Lookup failed", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.Unauthenticated, "User not found")
	}
	return user, nil
}

// LoginHistory returns the newest 100 audit entries.
func (s *AuthService) LoginHistory(ctx context.Context) ([]models.LoginHistory, error) {
	entries, err := s.audit.Recent(ctx, 100)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch login history", err)
	}
	return entries, nil
}

// auditAttempt collects the facts of one authentication event.
type auditAttempt struct {
	username string       // attempted name when no account was resolved
	user     *models.User // resolved account, when any
	action   models.AuditAction
	ip       string
	reason   string // failure reason for bad credentials
	err      error  // failure cause for register/create-seller
}

// record appends the audit entry. An audit write failure is logged but never
// changes the outcome of the attempt it describes.
func (s *AuthService) record(ctx context.Context, a auditAttempt) {
	entry := &models.LoginHistory{
		Username:  a.username,
		Action:    a.action,
		Success:   a.err == nil && a.reason == "",
		IPAddress: a.ip,
		Timestamp: time.Now().UTC(),
	}
	if entry.IPAddress == "" {
		entry.IPAddress = "unknown"
	}
	if a.user != nil {
		id := a.user.ID.Hex()
		role := a.user.Role
		entry.Username = a.user.Username
		entry.Email = a.user.Email
		entry.UserID = &id
		entry.Role = &role
	}
	if a.reason != "" {
		reason := a.reason
		entry.Error = &reason
	} else if a.err != nil {
		msg := a.err.Error()
		entry.Error = &msg
	}

	outcome := "failure"
	if entry.Success {
		outcome = "success"
	}
	metrics.AuthAttempts.WithLabelValues(string(a.action), outcome).Inc()

	if err := s.audit.Insert(ctx, entry); err != nil {
		logger.Error("audit write failed", "action", string(a.action), "username", entry.Username, "error", err)
	}
}
