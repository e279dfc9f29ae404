package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/idlikadai/backend/config"
	"github.com/idlikadai/backend/pkg/mail"
	"github.com/idlikadai/backend/pkg/response"
)

// EmailController exposes diagnostics for the SMTP transport.
type EmailController struct{}

func NewEmailController() *EmailController {
	return &EmailController{}
}

// Health handles GET /email/health: reports whether SMTP credentials are
// configured and whether a handshake with the server succeeds.
func (c *EmailController) Health(w http.ResponseWriter, r *http.Request) {
	configured := mail.Configured()

	verification := map[string]interface{}{"configured": configured}
	if configured {
		if err := mail.Verify(); err != nil {
			verification["configured"] = false
			verification["error"] = err.Error()
		}
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"configured":   configured,
		"verification": verification,
		"user":         maskEmail(config.MailUsername()),
	})
}

// Test handles POST /email/test: sends a throwaway message to the given
// address, or to the configured sender when none is supplied.
func (c *EmailController) Test(w http.ResponseWriter, r *http.Request) {
	var body struct {
		To string `json:"to"`
	}
	json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck

	to := strings.TrimSpace(body.To)
	if to == "" {
		to = config.MailUsername()
	}
	if to == "" {
		response.Detail(w, http.StatusBadRequest, `Provide a "to" email or set EMAIL_USER`)
		return
	}

	stamp := time.Now().UTC().Format(time.RFC3339)
	err := mail.To(to).
		Subject("idli kadai - Test Email").
		Body(fmt.Sprintf("<p>This is a test email from idli kadai backend.</p><p>Timestamp: %s</p>", stamp)).
		Send()
	if err != nil {
		response.Detail(w, http.StatusInternalServerError, "Failed to send test email")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"message": "Test email sent",
		"to":      to,
	})
}

// maskEmail hides the local part of an address except its first two
// characters, e.g. "shop@example.com" → "sh***@example.com".
func maskEmail(addr string) string {
	if addr == "" {
		return ""
	}
	local, domain, found := strings.Cut(addr, "@")
	if !found || len(local) <= 2 {
		return addr
	}
	return local[:2] + "***@" + domain
}
