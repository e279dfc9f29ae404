// Package notification dispatches best-effort notifications. The only
// channel this application uses is mail; a failed or unconfigured channel is
// logged and swallowed, never propagated to the caller's request path.
//
// Define a notification:
//
//	type OrderConfirmation struct { Order models.Order }
//	func (n *OrderConfirmation) Via() []string { return []string{"mail"} }
//	func (n *OrderConfirmation) ToMail() notification.MailData {
//	    return notification.MailData{Subject: "...", Body: "..."}
//	}
//
// Send:
//
//	notification.Send("user@example.com", &OrderConfirmation{Order: order})
package notification

import (
	"fmt"

	"github.com/idlikadai/backend/pkg/logger"
	"github.com/idlikadai/backend/pkg/mail"
)

// MailData carries the data needed to send an email notification.
type MailData struct {
	To      string // overrides the notifiable address if set
	Subject string
	Body    string // HTML
	Text    string // plain-text fallback
}

// Notification is the interface every notification must satisfy.
type Notification interface {
	// Via returns the list of channel names. Only "mail" is wired.
	Via() []string
}

// Mailable must be implemented to use the mail channel.
type Mailable interface {
	ToMail() MailData
}

// Send dispatches the notification through all channels returned by Via().
// Channel failures are logged and collected; callers that treat delivery as
// best-effort may ignore the return value entirely.
func Send(address string, n Notification) []error {
	var errs []error
	for _, channel := range n.Via() {
		if err := dispatch(address, channel, n); err != nil {
			logger.Error("notification: channel failed",
				"channel", channel, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// SendAsync dispatches the notification in a background goroutine.
func SendAsync(address string, n Notification) {
	go func() {
		Send(address, n) //nolint:errcheck
	}()
}

func dispatch(address, channel string, n Notification) error {
	switch channel {
	case "mail":
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		return sendMail(address, m.ToMail())

	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

func sendMail(address string, d MailData) error {
	to := d.To
	if to == "" {
		to = address
	}
	if to == "" {
		return fmt.Errorf("notification: no recipient address")
	}

	body := d.Body
	if body == "" {
		body = d.Text
	}

	return mail.To(to).Subject(d.Subject).Body(body).Send()
}
