// Package jobs defines the background jobs pushed onto the queue.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/app/notifications"
	"github.com/idlikadai/backend/pkg/metrics"
	"github.com/idlikadai/backend/pkg/notification"
	"github.com/idlikadai/backend/pkg/queue"
)

// sellerEmail resolves the address that receives new-order alerts. The
// lookup runs on the worker, never on the order-creation request path.
var sellerEmail func(ctx context.Context) (string, error)

// UseSellerEmail installs the resolver the seller alert job falls back to
// when dispatched without a recipient. Call once at boot.
func UseSellerEmail(fn func(ctx context.Context) (string, error)) {
	sellerEmail = fn
}

// RegisterAll makes every job type known to the queue so serialized jobs
// can be reconstructed by a worker. Call once at boot.
func RegisterAll() {
	queue.Register("*jobs.BuyerOrderEmailJob", func() queue.Job { return &BuyerOrderEmailJob{} })
	queue.Register("*jobs.SellerOrderEmailJob", func() queue.Job { return &SellerOrderEmailJob{} })
}

// BuyerOrderEmailJob sends the order confirmation to the buyer.
type BuyerOrderEmailJob struct {
	To        string       `json:"to"`
	Order     models.Order `json:"order"`
	DisplayID string       `json:"display_id"`
}

func (j *BuyerOrderEmailJob) Handle() error {
	errs := notification.Send(j.To, &notifications.OrderConfirmation{
		Order:     j.Order,
		DisplayID: j.DisplayID,
	})
	outcome := "success"
	if len(errs) > 0 {
		outcome = "failure"
	}
	metrics.EmailsSent.WithLabelValues("buyer_confirmation", outcome).Inc()
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// SellerOrderEmailJob alerts the seller that a new order arrived. When To
// is empty the recipient is resolved through UseSellerEmail when the job
// runs, keeping the database lookup off the dispatching request.
type SellerOrderEmailJob struct {
	To        string       `json:"to"`
	Order     models.Order `json:"order"`
	DisplayID string       `json:"display_id"`
}

func (j *SellerOrderEmailJob) Handle() error {
	if j.To == "" {
		to, err := j.resolveSeller()
		if err != nil {
			metrics.EmailsSent.WithLabelValues("seller_alert", "failure").Inc()
			return err
		}
		j.To = to
	}

	errs := notification.Send(j.To, &notifications.NewOrderAlert{
		Order:     j.Order,
		DisplayID: j.DisplayID,
	})
	outcome := "success"
	if len(errs) > 0 {
		outcome = "failure"
	}
	metrics.EmailsSent.WithLabelValues("seller_alert", outcome).Inc()
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (j *SellerOrderEmailJob) resolveSeller() (string, error) {
	if sellerEmail == nil {
		return "", fmt.Errorf("jobs: no seller email resolver installed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	to, err := sellerEmail(ctx)
	if err != nil {
		return "", fmt.Errorf("jobs: resolve seller email: %w", err)
	}
	if to == "" {
		return "", fmt.Errorf("jobs: no seller account to notify")
	}
	return to, nil
}
