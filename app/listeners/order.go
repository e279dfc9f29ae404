// Package listeners wires domain events to their side effects.
package listeners

import (
	"context"

	"github.com/idlikadai/backend/app/jobs"
	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/app/services"
	"github.com/idlikadai/backend/pkg/event"
	"github.com/idlikadai/backend/pkg/logger"
	"github.com/idlikadai/backend/pkg/queue"
)

// SellerLookup resolves the seller account that receives new-order alerts.
type SellerLookup func(ctx context.Context) (*models.User, error)

// RegisterOrderListeners subscribes the email side effects to the
// order.created event. The listener only enqueues jobs; the seller lookup
// and the SMTP work both run on the queue worker, so the order-creation
// request never waits on them. Email delivery is best-effort throughout:
// any failure is logged and the order itself is unaffected.
func RegisterOrderListeners(findSeller SellerLookup) {
	jobs.UseSellerEmail(func(ctx context.Context) (string, error) {
		seller, err := findSeller(ctx)
		if err != nil {
			return "", err
		}
		if seller == nil {
			return "", nil
		}
		return seller.Email, nil
	})

	event.Listen("order.created", func(payload interface{}) {
		created, ok := payload.(services.OrderCreated)
		if !ok {
			logger.Error("order.created listener: unexpected payload", "payload", payload)
			return
		}

		if created.BuyerEmail != "" {
			err := queue.Dispatch(&jobs.BuyerOrderEmailJob{
				To:        created.BuyerEmail,
				Order:     created.Order,
				DisplayID: created.DisplayID,
			})
			if err != nil {
				logger.Error("order.created: enqueue buyer email", "error", err)
			}
		} else {
			logger.Warn("order.created: no buyer email, skipping confirmation",
				"order", created.DisplayID)
		}

		err := queue.Dispatch(&jobs.SellerOrderEmailJob{
			Order:     created.Order,
			DisplayID: created.DisplayID,
		})
		if err != nil {
			logger.Error("order.created: enqueue seller email", "error", err)
		}
	})
}
