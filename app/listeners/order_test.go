package listeners_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/idlikadai/backend/app/listeners"
	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/app/services"
	"github.com/idlikadai/backend/pkg/event"
	"github.com/idlikadai/backend/pkg/queue"
)

// captureDriver records every pushed envelope instead of queueing it.
type captureDriver struct {
	mu     sync.Mutex
	pushed []string
}

func (d *captureDriver) Push(payload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pushed = append(d.pushed, string(payload))
	return nil
}

func (d *captureDriver) Pop(ctx context.Context) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (d *captureDriver) envelopes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.pushed...)
}

func sampleCreated() services.OrderCreated {
	return services.OrderCreated{
		Order: models.Order{
			ID:     primitive.NewObjectID(),
			Status: models.StatusPending,
			Total:  80,
		},
		DisplayID:  "C9D0E1",
		BuyerEmail: "ravi@example.com",
	}
}

func TestOrderCreatedEnqueuesBothEmails(t *testing.T) {
	driver := &captureDriver{}
	queue.SetDriver(driver)
	t.Cleanup(func() { queue.SetDriver(queue.NewMemoryDriver()) })
	t.Cleanup(event.Flush)

	lookups := 0
	listeners.RegisterOrderListeners(func(context.Context) (*models.User, error) {
		lookups++
		return &models.User{Email: "seller@koththu.com"}, nil
	})

	start := time.Now()
	event.Fire("order.created", sampleCreated())
	elapsed := time.Since(start)

	envs := driver.envelopes()
	require.Len(t, envs, 2)
	assert.Contains(t, envs[0], "BuyerOrderEmailJob")
	assert.Contains(t, envs[0], "ravi@example.com")
	assert.Contains(t, envs[1], "SellerOrderEmailJob")

	assert.Zero(t, lookups, "seller lookup must wait for the worker, not the request")
	assert.Less(t, elapsed, time.Second)
}

func TestOrderCreatedSkipsBuyerWithoutEmail(t *testing.T) {
	driver := &captureDriver{}
	queue.SetDriver(driver)
	t.Cleanup(func() { queue.SetDriver(queue.NewMemoryDriver()) })
	t.Cleanup(event.Flush)

	listeners.RegisterOrderListeners(func(context.Context) (*models.User, error) {
		return nil, errors.New("unreachable")
	})

	created := sampleCreated()
	created.BuyerEmail = ""
	event.Fire("order.created", created)

	envs := driver.envelopes()
	require.Len(t, envs, 1)
	assert.Contains(t, envs[0], "SellerOrderEmailJob")
}
