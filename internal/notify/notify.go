// Package notify delivers order and menu events to external sinks. Delivery
// is best-effort: it runs after the data change has committed, is bounded by
// a timeout, and failures are only logged.
package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Event types.
const (
	OrderCreated   = "order.created"
	OrderUpdated   = "order.updated"
	OrderFired     = "order.fired"
	OrderSplit     = "order.split"
	OrderClosed    = "order.closed"
	OrderVoided    = "order.voided"
	ItemAdded      = "item.added"
	ItemUpdated    = "item.updated"
	ItemRemoved    = "item.removed"
	ItemsHeld      = "items.held"
	ItemStarted    = "item.started"
	ItemServed     = "item.served"
	ItemVoided     = "item.voided"
	TicketBumped   = "ticket.bumped"
	TicketRecalled = "ticket.recalled"
	PaymentAdded   = "payment.added"
	MenuItem86d    = "menu.item_86d"
)

// Event is the envelope handed to every sink.
type Event struct {
	Type       string          `json:"type"`
	LocationID uuid.UUID       `json:"location_id"`
	ActorID    uuid.UUID       `json:"actor_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Sink receives events. Implementations must honor ctx.
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// Notifier is what the order core calls after a committed mutation.
type Notifier interface {
	Notify(eventType string, locationID uuid.UUID, payload any, actorID uuid.UUID)
}

// Dispatcher fans events out to its sinks in the background.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Each delivery gets its own timeout.
func NewDispatcher(log *zap.Logger, timeout time.Duration, sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		sinks:   sinks,
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

// Notify publishes to all sinks without blocking the caller.
func (d *Dispatcher) Notify(eventType string, locationID uuid.UUID, payload any, actorID uuid.UUID) {
	body, err := json.Marshal(payload)
	if err != nil {
		d.log.Warn("encode event payload", zap.String("event", eventType), zap.Error(err))
		return
	}
	e := Event{
		Type:       eventType,
		LocationID: locationID,
		ActorID:    actorID,
		Payload:    body,
		OccurredAt: d.now().UTC(),
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(e)
	}()
}

func (d *Dispatcher) deliver(e Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	var g errgroup.Group
	for _, sink := range d.sinks {
		g.Go(func() error {
			if err := sink.Publish(ctx, e); err != nil {
				d.log.Warn("notify sink failed",
					zap.String("event", e.Type),
					zap.String("location_id", e.LocationID.String()),
					zap.Error(err),
				)
				return err
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Wait blocks until in-flight deliveries finish. Used at shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Nop discards events.
type Nop struct{}

func (Nop) Notify(string, uuid.UUID, any, uuid.UUID) {}
