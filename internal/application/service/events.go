package service

import (
	"context"
	"log"
	"time"

	"github.com/sangkips/hotel-billing-api/pkg/broker"
)

// Routing keys of the domain events
const (
	EventReservationCreated       = "reservation.created"
	EventReservationUpdated       = "reservation.updated"
	EventReservationStatusChanged = "reservation.status_changed"
	EventInvoiceFinalized         = "invoice.finalized"
	EventOrderPosted              = "order.posted"
)

const publishTimeout = 5 * time.Second

// publish sends an event once the unit of work that produced it has committed.
// The state is already durable, so a failed publish is only logged.
func publish(ctx context.Context, pub broker.Publisher, routingKey string, payload interface{}) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := pub.Publish(ctx, routingKey, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", routingKey, err)
	}
}
