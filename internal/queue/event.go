// Package queue defines the catalog event payloads exchanged over the
// message broker and the consumer that records them.
package queue

import (
    "time"

    "github.com/iliyamo/catalog-backend/internal/model"
)

// Event types. They double as AMQP message types.
const (
    EventAccountRegistered = "account.registered"
    EventCartItemAdded     = "cart.item_added"
)

// Event is published after a state change that downstream consumers
// (audit log, notifications, analytics) care about. Fields that do not
// apply to a given Type are left empty.
type Event struct {
    Type       string `json:"type"`
    UserID     uint64 `json:"user_id"`
    Email      string `json:"email,omitempty"`
    Role       string `json:"role,omitempty"`
    ProductID  uint64 `json:"product_id,omitempty"`
    Quantity   uint32 `json:"quantity,omitempty"`
    OccurredAt string `json:"occurred_at"`
}

// AccountRegistered builds the event emitted after a successful registration.
func AccountRegistered(a *model.Account, at time.Time) Event {
    return Event{
        Type:       EventAccountRegistered,
        UserID:     a.ID,
        Email:      a.Email,
        Role:       a.Role.String(),
        OccurredAt: at.UTC().Format(time.RFC3339),
    }
}

// CartItemAdded builds the event emitted when a product is added to a cart.
func CartItemAdded(userID, productID uint64, quantity uint32, at time.Time) Event {
    return Event{
        Type:       EventCartItemAdded,
        UserID:     userID,
        ProductID:  productID,
        Quantity:   quantity,
        OccurredAt: at.UTC().Format(time.RFC3339),
    }
}
