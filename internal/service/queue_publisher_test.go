package service

import (
    "context"
    "encoding/json"
    "io"
    "log/slog"
    "testing"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/catalog-backend/internal/config"
    "github.com/iliyamo/catalog-backend/internal/queue"
)

func TestEncodeEvent(t *testing.T) {
    now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
    ev := queue.CartItemAdded(4, 9, 2, now)

    msg, err := encodeEvent(ev, now)
    require.NoError(t, err)
    assert.Equal(t, "application/json", msg.ContentType)
    assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
    assert.Equal(t, queue.EventCartItemAdded, msg.Type)

    var back queue.Event
    require.NoError(t, json.Unmarshal(msg.Body, &back))
    assert.Equal(t, ev, back)
}

func TestPublisher_DisabledIsNoop(t *testing.T) {
    p := NewPublisher(config.QueueConfig{Enabled: false, URL: "amqp://nowhere:1/"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
    assert.NoError(t, p.Publish(context.Background(), queue.Event{Type: queue.EventAccountRegistered}))
}
