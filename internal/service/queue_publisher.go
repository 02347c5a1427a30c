// Package service provides the RabbitMQ publisher for catalog events.
// Errors are logged and returned so callers can decide to ignore them
// without interrupting the main request flow.
package service

import (
    "context"
    "encoding/json"
    "log/slog"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/catalog-backend/internal/config"
    "github.com/iliyamo/catalog-backend/internal/queue"
)

// Publisher sends events to the configured durable queue. Each Publish
// opens its own connection; event volume here is one message per
// registration or cart addition.
type Publisher struct {
    cfg config.QueueConfig
    log *slog.Logger
}

// NewPublisher returns a Publisher. When cfg.Enabled is false Publish is a no-op.
func NewPublisher(cfg config.QueueConfig, log *slog.Logger) *Publisher {
    return &Publisher{cfg: cfg, log: log}
}

// Publish delivers ev as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, ev queue.Event) error {
    if !p.cfg.Enabled {
        return nil
    }
    msg, err := encodeEvent(ev, time.Now())
    if err != nil {
        p.log.ErrorContext(ctx, "rabbitmq: marshal event failed", slog.Any("err", err))
        return err
    }

    conn, err := amqp.Dial(p.cfg.URL)
    if err != nil {
        p.log.WarnContext(ctx, "rabbitmq: dial failed", slog.Any("err", err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.log.WarnContext(ctx, "rabbitmq: channel open failed", slog.Any("err", err))
        return err
    }
    defer func() { _ = ch.Close() }()

    // durable so messages survive broker restarts
    if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
        p.log.WarnContext(ctx, "rabbitmq: queue declare failed", slog.Any("err", err))
        return err
    }

    // default exchange, routing key = queue name
    if err := ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, msg); err != nil {
        p.log.WarnContext(ctx, "rabbitmq: publish failed", slog.String("type", ev.Type), slog.Any("err", err))
        return err
    }
    return nil
}

func encodeEvent(ev queue.Event, now time.Time) (amqp.Publishing, error) {
    body, err := json.Marshal(ev)
    if err != nil {
        return amqp.Publishing{}, err
    }
    return amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Type:         ev.Type,
        Timestamp:    now.UTC(),
        Body:         body,
    }, nil
}
