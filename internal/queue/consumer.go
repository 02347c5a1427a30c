package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/catalog-backend/internal/config"
)

// StartAuditConsumer connects to RabbitMQ, declares the events queue
// (durable) and appends every event to the audit log file as one line.
// It reconnects with exponential backoff and returns only when ctx is
// cancelled. Malformed messages are rejected without requeue so the
// loop never spins on them.
func StartAuditConsumer(ctx context.Context, cfg config.QueueConfig, log *slog.Logger) error {
    backoff := time.Second
    for {
        if ctx.Err() != nil {
            return ctx.Err()
        }
        conn, err := amqp.Dial(cfg.URL)
        if err != nil {
            log.Warn("audit-consumer: dial failed", slog.Any("err", err), slog.Duration("retry_in", backoff))
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, cfg, log)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn("audit-consumer: consume loop ended, reconnecting", slog.Any("err", err))
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg config.QueueConfig, log *slog.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(cfg.ConsumeQoS, 0, false); err != nil {
        log.Warn("audit-consumer: set QoS failed", slog.Any("err", err))
    }
    if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(cfg.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := appendAudit(cfg.AuditLog, d.Body); err != nil {
                log.Error("audit-consumer: handle message failed", slog.Any("err", err))
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// appendAudit decodes one event and appends its line to path, creating
// the parent directory when needed.
func appendAudit(path string, body []byte) error {
    var ev Event
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" {
        return errors.New("event without type")
    }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return fmt.Errorf("mkdir: %w", err)
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open audit log: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(auditLine(ev)); err != nil {
        return fmt.Errorf("write audit log: %w", err)
    }
    return nil
}

func auditLine(ev Event) string {
    switch ev.Type {
    case EventAccountRegistered:
        return fmt.Sprintf("[%s] Account registered | user_id=%d | email=%q | role=%s\n",
            ev.OccurredAt, ev.UserID, ev.Email, ev.Role)
    case EventCartItemAdded:
        return fmt.Sprintf("[%s] Cart item added | user_id=%d | product_id=%d | quantity=%d\n",
            ev.OccurredAt, ev.UserID, ev.ProductID, ev.Quantity)
    }
    return fmt.Sprintf("[%s] %s | user_id=%d\n", ev.OccurredAt, ev.Type, ev.UserID)
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
