// Package events publishes build activity to a NATS subject so other
// systems can react to documentation builds. Publishing is fire-and-forget;
// a build never fails because the broker is unreachable.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/errors"
)

// Event kinds.
const (
	KindBuild = "build"
	KindScan  = "scan"
)

// Event is the JSON payload published per completed operation.
type Event struct {
	ID       string        `json:"id"`
	Kind     string        `json:"kind"`
	Builder  string        `json:"builder,omitempty"`
	Outcome  string        `json:"outcome"`
	Duration time.Duration `json:"duration"`
	Commit   string        `json:"commit,omitempty"`
	Dirty    bool          `json:"dirty,omitempty"`
	Error    string        `json:"error,omitempty"`
	Time     time.Time     `json:"time"`
}

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. It is the Publisher when no broker is
// configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// NATSPublisher publishes events to a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// Connect dials the configured NATS server.
func Connect(cfg config.EventsSection) (*NATSPublisher, error) {
	conn, err := nats.Connect(cfg.URL, nats.Name("docweave"))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEvents,
			"failed to connect to event broker")
	}
	slog.Info("Connected to event broker", "url", cfg.URL, "subject", cfg.Subject)
	return &NATSPublisher{conn: conn, subject: cfg.Subject}, nil
}

// ForConfig returns a NATS publisher when the events section names a
// server, and a NopPublisher otherwise.
func ForConfig(cfg config.EventsSection) (Publisher, error) {
	if cfg.URL == "" {
		return NopPublisher{}, nil
	}
	return Connect(cfg)
}

// Publish sends one event. The timestamp is stamped here when the caller
// left it zero.
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return errors.WrapError(err, errors.CategoryEvents, "failed to marshal event")
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.WrapError(err, errors.CategoryEvents, "failed to publish event")
	}

	slog.Debug("Published event", "kind", event.Kind, "outcome", event.Outcome, "subject", p.subject)
	return nil
}

// Close drains the connection so buffered events reach the broker.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		return errors.WrapError(err, errors.CategoryEvents, "failed to drain event connection")
	}
	return nil
}
