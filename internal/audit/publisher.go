package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"
)

// Publisher delivers committed audit events to downstream consumers.
type Publisher interface {
	// Publish sends events in order. Events are already durable in the
	// ledger store, so a failure here never undoes the mutation.
	Publish(ctx context.Context, events []*Event) error

	Close() error
}

const (
	// StreamName is the JetStream stream holding ledger events.
	StreamName = "LEDGER_EVENTS"

	// SubjectPrefix is followed by the event kind, e.g. ledger.events.TransactionRecorded.
	SubjectPrefix = "ledger.events"

	// StreamRetention is how long events stay in the stream.
	StreamRetention = 30 * 24 * time.Hour
)

// Subject returns the subject an event is published on.
func Subject(e *Event) string {
	return SubjectPrefix + "." + string(e.Kind)
}

// JetStreamPublisher publishes audit events to NATS JetStream.
type JetStreamPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger *logrus.Logger
}

// NewJetStreamPublisher connects to NATS and makes sure the stream exists.
func NewJetStreamPublisher(natsURL string, logger *logrus.Logger) (*JetStreamPublisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("tx-ledger"),
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	p := &JetStreamPublisher{nc: nc, js: js, logger: logger}
	if err := p.ensureStream(); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream exists: %w", err)
	}

	logger.WithFields(logrus.Fields{"url": natsURL, "stream": StreamName}).Info("JetStreamPublisher.ready")
	return p, nil
}

func (p *JetStreamPublisher) ensureStream() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := p.js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := p.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Description: "Audit events emitted by the transaction ledger",
		Subjects:    []string{SubjectPrefix + ".*"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      StreamRetention,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	p.logger.WithField("stream", StreamName).Info("JetStreamPublisher.streamCreated")
	return nil
}

// Publish sends every event, using the event id as the JetStream message id
// so redeliveries are deduplicated by the server. It keeps going after a
// failure and returns the first error.
func (p *JetStreamPublisher) Publish(ctx context.Context, events []*Event) error {
	var firstErr error
	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal audit event: %w", err)
		}

		_, err = p.js.Publish(ctx, Subject(event), data, jetstream.WithMsgID(event.ID.String()))
		if err != nil {
			p.logger.WithError(err).WithFields(logrus.Fields{
				"eventID": event.ID.String(),
				"kind":    event.Kind,
			}).Error("JetStreamPublisher.Publish.error")
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to publish %s: %w", event.Kind, err)
			}
		}
	}
	return firstErr
}

// Ping reports whether the NATS connection is currently up.
func (p *JetStreamPublisher) Ping(_ context.Context) error {
	if !p.nc.IsConnected() {
		return fmt.Errorf("nats connection %s", p.nc.Status())
	}
	return nil
}

func (p *JetStreamPublisher) Close() error {
	if p.nc != nil {
		p.nc.Close()
		p.logger.Info("JetStreamPublisher.closed")
	}
	return nil
}

// LogPublisher writes events to the log only. Used when no NATS server is configured.
type LogPublisher struct {
	Logger *logrus.Logger
}

func (p *LogPublisher) Publish(_ context.Context, events []*Event) error {
	for _, event := range events {
		p.Logger.WithFields(logrus.Fields{
			"eventID": event.ID.String(),
			"seq":     event.Seq,
			"kind":    event.Kind,
			"payload": string(event.Payload),
		}).Info("AuditEvent")
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }
