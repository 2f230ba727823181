package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

type producer interface {
	WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error
}

// Publisher serializes progression events as JSON and writes them keyed by
// user id, so all events of one user land on the same partition.
type Publisher struct {
	producer       producer
	topics         Topics
	metricsManager *metrics.Manager
}

func NewPublisher(producer producer, topics Topics, metricsManager *metrics.Manager) *Publisher {
	return &Publisher{
		producer:       producer,
		topics:         topics,
		metricsManager: metricsManager,
	}
}

func (p *Publisher) LevelUp(ctx context.Context, event LevelUp) error {
	msg, err := message(EventLevelUp, event.UserID, event)
	if err != nil {
		return err
	}
	return p.publish(ctx, p.topics.LevelUps, msg)
}

func (p *Publisher) PrestigeCompleted(ctx context.Context, event PrestigeCompleted) error {
	msg, err := message(EventPrestigeCompleted, event.UserID, event)
	if err != nil {
		return err
	}
	return p.publish(ctx, p.topics.Prestige, msg)
}

func (p *Publisher) FlagsRaised(ctx context.Context, flags []FlagRaised) error {
	if len(flags) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(flags))
	for _, f := range flags {
		msg, err := message(EventFlagRaised, f.UserID, f)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.publish(ctx, p.topics.Flags, msgs...)
}

func (p *Publisher) publish(ctx context.Context, topic string, msgs ...kafka.Message) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "notify.publish."+topic)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := p.producer.WriteMessages(ctx, topic, msgs...); err != nil {
		p.metricsManager.CounterPublishFailures.Add(float64(len(msgs)))
		log.Errorf("publish %d message(s) to [%s]: %s", len(msgs), topic, err)
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func message(eventType string, userID int64, payload any) (kafka.Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(userID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}, nil
}
