package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymprogress/internal/telemetry/metrics"
)

// Reader is the part of kafka.Reader the consumer needs.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type workoutRecorder interface {
	RecordWorkoutBestEffort(ctx context.Context, workout WorkoutLogged)
}

// WorkoutConsumer feeds logged workouts into the live progression path.
// Progression is best effort: every message is committed once handled, a
// failed update is repaired by the next weekly aggregation.
type WorkoutConsumer struct {
	reader         Reader
	recorder       workoutRecorder
	metricsManager *metrics.Manager

	// wait after a failed fetch, doubled on every consecutive failure up to MaxFetchBackoff
	FetchBackoff    time.Duration
	MaxFetchBackoff time.Duration
}

func NewWorkoutConsumer(reader Reader, recorder workoutRecorder, metricsManager *metrics.Manager) *WorkoutConsumer {
	return &WorkoutConsumer{
		reader:          reader,
		recorder:        recorder,
		metricsManager:  metricsManager,
		FetchBackoff:    500 * time.Millisecond,
		MaxFetchBackoff: 30 * time.Second,
	}
}

func NewKafkaReader(brokers []string, groupID, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: 0,
	})
}

// Run blocks until ctx is done.
func (c *WorkoutConsumer) Run(ctx context.Context) error {
	backoff := c.FetchBackoff
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			log.Errorf("workout consumer, fetch message (retry in %s): %s", backoff, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff = min(2*backoff, c.MaxFetchBackoff)
			continue
		}
		backoff = c.FetchBackoff

		workout, err := decodeWorkout(msg)
		if err != nil {
			log.Warnf("workout consumer, malformed message (partition=%d, offset=%d): %s", msg.Partition, msg.Offset, err)
			c.metricsManager.CounterConsumedMessages.WithLabelValues("malformed").Inc()
		} else {
			c.recorder.RecordWorkoutBestEffort(ctx, workout)
			c.metricsManager.CounterConsumedMessages.WithLabelValues("processed").Inc()
		}

		// malformed messages are committed as well, so they never block the partition
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Errorf("workout consumer, commit offset %d: %s", msg.Offset, err)
		}
	}
}

func (c *WorkoutConsumer) Close() error {
	return c.reader.Close()
}

func decodeWorkout(msg kafka.Message) (WorkoutLogged, error) {
	for _, h := range msg.Headers {
		if h.Key == "event_type" && string(h.Value) != EventWorkoutLogged {
			return WorkoutLogged{}, fmt.Errorf("unexpected event type %q", h.Value)
		}
	}

	var workout WorkoutLogged
	if err := json.Unmarshal(msg.Value, &workout); err != nil {
		return WorkoutLogged{}, fmt.Errorf("unmarshal workout: %w", err)
	}
	if workout.UserID <= 0 || workout.SessionID <= 0 {
		return WorkoutLogged{}, errors.New("workout without user or session id")
	}
	return workout, nil
}
