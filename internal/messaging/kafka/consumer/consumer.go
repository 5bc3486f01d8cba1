package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	defaultRetryInitial = time.Second
	defaultRetryMax     = 30 * time.Second
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type LeaveEventHandler interface {
	HandleLeaveEvent(ctx context.Context, event events.LeaveRequestEvent) error
}

// Backoff bounds the wait between attempts at a message the handler failed.
// The delay doubles from Initial up to Max. Zero values use 1s and 30s.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

func (b Backoff) normalize() Backoff {
	if b.Initial <= 0 {
		b.Initial = defaultRetryInitial
	}
	if b.Max <= 0 {
		b.Max = defaultRetryMax
	}
	if b.Max < b.Initial {
		b.Max = b.Initial
	}
	return b
}

// ConsumeLeaveLifecycle feeds lifecycle events to handler until ctx is done.
// Undecodable messages are committed and dropped. A failing message is
// retried in place with backoff, so no later offset is committed past it;
// if ctx ends while retrying, the message stays uncommitted and the group
// redelivers it.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	handler LeaveEventHandler,
	backoff Backoff,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	backoff = backoff.normalize()
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveRequestEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil || event.EventID == "" {
			log.Error("decode leave lifecycle event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		fields := []zap.Field{
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
			zap.String("leave_request_id", event.LeaveRequestID),
			zap.Int64("offset", msg.Offset),
		}

		if !deliver(ctx, handler, event, backoff, log, fields) {
			log.Info("leave lifecycle consumer stopped", fields...)
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", append(fields, zap.Error(err))...)
			continue
		}

		log.Debug("leave lifecycle event handled", fields...)
	}
}

// deliver calls handler until it succeeds. It reports false when ctx ends
// first.
func deliver(
	ctx context.Context,
	handler LeaveEventHandler,
	event events.LeaveRequestEvent,
	backoff Backoff,
	log *zap.Logger,
	fields []zap.Field,
) bool {
	delay := backoff.Initial
	for attempt := 1; ; attempt++ {
		err := handler.HandleLeaveEvent(ctx, event)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		log.Error("handle leave lifecycle event failed",
			append(fields,
				zap.Int("attempt", attempt),
				zap.Duration("retry_in", delay),
				zap.Error(err),
			)...,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}

		delay *= 2
		if delay > backoff.Max {
			delay = backoff.Max
		}
	}
}
