package kafka_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestNewOutboxEvent(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-1")

	event, err := kafka.NewOutboxEvent(ctx, "", events.AggregateLeaveRequest, "lr-1",
		events.LeaveRequestCreated, events.LeaveLifecycleTopic,
		events.LeaveRequestEvent{LeaveRequestID: "lr-1", ToStatus: "pending"})

	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)
	assert.Contains(t, string(event.Payload), `"leave_request_id":"lr-1"`)
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{ID: "1", AggregateID: "a", Topic: "t", Payload: []byte("{}"), Status: kafka.OutboxStatusPending}
	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	noTopic := valid
	noTopic.Topic = ""
	assert.Error(t, kafka.ValidateOutboxEvent(noTopic))

	badStatus := valid
	badStatus.Status = "queued"
	assert.Error(t, kafka.ValidateOutboxEvent(badStatus))
}

func TestOutboxRepository_CreateUsesTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs("ev-1", "req-1", "leave_request", "lr-1", "leave_request.created", events.LeaveLifecycleTopic, []byte(`{}`), kafka.OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	repo := kafka.NewOutboxRepository(db).WithTx(tx)
	err = repo.Create(context.Background(), kafka.OutboxEvent{
		ID: "ev-1", RequestID: "req-1", AggregateType: "leave_request", AggregateID: "lr-1",
		EventType: "leave_request.created", Topic: events.LeaveLifecycleTopic,
		Payload: []byte(`{}`), Status: kafka.OutboxStatusPending,
	})
	assert.NoError(t, err)
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at"}).
		AddRow("ev-1", "req-1", "leave_request", "lr-1", "leave_request.created", events.LeaveLifecycleTopic, []byte(`{}`), "pending", 0, now)

	mock.ExpectQuery("FROM outbox_events").
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
		WillReturnRows(rows)

	got, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 0)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "lr-1", got[0].AggregateID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("ev-1", kafka.OutboxStatusFailed, "broker down").
		WillReturnResult(driver.RowsAffected(1))

	assert.NoError(t, kafka.NewOutboxRepository(db).MarkFailed(context.Background(), "ev-1", "broker down"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
