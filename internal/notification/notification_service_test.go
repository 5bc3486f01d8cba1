package notification_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go-leave/internal/events"
	"go-leave/internal/metrics"
	"go-leave/internal/notification"
	notificationerrors "go-leave/internal/notification/errors"
	notificationMock "go-leave/internal/notification/mock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type countCreated map[string]int

func (c countCreated) RecordNotificationCreated(eventType string) {
	c[eventType]++
}

func approvedEvent() events.LeaveRequestEvent {
	return events.LeaveRequestEvent{
		EventID:        uuid.NewString(),
		EventType:      events.LeaveRequestStatusChanged,
		LeaveRequestID: uuid.NewString(),
		Reference:      "LR-2026-00012",
		UserID:         uuid.NewString(),
		FromStatus:     "pending",
		ToStatus:       "approved",
		StartDate:      "2026-03-02",
		EndDate:        "2026-03-04",
		TotalDays:      3,
	}
}

func TestService_HandleLeaveEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("stores notification for requester", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMock.NewMockRepository(ctrl)
		created := countCreated{}
		svc := notification.NewService(repo, created)
		event := approvedEvent()

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n *notification.Notification) (bool, error) {
			assert.Equal(t, event.EventID, n.EventID.String())
			assert.Equal(t, event.UserID, n.UserID.String())
			assert.Equal(t, event.LeaveRequestID, n.LeaveRequestID.String())
			assert.Equal(t, "Your leave request LR-2026-00012 for 2026-03-02 to 2026-03-04 was approved.", n.Message)
			return true, nil
		})

		assert.NoError(t, svc.HandleLeaveEvent(ctx, event))
		assert.Equal(t, 1, created[events.LeaveRequestStatusChanged])
	})

	t.Run("rejection carries reason", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMock.NewMockRepository(ctrl)
		svc := notification.NewService(repo, metrics.Nop{})
		event := approvedEvent()
		event.ToStatus = "rejected"
		event.EndDate = event.StartDate
		event.RejectionReason = "Team at capacity"

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n *notification.Notification) (bool, error) {
			assert.Equal(t, "Your leave request LR-2026-00012 for 2026-03-02 was rejected: Team at capacity", n.Message)
			return true, nil
		})

		assert.NoError(t, svc.HandleLeaveEvent(ctx, event))
	})

	t.Run("duplicate event is skipped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMock.NewMockRepository(ctrl)
		created := countCreated{}
		svc := notification.NewService(repo, created)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(false, nil)

		assert.NoError(t, svc.HandleLeaveEvent(ctx, approvedEvent()))
		assert.Empty(t, created)
	})

	t.Run("store failure is returned for redelivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMock.NewMockRepository(ctrl)
		svc := notification.NewService(repo, metrics.Nop{})

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))

		assert.Error(t, svc.HandleLeaveEvent(ctx, approvedEvent()))
	})

	t.Run("deleted requester is dropped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMock.NewMockRepository(ctrl)
		created := countCreated{}
		svc := notification.NewService(repo, created)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(false, fmt.Errorf("insert notification: %w", &pgconn.PgError{Code: "23503"}))

		assert.NoError(t, svc.HandleLeaveEvent(ctx, approvedEvent()))
		assert.Empty(t, created)
	})

	t.Run("malformed ids are dropped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMock.NewMockRepository(ctrl)
		svc := notification.NewService(repo, metrics.Nop{})
		event := approvedEvent()
		event.UserID = "someone"

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		assert.NoError(t, svc.HandleLeaveEvent(ctx, event))
	})
}

func TestService_MarkRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("not owned or missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMock.NewMockRepository(ctrl)
		svc := notification.NewService(repo, metrics.Nop{})
		id := uuid.NewString()

		repo.EXPECT().MarkRead(gomock.Any(), id, userID).Return(gorm.ErrRecordNotFound)

		assert.ErrorIs(t, svc.MarkRead(ctx, userID, id), notificationerrors.ErrNotificationNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := notification.NewService(notificationMock.NewMockRepository(ctrl), metrics.Nop{})

		assert.ErrorIs(t, svc.MarkRead(ctx, userID, "x"), notificationerrors.ErrInvalidNotificationID)
	})
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := notificationMock.NewMockRepository(ctrl)
	svc := notification.NewService(repo, metrics.Nop{})
	userID := uuid.NewString()

	repo.EXPECT().ListByUser(gomock.Any(), userID, true, 1, 20).
		Return([]notification.Notification{{ID: uuid.New(), EventType: events.LeaveRequestCreated, Message: "hi"}}, int64(1), nil)

	resp, meta, err := svc.List(context.Background(), userID, notification.ListNotificationsQuery{UnreadOnly: true})

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Nil(t, resp[0].LeaveRequestID)
	assert.Equal(t, int64(1), meta.Total)
}
