package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/leave"
	notificationerrors "go-leave/internal/notification/errors"
	"go-leave/internal/shared/response"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreationMetrics interface {
	RecordNotificationCreated(eventType string)
}

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	HandleLeaveEvent(ctx context.Context, event events.LeaveRequestEvent) error
	List(ctx context.Context, userID string, q ListNotificationsQuery) ([]NotificationResponse, response.PaginationMeta, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type service struct {
	repo    Repository
	metrics CreationMetrics
	logger  *zap.Logger
}

func NewService(repo Repository, metrics CreationMetrics, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, metrics: metrics, logger: l}
}

// pgForeignKeyViolation is raised when the requester was deleted after the
// event was written.
const pgForeignKeyViolation = "23503"

// HandleLeaveEvent stores one notification for the requester. Redelivered
// events and events for deleted users are ignored; any other store error is
// returned so the consumer retries.
func (s *service) HandleLeaveEvent(ctx context.Context, event events.LeaveRequestEvent) error {
	eventID, err := uuid.Parse(event.EventID)
	if err != nil {
		s.logger.Warn("dropping event with invalid id", zap.String("event_id", event.EventID))
		return nil
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		s.logger.Warn("dropping event with invalid user id", zap.String("event_id", event.EventID), zap.String("user_id", event.UserID))
		return nil
	}

	n := &Notification{
		ID:        uuid.New(),
		EventID:   eventID,
		UserID:    userID,
		EventType: event.EventType,
		Message:   describe(event),
	}
	if id, err := uuid.Parse(event.LeaveRequestID); err == nil {
		n.LeaveRequestID = &id
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			s.logger.Warn("dropping event for deleted user",
				zap.String("event_id", event.EventID),
				zap.String("user_id", event.UserID),
			)
			return nil
		}
		return err
	}
	if !created {
		s.logger.Debug("duplicate event skipped", zap.String("event_id", event.EventID))
		return nil
	}

	if s.metrics != nil {
		s.metrics.RecordNotificationCreated(event.EventType)
	}
	s.logger.Info("notification created",
		zap.String("event_id", event.EventID),
		zap.String("user_id", event.UserID),
		zap.String("event_type", event.EventType),
	)
	return nil
}

func (s *service) List(ctx context.Context, userID string, q ListNotificationsQuery) ([]NotificationResponse, response.PaginationMeta, error) {
	page, size := q.Page, q.PageSize
	if page < 1 {
		page = defaultPage
	}
	if size < 1 {
		size = defaultPageSize
	}

	items, total, err := s.repo.ListByUser(ctx, userID, q.UnreadOnly, page, size)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, response.PaginationMeta{}, err
	}

	resp := make([]NotificationResponse, len(items))
	for i, n := range items {
		resp[i] = mapToResponse(n)
	}
	return resp, response.NewPaginationMeta(total, page, size), nil
}

func (s *service) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrInvalidNotificationID
	}
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notificationerrors.ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func describe(e events.LeaveRequestEvent) string {
	period := e.StartDate
	if e.EndDate != e.StartDate {
		period = fmt.Sprintf("%s to %s", e.StartDate, e.EndDate)
	}

	switch e.EventType {
	case events.LeaveRequestCreated:
		return fmt.Sprintf("Your leave request %s for %s was submitted.", e.Reference, period)
	case events.LeaveRequestDeleted:
		return fmt.Sprintf("Your leave request %s for %s was deleted.", e.Reference, period)
	}

	switch e.ToStatus {
	case leave.StatusApproved:
		return fmt.Sprintf("Your leave request %s for %s was approved.", e.Reference, period)
	case leave.StatusRejected:
		if e.RejectionReason != "" {
			return fmt.Sprintf("Your leave request %s for %s was rejected: %s", e.Reference, period, e.RejectionReason)
		}
		return fmt.Sprintf("Your leave request %s for %s was rejected.", e.Reference, period)
	case leave.StatusModified:
		return fmt.Sprintf("Your leave request %s was modified by HR and now covers %s.", e.Reference, period)
	}
	return fmt.Sprintf("Your leave request %s is now %s.", e.Reference, e.ToStatus)
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		EventType: n.EventType,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.LeaveRequestID != nil {
		id := n.LeaveRequestID.String()
		resp.LeaveRequestID = &id
	}
	return resp
}
