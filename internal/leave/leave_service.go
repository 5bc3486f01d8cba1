package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/domain"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/counter"
	"go-leave/internal/shared/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	DepartmentStatsKey      = "leave_stats:departments"
	PeriodStatsKeyPrefix    = "leave_stats:periods:"
	statsCacheTTL           = time.Minute
	dateLayout              = "2006-01-02"
	referencePrefix         = "LR"
	referenceSequenceDigits = 5
)

type TransitionMetrics interface {
	RecordLeaveTransition(from, to string)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Principal, req CreateLeaveRequest) (LeaveResponse, error)
	GetByID(ctx context.Context, actor domain.Principal, id string) (LeaveResponse, error)
	List(ctx context.Context, actor domain.Principal, q ListLeavesQuery) ([]LeaveResponse, response.PaginationMeta, error)
	Transition(ctx context.Context, actor domain.Principal, id string, req TransitionRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actor domain.Principal, id string) error
	Stats(ctx context.Context, actor domain.Principal) (StatsResponse, error)
	StatsByDepartment(ctx context.Context) ([]DepartmentStatResponse, error)
	StatsByPeriod(ctx context.Context, year int) ([]PeriodStatResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	leaveTypes leavetype.Repository
	ledger     balance.Ledger
	counter    counter.Repository
	outbox     kafka.OutboxRepository
	authz      domain.Authorizer
	metrics    TransitionMetrics
	rdb        *redis.Client
	sf         *singleflight.Group
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	leaveTypes leavetype.Repository,
	ledger balance.Ledger,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	authz domain.Authorizer,
	metrics TransitionMetrics,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		leaveTypes: leaveTypes,
		ledger:     ledger,
		counter:    counter,
		outbox:     outboxRepo,
		authz:      authz,
		metrics:    metrics,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		logger:     l,
		now:        time.Now,
	}
}

// canReview reports whether actor acts as HR for leave requests: reviewing,
// reading everyone's requests and deleting in any state.
func (s *service) canReview(actor domain.Principal) bool {
	return actor.Role.Can(s.authz, domain.PermLeaveApprove)
}

func (s *service) Create(ctx context.Context, actor domain.Principal, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.UserID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	userUUID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}
	typeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveTypeID
	}
	startDate, endDate, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	totalDays := countDays(startDate, endDate)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := s.activeLeaveType(ctx, tx, req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if lt.RequiresJustification && strings.TrimSpace(req.Reason) == "" {
		return LeaveResponse{}, leaveerrors.ErrReasonRequired
	}

	if err := s.lockUser(ctx, qtx, actor.UserID); err != nil {
		return LeaveResponse{}, err
	}
	overlap, err := qtx.HasOverlappingPeriod(ctx, actor.UserID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("user_id", actor.UserID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	year := s.now().UTC().Year()
	if lt.TracksBalance {
		if _, err := s.ledger.WithTx(tx).EnsureSufficient(ctx, actor.UserID, req.LeaveTypeID, year, float64(totalDays)); err != nil {
			return LeaveResponse{}, mapLedgerError(err)
		}
	}

	seq, err := s.counter.WithTx(tx).GetNextValue(ctx, strconv.Itoa(year), counter.CounterLeaveRequest)
	if err != nil {
		s.logger.Error("create leave next reference failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:          uuid.New(),
		Reference:   fmt.Sprintf("%s-%d-%0*d", referencePrefix, year, referenceSequenceDigits, seq),
		UserID:      userUUID,
		LeaveTypeID: typeUUID,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalDays:   totalDays,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueue(ctx, tx, events.LeaveRequestCreated, l, actor.UserID, ""); err != nil {
		s.logger.Error("create leave outbox failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("reference", l.Reference),
		zap.String("user_id", actor.UserID),
		zap.Int("total_days", totalDays),
	)

	return mapToResponse(LeaveView{
		LeaveRequest:  *l,
		LeaveTypeName: lt.Name,
		Username:      actor.Username,
	}), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Principal, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	v, err := s.repo.FindViewByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if v.UserID.String() != actor.UserID && !s.canReview(actor) {
		s.logger.Warn("get leave denied",
			zap.String("leave_id", id),
			zap.String("actor_id", actor.UserID),
		)
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}

	return mapToResponse(*v), nil
}

func (s *service) List(ctx context.Context, actor domain.Principal, q ListLeavesQuery) ([]LeaveResponse, response.PaginationMeta, error) {
	filter := ListFilter{
		Status:   strings.ToLower(q.Status),
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}

	if s.canReview(actor) {
		filter.UserID = q.UserID
	} else {
		if q.UserID != "" && q.UserID != actor.UserID {
			return nil, response.PaginationMeta{}, leaveerrors.ErrNotOwner
		}
		filter.UserID = actor.UserID
	}

	views, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list leaves failed", zap.Error(err))
		return nil, response.PaginationMeta{}, err
	}

	resp := make([]LeaveResponse, len(views))
	for i, v := range views {
		resp[i] = mapToResponse(v)
	}
	return resp, response.NewPaginationMeta(total, filter.Page, filter.PageSize), nil
}

// Transition applies one reviewer decision. The request row is locked first
// and the balance row second; the ledger change, the new status and the
// outbox event commit together or not at all.
func (s *service) Transition(ctx context.Context, actor domain.Principal, id string, req TransitionRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("transition leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actor.UserID),
		zap.String("target_status", req.Status),
	)

	if !s.canReview(actor) {
		return LeaveResponse{}, apperror.ErrForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	reviewerID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	target := strings.ToLower(strings.TrimSpace(req.Status))
	switch target {
	case StatusApproved, StatusModified:
	case StatusRejected:
		if req.RejectionReason == nil || strings.TrimSpace(*req.RejectionReason) == "" {
			return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
		}
	default:
		return LeaveResponse{}, leaveerrors.ErrInvalidTargetStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ledger := s.ledger.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	from := l.Status

	if err := checkTransition(l, target); err != nil {
		s.logger.Warn("transition leave invalid",
			zap.String("leave_id", id),
			zap.String("from_status", from),
			zap.String("to_status", target),
			zap.Float64("deducted_days", l.DeductedDays),
		)
		return LeaveResponse{}, err
	}

	var lt *leavetype.LeaveType
	switch target {
	case StatusApproved:
		lt, err = s.leaveType(ctx, tx, l.LeaveTypeID.String())
		if err != nil {
			return LeaveResponse{}, err
		}
		if err := s.charge(ctx, ledger, l, lt); err != nil {
			return LeaveResponse{}, err
		}
		l.RejectionReason = nil

	case StatusRejected:
		if err := s.refund(ctx, ledger, l); err != nil {
			return LeaveResponse{}, err
		}
		reason := strings.TrimSpace(*req.RejectionReason)
		l.RejectionReason = &reason
		lt, err = s.leaveType(ctx, tx, l.LeaveTypeID.String())
		if err != nil {
			return LeaveResponse{}, err
		}

	case StatusModified:
		// An approved request stays charged through a modification; a
		// pending one is only recomputed.
		charged := from == StatusApproved || l.DeductedDays > 0
		if err := s.refund(ctx, ledger, l); err != nil {
			return LeaveResponse{}, err
		}
		lt, err = s.applyModification(ctx, tx, qtx, l, req)
		if err != nil {
			return LeaveResponse{}, err
		}
		if charged {
			if err := s.charge(ctx, ledger, l, lt); err != nil {
				return LeaveResponse{}, err
			}
		}
		l.RejectionReason = nil
	}

	now := s.now().UTC()
	l.Status = target
	l.ReviewedBy = &reviewerID
	l.ReviewedAt = &now

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("transition leave persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", target),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := s.enqueue(ctx, tx, events.LeaveRequestStatusChanged, l, actor.UserID, from); err != nil {
		s.logger.Error("transition leave outbox failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordLeaveTransition(from, target)
	}
	s.logger.Info("transition leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("from_status", from),
		zap.String("to_status", target),
		zap.Float64("deducted_days", l.DeductedDays),
	)

	return mapToResponse(LeaveView{LeaveRequest: *l, LeaveTypeName: lt.Name}), nil
}

// checkTransition enforces the lifecycle table. Rejected is terminal, and a
// request that already holds a deduction cannot be approved again.
func checkTransition(l *LeaveRequest, target string) error {
	switch l.Status {
	case StatusPending:
		return nil
	case StatusApproved:
		if target == StatusApproved {
			return leaveerrors.ErrAlreadyApproved
		}
		return nil
	case StatusModified:
		if target == StatusApproved && l.DeductedDays > 0 {
			return leaveerrors.ErrAlreadyApproved
		}
		return nil
	default:
		return leaveerrors.ErrInvalidStatusTransition
	}
}

func (s *service) applyModification(ctx context.Context, tx *sql.Tx, qtx Repository, l *LeaveRequest, req TransitionRequest) (*leavetype.LeaveType, error) {
	typeChanged := false
	if req.LeaveTypeID != nil && *req.LeaveTypeID != "" {
		parsed, err := uuid.Parse(*req.LeaveTypeID)
		if err != nil {
			return nil, leaveerrors.ErrInvalidLeaveTypeID
		}
		typeChanged = parsed != l.LeaveTypeID
		l.LeaveTypeID = parsed
	}

	start := l.StartDate.Format(dateLayout)
	end := l.EndDate.Format(dateLayout)
	if req.StartDate != nil && *req.StartDate != "" {
		start = *req.StartDate
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end = *req.EndDate
	}
	startDate, endDate, err := parsePeriod(start, end)
	if err != nil {
		return nil, err
	}
	l.StartDate = startDate
	l.EndDate = endDate
	l.TotalDays = countDays(startDate, endDate)

	if req.Reason != nil {
		l.Reason = strings.TrimSpace(*req.Reason)
	}

	// A type deactivated after the request was filed still applies to it;
	// only switching to another type requires that type to be active.
	lookup := s.leaveType
	if typeChanged {
		lookup = s.activeLeaveType
	}
	lt, err := lookup(ctx, tx, l.LeaveTypeID.String())
	if err != nil {
		return nil, err
	}
	if lt.RequiresJustification && l.Reason == "" {
		return nil, leaveerrors.ErrReasonRequired
	}

	if err := s.lockUser(ctx, qtx, l.UserID.String()); err != nil {
		return nil, err
	}
	id := l.ID.String()
	overlap, err := qtx.HasOverlappingPeriod(ctx, l.UserID.String(), startDate, endDate, &id)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, leaveerrors.ErrLeaveOverlap
	}

	return lt, nil
}

// charge deducts the request's days from the current year when its type
// tracks a balance.
func (s *service) charge(ctx context.Context, ledger balance.Ledger, l *LeaveRequest, lt *leavetype.LeaveType) error {
	if !lt.TracksBalance {
		return nil
	}
	year := s.now().UTC().Year()
	days := float64(l.TotalDays)
	if _, err := ledger.AdjustByDelta(ctx, l.UserID.String(), l.LeaveTypeID.String(), year, days, balance.DirectionDeduct); err != nil {
		return mapLedgerError(err)
	}
	l.DeductedDays = days
	l.BalanceYear = &year
	return nil
}

// refund credits back exactly what the request holds, on the year it was
// taken from.
func (s *service) refund(ctx context.Context, ledger balance.Ledger, l *LeaveRequest) error {
	if l.DeductedDays <= 0 || l.BalanceYear == nil {
		return nil
	}
	if _, err := ledger.AdjustByDelta(ctx, l.UserID.String(), l.LeaveTypeID.String(), *l.BalanceYear, l.DeductedDays, balance.DirectionRestore); err != nil {
		return mapLedgerError(err)
	}
	l.DeductedDays = 0
	l.BalanceYear = nil
	return nil
}

func (s *service) Delete(ctx context.Context, actor domain.Principal, id string) error {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if !s.canReview(actor) {
		if l.UserID.String() != actor.UserID {
			return leaveerrors.ErrNotOwner
		}
		if l.Status != StatusPending {
			return leaveerrors.ErrDeleteNotPending
		}
	}

	if err := s.refund(ctx, s.ledger.WithTx(tx), l); err != nil {
		return err
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, tx, events.LeaveRequestDeleted, l, actor.UserID, l.Status); err != nil {
		s.logger.Error("delete leave outbox failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("delete leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", l.Status),
		zap.String("actor_id", actor.UserID),
	)
	return nil
}

func (s *service) Stats(ctx context.Context, actor domain.Principal) (StatsResponse, error) {
	userID := actor.UserID
	if s.canReview(actor) {
		userID = ""
	}

	counts, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		s.logger.Error("leave stats failed", zap.Error(err))
		return StatsResponse{}, err
	}

	var resp StatsResponse
	for _, c := range counts {
		switch c.Status {
		case StatusPending:
			resp.Pending = c.Count
		case StatusApproved:
			resp.Approved = c.Count
		case StatusRejected:
			resp.Rejected = c.Count
		case StatusModified:
			resp.Modified = c.Count
		}
		resp.Total += c.Count
	}
	return resp, nil
}

func (s *service) StatsByDepartment(ctx context.Context) ([]DepartmentStatResponse, error) {
	return cached(ctx, s, DepartmentStatsKey, func() ([]DepartmentStatResponse, error) {
		stats, err := s.repo.StatsByDepartment(ctx)
		if err != nil {
			return nil, err
		}
		resp := make([]DepartmentStatResponse, len(stats))
		for i, st := range stats {
			resp[i] = DepartmentStatResponse(st)
		}
		return resp, nil
	})
}

func (s *service) StatsByPeriod(ctx context.Context, year int) ([]PeriodStatResponse, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	if year < 1900 || year > 9999 {
		return nil, leaveerrors.ErrInvalidYear
	}

	return cached(ctx, s, PeriodStatsKeyPrefix+strconv.Itoa(year), func() ([]PeriodStatResponse, error) {
		stats, err := s.repo.StatsByPeriod(ctx, year)
		if err != nil {
			return nil, err
		}
		resp := make([]PeriodStatResponse, len(stats))
		for i, st := range stats {
			resp[i] = PeriodStatResponse(st)
		}
		return resp, nil
	})
}

// cached serves key from Redis and otherwise loads it once per key across
// concurrent callers, storing the result for statsCacheTTL.
func cached[T any](ctx context.Context, s *service, key string, load func() ([]T, error)) ([]T, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp []T
			if json.Unmarshal([]byte(raw), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		resp, err := load()
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, key, jsonData, statsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache leave stats failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("leave stats failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return v.([]T), nil
}

func (s *service) lockUser(ctx context.Context, qtx Repository, userID string) error {
	if err := qtx.LockUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrInvalidUserID
		}
		s.logger.Error("lock user failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) leaveType(ctx context.Context, tx *sql.Tx, id string) (*leavetype.LeaveType, error) {
	lt, err := s.leaveTypes.WithTx(tx).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveTypeNotFound
		}
		return nil, err
	}
	return lt, nil
}

func (s *service) activeLeaveType(ctx context.Context, tx *sql.Tx, id string) (*leavetype.LeaveType, error) {
	lt, err := s.leaveType(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !lt.IsActive {
		return nil, leaveerrors.ErrLeaveTypeInactive
	}
	return lt, nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, eventType string, l *LeaveRequest, actorID, fromStatus string) error {
	if s.outbox == nil {
		return nil
	}

	payload := events.LeaveRequestEvent{
		EventID:        uuid.NewString(),
		EventType:      eventType,
		LeaveRequestID: l.ID.String(),
		Reference:      l.Reference,
		UserID:         l.UserID.String(),
		ActorID:        actorID,
		LeaveTypeID:    l.LeaveTypeID.String(),
		FromStatus:     fromStatus,
		ToStatus:       l.Status,
		StartDate:      l.StartDate.Format(dateLayout),
		EndDate:        l.EndDate.Format(dateLayout),
		TotalDays:      l.TotalDays,
		OccurredAt:     s.now().UTC(),
	}
	if l.RejectionReason != nil {
		payload.RejectionReason = *l.RejectionReason
	}

	event, err := kafka.NewOutboxEvent(
		ctx,
		payload.EventID,
		events.AggregateLeaveRequest,
		payload.LeaveRequestID,
		eventType,
		events.LeaveLifecycleTopic,
		payload,
	)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

const secondsPerDay = 24 * 60 * 60

func parsePeriod(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// countDays counts calendar days, both ends included. Dates parse at UTC
// midnight, so whole-second arithmetic is exact; time.Duration would saturate
// for ranges longer than about 292 years.
func countDays(start, end time.Time) int {
	return int((end.Unix()-start.Unix())/secondsPerDay) + 1
}

func mapToResponse(v LeaveView) LeaveResponse {
	resp := LeaveResponse{
		ID:              v.ID.String(),
		Reference:       v.Reference,
		UserID:          v.UserID.String(),
		Username:        v.Username,
		FullName:        v.FullName,
		Department:      v.Department,
		LeaveTypeID:     v.LeaveTypeID.String(),
		LeaveTypeName:   v.LeaveTypeName,
		StartDate:       v.StartDate.Format(dateLayout),
		EndDate:         v.EndDate.Format(dateLayout),
		TotalDays:       v.TotalDays,
		Reason:          v.Reason,
		Status:          v.Status,
		RejectionReason: v.RejectionReason,
		DeductedDays:    v.DeductedDays,
		CreatedAt:       v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       v.UpdatedAt.Format(time.RFC3339),
	}
	if v.ReviewedBy != nil {
		id := v.ReviewedBy.String()
		resp.ReviewedBy = &id
	}
	if v.ReviewedAt != nil {
		at := v.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &at
	}
	return resp
}
