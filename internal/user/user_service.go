package user

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/domain"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"
	usererrors "go-leave/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock

type Service interface {
	List(ctx context.Context, q ListUsersQuery) ([]UserResponse, response.PaginationMeta, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Create(ctx context.Context, actor domain.Principal, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, actor domain.Principal, id string) error
	// Bootstrap creates the first HR account when the store is empty. It
	// reports whether a user was created.
	Bootstrap(ctx context.Context, req CreateUserRequest) (bool, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	ledger balance.Ledger
	outbox kafka.OutboxRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	ledger balance.Ledger,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		ledger: ledger,
		outbox: outbox,
		logger: l,
		now:    time.Now,
	}
}

// HashPassword returns the bcrypt hash stored in users.password.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *service) List(ctx context.Context, q ListUsersQuery) ([]UserResponse, response.PaginationMeta, error) {
	filter := ListFilter{
		Role:       q.Role,
		Department: q.Department,
		Search:     q.Q,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}

	users, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, response.PaginationMeta{}, mapRepositoryError(err)
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, response.NewPaginationMeta(total, filter.Page, filter.PageSize), nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

// Create stores the user, opens its balances for the current year and
// enqueues user.created, all in one transaction.
func (s *service) Create(ctx context.Context, actor domain.Principal, req CreateUserRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create user requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.UserID),
		zap.String("username", req.Username),
	)

	u, err := s.newUser(req)
	if err != nil {
		return UserResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create user begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	if err := s.insert(ctx, tx, u, actor.UserID); err != nil {
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create user commit failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("username", u.Username),
		zap.String("role", u.Role),
	)
	return mapToResponse(*u), nil
}

func (s *service) Bootstrap(ctx context.Context, req CreateUserRequest) (bool, error) {
	if req.Role == "" {
		req.Role = domain.RoleHR.String()
	}
	u, err := s.newUser(req)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	n, err := s.repo.WithTx(tx).Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.logger.Debug("bootstrap skipped: users exist", zap.Int64("users", n))
		return false, nil
	}

	if err := s.insert(ctx, tx, u, ""); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}

	s.logger.Info("bootstrap user created", zap.String("user_id", u.ID.String()), zap.String("username", u.Username))
	return true, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update user begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	if err := applyUpdate(u, req); err != nil {
		return UserResponse{}, err
	}

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Warn("update user failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update user commit failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("user updated", zap.String("user_id", id))
	return mapToResponse(*u), nil
}

// Delete cascades to the user's requests, balances and notifications.
func (s *service) Delete(ctx context.Context, actor domain.Principal, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}
	if id == actor.UserID {
		return usererrors.ErrCannotDeleteSelf
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("actor_id", actor.UserID))
	return nil
}

func (s *service) newUser(req CreateUserRequest) (*User, error) {
	role := domain.RoleEmployee
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			return nil, usererrors.ErrInvalidRole
		}
		role = parsed
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	return &User{
		ID:         uuid.New(),
		Username:   strings.TrimSpace(req.Username),
		FullName:   strings.TrimSpace(req.FullName),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   hashed,
		Role:       role.String(),
		Department: strings.TrimSpace(req.Department),
		AvatarURL:  req.AvatarURL,
	}, nil
}

func (s *service) insert(ctx context.Context, tx *sql.Tx, u *User, actorID string) error {
	if err := s.repo.WithTx(tx).Create(ctx, u); err != nil {
		s.logger.Warn("insert user failed", zap.String("username", u.Username), zap.Error(err))
		return mapRepositoryError(err)
	}

	if _, err := s.ledger.WithTx(tx).InitializeForUser(ctx, u.ID.String()); err != nil {
		return err
	}

	return s.enqueueCreated(ctx, tx, u, actorID)
}

func (s *service) enqueueCreated(ctx context.Context, tx *sql.Tx, u *User, actorID string) error {
	if s.outbox == nil {
		return nil
	}

	payload := events.UserCreatedEvent{
		EventID:    uuid.NewString(),
		EventType:  events.UserCreated,
		UserID:     u.ID.String(),
		Username:   u.Username,
		Role:       u.Role,
		Department: u.Department,
		CreatedBy:  actorID,
		OccurredAt: s.now().UTC(),
	}

	event, err := kafka.NewOutboxEvent(
		ctx,
		payload.EventID,
		events.AggregateUser,
		payload.UserID,
		events.UserCreated,
		events.UserLifecycleTopic,
		payload,
	)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func applyUpdate(u *User, req UpdateUserRequest) error {
	if req.FullName != nil {
		u.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Department != nil {
		u.Department = strings.TrimSpace(*req.Department)
	}
	if req.AvatarURL != nil {
		u.AvatarURL = req.AvatarURL
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return usererrors.ErrInvalidRole
		}
		u.Role = role.String()
	}
	if req.Password != nil {
		hashed, err := HashPassword(*req.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
	}
	return nil
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Username:   u.Username,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		AvatarURL:  u.AvatarURL,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  u.UpdatedAt.Format(time.RFC3339),
	}
}

// ToPrincipal is the caller identity derived from a stored user.
func ToPrincipal(u User) domain.Principal {
	return domain.Principal{
		UserID:   u.ID.String(),
		Username: u.Username,
		Role:     domain.Role(u.Role),
	}
}
