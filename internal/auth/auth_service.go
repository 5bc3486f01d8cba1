package auth

import (
	"context"
	"errors"
	"strings"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/user"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Me(ctx context.Context, userID string) (AuthResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (AuthResponse, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

type TokenIssuer interface {
	Issue(u user.User) (string, error)
}

type service struct {
	repo   Repository
	tokens TokenIssuer
	logger *zap.Logger
}

func NewService(repo Repository, tokens TokenIssuer, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, tokens: tokens, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	rid := contextutil.GetRequestID(ctx)

	u, err := s.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.String("request_id", rid), zap.Error(err))
			return LoginResponse{}, err
		}
		s.logger.Info("login failed: unknown identifier", zap.String("request_id", rid))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if !user.VerifyPassword(u.Password, req.Password) {
		s.logger.Info("login failed: wrong password", zap.String("request_id", rid), zap.String("user_id", u.ID.String()))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(*u)
	if err != nil {
		s.logger.Error("sign token failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login succeeded", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
	return LoginResponse{Token: token, User: mapToResponse(*u)}, nil
}

func (s *service) Me(ctx context.Context, userID string) (AuthResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return AuthResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (AuthResponse, error) {
	fields := map[string]any{}
	if req.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Department != nil {
		fields["department"] = strings.TrimSpace(*req.Department)
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}

	if err := s.repo.UpdateProfile(ctx, userID, fields); err != nil {
		s.logger.Warn("update profile failed", zap.String("user_id", userID), zap.Error(err))
		return AuthResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("profile updated", zap.String("user_id", userID), zap.Int("fields", len(fields)))
	return s.Me(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return mapRepositoryError(err)
	}

	if !user.VerifyPassword(u.Password, req.CurrentPassword) {
		return autherrors.ErrWrongPassword
	}

	hashed, err := user.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, hashed); err != nil {
		return mapRepositoryError(err)
	}

	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return autherrors.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return autherrors.ErrEmailAlreadyRegistered
	}
	return err
}

func mapToResponse(u user.User) AuthResponse {
	return AuthResponse{
		ID:         u.ID.String(),
		Username:   u.Username,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		AvatarURL:  u.AvatarURL,
	}
}
