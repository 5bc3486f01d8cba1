package auth

import (
	"context"
	"errors"
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gate issues and verifies HS256 access tokens.
type Gate struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func NewGate(repo Repository, secret string, ttl time.Duration, logger ...*zap.Logger) *Gate {
	l := zap.L().Named("auth.gate")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.gate")
	}
	return &Gate{
		repo:   repo,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: l,
	}
}

func (g *Gate) Issue(u user.User) (string, error) {
	now := g.now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
}

// Authenticate resolves token to the stored user. The stored role wins over
// the role claim so demotions take effect before the token expires.
func (g *Gate) Authenticate(ctx context.Context, token string) (*domain.Principal, bool) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			g.logger.Debug("token rejected", zap.Error(err))
		}
		return nil, false
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, false
	}

	u, err := g.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		g.logger.Debug("token subject not resolved", zap.String("user_id", claims.Subject), zap.Error(err))
		return nil, false
	}

	p := user.ToPrincipal(*u)
	if !p.Role.Valid() {
		g.logger.Warn("stored role is not recognised", zap.String("user_id", p.UserID), zap.String("role", u.Role))
		return nil, false
	}
	return &p, true
}
