package rbac

import (
	"sync"

	"go-leave/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Can(role domain.Role, perm domain.Permission) bool
	Enforce(req EnforceRequest) (bool, error)
	PermissionsFor(role domain.Role) (domain.RolePermissionsResponse, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

// Can is the single capability check used by middleware and services.
// Enforcement errors deny.
func (s *service) Can(role domain.Role, perm domain.Permission) bool {
	if !role.Valid() {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(role.String(), perm.Resource, perm.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", role.String()),
			zap.String("permission", perm.String()),
			zap.Error(err),
		)
		return false
	}
	return allowed
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return false, ErrUnknownRole
	}

	allowed := s.Can(role, domain.Permission{Resource: req.Resource, Action: req.Action})
	s.logger.Debug("rbac enforce result",
		zap.String("role", role.String()),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) PermissionsFor(role domain.Role) (domain.RolePermissionsResponse, error) {
	if !role.Valid() {
		return domain.RolePermissionsResponse{}, ErrUnknownRole
	}

	s.mu.RLock()
	perms, err := s.enforcer.GetImplicitPermissionsForUser(role.String())
	s.mu.RUnlock()
	if err != nil {
		return domain.RolePermissionsResponse{}, err
	}

	resp := domain.RolePermissionsResponse{
		Role:        role.String(),
		Privileged:  role.IsPrivileged(),
		Permissions: make([]domain.PermissionResponse, 0, len(perms)),
	}
	for _, p := range perms {
		// p = [sub, obj, act]
		if len(p) < 3 {
			continue
		}
		resp.Permissions = append(resp.Permissions, domain.PermissionResponse{
			Resource: p[1],
			Action:   p[2],
		})
	}
	return resp, nil
}
