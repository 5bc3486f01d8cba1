package app

import (
	"go-leave/internal/auth"
	"go-leave/internal/balance"
	"go-leave/internal/bootstrap"
	"go-leave/internal/config"
	"go-leave/internal/department"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/metrics"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/shared/counter"
	"go-leave/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	in *Infra,
	collector *metrics.Collector,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(in.GormDB)
	balanceRepo := balance.NewRepository(in.GormDB)
	counterRepo := counter.NewRepository(in.GormDB)
	departmentRepo := department.NewRepository(in.GormDB)
	leaveRepo := leave.NewRepository(in.GormDB)
	leaveTypeRepo := leavetype.NewRepository(in.GormDB)
	notificationRepo := notification.NewRepository(in.GormDB)
	outboxRepo := kafka.NewOutboxRepository(in.DB)
	userRepo := user.NewRepository(in.GormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)

	gate := auth.NewGate(authRepo, cfg.JWTSecret, cfg.JWTTTL, logger)
	auditLogger := bootstrap.NewStdoutAuditLogger(logger)
	ledger := balance.NewLedger(balanceRepo, collector, logger)

	// --- Services ---
	authService := auth.NewService(authRepo, gate, logger)
	balanceService := balance.NewService(in.DB, balanceRepo, ledger, rbacService, auditLogger, logger)
	departmentService := department.NewService(in.DB, departmentRepo, in.Redis, logger)
	leaveTypeService := leavetype.NewService(in.DB, leaveTypeRepo, in.Redis, logger)
	leaveService := leave.NewService(
		in.DB,
		leaveRepo,
		leaveTypeRepo,
		ledger,
		counterRepo,
		outboxRepo,
		rbacService,
		collector,
		in.Redis,
		logger,
	)
	notificationService := notification.NewService(notificationRepo, collector, logger)
	userService := user.NewService(in.DB, userRepo, ledger, outboxRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieOptions{Secure: cfg.IsProduction(), TTL: cfg.JWTTTL}, logger)
	balanceHandler := balance.NewHandler(balanceService, logger)
	departmentHandler := department.NewHandler(departmentService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)
	userHandler := user.NewHandler(userService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, gate)
		balance.RegisterRoutes(api, balanceHandler, gate, rbacService)
		department.RegisterRoutes(api, departmentHandler, gate, rbacService)
		leave.RegisterRoutes(api, leaveHandler, gate, rbacService, in.Redis)
		leavetype.RegisterRoutes(api, leaveTypeHandler, gate, rbacService)
		notification.RegisterRoutes(api, notificationHandler, gate)
		rbac.RegisterRoutes(api, rbacHandler, gate, rbacService)
		user.RegisterRoutes(api, userHandler, gate, rbacService)
	}

	return nil
}
