package app

import (
	"context"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/config"
	"go-leave/internal/database"
	"go-leave/internal/domain"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/metrics"
	"go-leave/internal/user"

	"go.uber.org/zap"
)

// RunMigrate applies pending migrations and then seeds the first HR account
// when the users table is still empty.
func RunMigrate(cfg *config.Config) error {
	logger := zap.L().Named("app.migrate")

	if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
		return err
	}
	version, dirty, err := database.Version(cfg.DatabaseURL())
	if err != nil {
		return err
	}
	logger.Info("migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))

	if cfg.BootstrapHRPassword == "" {
		logger.Warn("BOOTSTRAP_HR_PASSWORD not set, skipping bootstrap user")
		return nil
	}

	gormDB, sqlDB, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ledger := balance.NewLedger(balance.NewRepository(gormDB), metrics.Nop{}, logger)
	userService := user.NewService(sqlDB, user.NewRepository(gormDB), ledger, kafka.NewOutboxRepository(sqlDB), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := userService.Bootstrap(ctx, user.CreateUserRequest{
		Username: cfg.BootstrapHRUsername,
		FullName: "HR Administrator",
		Email:    cfg.BootstrapHREmail,
		Password: cfg.BootstrapHRPassword,
		Role:     domain.RoleHR.String(),
	})
	if err != nil {
		return err
	}
	if created {
		logger.Info("bootstrap HR user created", zap.String("username", cfg.BootstrapHRUsername))
	} else {
		logger.Info("users already present, bootstrap skipped")
	}
	return nil
}
