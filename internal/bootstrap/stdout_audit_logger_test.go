package bootstrap

import (
	"context"
	"testing"

	"go-leave/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	auditLogger := NewStdoutAuditLogger(zap.New(core))

	ctx := contextutil.WithRequestID(context.Background(), "req-9")
	ctx = contextutil.WithUserID(ctx, "hr-1")
	ctx = contextutil.WithRole(ctx, "hr")

	auditLogger.Log(ctx, AuditLog{
		Action:  "BALANCE_OVERRIDE",
		Message: "remaining set to 4",
		Meta:    map[string]any{"balance_id": "b-1"},
	})

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "BALANCE_OVERRIDE", fields["action"])
	assert.Equal(t, "hr-1", fields["actor_id"])
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "hr", fields["actor_role"])
	assert.Equal(t, "audit", entries[0].LoggerName)
}

func TestStdoutAuditLogger_ExplicitActorWins(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	auditLogger := NewStdoutAuditLogger(zap.New(core))

	ctx := contextutil.WithUserID(context.Background(), "hr-1")
	auditLogger.Log(ctx, AuditLog{Action: "SERVER_STARTED", ActorID: "system"})

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "system", fields["actor_id"])
	assert.Equal(t, "", fields["actor_role"])
	assert.Equal(t, "", fields["request_id"])
}
