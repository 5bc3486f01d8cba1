package bootstrap

import "context"

// AuditLog is one security-relevant event: balance overrides, user
// administration, server lifecycle.
type AuditLog struct {
	Action  string
	ActorID string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
