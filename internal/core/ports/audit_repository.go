package ports

import (
	"context"

	"github.com/c2developers/creatorhub/internal/core/domain"
)

// AuditRepository appends session transitions to a durable trail.
type AuditRepository interface {
	RecordTransition(ctx context.Context, rec domain.TransitionRecord) error
}
