package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/c2developers/creatorhub/internal/core/domain"
	"github.com/c2developers/creatorhub/internal/core/ports"
)

const auditTimeout = 5 * time.Second

// NopAudit discards transition records. It is used when no audit store is configured.
type NopAudit struct{}

func (NopAudit) RecordTransition(context.Context, domain.TransitionRecord) error { return nil }

// recordTransition appends rec to the audit trail in the background. Failures
// are logged and never reach the caller.
func recordTransition(audit ports.AuditRepository, log zerolog.Logger, rec domain.TransitionRecord) {
	if _, ok := audit.(NopAudit); ok {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		if err := audit.RecordTransition(ctx, rec); err != nil {
			log.Warn().Err(err).
				Str("controller", rec.Controller).
				Str("from", rec.From).
				Str("to", rec.To).
				Msg("audit record failed")
		}
	}()
}
