package security

import (
	"context"
	"log/slog"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	"github.com/aryan0dhankhar/sitebook/internal/security/audit"
)

// ResourceType identifies the kind of record being accessed
type ResourceType string

const (
	ResourceProject ResourceType = "project"
	ResourceWorker  ResourceType = "worker"
	ResourceExpense ResourceType = "expense"
	ResourceIncome  ResourceType = "income"
	ResourceWorkLog ResourceType = "workday"
)

// ResourcePermission describes an access to a specific record
type ResourcePermission struct {
	ResourceType ResourceType
	ResourceID   string
	OwnerID      string
}

// OwnershipGuard enforces that users only touch their own records
type OwnershipGuard struct {
	logger *slog.Logger
	audit  *audit.Logger
}

func NewOwnershipGuard(logger *slog.Logger, auditLog *audit.Logger) *OwnershipGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &OwnershipGuard{logger: logger, audit: auditLog}
}

// Check returns domain.ErrNotFound when userID does not own the resource, so
// callers cannot distinguish foreign records from missing ones.
func (g *OwnershipGuard) Check(ctx context.Context, userID string, perm ResourcePermission) error {
	if perm.OwnerID == userID {
		return nil
	}
	g.logger.WarnContext(ctx, "resource access denied",
		slog.String("user_id", userID),
		slog.String("resource_id", perm.ResourceID),
		slog.String("resource_type", string(perm.ResourceType)),
	)
	g.audit.LogDenied(ctx, userID, string(perm.ResourceType), perm.ResourceID)
	return domain.ErrNotFound
}
