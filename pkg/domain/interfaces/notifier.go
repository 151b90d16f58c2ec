package interfaces

import (
	"context"

	"github.com/labops/labaudit/pkg/domain/model"
)

// Notifier delivers audit lifecycle notifications to an external channel.
// Delivery failures are logged by callers, never surfaced as operation
// failures.
type Notifier interface {
	NotifyCompletion(ctx context.Context, assignment *model.Assignment, execution *model.AuditExecution, stats model.ChecklistStats) error
}
