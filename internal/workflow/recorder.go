package workflow

import (
	"context"

	"github.com/spec-kit/feedback-service/internal/domain"
)

// ActivityRecorder persists the append-only audit trail for posts. Append order
// must equal call order per post; there is no update or delete.
type ActivityRecorder interface {
	Append(ctx context.Context, record *domain.ActivityRecord) error
	ListFor(ctx context.Context, postID string) ([]domain.ActivityRecord, error)
}
