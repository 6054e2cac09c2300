package ports

import (
	"context"

	"github.com/nambiararyan24/portfolio/models"
)

// AnalyticsSink receives form interaction events. Errors are logged by the
// dispatcher and never reach the form.
type AnalyticsSink interface {
	Record(ctx context.Context, event models.FormEvent) error
}
