package sheets

import (
	"context"

	"meallog/internal/core"
)

// Ports for outbound summary export adapters.
type (
	// SummaryWriter appends one day's aggregated calories to a sheet.
	SummaryWriter interface {
		AppendDaySummary(ctx context.Context, date string, s core.DaySummary) (rowRef string, err error)
	}
)
