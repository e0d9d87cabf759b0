package dashboard

import (
	"context"

	"projectmap/internal/model"
)

// Source yields a complete dataset at startup or on a scheduled reload.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]model.Project, error)
}

type Notifier interface {
	SendImport(summary model.ImportSummary)
}
