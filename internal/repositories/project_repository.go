package repositories

import (
	"context"

	"projectmap/internal/normalize"
)

// ProjectRepository reads seed projects kept in a database. Rows come back
// as raw items so they pass through the same normalizer as uploaded files.
type ProjectRepository interface {
	List(ctx context.Context) ([]normalize.Item, error)
}
