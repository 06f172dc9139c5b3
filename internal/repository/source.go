package repository

import (
	"context"

	"ainews/internal/model"
)

// Source fetches candidate news items from one external origin.
// Implementations return an error only for their own caller's logging;
// the aggregator isolates per-source failures and never aborts a run.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.NewsItem, error)
}
