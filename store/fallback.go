package store

import (
	"context"
	"log/slog"

	"portfolio/models"
)

// Fallback reads one collection and substitutes Default when the read fails
// or returns no rows. The caller never sees the error; it is logged.
type Fallback[T models.Record] struct {
	Order   []Order
	Default []T
}

// Fetch returns the stored rows or the default dataset.
func (f Fallback[T]) Fetch(ctx context.Context, c *Client) []T {
	table := tableOf[T]()
	rows, err := List[T](ctx, c, f.Order...)
	if err != nil {
		slog.Warn("using default data", "table", table, "error", err)
		return f.Default
	}
	if len(rows) == 0 {
		slog.Info("using default data", "table", table, "reason", "no rows")
		return f.Default
	}
	return rows
}

// FetchOne returns the first stored row or the first default row.
func (f Fallback[T]) FetchOne(ctx context.Context, c *Client) T {
	table := tableOf[T]()
	row, err := Single[T](ctx, c, f.Order...)
	if err == nil {
		return row
	}
	slog.Info("using default data", "table", table, "error", err)
	if len(f.Default) == 0 {
		var zero T
		return zero
	}
	return f.Default[0]
}
