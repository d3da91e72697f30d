// Package warehouse provides the analytical-store collaborator: run SQL, get
// rows back as key-value records.
package warehouse

import "context"

// Warehouse executes SQL against the analytical data store. Calls block until
// the store responds; callers own cancellation via the context.
type Warehouse interface {
	Query(ctx context.Context, query string) ([]map[string]any, error)
}
