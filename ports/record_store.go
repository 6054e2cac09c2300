package ports

import (
	"context"

	"github.com/nambiararyan24/portfolio/domain/core"
)

// Fields is one row keyed by column name
type Fields map[string]any

// Filter matches rows whose columns equal the given values
type Filter map[string]any

// Order sorts query results by one column
type Order struct {
	Column string
	Desc   bool
}

// RecordStore is the generic persistence boundary used by form submissions.
// Tables and columns are checked against an allow-list by implementations.
type RecordStore interface {
	// Create inserts a row and returns its generated id
	Create(ctx context.Context, table string, fields Fields) (core.ID, error)

	// Update sets the given columns on one row
	Update(ctx context.Context, table string, id core.ID, fields Fields) error

	// Delete removes one row
	Delete(ctx context.Context, table string, id core.ID) error

	// Query returns rows matching filter in the given order
	Query(ctx context.Context, table string, filter Filter, order ...Order) ([]Fields, error)
}
