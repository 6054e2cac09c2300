package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/ports"
)

// writableColumns is the allow-list of tables and columns the generic store
// may touch. Identifiers are never taken from input without passing it.
var writableColumns = map[string][]string{
	"leads": {
		"name", "email", "phone", "company", "project_type", "budget_range",
		"timeline", "message", "preferred_contact_method", "newsletter_signup",
		"files", "lead_score", "read", "created_at",
	},
	"reviews": {
		"name", "company", "content", "rating", "project_id", "is_approved",
		"created_at", "updated_at",
	},
	"services": {
		"title", "description", "icon_url", "type", "display_order",
		"created_at", "updated_at",
	},
	"tools": {"name", "logo_url", "link", "created_at", "updated_at"},
	"projects": {
		"title", "short_description", "thumbnail_url", "full_description",
		"tools_used", "case_study_content", "external_link", "slug",
		"start_date", "end_date", "type", "status", "display_order",
		"created_at", "updated_at",
	},
}

// RecordStoreImpl implements RecordStore for PostgreSQL
type RecordStoreImpl struct {
	db *sqlx.DB
}

// NewRecordStore creates a new PostgreSQL record store
func NewRecordStore(db *sqlx.DB) ports.RecordStore {
	return &RecordStoreImpl{db: db}
}

func checkColumns(table string, names []string) error {
	allowed, ok := writableColumns[table]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownTable, table)
	}
	for _, name := range names {
		if name == "id" {
			continue
		}
		found := false
		for _, a := range allowed {
			if a == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s.%s", core.ErrUnknownColumn, table, name)
		}
	}
	return nil
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Create inserts a row with a fresh UUID v7 id
func (s *RecordStoreImpl) Create(ctx context.Context, table string, fields ports.Fields) (core.ID, error) {
	cols := sortedKeys(fields)
	if err := checkColumns(table, cols); err != nil {
		return "", err
	}

	id := core.NewID()
	names := []string{"id"}
	placeholders := []string{"$1"}
	args := []interface{}{id.String()}
	for _, c := range cols {
		if c == "id" {
			continue
		}
		names = append(names, c)
		args = append(args, fields[c])
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", err
	}
	return id, nil
}

// Update sets the given columns on one row
func (s *RecordStoreImpl) Update(ctx context.Context, table string, id core.ID, fields ports.Fields) error {
	cols := sortedKeys(fields)
	if err := checkColumns(table, cols); err != nil {
		return err
	}

	sets := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for _, c := range cols {
		if c == "id" {
			continue
		}
		args = append(args, fields[c])
		sets = append(sets, fmt.Sprintf("%s = $%d", c, len(args)))
	}
	// The id column is immutable, so an id-only change has nothing to set.
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id.String())

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(sets, ", "), len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectOne(res, table, id)
}

// Delete removes one row
func (s *RecordStoreImpl) Delete(ctx context.Context, table string, id core.ID) error {
	if err := checkColumns(table, nil); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id.String())
	if err != nil {
		return err
	}
	return expectOne(res, table, id)
}

// Query returns rows matching every filter column, in the given order
func (s *RecordStoreImpl) Query(ctx context.Context, table string, filter ports.Filter, order ...ports.Order) ([]ports.Fields, error) {
	cols := sortedKeys(filter)
	orderCols := make([]string, 0, len(order))
	for _, o := range order {
		orderCols = append(orderCols, o.Column)
	}
	if err := checkColumns(table, append(cols, orderCols...)); err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT * FROM %s", table)
	args := make([]interface{}, 0, len(cols))
	for i, c := range cols {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, filter[c])
		fmt.Fprintf(&b, "%s = $%d", c, len(args))
	}
	for i, o := range order {
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(o.Column)
		if o.Desc {
			b.WriteString(" DESC")
		}
	}

	rows, err := s.db.QueryxContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.Fields
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		for k, v := range row {
			if raw, ok := v.([]byte); ok {
				row[k] = string(raw)
			}
		}
		out = append(out, ports.Fields(row))
	}
	return out, rows.Err()
}

func expectOne(res sql.Result, table string, id core.ID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.NewNotFoundError(table, id.String())
	}
	return nil
}
