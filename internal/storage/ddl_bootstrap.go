package storage

import (
	"context"
	"fmt"
	"sync"

	"verdict/internal/ddl"
)

// DDLFunc renders the CREATE TABLE statement for the results table in a
// backend's dialect.
type DDLFunc func(table string) (string, error)

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLFunc{}
)

// RegisterDDL registers (or replaces) the results-table DDL for kind. It is
// typically called from backend packages' init functions.
func RegisterDDL(kind string, fn DDLFunc) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureResultsTable creates table through repo unless it already exists.
func EnsureResultsTable(ctx context.Context, kind string, repo Repository, table string) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("storage: no DDL registered for kind %q", kind)
	}
	stmt, err := fn(table)
	if err != nil {
		return fmt.Errorf("storage: render DDL: %w", err)
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("storage: create %s: %w", table, err)
	}
	return nil
}

// SQLTypes names a backend's column types for the results table.
type SQLTypes struct {
	ID   string // run identifier, a 36-character UUID string
	Text string // short names
	Long string // free-form error text
	Int  string
	Bool string
	Time string
}

// ResultsTable describes the results table with the given types. Column
// order matches ResultColumns.
func ResultsTable(table string, t SQLTypes) ddl.TableDef {
	return ddl.TableDef{
		FQN: table,
		Columns: []ddl.ColumnDef{
			{Name: "run_id", SQLType: t.ID, PrimaryKey: true},
			{Name: "suite", SQLType: t.Text},
			{Name: "dataset_fingerprint", SQLType: t.Text},
			{Name: "dataset_rows", SQLType: t.Int},
			{Name: "started_at", SQLType: t.Time},
			{Name: "rule_index", SQLType: t.Int, PrimaryKey: true},
			{Name: "column_name", SQLType: t.Text},
			{Name: "constraint_desc", SQLType: t.Long},
			{Name: "passed", SQLType: t.Bool},
			{Name: "failed_count", SQLType: t.Int},
			{Name: "error_message", SQLType: t.Long, Nullable: true},
		},
	}
}
