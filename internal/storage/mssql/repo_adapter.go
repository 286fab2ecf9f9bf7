package mssql

import (
	"context"

	"verdict/internal/ddl"
	"verdict/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// Types maps result columns onto SQL Server types.
var Types = storage.SQLTypes{
	ID:   "NVARCHAR(36)",
	Text: "NVARCHAR(255)",
	Long: "NVARCHAR(MAX)",
	Int:  "BIGINT",
	Bool: "BIT",
	Time: "DATETIME2",
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("mssql", func(table string) (string, error) {
		return ddl.BuildCreateTableSQL(storage.ResultsTable(table, Types), ddl.MSSQL)
	})
}

// wrappedRepo adds Close to *Repository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}
