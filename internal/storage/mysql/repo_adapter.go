package mysql

import (
	"context"

	"verdict/internal/ddl"
	"verdict/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// Types maps result columns onto MySQL types.
var Types = storage.SQLTypes{
	ID:   "CHAR(36)",
	Text: "VARCHAR(255)",
	Long: "TEXT",
	Int:  "BIGINT",
	Bool: "BOOLEAN",
	Time: "DATETIME(6)",
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("mysql", func(table string) (string, error) {
		return ddl.BuildCreateTableSQL(storage.ResultsTable(table, Types), ddl.MySQL)
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
