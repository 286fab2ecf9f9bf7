package postgres

import (
	"context"

	"verdict/internal/ddl"
	"verdict/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// Types maps result columns onto Postgres types.
var Types = storage.SQLTypes{
	ID:   "VARCHAR(36)",
	Text: "TEXT",
	Long: "TEXT",
	Int:  "BIGINT",
	Bool: "BOOLEAN",
	Time: "TIMESTAMPTZ",
}

// wrappedRepo adds Close to *Repository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("postgres", func(table string) (string, error) {
		return ddl.BuildCreateTableSQL(storage.ResultsTable(table, Types), ddl.Postgres)
	})
}
