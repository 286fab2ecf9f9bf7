package sqlite

import (
	"context"

	"verdict/internal/ddl"
	"verdict/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// Types maps result columns onto SQLite storage classes.
var Types = storage.SQLTypes{
	ID:   "TEXT",
	Text: "TEXT",
	Long: "TEXT",
	Int:  "INTEGER",
	Bool: "INTEGER",
	Time: "TIMESTAMP",
}

// wrappedRepo adds Close to *Repository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("sqlite", func(table string) (string, error) {
		return ddl.BuildCreateTableSQL(storage.ResultsTable(table, Types), ddl.SQLite)
	})
}
