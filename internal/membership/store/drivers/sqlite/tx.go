package sqlite

import (
	"context"
	"database/sql"

	"github.com/slma/membership/internal/membership/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTxStore(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Close() error { return nil } // outer DB stays open; caller commits or rolls back

// Ping is a no-op for transactions. The connection is already established
// when the transaction is created.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // migrations are applied before any tx starts

func (t *txStore) Users() store.Users   { return &usersRepo{q: t.tx} }
func (t *txStore) Events() store.Events { return &eventsRepo{q: t.tx} }
