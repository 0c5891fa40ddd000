package db_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"tenders/db"
	"tenders/internal/testutil"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	require.NoError(t, db.WrapError(nil))
	require.ErrorIs(t, db.WrapError(sql.ErrNoRows), db.ErrRecordNotFound)
	require.ErrorIs(t, db.WrapError(fmt.Errorf("get: %w", sql.ErrNoRows)), db.ErrRecordNotFound)
	require.ErrorIs(t, db.WrapError(&pq.Error{Code: "23505"}), db.ErrDuplicateKey)
	require.ErrorIs(t, db.WrapError(errors.New("constraint failed: UNIQUE constraint failed: bid_decision.bid_id, bid_decision.author_id (2067)")), db.ErrDuplicateKey)

	other := &pq.Error{Code: "23503"}
	require.Equal(t, error(other), db.WrapError(other))
}

func TestTransactionContext(t *testing.T) {
	dbx := testutil.OpenDB(t)
	ctx := context.Background()

	insert := func(h db.Handler, id, name string) error {
		_, err := h.ExecContext(ctx, h.Rebind(`INSERT INTO employee (id, username) VALUES (?, ?)`), id, name)
		return err
	}
	count := func() int {
		var n int
		require.NoError(t, dbx.GetContext(ctx, &n, `SELECT COUNT(1) FROM employee`))
		return n
	}

	boom := errors.New("boom")
	err := dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		require.NoError(t, insert(tx, "00000000-0000-0000-0000-000000000001", "rolled back"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Zero(t, count())

	require.Panics(t, func() {
		_ = dbx.TransactionContext(ctx, func(tx *db.Tx) error {
			require.NoError(t, insert(tx, "00000000-0000-0000-0000-000000000002", "panicked"))
			panic("boom")
		})
	})
	require.Zero(t, count())

	err = dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		return insert(tx, "00000000-0000-0000-0000-000000000003", "committed")
	})
	require.NoError(t, err)
	require.Equal(t, 1, count())
}
