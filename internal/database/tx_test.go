package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLTransactor_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE received_documents").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = NewTransactor(db).WithinTx(ctx, func(ctx context.Context) error {
			_, ok := TxFrom(ctx)
			assert.True(t, ok)
			_, err := Conn(ctx, db).ExecContext(ctx, "UPDATE received_documents SET status = 'processed'")
			return err
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		fnErr := errors.New("boom")
		err = NewTransactor(db).WithinTx(ctx, func(ctx context.Context) error {
			return fnErr
		})

		assert.ErrorIs(t, err, fnErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("no connection"))

		called := false
		err = NewTransactor(db).WithinTx(ctx, func(ctx context.Context) error {
			called = true
			return nil
		})

		assert.ErrorContains(t, err, "begin tx: no connection")
		assert.False(t, called)
	})

	t.Run("nested call reuses outer transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		tr := NewTransactor(db)
		err = tr.WithinTx(ctx, func(outer context.Context) error {
			outerTx, _ := TxFrom(outer)
			return tr.WithinTx(outer, func(inner context.Context) error {
				innerTx, _ := TxFrom(inner)
				assert.Same(t, outerTx, innerTx)
				return nil
			})
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConn_WithoutTx(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, Executor(db), Conn(context.Background(), db))
	assert.Equal(t, context.Background(), WithTx(context.Background(), nil))
}
