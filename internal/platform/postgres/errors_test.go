package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasker-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{
			name:     "nil error stays nil",
			err:      nil,
			sentinel: nil,
		},
		{
			name:     "no rows maps to not found",
			err:      sql.ErrNoRows,
			sentinel: store.ErrNotFound,
		},
		{
			name:     "unique violation maps to invalid entity",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "tasks_pkey"},
			sentinel: store.ErrInvalidEntity,
		},
		{
			name:     "check violation maps to invalid entity",
			err:      &pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_status_check"},
			sentinel: store.ErrInvalidEntity,
		},
		{
			name:     "not null violation maps to invalid entity",
			err:      &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			sentinel: store.ErrInvalidEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mapped := MapError(tc.err)
			if tc.sentinel == nil {
				assert.NoError(t, mapped)
				return
			}
			assert.True(t, errors.Is(mapped, tc.sentinel),
				"expected %v to map to %v, got %v", tc.err, tc.sentinel, mapped)
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()
	connErr := fmt.Errorf("dial tcp 10.0.0.5:5432: connect: connection refused")
	mapped := MapError(connErr)

	// Connectivity loss has no sentinel mapping; it surfaces as an opaque
	// storage error.
	assert.Equal(t, connErr, mapped)
	assert.False(t, errors.Is(mapped, store.ErrNotFound))
	assert.False(t, errors.Is(mapped, store.ErrInvalidEntity))
}

// fakeResult implements sql.Result for CheckRowsAffected tests.
type fakeResult struct {
	rows    int64
	rowsErr error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.rowsErr }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}))
	})

	t.Run("zero rows is task not found", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0})
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrTaskNotFound))
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("rows affected error propagates", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rowsErr: fmt.Errorf("driver does not support RowsAffected")})
		require.Error(t, err)
		assert.False(t, store.IsNotFoundError(err))
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, CheckRowsAffected(nil))
	})
}

func TestIsCheckConstraintViolation(t *testing.T) {
	t.Parallel()
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: checkViolationCode})
	assert.True(t, IsCheckConstraintViolation(wrapped))
	assert.False(t, IsCheckConstraintViolation(sql.ErrNoRows))
	assert.False(t, IsCheckConstraintViolation(nil))
}
