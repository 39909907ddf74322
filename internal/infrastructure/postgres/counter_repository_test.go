package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatura-api/internal/domain"
)

// fakeRow implementa pgx.Row.
type fakeRow struct {
	val int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.val
	return nil
}

// fakeCounterDB emula la tabla invoice_counter con la semántica del upsert.
type fakeCounterDB struct {
	last    *int64
	execErr error
	rowErr  error
	queries []string
}

func (db *fakeCounterDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	db.queries = append(db.queries, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), db.execErr
}

func (db *fakeCounterDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.queries = append(db.queries, sql)
	if db.rowErr != nil {
		return fakeRow{err: db.rowErr}
	}
	switch sql {
	case nextInvoiceNumber:
		if db.last == nil {
			v := args[0].(int64)
			db.last = &v
		} else {
			*db.last++
		}
		return fakeRow{val: *db.last}
	case currentInvoiceNumber:
		if db.last == nil {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{val: *db.last}
	}
	return fakeRow{err: errors.New("consulta inesperada")}
}

func TestPostgresCounter_Secuencia(t *testing.T) {
	db := &fakeCounterDB{}
	repo := NewCounterRepository(db)
	ctx := context.Background()

	cur, err := repo.Current(ctx)
	require.NoError(t, err)
	assert.Zero(t, cur, "sin fila todavía")

	for want := int64(1001); want <= 1005; want++ {
		got, err := repo.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	cur, err = repo.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1005), cur)
}

func TestPostgresCounter_ErrorDeAlmacenamiento(t *testing.T) {
	db := &fakeCounterDB{rowErr: errors.New("connection reset")}
	repo := NewCounterRepository(db)

	_, err := repo.Next(context.Background())
	assert.ErrorIs(t, err, domain.ErrCounterStorage)

	assert.ErrorIs(t, repo.Ping(context.Background()), domain.ErrCounterStorage)
}

func TestPostgresCounter_EnsureSchema(t *testing.T) {
	db := &fakeCounterDB{}
	require.NoError(t, NewCounterRepository(db).EnsureSchema(context.Background()))
	assert.Equal(t, []string{createCounterTable}, db.queries)

	db = &fakeCounterDB{execErr: errors.New("permission denied")}
	assert.ErrorIs(t, NewCounterRepository(db).EnsureSchema(context.Background()), domain.ErrCounterStorage)
}
