package postgres

import (
	"context"

	"github.com/jhoicas/fatura-api/internal/domain"
	"github.com/jhoicas/fatura-api/internal/domain/entity"
	"github.com/jhoicas/fatura-api/internal/domain/repository"
)

var _ repository.InvoiceCounter = (*CounterRepository)(nil)

const (
	createCounterTable = `
		CREATE TABLE IF NOT EXISTS invoice_counter (
			id          SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			last_number BIGINT   NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	// Un único statement: el lock de fila del upsert serializa instancias concurrentes.
	nextInvoiceNumber = `
		INSERT INTO invoice_counter (id, last_number)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE
		SET last_number = invoice_counter.last_number + 1,
		    updated_at  = now()
		RETURNING last_number`

	currentInvoiceNumber = `SELECT last_number FROM invoice_counter WHERE id = 1`
)

// CounterRepository contador de facturas en la tabla invoice_counter.
type CounterRepository struct {
	q Querier
}

// NewCounterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCounterRepository(q Querier) *CounterRepository {
	return &CounterRepository{q: q}
}

// EnsureSchema crea la tabla del contador si no existe.
func (r *CounterRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, createCounterTable); err != nil {
		return domain.CounterStorage(err, "contador: crear tabla invoice_counter")
	}
	return nil
}

// Next inserta la fila con 1001 la primera vez; después incrementa y devuelve.
func (r *CounterRepository) Next(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, nextInvoiceNumber, entity.FirstInvoiceNumber).Scan(&n); err != nil {
		return 0, domain.CounterStorage(err, "contador: incrementar invoice_counter")
	}
	return n, nil
}

// Current devuelve el último número emitido (0 si aún no se emitió ninguno).
func (r *CounterRepository) Current(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, currentInvoiceNumber).Scan(&n)
	if isNoRows(err) {
		return 0, nil
	}
	if err != nil {
		return 0, domain.CounterStorage(err, "contador: leer invoice_counter")
	}
	return n, nil
}

// Ping comprueba que la tabla sea legible.
func (r *CounterRepository) Ping(ctx context.Context) error {
	_, err := r.Current(ctx)
	return err
}
