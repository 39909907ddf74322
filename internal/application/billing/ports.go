package billing

import (
	"context"

	"github.com/jhoicas/fatura-api/internal/domain/entity"
)

// InvoicePDFGenerator construye el documento de la fatura. Es una función pura
// de sus argumentos (salvo la fecha): no toca el contador ni la respuesta HTTP.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		number int64,
		issuer entity.Issuer,
		items []entity.LineItem,
		logo []byte,
	) ([]byte, error)
}
