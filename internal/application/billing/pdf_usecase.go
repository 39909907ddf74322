package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fatura-api/internal/domain/entity"
	"github.com/jhoicas/fatura-api/internal/domain/repository"
)

// GeneratedInvoice resultado listo para enviar como descarga.
type GeneratedInvoice struct {
	Number   int64
	Filename string
	PDF      []byte
	Totals   entity.InvoiceTotals
}

// PDFUseCase obtiene el siguiente número de fatura y genera su PDF.
type PDFUseCase struct {
	counter   repository.InvoiceCounter
	generator InvoicePDFGenerator
	now       func() time.Time
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(counter repository.InvoiceCounter, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{counter: counter, generator: generator, now: time.Now}
}

// GenerateInvoicePDF valida las líneas, reserva el número y genera el PDF.
//
// Retorna:
//   - error marcado domain.ErrValidation      si no hay líneas o hay valores negativos
//     (en ese caso el contador no avanza).
//   - error marcado domain.ErrCounterStorage  si el registro del contador falla.
//   - cualquier otro error                    si falla la generación del documento;
//     el número ya reservado no se reutiliza.
func (uc *PDFUseCase) GenerateInvoicePDF(
	ctx context.Context,
	issuer entity.Issuer,
	items []entity.LineItem,
	logo []byte,
) (*GeneratedInvoice, error) {
	// ── 1. Validar antes de consumir un número ───────────────────────────────
	if err := entity.ValidateLineItems(items); err != nil {
		return nil, err
	}

	// ── 2. Reservar número ────────────────────────────────────────────────────
	number, err := uc.counter.Next(ctx)
	if err != nil {
		return nil, err
	}

	// ── 3. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, number, issuer, items, logo)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("invoice_number", number).Msg("número de fatura reservado sin documento")
		return nil, fmt.Errorf("pdf: generación fallida para fatura %d: %w", number, err)
	}

	return &GeneratedInvoice{
		Number:   number,
		Filename: "invoice_" + uc.now().Format("20060102_150405") + ".pdf",
		PDF:      pdfBytes,
		Totals:   entity.ComputeTotals(items),
	}, nil
}
