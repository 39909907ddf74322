package entity

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// InvoiceTotals totales derivados de las líneas. No se persisten.
type InvoiceTotals struct {
	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTotals acumula con precisión completa; el redondeo a dos decimales
// ocurre solo al presentar los valores.
func ComputeTotals(items []LineItem) InvoiceTotals {
	subtotal := lo.Reduce(items, func(acc decimal.Decimal, it LineItem, _ int) decimal.Decimal {
		return acc.Add(it.Total())
	}, decimal.Zero)
	taxTotal := lo.Reduce(items, func(acc decimal.Decimal, it LineItem, _ int) decimal.Decimal {
		return acc.Add(it.Tax())
	}, decimal.Zero)

	return InvoiceTotals{
		Subtotal:   subtotal,
		TaxTotal:   taxTotal,
		GrandTotal: subtotal.Add(taxTotal),
	}
}
