package entity

import "github.com/jhoicas/fatura-api/internal/domain"

// ValidateLineItems exige al menos una línea y valores no negativos.
func ValidateLineItems(items []LineItem) error {
	if len(items) == 0 {
		return domain.Validationf("se requiere al menos una línea de factura")
	}
	for i, it := range items {
		switch {
		case it.Quantity.IsNegative():
			return domain.Validationf("línea %d: cantidad negativa", i+1)
		case it.UnitPrice.IsNegative():
			return domain.Validationf("línea %d: precio unitario negativo", i+1)
		case it.TaxRate.IsNegative():
			return domain.Validationf("línea %d: tasa KDV negativa", i+1)
		}
	}
	return nil
}
