package entity

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineItem representa una línea de producto/servicio de la factura.
// Cantidad, precio unitario y tasa KDV (porcentaje) son no negativos.
type LineItem struct {
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal // porcentaje, ej. 18 = %18
}

// Total devuelve cantidad × precio unitario, sin redondeo.
func (l LineItem) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Tax devuelve el KDV de la línea: total × (tasa / 100), sin redondeo.
func (l LineItem) Tax() decimal.Decimal {
	return l.Total().Mul(l.TaxRate).Div(hundred)
}
