package dto

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/fatura-api/internal/domain"
	"github.com/jhoicas/fatura-api/internal/domain/entity"
)

// InvoiceForm campos del formulario multipart de POST /generate-pdf.
// Products es un arreglo JSON de LineItemRequest.
type InvoiceForm struct {
	CompanyName    string `form:"company_name"`
	CompanyAddress string `form:"company_address"`
	TaxOffice      string `form:"tax_office"`
	TaxNumber      string `form:"tax_number"`
	Phone          string `form:"phone"`
	Email          string `form:"email"`
	Products       string `form:"products"`
}

// LineItemRequest línea tal como la envía el formulario. Los números pueden
// llegar como número JSON o como string numérico; los tres son obligatorios.
type LineItemRequest struct {
	Name     string              `json:"name"`
	Quantity decimal.NullDecimal `json:"quantity"`
	Price    decimal.NullDecimal `json:"price"`
	KDV      decimal.NullDecimal `json:"kdv"`
}

// missing nombre del primer campo numérico ausente o null, o "".
func (r LineItemRequest) missing() string {
	switch {
	case !r.Quantity.Valid:
		return "quantity"
	case !r.Price.Valid:
		return "price"
	case !r.KDV.Valid:
		return "kdv"
	}
	return ""
}

// Issuer normaliza los datos del emisor (NFC, sin espacios sobrantes).
func (f InvoiceForm) Issuer() entity.Issuer {
	return entity.Issuer{
		Name:      clean(f.CompanyName),
		Address:   clean(f.CompanyAddress),
		TaxOffice: clean(f.TaxOffice),
		TaxNumber: clean(f.TaxNumber),
		Phone:     clean(f.Phone),
		Email:     clean(f.Email),
	}
}

// LineItems decodifica Products. Un campo vacío equivale a "[]"; JSON mal
// formado, números inválidos o ausentes son errores de validación.
func (f InvoiceForm) LineItems() ([]entity.LineItem, error) {
	raw := strings.TrimSpace(f.Products)
	if raw == "" {
		raw = "[]"
	}

	var reqs []LineItemRequest
	if err := json.Unmarshal([]byte(raw), &reqs); err != nil {
		return nil, domain.Validationf("products: JSON inválido: %v", err)
	}

	items := make([]entity.LineItem, 0, len(reqs))
	for i, r := range reqs {
		if field := r.missing(); field != "" {
			return nil, domain.Validationf("línea %d: falta %s", i+1, field)
		}
		items = append(items, entity.LineItem{
			Name:      clean(r.Name),
			Quantity:  r.Quantity.Decimal,
			UnitPrice: r.Price.Decimal,
			TaxRate:   r.KDV.Decimal,
		})
	}
	return items, nil
}

func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
