package entity

// Issuer datos del emisor de la factura. Son cadenas opacas: solo se
// presentan en el documento, no se validan.
type Issuer struct {
	Name      string
	Address   string
	TaxOffice string
	TaxNumber string
	Phone     string
	Email     string
}
