package entity

// Valores de arranque del contador: el registro se crea con LastNumber = 1000
// y el primer número emitido es 1001.
const (
	CounterSeed        int64 = 1000
	FirstInvoiceNumber int64 = CounterSeed + 1
)

// CounterState registro persistido del último número de factura emitido.
type CounterState struct {
	LastNumber int64 `json:"last_number"`
}
