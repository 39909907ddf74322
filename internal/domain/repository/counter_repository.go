package repository

import "context"

// InvoiceCounter define el puerto del contador secuencial de facturas.
//
// Next devuelve un número estrictamente mayor que el anterior y, al retornar,
// el registro persistido contiene ese mismo número. Las implementaciones
// serializan su ciclo leer-modificar-escribir.
type InvoiceCounter interface {
	Next(ctx context.Context) (int64, error)
}
