package domain

import (
	stderrors "errors"

	"github.com/cockroachdb/errors"
)

// Tipos de error del dominio. Los errores concretos conservan su causa (con
// stack de cockroachdb/errors) y se clasifican con errors.Is contra estos valores.
var (
	ErrValidation     = errors.New("datos de factura inválidos")
	ErrCounterStorage = errors.New("registro del contador de facturas no disponible")
	ErrLogoDecode     = errors.New("no se pudo decodificar el logo")
)

// kindError asocia una causa con su tipo de error.
type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string   { return e.cause.Error() }
func (e *kindError) Unwrap() []error { return []error{e.kind, e.cause} }

// WithKind marca cause con kind; errors.Is(err, kind) y errors.Is(err, cause) son ciertos.
func WithKind(kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &kindError{kind: kind, cause: cause}
}

// Validationf construye un error de validación.
func Validationf(format string, args ...interface{}) error {
	return WithKind(ErrValidation, errors.Newf(format, args...))
}

// CounterStorage envuelve err con msg y lo clasifica como ErrCounterStorage.
func CounterStorage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return WithKind(ErrCounterStorage, errors.Wrap(err, msg))
}

// IsValidation indica si err es un error de validación.
func IsValidation(err error) bool { return stderrors.Is(err, ErrValidation) }

// IsCounterStorage indica si err proviene del almacenamiento del contador.
func IsCounterStorage(err error) bool { return stderrors.Is(err, ErrCounterStorage) }
