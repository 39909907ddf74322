// Package filestore persiste el contador de facturas en un archivo JSON
// ({"last_number": N}) sobre un afero.Fs.
package filestore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	"github.com/jhoicas/fatura-api/internal/domain"
	"github.com/jhoicas/fatura-api/internal/domain/entity"
	"github.com/jhoicas/fatura-api/internal/domain/repository"
)

var _ repository.InvoiceCounter = (*CounterRepository)(nil)

// CounterRepository contador respaldado por archivo.
//
// El mutex serializa leer-modificar-escribir dentro del proceso. No protege
// contra otro proceso escribiendo el mismo archivo: para varias instancias
// usar el backend postgres o redis.
type CounterRepository struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// NewCounterRepository construye el contador sobre fs y path.
func NewCounterRepository(fs afero.Fs, path string) *CounterRepository {
	return &CounterRepository{fs: fs, path: path}
}

// Next incrementa y persiste el contador, devolviendo el nuevo número.
func (r *CounterRepository) Next(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	exists, err := afero.Exists(r.fs, r.path)
	if err != nil {
		return 0, domain.CounterStorage(err, "contador: comprobar archivo")
	}
	if !exists {
		if err := r.write(entity.CounterState{LastNumber: entity.CounterSeed}); err != nil {
			return 0, err
		}
	}

	state, err := r.read()
	if err != nil {
		return 0, err
	}
	state.LastNumber++
	if err := r.write(state); err != nil {
		return 0, err
	}
	return state.LastNumber, nil
}

// Current devuelve el último número persistido sin modificarlo.
func (r *CounterRepository) Current() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.read()
	if err != nil {
		return 0, err
	}
	return state.LastNumber, nil
}

// Ping verifica que el directorio del registro sea accesible.
func (r *CounterRepository) Ping(_ context.Context) error {
	dir := filepath.Dir(r.path)
	if _, err := r.fs.Stat(dir); err != nil {
		return domain.CounterStorage(err, "contador: directorio inaccesible")
	}
	return nil
}

func (r *CounterRepository) read() (entity.CounterState, error) {
	raw, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		return entity.CounterState{}, domain.CounterStorage(err, "contador: leer registro")
	}

	var rec struct {
		LastNumber *int64 `json:"last_number"`
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return entity.CounterState{}, domain.CounterStorage(err, "contador: registro corrupto")
	}
	if rec.LastNumber == nil {
		return entity.CounterState{}, domain.CounterStorage(
			errors.Newf("%s sin campo last_number", r.path), "contador: registro corrupto")
	}
	return entity.CounterState{LastNumber: *rec.LastNumber}, nil
}

// write reemplaza el registro de forma atómica: archivo temporal en el mismo
// directorio y luego rename.
func (r *CounterRepository) write(state entity.CounterState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return domain.CounterStorage(err, "contador: serializar registro")
	}

	dir := filepath.Dir(r.path)
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return domain.CounterStorage(err, "contador: crear directorio")
	}
	tmp, err := afero.TempFile(r.fs, dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return domain.CounterStorage(err, "contador: crear archivo temporal")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = r.fs.Remove(tmpName)
		return domain.CounterStorage(err, "contador: escribir registro")
	}
	if err := tmp.Close(); err != nil {
		_ = r.fs.Remove(tmpName)
		return domain.CounterStorage(err, "contador: cerrar registro")
	}
	if err := r.fs.Rename(tmpName, r.path); err != nil {
		_ = r.fs.Remove(tmpName)
		return domain.CounterStorage(err, "contador: reemplazar registro")
	}
	return nil
}
