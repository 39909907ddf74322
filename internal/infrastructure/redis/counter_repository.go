// Package redis implementa el contador de facturas sobre una clave Redis
// incrementada con INCR.
package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	lowimpl "github.com/redis/go-redis/v9"

	"github.com/jhoicas/fatura-api/internal/domain"
	"github.com/jhoicas/fatura-api/internal/domain/entity"
	"github.com/jhoicas/fatura-api/internal/domain/repository"
)

var _ repository.InvoiceCounter = (*CounterRepository)(nil)

// Conf conexión al servidor Redis.
type Conf struct {
	Addr     string
	Password string
	DB       int
}

// Commands subconjunto de comandos usados; lo cumple *lowimpl.Client.
type Commands interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *lowimpl.BoolCmd
	Incr(ctx context.Context, key string) *lowimpl.IntCmd
	Get(ctx context.Context, key string) *lowimpl.StringCmd
	Ping(ctx context.Context) *lowimpl.StatusCmd
}

// CounterRepository contador respaldado por Redis. INCR es atómico, así que
// varias instancias de la API pueden compartir la misma clave.
type CounterRepository struct {
	cmd Commands
	key string
}

// NewClient abre el cliente Redis para conf.
func NewClient(conf Conf) *lowimpl.Client {
	return lowimpl.NewClient(&lowimpl.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
}

// NewCounterRepository construye el contador sobre cmd y key.
func NewCounterRepository(cmd Commands, key string) *CounterRepository {
	return &CounterRepository{cmd: cmd, key: key}
}

// Next siembra la clave con 1000 si no existe y la incrementa.
func (r *CounterRepository) Next(ctx context.Context) (int64, error) {
	if err := r.cmd.SetNX(ctx, r.key, entity.CounterSeed, 0).Err(); err != nil {
		return 0, domain.CounterStorage(err, "contador: sembrar clave redis")
	}
	n, err := r.cmd.Incr(ctx, r.key).Result()
	if err != nil {
		// INCR sobre un valor no numérico: registro corrupto.
		return 0, domain.CounterStorage(err, "contador: incrementar clave redis")
	}
	return n, nil
}

// Current devuelve el último número emitido (0 si la clave no existe).
func (r *CounterRepository) Current(ctx context.Context) (int64, error) {
	val, err := r.cmd.Get(ctx, r.key).Result()
	if errors.Is(err, lowimpl.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, domain.CounterStorage(err, "contador: leer clave redis")
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, domain.CounterStorage(err, "contador: valor no numérico en redis")
	}
	return n, nil
}

// Ping comprueba la conexión.
func (r *CounterRepository) Ping(ctx context.Context) error {
	if err := r.cmd.Ping(ctx).Err(); err != nil {
		return domain.CounterStorage(err, "contador: ping redis")
	}
	return nil
}
