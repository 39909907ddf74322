package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatura-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "fatura-api", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:5000", cfg.HTTP.Addr())
	assert.Equal(t, 5*1024*1024, cfg.HTTP.UploadMaxBytes)
	assert.Equal(t, config.CounterBackendFile, cfg.Counter.Backend)
	assert.Equal(t, "invoice_number.json", cfg.Counter.FilePath)
	assert.Equal(t, "fatura:last_number", cfg.Redis.Key)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("COUNTER_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")

	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTP.Port, "PORT tiene prioridad")
	assert.Equal(t, config.CounterBackendRedis, cfg.Counter.Backend)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_BackendDesconocido(t *testing.T) {
	t.Setenv("COUNTER_BACKEND", "sqlite")

	_, err := config.LoadFrom(viper.New())
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "fatura", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/fatura?sslmode=disable", db.ConnectionString())

	db.DatabaseURL = "postgres://u:p@h/x"
	assert.Equal(t, "postgres://u:p@h/x", db.ConnectionString())
}
