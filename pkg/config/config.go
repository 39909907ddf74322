package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Backends de almacenamiento del contador de faturas.
const (
	CounterBackendFile     = "file"
	CounterBackendPostgres = "postgres"
	CounterBackendRedis    = "redis"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Counter CounterConfig
	DB      DBConfig
	Redis   RedisConfig
	PDF     PDFConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host           string
	Port           int
	UploadMaxBytes int // límite del cuerpo (formulario + logo)
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CounterConfig selecciona dónde se persiste el último número de fatura.
type CounterConfig struct {
	Backend  string // file, postgres, redis
	FilePath string
}

// DBConfig configuración de PostgreSQL (backend "postgres").
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// RedisConfig configuración de Redis (backend "redis").
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// PDFConfig fuente TrueType opcional para los caracteres turcos y el símbolo ₺.
type PDFConfig struct {
	FontPath     string
	BoldFontPath string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, COUNTER_BACKEND, etc.
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom permite inyectar la instancia de Viper (tests).
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// PORT (convención de PaaS) tiene prioridad sobre HTTP_PORT.
	port := getInt(v, "HTTP_PORT", 5000)
	if v.IsSet("PORT") {
		port = getInt(v, "PORT", port)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "fatura-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           port,
			UploadMaxBytes: getInt(v, "UPLOAD_MAX_BYTES", 5*1024*1024),
		},
		Counter: CounterConfig{
			Backend:  strings.ToLower(getString(v, "COUNTER_BACKEND", CounterBackendFile)),
			FilePath: getString(v, "COUNTER_FILE", "invoice_number.json"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "fatura"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
			Key:      getString(v, "REDIS_KEY", "fatura:last_number"),
		},
		PDF: PDFConfig{
			FontPath:     getString(v, "PDF_FONT_PATH", ""),
			BoldFontPath: getString(v, "PDF_FONT_BOLD_PATH", ""),
		},
	}

	switch cfg.Counter.Backend {
	case CounterBackendFile, CounterBackendPostgres, CounterBackendRedis:
	default:
		return nil, fmt.Errorf("config: COUNTER_BACKEND desconocido %q (file, postgres, redis)", cfg.Counter.Backend)
	}
	if cfg.HTTP.UploadMaxBytes <= 0 {
		return nil, fmt.Errorf("config: UPLOAD_MAX_BYTES debe ser positivo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}
