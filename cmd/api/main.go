package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/afero"

	"github.com/jhoicas/fatura-api/internal/application/billing"
	"github.com/jhoicas/fatura-api/internal/domain/repository"
	"github.com/jhoicas/fatura-api/internal/infrastructure/filestore"
	infrapdf "github.com/jhoicas/fatura-api/internal/infrastructure/pdf"
	"github.com/jhoicas/fatura-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/fatura-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/fatura-api/internal/interfaces/http"
	"github.com/jhoicas/fatura-api/pkg/config"
	"github.com/jhoicas/fatura-api/pkg/logger"
)

// counterBackend contador elegido más su comprobación de salud y cierre.
type counterBackend struct {
	repository.InvoiceCounter
	httpRouter.Pinger
	close func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("counter_backend", cfg.Counter.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	counter, err := newCounter(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Counter.Backend).Msg("contador de faturas")
	}
	defer counter.close()

	var pdfOpts []infrapdf.Option
	if cfg.PDF.FontPath != "" {
		fonts, err := infrapdf.LoadUTF8Font("fatura", cfg.PDF.FontPath, cfg.PDF.BoldFontPath)
		if err != nil {
			log.Fatal().Err(err).Msg("fuente PDF")
		}
		pdfOpts = append(pdfOpts, infrapdf.WithUTF8Font(fonts, "fatura"))
	}
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(pdfOpts...)
	invoicePDFUC := billing.NewPDFUseCase(counter, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.UploadMaxBytes,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoicePDF: invoicePDFUC,
		Logger:     log,
		AppName:    cfg.App.Name,
		Counter:    counter,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newCounter construye el backend configurado en COUNTER_BACKEND.
func newCounter(ctx context.Context, cfg *config.Config) (*counterBackend, error) {
	switch cfg.Counter.Backend {
	case config.CounterBackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		repo := postgres.NewCounterRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &counterBackend{InvoiceCounter: repo, Pinger: repo, close: pool.Close}, nil

	case config.CounterBackendRedis:
		client := infraredis.NewClient(infraredis.Conf{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		repo := infraredis.NewCounterRepository(client, cfg.Redis.Key)
		if err := repo.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		return &counterBackend{InvoiceCounter: repo, Pinger: repo, close: func() { _ = client.Close() }}, nil

	default:
		repo := filestore.NewCounterRepository(afero.NewOsFs(), cfg.Counter.FilePath)
		return &counterBackend{InvoiceCounter: repo, Pinger: repo, close: func() {}}, nil
	}
}
