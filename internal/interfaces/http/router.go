package http

import (
	"context"
	_ "embed"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fatura-api/internal/application/billing"
	"github.com/jhoicas/fatura-api/internal/application/dto"
	"github.com/jhoicas/fatura-api/pkg/logger"
)

//go:embed static/index.html
var indexHTML []byte

// Pinger lo cumplen los contadores que pueden comprobar su almacenamiento.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoicePDF *billing.PDFUseCase
	Logger     *logger.Logger
	AppName    string
	Counter    Pinger // opcional
}

// Router registra middlewares y rutas.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestIDMiddleware())
	app.Use(AccessLogMiddleware(deps.Logger))

	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.Send(indexHTML)
	})

	app.Get("/health", healthHandler(deps))

	invoiceHandler := NewInvoiceHandler(deps.InvoicePDF, deps.Logger)
	app.Post("/generate-pdf", invoiceHandler.GeneratePDF)
}

// healthHandler responde 200 si el almacenamiento del contador responde.
// GET /health
func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := dto.HealthResponse{Status: "ok", Service: deps.AppName, Counter: "ok"}
		if deps.Counter != nil {
			if err := deps.Counter.Ping(c.UserContext()); err != nil {
				deps.Logger.Error().Err(err).Msg("health: contador")
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
					Code: "COUNTER_UNAVAILABLE", Message: "almacenamiento del contador no disponible",
				})
			}
		}
		return c.JSON(resp)
	}
}
