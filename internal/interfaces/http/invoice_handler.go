package http

import (
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fatura-api/internal/application/billing"
	"github.com/jhoicas/fatura-api/internal/application/dto"
	"github.com/jhoicas/fatura-api/internal/domain"
	"github.com/jhoicas/fatura-api/pkg/logger"
)

// InvoiceHandler recibe el formulario de fatura y devuelve el PDF.
type InvoiceHandler struct {
	uc  *billing.PDFUseCase
	log *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.PDFUseCase, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, log: log}
}

// GeneratePDF genera la fatura y la envía como descarga.
// POST /generate-pdf (multipart/form-data)
func (h *InvoiceHandler) GeneratePDF(c *fiber.Ctx) error {
	reqLog := h.log.With().Str("request_id", RequestID(c)).Logger()
	ctx := reqLog.WithContext(c.UserContext())

	var form dto.InvoiceForm
	if err := c.BodyParser(&form); err != nil {
		reqLog.Warn().Err(err).Msg("formulario inválido")
		return c.Status(fiber.StatusBadRequest).SendString("Geçersiz form verisi")
	}
	items, err := form.LineItems()
	if err != nil {
		reqLog.Warn().Err(err).Msg("líneas de fatura inválidas")
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}
	if len(items) == 0 {
		return c.Status(fiber.StatusBadRequest).SendString("En az bir ürün eklemelisiniz!")
	}

	logo, err := readLogo(c)
	if err != nil {
		reqLog.Error().Err(err).Msg("leer logo")
		return c.Status(fiber.StatusInternalServerError).SendString("Hata: logo okunamadı")
	}

	inv, err := h.uc.GenerateInvoicePDF(ctx, form.Issuer(), items, logo)
	if err != nil {
		switch {
		case domain.IsValidation(err):
			reqLog.Warn().Err(err).Msg("fatura rechazada")
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		case domain.IsCounterStorage(err):
			reqLog.Error().Err(err).Msg("contador de faturas")
			return c.Status(fiber.StatusInternalServerError).SendString("Hata: fatura numarası alınamadı")
		default:
			reqLog.Error().Err(err).Msg("generar fatura")
			return c.Status(fiber.StatusInternalServerError).SendString("Hata: fatura oluşturulamadı")
		}
	}

	reqLog.Info().
		Int64("invoice_number", inv.Number).
		Int("items", len(items)).
		Str("grand_total", inv.Totals.GrandTotal.StringFixed(2)).
		Msg("fatura generada")

	c.Attachment(inv.Filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set("X-Invoice-Number", strconv.FormatInt(inv.Number, 10))
	return c.Send(inv.PDF)
}

// readLogo devuelve los bytes del archivo "logo" o nil si no se envió.
func readLogo(c *fiber.Ctx) ([]byte, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	files := mf.File["logo"]
	if len(files) == 0 || files[0].Filename == "" || files[0].Size == 0 {
		return nil, nil
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}
