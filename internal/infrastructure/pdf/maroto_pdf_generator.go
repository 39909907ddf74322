// Package pdf genera el documento PDF de la fatura con Maroto v2.
//
// Layout de la página A4 (márgenes de 2 cm):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  LOGO (opcional, 2 cm de alto)                               │
//	│                          FATURA                              │
//	│  EMISOR: nombre, dirección,    │  Fatura No                  │
//	│  vergi dairesi / no, contacto  │  Tarih                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ürün/Hizmet | Miktar | Birim Fiyat | KDV % | Toplam  │
//	│  ─────────────────────────────────────────────────────────  │
//	│                              Ara Toplam / KDV / GENEL TOPLAM │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	mimage "github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	mentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/fatura-api/internal/application/billing"
	"github.com/jhoicas/fatura-api/internal/domain"
	"github.com/jhoicas/fatura-api/internal/domain/entity"
)

const a4WidthMM = 210.0

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
// No hace E/S propia: recibe todo lo necesario y devuelve bytes.
type MarotoPDFGenerator struct {
	theme Theme
	fonts []*mentity.CustomFont
	now   func() time.Time
}

// Option configura el generador.
type Option func(*MarotoPDFGenerator)

// WithTheme reemplaza el tema por defecto.
func WithTheme(t Theme) Option {
	return func(g *MarotoPDFGenerator) { g.theme = t }
}

// WithClock fija el reloj usado para la fecha de la factura.
func WithClock(now func() time.Time) Option {
	return func(g *MarotoPDFGenerator) { g.now = now }
}

// WithUTF8Font registra una fuente TrueType para la familia del tema. Con una
// fuente UTF-8 se dibujan los caracteres turcos y el símbolo ₺.
func WithUTF8Font(fonts []*mentity.CustomFont, family string) Option {
	return func(g *MarotoPDFGenerator) {
		g.fonts = fonts
		g.theme.FontFamily = family
		g.theme.CurrencySymbol = "₺"
	}
}

// LoadUTF8Font carga las variantes normal y negrita de una fuente TTF.
// Si boldPath está vacío se usa regularPath para ambas.
func LoadUTF8Font(family, regularPath, boldPath string) ([]*mentity.CustomFont, error) {
	if boldPath == "" {
		boldPath = regularPath
	}
	fonts, err := repository.New().
		AddUTF8Font(family, fontstyle.Normal, regularPath).
		AddUTF8Font(family, fontstyle.Bold, boldPath).
		Load()
	if err != nil {
		return nil, fmt.Errorf("pdf: cargar fuente %s: %w", regularPath, err)
	}
	return fonts, nil
}

// NewMarotoPDFGenerator construye el generador con DefaultTheme y time.Now.
func NewMarotoPDFGenerator(opts ...Option) *MarotoPDFGenerator {
	g := &MarotoPDFGenerator{theme: DefaultTheme(), now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// layout resumen de lo que se compuso; lo usan los tests y el log.
type layout struct {
	Logo     LogoResult
	ItemRows int
	Totals   entity.InvoiceTotals
	Date     string
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
// Sin líneas devuelve un error marcado domain.ErrValidation.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	ctx context.Context,
	number int64,
	issuer entity.Issuer,
	items []entity.LineItem,
	logo []byte,
) ([]byte, error) {
	return g.render(ctx, number, issuer, items, DecodeLogo(logo))
}

// render compone y genera el documento. Si Maroto rechaza el logo al
// generar, el documento se rehace sin logo: un logo nunca hace fallar la fatura.
func (g *MarotoPDFGenerator) render(
	ctx context.Context,
	number int64,
	issuer entity.Issuer,
	items []entity.LineItem,
	logo LogoResult,
) ([]byte, error) {
	log := zerolog.Ctx(ctx)

	m, lay, err := g.composeWith(number, issuer, items, logo)
	if err != nil {
		return nil, err
	}
	if lay.Logo.Err != nil {
		log.Debug().Err(lay.Logo.Err).Int64("invoice_number", number).Msg("logo omitido")
	}

	doc, err := m.Generate()
	if err != nil && lay.Logo.OK() {
		log.Warn().Err(err).Int64("invoice_number", number).Msg("logo rechazado al generar; se omite")
		m, _, _ = g.composeWith(number, issuer, items, LogoResult{Err: domain.WithKind(domain.ErrLogoDecode, err)})
		doc, err = m.Generate()
	}
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoPDFGenerator) compose(
	number int64,
	issuer entity.Issuer,
	items []entity.LineItem,
	logoData []byte,
) (core.Maroto, layout, error) {
	return g.composeWith(number, issuer, items, DecodeLogo(logoData))
}

func (g *MarotoPDFGenerator) composeWith(
	number int64,
	issuer entity.Issuer,
	items []entity.LineItem,
	logo LogoResult,
) (core.Maroto, layout, error) {
	if len(items) == 0 {
		return nil, layout{}, domain.Validationf("se requiere al menos una línea de factura")
	}

	t := g.theme
	now := g.now()
	lay := layout{
		Logo:     logo,
		ItemRows: len(items),
		Totals:   entity.ComputeTotals(items),
		Date:     now.Format("02/01/2006"),
	}

	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(t.MarginMM).WithRightMargin(t.MarginMM).
		WithTopMargin(t.MarginMM).WithBottomMargin(t.MarginMM).
		WithMaxGridSize(t.GridSize).
		WithDefaultFont(&props.Font{Family: t.FontFamily, Size: t.BodyFontSize}).
		WithPageNumber(props.PageNumber{
			Pattern: "Sayfa {current} / {total}",
			Place:   props.RightBottom,
			Family:  t.FontFamily,
			Size:    8,
			Color:   t.MetaColor,
		}).
		WithTitle("Fatura "+strconv.FormatInt(number, 10), true).
		WithCreationDate(now)
	if issuer.Name != "" {
		builder = builder.WithAuthor(issuer.Name, true)
	}
	if len(g.fonts) > 0 {
		builder = builder.WithCustomFonts(g.fonts)
	}

	m := maroto.New(builder.Build())

	if lay.Logo.OK() {
		m.AddRows(logoRow(t, lay.Logo.Logo), row.New(5))
	}
	m.AddRows(titleRow(t), row.New(3))
	m.AddRows(headerRows(t, issuer, number, lay.Date)...)
	m.AddRows(row.New(10))

	m.AddRows(tableHeaderRow(t))
	m.AddRows(tableItemRows(t, items)...)
	m.AddRows(row.New(10))

	m.AddRows(summaryRows(t, lay.Totals)...)

	return m, lay, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// logoRow: alto fijo, ancho según la relación de aspecto de la imagen.
func logoRow(t Theme, logo *Logo) core.Row {
	size := logoSpan(t, logo.Aspect())
	cols := []core.Col{
		col.New(size).Add(mimage.NewFromBytes(logo.Data, logo.Ext, props.Rect{Percent: 100})),
	}
	if size < t.GridSize {
		cols = append(cols, col.New(t.GridSize-size))
	}
	return row.New(t.LogoHeight).Add(cols...)
}

// logoSpan columnas de grilla necesarias para dibujar el logo a LogoHeight
// sin deformarlo; Maroto lo ajusta dentro de la celda conservando la proporción.
func logoSpan(t Theme, aspect float64) int {
	size := int(math.Ceil(t.LogoHeight * aspect / t.unitMM()))
	if size < 1 {
		return 1
	}
	if size > t.GridSize {
		return t.GridSize
	}
	return size
}

func titleRow(t Theme) core.Row {
	return row.New(14).Add(col.New(t.GridSize).Add(
		text.New("FATURA", props.Text{
			Style: fontstyle.Bold, Size: t.TitleFontSize, Align: align.Center,
			Color: t.TitleColor,
		}),
	))
}

// headerRows: emisor (izq) y N° de fatura + fecha (der). Una fila de alto
// automático por línea, así una dirección larga empuja a las siguientes.
func headerRows(t Theme, issuer entity.Issuer, number int64, date string) []core.Row {
	left := [6]string{
		issuer.Name,
		issuer.Address,
		"Vergi Dairesi: " + issuer.TaxOffice,
		"Vergi No: " + issuer.TaxNumber,
		"Tel: " + issuer.Phone,
		"E-posta: " + issuer.Email,
	}
	right := [2]string{
		"Fatura No: " + strconv.FormatInt(number, 10),
		"Tarih: " + date,
	}

	rows := make([]core.Row, 0, len(left))
	for i, s := range left {
		p := props.Text{Size: t.BodyFontSize, Bottom: 1, Color: t.IssuerColor}
		if i == 0 {
			p.Style = fontstyle.Bold
		}
		meta := col.New(t.HeaderColumns[1])
		if i < len(right) {
			meta.Add(text.New(right[i], props.Text{
				Size: t.BodyFontSize, Bottom: 1, Align: align.Right, Color: t.MetaColor,
			}))
		}
		rows = append(rows, row.New().Add(col.New(t.HeaderColumns[0]).Add(text.New(s, p)), meta))
	}
	return rows
}

func gridCell(t Theme) *props.Cell {
	return &props.Cell{
		BorderType:      border.Full,
		BorderColor:     t.GridColor,
		BorderThickness: 0.2,
	}
}

// tableHeaderRow: cabecera con fondo azul y texto claro.
func tableHeaderRow(t Theme) core.Row {
	labels := [5]string{"Ürün/Hizmet", "Miktar", "Birim Fiyat", "KDV %", "Toplam"}
	cols := make([]core.Col, 0, len(labels))
	for i, label := range labels {
		cols = append(cols, col.New(t.TableColumns[i]).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: t.HeaderFontSize, Align: align.Center,
			Color: t.HeaderTextColor, Top: 2,
		})).WithStyle(gridCell(t)))
	}
	return row.New(9).Add(cols...).WithStyle(&props.Cell{BackgroundColor: t.HeaderBgColor})
}

// tableItemRows: una fila por línea, con sombreado alterno.
func tableItemRows(t Theme, items []entity.LineItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for i, it := range items {
		cells := [5]string{
			it.Name,
			formatQuantity(it.Quantity),
			formatMoney(it.UnitPrice, t.CurrencySymbol),
			"%" + formatQuantity(it.TaxRate),
			formatMoney(it.Total(), t.CurrencySymbol),
		}
		cols := make([]core.Col, 0, len(cells))
		for j, c := range cells {
			cols = append(cols, col.New(t.TableColumns[j]).Add(text.New(c, props.Text{
				Size: t.BodyFontSize, Align: align.Center, Top: 1.5, Left: 1, Right: 1,
			})).WithStyle(gridCell(t)))
		}
		rows = append(rows, row.New(7).Add(cols...).WithStyle(&props.Cell{
			BackgroundColor: t.BandColors[i%2],
		}))
	}
	return rows
}

// summaryRows: Ara Toplam, KDV Toplamı y GENEL TOPLAM destacado con línea superior.
func summaryRows(t Theme, totals entity.InvoiceTotals) []core.Row {
	plain := func(label string, amount decimal.Decimal) core.Row {
		p := props.Text{Size: t.BodyFontSize, Align: align.Right, Top: 1}
		return row.New(6).Add(
			col.New(t.SummaryColumns[0]).Add(text.New(label, p)),
			col.New(t.SummaryColumns[1]).Add(text.New(formatMoney(amount, t.CurrencySymbol), p)),
		)
	}
	grand := props.Text{
		Style: fontstyle.Bold, Size: t.GrandFontSize, Align: align.Right,
		Color: t.EmphasisColor, Top: 2,
	}

	return []core.Row{
		plain("Ara Toplam:", totals.Subtotal),
		plain("KDV Toplamı:", totals.TaxTotal),
		line.NewRow(2, props.Line{Color: t.EmphasisColor, Thickness: 0.35}),
		row.New(9).Add(
			col.New(t.SummaryColumns[0]).Add(text.New("GENEL TOPLAM:", grand)),
			col.New(t.SummaryColumns[1]).Add(text.New(formatMoney(totals.GrandTotal, t.CurrencySymbol), grand)),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney redondea a dos decimales y agrupa miles con punto y decimales con coma.
// Ej: 1234.5 → "1.234,50 TL".
func formatMoney(d decimal.Decimal, symbol string) string {
	s := d.StringFixed(2)
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	return sign + groupThousands(intPart) + "," + frac + " " + symbol
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// formatQuantity muestra la cantidad sin ceros de relleno y con coma decimal.
func formatQuantity(d decimal.Decimal) string {
	s := d.String()
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s[:i] + "," + s[i+1:]
		}
	}
	return s
}
