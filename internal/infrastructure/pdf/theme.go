package pdf

import "github.com/johnfercher/maroto/v2/pkg/props"

// Theme reúne las constantes visuales de la factura. Se pasa por valor: el
// generador nunca la modifica.
//
// Las medidas están en milímetros y los anchos de columna en unidades de la
// grilla (GridSize unidades ocupan el ancho útil de la página).
type Theme struct {
	MarginMM   float64
	GridSize   int
	LogoHeight float64

	FontFamily     string
	CurrencySymbol string

	TitleFontSize  float64
	BodyFontSize   float64
	HeaderFontSize float64
	GrandFontSize  float64

	TitleColor      *props.Color
	IssuerColor     *props.Color
	MetaColor       *props.Color
	HeaderBgColor   *props.Color
	HeaderTextColor *props.Color
	GridColor       *props.Color
	BandColors      [2]*props.Color
	EmphasisColor   *props.Color

	HeaderColumns  [2]int // emisor | número + fecha
	TableColumns   [5]int // descripción | cantidad | precio | KDV % | total
	SummaryColumns [2]int // etiqueta | importe
}

// DefaultTheme A4 con márgenes de 2 cm y grilla de 17 unidades (1 unidad = 1 cm).
func DefaultTheme() Theme {
	return Theme{
		MarginMM:   20,
		GridSize:   17,
		LogoHeight: 20,

		FontFamily:     "helvetica",
		CurrencySymbol: "TL",

		TitleFontSize:  24,
		BodyFontSize:   10,
		HeaderFontSize: 11,
		GrandFontSize:  12,

		TitleColor:      hex(0x2c, 0x3e, 0x50),
		IssuerColor:     hex(0x34, 0x49, 0x5e),
		MetaColor:       hex(0x7f, 0x8c, 0x8d),
		HeaderBgColor:   hex(0x34, 0x98, 0xdb),
		HeaderTextColor: hex(0xf5, 0xf5, 0xf5),
		GridColor:       hex(0x80, 0x80, 0x80),
		BandColors:      [2]*props.Color{hex(0xff, 0xff, 0xff), hex(0xec, 0xf0, 0xf1)},
		EmphasisColor:   hex(0x27, 0xae, 0x60),

		HeaderColumns:  [2]int{10, 7},
		TableColumns:   [5]int{7, 2, 3, 2, 3},
		SummaryColumns: [2]int{14, 3},
	}
}

// unitMM ancho en milímetros de una unidad de la grilla en página A4.
func (t Theme) unitMM() float64 {
	return (a4WidthMM - 2*t.MarginMM) / float64(t.GridSize)
}

func hex(r, g, b int) *props.Color {
	return &props.Color{Red: r, Green: g, Blue: b}
}
