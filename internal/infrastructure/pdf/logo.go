package pdf

import (
	"bytes"
	"image"
	_ "image/gif" // decodificadores registrados para image.Decode
	_ "image/jpeg"
	"image/png"

	"github.com/cockroachdb/errors"
	"github.com/h2non/filetype"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/jhoicas/fatura-api/internal/domain"
)

// Logo imagen lista para incrustar (PNG o JPEG) con sus dimensiones en píxeles.
type Logo struct {
	Data   []byte
	Ext    extension.Type
	Width  int
	Height int
}

// Aspect relación ancho/alto.
func (l *Logo) Aspect() float64 {
	return float64(l.Width) / float64(l.Height)
}

// LogoResult resultado de DecodeLogo. Con Logo == nil no se dibuja logo:
// o no se envió (Err == nil) o no se pudo decodificar (errors.Is(Err, ErrLogoDecode)).
type LogoResult struct {
	Logo *Logo
	Err  error
}

// OK indica si hay un logo utilizable.
func (r LogoResult) OK() bool { return r.Logo != nil }

// DecodeLogo detecta el formato de data y la decodifica. Solo el JPEG se
// incrusta tal cual; el resto (PNG incluido) se recodifica a PNG RGBA de
// 8 bits, el único que gofpdf acepta siempre (sin 16 bits ni entrelazado).
func DecodeLogo(data []byte) LogoResult {
	if len(data) == 0 {
		return LogoResult{}
	}

	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return logoFailure(errors.Newf("formato no reconocido (%s)", kind.MIME.Value))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return logoFailure(errors.Wrapf(err, "decodificar %s", kind.Extension))
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return logoFailure(errors.New("imagen sin dimensiones"))
	}

	logo := &Logo{Data: data, Ext: extension.Jpg, Width: b.Dx(), Height: b.Dy()}
	if kind.Extension != "jpg" {
		out, err := encodePNG8(img)
		if err != nil {
			return logoFailure(errors.Wrap(err, "recodificar a png"))
		}
		logo.Data = out
		logo.Ext = extension.Png
	}
	return LogoResult{Logo: logo}
}

// encodePNG8 vuelca img sobre un NRGBA de 8 bits por canal y lo codifica.
func encodePNG8(img image.Image) ([]byte, error) {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func logoFailure(err error) LogoResult {
	return LogoResult{Err: domain.WithKind(domain.ErrLogoDecode, err)}
}
