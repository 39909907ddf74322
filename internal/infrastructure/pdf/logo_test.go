package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatura-api/internal/domain"
)

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 52, G: 152, B: 219, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(w, h)))
	return buf.Bytes()
}

// png16Bytes PNG de 16 bits por canal con transparencia: image.Decode lo
// acepta pero gofpdf no.
func png16Bytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA64(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA64{R: 0x3434, G: 0x9898, B: 0xdbdb, A: 0x8000})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solidImage(w, h), nil))
	return buf.Bytes()
}

// assertPNG8 comprueba que data sea un PNG de 8 bits por canal.
func assertPNG8(t *testing.T, data []byte) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Contains(t, []color.Model{color.RGBAModel, color.NRGBAModel}, cfg.ColorModel)
}

func gifBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, solidImage(w, h), nil))
	return buf.Bytes()
}

func TestDecodeLogo_SinLogo(t *testing.T) {
	res := DecodeLogo(nil)

	assert.False(t, res.OK())
	assert.NoError(t, res.Err, "la ausencia de logo no es un error")
}

func TestDecodeLogo_PNG(t *testing.T) {
	data := pngBytes(t, 200, 100)
	res := DecodeLogo(data)

	require.True(t, res.OK())
	require.NoError(t, res.Err)
	assert.Equal(t, extension.Png, res.Logo.Ext)
	assertPNG8(t, res.Logo.Data)
	assert.InDelta(t, 2.0, res.Logo.Aspect(), 1e-9)
}

func TestDecodeLogo_PNG16BitsSeNormalizaA8Bits(t *testing.T) {
	data := png16Bytes(t, 60, 20)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, color.NRGBA64Model, cfg.ColorModel)

	res := DecodeLogo(data)

	require.True(t, res.OK())
	assert.Equal(t, extension.Png, res.Logo.Ext)
	assertPNG8(t, res.Logo.Data)
	assert.Equal(t, 60, res.Logo.Width)
	assert.Equal(t, 20, res.Logo.Height)
}

func TestDecodeLogo_JPEGSeIncrustaTalCual(t *testing.T) {
	data := jpegBytes(t, 80, 40)
	res := DecodeLogo(data)

	require.True(t, res.OK())
	assert.Equal(t, extension.Jpg, res.Logo.Ext)
	assert.Equal(t, data, res.Logo.Data)
}

func TestDecodeLogo_GIFSeRecodificaAPNG(t *testing.T) {
	res := DecodeLogo(gifBytes(t, 30, 60))

	require.True(t, res.OK())
	assert.Equal(t, extension.Png, res.Logo.Ext)
	assertPNG8(t, res.Logo.Data)
	assert.InDelta(t, 0.5, res.Logo.Aspect(), 1e-9)
}

func TestDecodeLogo_Indecodificable(t *testing.T) {
	truncated := pngBytes(t, 50, 50)[:40]
	cases := map[string][]byte{
		"texto":        []byte("esto no es una imagen"),
		"pdf":          []byte("%PDF-1.4\n%âãÏÓ\n"),
		"png truncado": truncated,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			res := DecodeLogo(data)

			assert.False(t, res.OK())
			require.Error(t, res.Err)
			assert.ErrorIs(t, res.Err, domain.ErrLogoDecode)
		})
	}
}

func TestLogoSpan(t *testing.T) {
	th := DefaultTheme()

	assert.Equal(t, 2, logoSpan(th, 1), "20 mm de ancho → 2 columnas de 10 mm")
	assert.Equal(t, 4, logoSpan(th, 2))
	assert.Equal(t, 1, logoSpan(th, 0.1))
	assert.Equal(t, th.GridSize, logoSpan(th, 50), "no excede el ancho útil")
}
