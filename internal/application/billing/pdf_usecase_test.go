package billing

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatura-api/internal/domain"
	"github.com/jhoicas/fatura-api/internal/domain/entity"
)

type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) Next(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateInvoicePDF(
	ctx context.Context, number int64, issuer entity.Issuer, items []entity.LineItem, logo []byte,
) ([]byte, error) {
	args := m.Called(ctx, number, issuer, items, logo)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func newTestUseCase(c *MockCounter, g *MockGenerator) *PDFUseCase {
	uc := NewPDFUseCase(c, g)
	uc.now = func() time.Time { return time.Date(2026, 10, 18, 9, 5, 7, 0, time.UTC) }
	return uc
}

var widget = entity.LineItem{
	Name:      "Widget",
	Quantity:  decimal.NewFromInt(2),
	UnitPrice: decimal.RequireFromString("50.00"),
	TaxRate:   decimal.NewFromInt(10),
}

func TestGenerateInvoicePDF_OK(t *testing.T) {
	counter, gen := new(MockCounter), new(MockGenerator)
	issuer := entity.Issuer{Name: "Deniz Yazılım"}
	items := []entity.LineItem{widget}
	logo := []byte{0x89, 'P', 'N', 'G'}

	counter.On("Next", mock.Anything).Return(int64(1001), nil).Once()
	gen.On("GenerateInvoicePDF", mock.Anything, int64(1001), issuer, items, logo).
		Return([]byte("%PDF-1.3 mocked"), nil).Once()

	inv, err := newTestUseCase(counter, gen).GenerateInvoicePDF(context.Background(), issuer, items, logo)

	require.NoError(t, err)
	assert.Equal(t, int64(1001), inv.Number)
	assert.Equal(t, "invoice_20261018_090507.pdf", inv.Filename)
	assert.Equal(t, []byte("%PDF-1.3 mocked"), inv.PDF)
	assert.Equal(t, "110.00", inv.Totals.GrandTotal.StringFixed(2))
	counter.AssertExpectations(t)
	gen.AssertExpectations(t)
}

func TestGenerateInvoicePDF_ValidacionNoConsumeNumero(t *testing.T) {
	negative := widget
	negative.Quantity = decimal.NewFromInt(-1)

	for name, items := range map[string][]entity.LineItem{
		"sin líneas":        nil,
		"cantidad negativa": {negative},
	} {
		t.Run(name, func(t *testing.T) {
			counter, gen := new(MockCounter), new(MockGenerator)

			inv, err := newTestUseCase(counter, gen).GenerateInvoicePDF(context.Background(), entity.Issuer{}, items, nil)

			assert.Nil(t, inv)
			assert.ErrorIs(t, err, domain.ErrValidation)
			counter.AssertNotCalled(t, "Next", mock.Anything)
			gen.AssertNotCalled(t, "GenerateInvoicePDF", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestGenerateInvoicePDF_ErrorDelContador(t *testing.T) {
	counter, gen := new(MockCounter), new(MockGenerator)
	storageErr := domain.CounterStorage(errors.New("disk full"), "contador: escribir registro")
	counter.On("Next", mock.Anything).Return(int64(0), storageErr)

	_, err := newTestUseCase(counter, gen).GenerateInvoicePDF(context.Background(), entity.Issuer{}, []entity.LineItem{widget}, nil)

	assert.True(t, domain.IsCounterStorage(err))
	gen.AssertNotCalled(t, "GenerateInvoicePDF", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateInvoicePDF_ErrorDelGenerador(t *testing.T) {
	counter, gen := new(MockCounter), new(MockGenerator)
	boom := errors.New("font not found")
	counter.On("Next", mock.Anything).Return(int64(1007), nil)
	gen.On("GenerateInvoicePDF", mock.Anything, int64(1007), mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	_, err := newTestUseCase(counter, gen).GenerateInvoicePDF(ctx, entity.Issuer{}, []entity.LineItem{widget}, nil)

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "1007")
	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), `"invoice_number":1007`, "el hueco en la numeración queda registrado")
	assert.False(t, domain.IsValidation(err))
	assert.False(t, domain.IsCounterStorage(err))
}
