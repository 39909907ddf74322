package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/fatura-api/internal/domain"
)

func TestValidationf(t *testing.T) {
	err := domain.Validationf("línea %d: cantidad negativa", 3)

	assert.EqualError(t, err, "línea 3: cantidad negativa")
	assert.True(t, domain.IsValidation(err))
	assert.False(t, domain.IsCounterStorage(err))
}

func TestCounterStorage_ConservaCausa(t *testing.T) {
	err := domain.CounterStorage(context.DeadlineExceeded, "contador: leer registro")

	assert.ErrorIs(t, err, domain.ErrCounterStorage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "contador: leer registro")

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, domain.IsCounterStorage(wrapped), "la clasificación sobrevive a envolturas")
}

func TestWithKind_Nil(t *testing.T) {
	assert.NoError(t, domain.WithKind(domain.ErrLogoDecode, nil))
	assert.NoError(t, domain.CounterStorage(nil, "x"))
	assert.False(t, domain.IsValidation(errors.New("otro")))
}
