package warehouse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/warehouse"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Faltantes por técnico y material
// ──────────────────────────────────────────────────────────────────────────────

func TestDeficitTracker_GetSinRegistroDevuelveCero(t *testing.T) {
	tracker := warehouse.NewDeficitTracker(memory.NewDeficitRepository())

	got, err := tracker.Get(techA, matCable)
	require.NoError(t, err)
	assert.True(t, got.IsZero(), "sin registro el faltante es cero")
}

func TestDeficitTracker_IncreaseAcumula(t *testing.T) {
	tracker := warehouse.NewDeficitTracker(memory.NewDeficitRepository())

	require.NoError(t, tracker.Increase(techA, matCable, dec(3)))
	require.NoError(t, tracker.Increase(techA, matCable, dec(2)))

	got, err := tracker.Get(techA, matCable)
	require.NoError(t, err)
	assert.Equal(t, "5", got.String())

	// Cada par (técnico, material) lleva su propia cuenta.
	otro, err := tracker.Get(techB, matCable)
	require.NoError(t, err)
	assert.True(t, otro.IsZero())
}

func TestDeficitTracker_IncreaseRechazaCantidadesNoPositivas(t *testing.T) {
	tracker := warehouse.NewDeficitTracker(memory.NewDeficitRepository())

	assert.ErrorIs(t, tracker.Increase(techA, matCable, dec(0)), domain.ErrInvalidInput)
	assert.ErrorIs(t, tracker.Increase(techA, matCable, dec(-1)), domain.ErrInvalidInput)
}

// Decrease está acotado: reduce el faltante en min(cantidad, faltante) y
// devuelve el resto no absorbido; el faltante nunca baja de cero.
func TestDeficitTracker_DecreaseAcotado(t *testing.T) {
	cases := []struct {
		name          string
		prior, amount int64
		remainder     string
		after         string
	}{
		{"absorbe todo", 5, 3, "0", "2"},
		{"absorbe exacto", 5, 5, "0", "0"},
		{"excede el faltante", 3, 8, "5", "0"},
		{"sin faltante previo", 0, 4, "4", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tracker := warehouse.NewDeficitTracker(memory.NewDeficitRepository())
			if tc.prior > 0 {
				require.NoError(t, tracker.Increase(techA, matCable, dec(tc.prior)))
			}

			remainder, err := tracker.Decrease(techA, matCable, dec(tc.amount))
			require.NoError(t, err)
			assert.Equal(t, tc.remainder, remainder.String(), "resto no absorbido")

			after, err := tracker.Get(techA, matCable)
			require.NoError(t, err)
			assert.Equal(t, tc.after, after.String(), "faltante tras la reducción")
		})
	}
}
