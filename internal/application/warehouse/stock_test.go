package warehouse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/warehouse"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos primarios de almacén
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_ReceiveDevice(t *testing.T) {
	env := newTestEnv()

	dev, err := env.stock.ReceiveDevice(context.Background(), "ABC123", "modem", bodega1, adminID, "lote marzo")
	require.NoError(t, err)
	require.NotEmpty(t, dev.ID, "el alta debe asignar id")
	assert.Equal(t, entity.DeviceStatusInStock, dev.Status)
	assert.Equal(t, entity.LocationHolder(bodega1), dev.Holder)

	moves := movementsByAction(t, env, entity.ActionReceived)
	require.Len(t, moves, 1)
	assert.Equal(t, bodega1, moves[0].ToLocationID)
	assert.Equal(t, "lote marzo", moves[0].Notes)

	// La serie es única.
	_, err = env.stock.ReceiveDevice(context.Background(), "ABC123", "modem", bodega2, adminID, "")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestStock_ReceiveMaterial(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.stock.ReceiveMaterial(context.Background(), matCable, dec(50), bodega1, adminID, ""))
	require.NoError(t, env.stock.ReceiveMaterial(context.Background(), matCable, dec(25), bodega1, adminID, ""))

	assert.Equal(t, "75", holdingQty(t, env, entity.LocationHolder(bodega1), matCable).String(),
		"las recepciones sucesivas acumulan sobre la misma tenencia")
	assert.Len(t, movementsByAction(t, env, entity.ActionReceived), 2)

	err := env.stock.ReceiveMaterial(context.Background(), "mat-inexistente", dec(1), bodega1, adminID, "")
	assert.ErrorIs(t, err, domain.ErrUnknownMaterial)
	err = env.stock.ReceiveMaterial(context.Background(), matCable, dec(0), bodega1, adminID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStock_IssueMaterial(t *testing.T) {
	env := newTestEnv()
	require.NoError(t, env.stock.ReceiveMaterial(context.Background(), matCable, dec(30), bodega1, adminID, ""))

	require.NoError(t, env.stock.IssueMaterial(context.Background(), matCable, dec(12), bodega1, techA, adminID))

	assert.Equal(t, "18", holdingQty(t, env, entity.LocationHolder(bodega1), matCable).String())
	assert.Equal(t, "12", holdingQty(t, env, entity.TechnicianHolder(techA), matCable).String())

	moves := movementsByAction(t, env, entity.ActionIssued)
	require.Len(t, moves, 1)
	assert.Equal(t, techA, moves[0].AssignedToID)
	assert.Equal(t, bodega1, moves[0].FromLocationID)

	// Más de lo que hay: la tenencia no puede quedar negativa.
	err := env.stock.IssueMaterial(context.Background(), matCable, dec(100), bodega1, techA, adminID)
	assert.ErrorIs(t, err, domain.ErrNegativeStock)

	// Ubicación sin tenencia del material.
	err = env.stock.IssueMaterial(context.Background(), matConector, dec(1), bodega1, techA, adminID)
	assert.ErrorIs(t, err, domain.ErrNegativeStock)
}

func TestStock_ReturnMaterial(t *testing.T) {
	env := newTestEnv()
	seedHolding(t, env, entity.TechnicianHolder(techA), matCable, 8)

	require.NoError(t, env.stock.ReturnMaterial(context.Background(), matCable, dec(5), techA, bodega1, adminID))

	assert.Equal(t, "3", holdingQty(t, env, entity.TechnicianHolder(techA), matCable).String())
	assert.Equal(t, "5", holdingQty(t, env, entity.LocationHolder(bodega1), matCable).String())

	moves := movementsByAction(t, env, entity.ActionReturned)
	require.Len(t, moves, 1)
	assert.Equal(t, bodega1, moves[0].ToLocationID)

	err := env.stock.ReturnMaterial(context.Background(), matCable, dec(10), techA, bodega1, adminID)
	assert.ErrorIs(t, err, domain.ErrNegativeStock, "no se puede devolver más de lo que el técnico tiene")
}

func TestStock_CollectDeviceFromClient(t *testing.T) {
	env := newTestEnv()

	// Serie desconocida: se da de alta ya recogida, en poder del técnico.
	dev, err := env.stock.CollectDeviceFromClient(context.Background(), "XYZ789", "decodificador", techA, adminID, ordenID, "retiro de servicio")
	require.NoError(t, err)
	assert.Equal(t, entity.DeviceStatusCollected, dev.Status)
	assert.Equal(t, entity.TechnicianHolder(techA), dev.Holder)

	moves := movementsByAction(t, env, entity.ActionCollectedFromClient)
	require.Len(t, moves, 1)
	assert.Equal(t, ordenID, moves[0].AssignedOrderID)
	assert.Equal(t, techA, moves[0].AssignedToID)

	// Serie conocida: cambia de manos y de estado, sin duplicar el registro.
	devID := seedDevice(t, env, entity.LocationHolder(bodega1), "KNOWN1", entity.DeviceStatusInStock)
	got, err := env.stock.CollectDeviceFromClient(context.Background(), "KNOWN1", "", techB, adminID, orden2ID, "")
	require.NoError(t, err)
	assert.Equal(t, devID, got.ID)

	collected := deviceByID(t, env, devID)
	assert.Equal(t, entity.TechnicianHolder(techB), collected.Holder)
	assert.Equal(t, entity.DeviceStatusCollected, collected.Status)
}

func TestStock_ReturnDeviceToOperator(t *testing.T) {
	env := newTestEnv()
	devID := seedDevice(t, env, entity.TechnicianHolder(techA), "XYZ789", entity.DeviceStatusCollected)

	require.NoError(t, env.stock.ReturnDeviceToOperator(context.Background(), devID, adminID, "equipo dañado"))

	dev := deviceByID(t, env, devID)
	assert.Equal(t, entity.DeviceStatusReturnedToOperator, dev.Status,
		"el registro se conserva para mantener el historial atribuible")

	moves := movementsByAction(t, env, entity.ActionReturnedToOperator)
	require.Len(t, moves, 1)
	assert.Equal(t, "equipo dañado", moves[0].Notes)

	// Repetir la devolución no genera otro asiento.
	err := env.stock.ReturnDeviceToOperator(context.Background(), devID, adminID, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, movementsByAction(t, env, entity.ActionReturnedToOperator), 1)

	err = env.stock.ReturnDeviceToOperator(context.Background(), "no-existe", adminID, "")
	assert.ErrorIs(t, err, domain.ErrUnknownItem)
}

// Un equipo en tránsito no admite movimientos primarios hasta resolver el
// traslado.
func TestStock_EquipoEnTrasladoBloqueaOperaciones(t *testing.T) {
	env := newTestEnv()
	from := entity.TechnicianHolder(techA)
	devID := seedDevice(t, env, from, "XYZ789", entity.DeviceStatusAssigned)

	_, err := env.coord.Propose(context.Background(), from, entity.TechnicianHolder(techB), techA, "",
		[]warehouse.TransferLineInput{{WarehouseItemID: devID}})
	require.NoError(t, err)

	err = env.stock.ReturnDeviceToOperator(context.Background(), devID, adminID, "")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = env.stock.CollectDeviceFromClient(context.Background(), "XYZ789", "", techB, adminID, ordenID, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}
