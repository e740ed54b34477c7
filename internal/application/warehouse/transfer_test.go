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
// Traslados entre tenedores: proponer, aceptar, rechazar, cancelar
// ──────────────────────────────────────────────────────────────────────────────

func deviceByID(t *testing.T, env *testEnv, id string) *entity.DeviceItem {
	t.Helper()
	item, err := env.tx.Items.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, item)
	d, ok := item.(*entity.DeviceItem)
	require.True(t, ok, "el ítem debe ser un equipo serializado")
	return d
}

// Proponer marca el ítem como en tránsito pero no lo mueve ni escribe en el
// historial: el traslado no es real hasta que lo acepte el receptor.
func TestTransfer_ProponerNoMueveNiRegistra(t *testing.T) {
	env := newTestEnv()
	from := entity.LocationHolder(bodega1)
	to := entity.LocationHolder(bodega2)
	devID := seedDevice(t, env, from, "ABC123", entity.DeviceStatusInStock)

	tr, err := env.coord.Propose(context.Background(), from, to, adminID, "reubicación",
		[]warehouse.TransferLineInput{{WarehouseItemID: devID}})
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusPending, tr.Status)
	require.Len(t, tr.Lines, 1)
	assert.Equal(t, "1", tr.Lines[0].Quantity.String(), "la cantidad de un equipo se normaliza a 1")

	dev := deviceByID(t, env, devID)
	assert.True(t, dev.TransferPending, "el equipo debe quedar marcado en tránsito")
	assert.Equal(t, from, dev.Holder, "el tenedor no cambia al proponer")
	assert.Empty(t, allMovements(t, env), "proponer no escribe en el historial")
}

// Aceptar mueve el equipo al destino, limpia la marca de tránsito y registra
// exactamente un TRANSFER por renglón.
func TestTransfer_AceptarMueveElEquipo(t *testing.T) {
	env := newTestEnv()
	from := entity.LocationHolder(bodega1)
	to := entity.LocationHolder(bodega2)
	devID := seedDevice(t, env, from, "ABC123", entity.DeviceStatusInStock)

	tr, err := env.coord.Propose(context.Background(), from, to, adminID, "",
		[]warehouse.TransferLineInput{{WarehouseItemID: devID}})
	require.NoError(t, err)
	require.NoError(t, env.coord.Accept(context.Background(), tr.ID, adminID))

	dev := deviceByID(t, env, devID)
	assert.Equal(t, to, dev.Holder)
	assert.False(t, dev.TransferPending)

	got, err := env.tx.Transfer.GetByID(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusAccepted, got.Status)
	require.NotNil(t, got.ResolvedAt, "el estado terminal debe sellar la fecha de resolución")

	moves := movementsByAction(t, env, entity.ActionTransfer)
	require.Len(t, moves, 1)
	assert.Equal(t, bodega1, moves[0].FromLocationID)
	assert.Equal(t, bodega2, moves[0].ToLocationID)
}

// Aceptar un traslado de material descuenta del origen y acredita al destino,
// creando la tenencia destino si no existía.
func TestTransfer_AceptarMueveMaterial(t *testing.T) {
	env := newTestEnv()
	from := entity.LocationHolder(bodega1)
	to := entity.LocationHolder(bodega2)
	itemID := seedHolding(t, env, from, matCable, 10)

	tr, err := env.coord.Propose(context.Background(), from, to, adminID, "",
		[]warehouse.TransferLineInput{{WarehouseItemID: itemID, Quantity: dec(4)}})
	require.NoError(t, err)
	require.NoError(t, env.coord.Accept(context.Background(), tr.ID, adminID))

	assert.Equal(t, "6", holdingQty(t, env, from, matCable).String())
	assert.Equal(t, "4", holdingQty(t, env, to, matCable).String())

	moves := movementsByAction(t, env, entity.ActionTransfer)
	require.Len(t, moves, 1)
	assert.Equal(t, "4", moves[0].Quantity.String())
}

// Rechazar devuelve el equipo a su origen: la marca de tránsito se limpia,
// el tenedor no cambia y el historial queda intacto.
func TestTransfer_RechazarDevuelveAlOrigenSinHistorial(t *testing.T) {
	env := newTestEnv()
	from := entity.LocationHolder(bodega1)
	to := entity.LocationHolder(bodega2)
	devID := seedDevice(t, env, from, "ABC123", entity.DeviceStatusInStock)

	tr, err := env.coord.Propose(context.Background(), from, to, adminID, "",
		[]warehouse.TransferLineInput{{WarehouseItemID: devID}})
	require.NoError(t, err)
	require.NoError(t, env.coord.Reject(context.Background(), tr.ID, adminID))

	dev := deviceByID(t, env, devID)
	assert.Equal(t, from, dev.Holder, "tras el rechazo el equipo sigue en el origen")
	assert.False(t, dev.TransferPending)
	assert.Empty(t, allMovements(t, env), "un rechazo no escribe en el historial")

	got, err := env.tx.Transfer.GetByID(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusRejected, got.Status)
}

// Los estados terminales se alcanzan una sola vez: cualquier resolución
// posterior falla con ErrInvalidTransferState y no cambia nada.
func TestTransfer_EstadoTerminalEsDefinitivo(t *testing.T) {
	env := newTestEnv()
	from := entity.LocationHolder(bodega1)
	to := entity.LocationHolder(bodega2)
	devID := seedDevice(t, env, from, "ABC123", entity.DeviceStatusInStock)

	tr, err := env.coord.Propose(context.Background(), from, to, adminID, "",
		[]warehouse.TransferLineInput{{WarehouseItemID: devID}})
	require.NoError(t, err)
	require.NoError(t, env.coord.Accept(context.Background(), tr.ID, adminID))

	assert.ErrorIs(t, env.coord.Accept(context.Background(), tr.ID, adminID), domain.ErrInvalidTransferState)
	assert.ErrorIs(t, env.coord.Reject(context.Background(), tr.ID, adminID), domain.ErrInvalidTransferState)
	assert.ErrorIs(t, env.coord.Cancel(context.Background(), tr.ID, from), domain.ErrInvalidTransferState)

	dev := deviceByID(t, env, devID)
	assert.Equal(t, to, dev.Holder, "los reintentos no deben revertir el traslado")
}

// Solo el origen puede cancelar su propia propuesta.
func TestTransfer_CancelarSoloPermitidoAlOrigen(t *testing.T) {
	env := newTestEnv()
	from := entity.TechnicianHolder(techA)
	to := entity.TechnicianHolder(techB)
	devID := seedDevice(t, env, from, "DEF456", entity.DeviceStatusAssigned)

	tr, err := env.coord.Propose(context.Background(), from, to, techA, "",
		[]warehouse.TransferLineInput{{WarehouseItemID: devID}})
	require.NoError(t, err)

	err = env.coord.Cancel(context.Background(), tr.ID, to)
	assert.ErrorIs(t, err, domain.ErrForbidden, "el destino no puede cancelar")

	require.NoError(t, env.coord.Cancel(context.Background(), tr.ID, from))
	got, err := env.tx.Transfer.GetByID(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCanceled, got.Status)
	assert.False(t, deviceByID(t, env, devID).TransferPending)
}

// Validaciones al proponer: tipos de tenedor mezclados, auto-traslado,
// tenedor equivocado, material insuficiente, renglón repetido y equipo ya en
// tránsito.
func TestTransfer_ValidacionesDePropuesta(t *testing.T) {
	env := newTestEnv()
	bodega := entity.LocationHolder(bodega1)
	tech := entity.TechnicianHolder(techA)
	devID := seedDevice(t, env, bodega, "ABC123", entity.DeviceStatusInStock)
	matID := seedHolding(t, env, bodega, matCable, 5)

	ctx := context.Background()
	line := []warehouse.TransferLineInput{{WarehouseItemID: devID}}

	_, err := env.coord.Propose(ctx, bodega, tech, adminID, "", line)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "los tenedores deben ser del mismo tipo")

	_, err = env.coord.Propose(ctx, bodega, bodega, adminID, "", line)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "origen y destino no pueden coincidir")

	_, err = env.coord.Propose(ctx, entity.LocationHolder(bodega2), entity.LocationHolder(bodega1), adminID, "", line)
	assert.ErrorIs(t, err, domain.ErrConflict, "solo el tenedor actual puede proponer el ítem")

	_, err = env.coord.Propose(ctx, bodega, entity.LocationHolder(bodega2), adminID, "",
		[]warehouse.TransferLineInput{{WarehouseItemID: matID, Quantity: dec(9)}})
	assert.ErrorIs(t, err, domain.ErrNegativeStock, "no se puede proponer más material del que hay")

	_, err = env.coord.Propose(ctx, bodega, entity.LocationHolder(bodega2), adminID, "",
		[]warehouse.TransferLineInput{{WarehouseItemID: devID}, {WarehouseItemID: devID}})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "un ítem no puede repetirse en la propuesta")

	_, err = env.coord.Propose(ctx, bodega, entity.LocationHolder(bodega2), adminID, "", line)
	require.NoError(t, err)
	_, err = env.coord.Propose(ctx, bodega, entity.LocationHolder(bodega2), adminID, "", line)
	assert.ErrorIs(t, err, domain.ErrConflict, "un ítem en tránsito no admite otra propuesta")
}

// Si el ítem perdió la marca de tránsito entre la propuesta y la aceptación,
// el renglón está viciado y la aceptación falla.
func TestTransfer_RenglonViciadoAlAceptar(t *testing.T) {
	env := newTestEnv()
	from := entity.LocationHolder(bodega1)
	to := entity.LocationHolder(bodega2)
	devID := seedDevice(t, env, from, "ABC123", entity.DeviceStatusInStock)

	tr, err := env.coord.Propose(context.Background(), from, to, adminID, "",
		[]warehouse.TransferLineInput{{WarehouseItemID: devID}})
	require.NoError(t, err)

	// El ítem quedó liberado por fuera del ciclo del traslado.
	require.NoError(t, env.tx.Items.SetTransferPending(devID, false))

	err = env.coord.Accept(context.Background(), tr.ID, adminID)
	assert.ErrorIs(t, err, domain.ErrStaleTransferLine)

	// El rechazo también detecta el renglón viciado.
	err = env.coord.Reject(context.Background(), tr.ID, adminID)
	assert.ErrorIs(t, err, domain.ErrStaleTransferLine)
}

// Los listados de pendientes separan el lado entrante del saliente.
func TestTransfer_ListadosEntrantesYSalientes(t *testing.T) {
	env := newTestEnv()
	from := entity.LocationHolder(bodega1)
	to := entity.LocationHolder(bodega2)
	devID := seedDevice(t, env, from, "ABC123", entity.DeviceStatusInStock)

	tr, err := env.coord.Propose(context.Background(), from, to, adminID, "",
		[]warehouse.TransferLineInput{{WarehouseItemID: devID}})
	require.NoError(t, err)

	incoming, err := env.coord.IncomingFor(to)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, tr.ID, incoming[0].ID)

	outgoing, err := env.coord.OutgoingFor(from)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)

	none, err := env.coord.IncomingFor(from)
	require.NoError(t, err)
	assert.Empty(t, none, "el origen no tiene traslados entrantes")

	// Los resueltos desaparecen de ambos listados.
	require.NoError(t, env.coord.Accept(context.Background(), tr.ID, adminID))
	incoming, err = env.coord.IncomingFor(to)
	require.NoError(t, err)
	assert.Empty(t, incoming)
}
