package warehouse

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// GroupingWindow es la ventana con la que las vistas de historial agrupan
// entradas contiguas en una sola operación lógica.
const GroupingWindow = 5 * time.Second

// MovementGroup es una operación lógica para presentación: entradas con la
// misma acción, autor y notas cuyas fechas caen dentro de la ventana. El
// historial en sí no agrupa nada; esto es estrictamente del lado de lectura.
type MovementGroup struct {
	Action        string
	PerformedByID string
	Notes         string
	ActionDate    time.Time // fecha de la primera entrada del grupo
	TotalQuantity decimal.Decimal
	Entries       []*entity.Movement
}

// GroupMovements agrupa entradas del historial para vistas de auditoría.
// window <= 0 usa GroupingWindow. No muta el slice de entrada.
func GroupMovements(entries []*entity.Movement, window time.Duration) []MovementGroup {
	if window <= 0 {
		window = GroupingWindow
	}
	sorted := make([]*entity.Movement, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ActionDate.Before(sorted[j].ActionDate)
	})

	var groups []MovementGroup
	for _, m := range sorted {
		if g := lastMatching(groups, m, window); g != nil {
			g.TotalQuantity = g.TotalQuantity.Add(m.Quantity)
			g.Entries = append(g.Entries, m)
			continue
		}
		groups = append(groups, MovementGroup{
			Action:        m.Action,
			PerformedByID: m.PerformedByID,
			Notes:         m.Notes,
			ActionDate:    m.ActionDate,
			TotalQuantity: m.Quantity,
			Entries:       []*entity.Movement{m},
		})
	}
	return groups
}

// lastMatching devuelve el último grupo compatible con la entrada, o nil.
// Solo se mira el último: las entradas vienen ordenadas por fecha y una
// operación lógica nunca se entrelaza con otra del mismo autor y acción.
func lastMatching(groups []MovementGroup, m *entity.Movement, window time.Duration) *MovementGroup {
	if len(groups) == 0 {
		return nil
	}
	g := &groups[len(groups)-1]
	if g.Action != m.Action || g.PerformedByID != m.PerformedByID || g.Notes != m.Notes {
		return nil
	}
	if m.ActionDate.Sub(g.ActionDate) > window {
		return nil
	}
	return g
}
