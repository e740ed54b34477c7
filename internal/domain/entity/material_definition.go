package entity

// Unidad por defecto cuando la definición del material no especifica una.
const DefaultUnit = "unidad"

// MaterialDefinition es la ficha de catálogo de un material (solo lectura
// para este núcleo; la administra el resto del CRM).
type MaterialDefinition struct {
	ID   string
	Name string
	Unit string
}

// ResolvedUnit devuelve la unidad del material o la unidad por defecto.
func (m *MaterialDefinition) ResolvedUnit() string {
	if m.Unit == "" {
		return DefaultUnit
	}
	return m.Unit
}
