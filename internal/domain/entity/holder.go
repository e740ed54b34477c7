package entity

// Tipos de tenedor de un ítem de almacén.
const (
	HolderTechnician = "TECHNICIAN" // técnico de campo
	HolderLocation   = "LOCATION"   // bodega/ubicación física
)

// Holder identifica quién tiene un ítem: exactamente un técnico O una ubicación.
// Value object; comparar con == es válido.
type Holder struct {
	Kind string // TECHNICIAN o LOCATION
	ID   string
}

// TechnicianHolder construye el tenedor para un técnico.
func TechnicianHolder(technicianID string) Holder {
	return Holder{Kind: HolderTechnician, ID: technicianID}
}

// LocationHolder construye el tenedor para una ubicación.
func LocationHolder(locationID string) Holder {
	return Holder{Kind: HolderLocation, ID: locationID}
}

// IsZero indica si el tenedor no está definido.
func (h Holder) IsZero() bool {
	return h.Kind == "" && h.ID == ""
}
