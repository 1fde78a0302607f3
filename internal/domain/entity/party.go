package entity

// Party una ubicación interna o fuente de stock externa elegible como
// fuente/destino de una operación. Exactamente uno de LocationUUID o
// StockSourceUUID está presente y discrimina "Location" vs "Other".
type Party struct {
	UUID            string
	Name            string
	LocationUUID    string
	StockSourceUUID string
	Tags            []string
}

// IsLocation indica si el party es una ubicación interna.
func (p Party) IsLocation() bool { return p.LocationUUID != "" }

// HasTag indica si el party porta la etiqueta de ubicación dada.
func (p Party) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
