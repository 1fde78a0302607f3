// Package party filtra el universo de parties (ubicaciones y fuentes
// externas) a los elegibles como fuente/destino de un tipo de operación.
// El filtrado es puro y referencialmente estable: misma entrada, misma
// salida, sin efectos; los consumidores dependen de eso para memoizar.
package party

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// MainStoreTag etiqueta de la bodega principal. Cuando el alcance de un
// tipo deja una sola etiqueta y es esta, aplica el auto-bloqueo.
const MainStoreTag = "Main Store"

// Role lado de la operación que se está resolviendo.
type Role int

const (
	RoleSource Role = iota
	RoleDestination
)

// EligibleSources devuelve los parties válidos como fuente del tipo dado.
func EligibleSources(t entity.OperationType, universe []entity.Party) []entity.Party {
	return eligible(t, universe, RoleSource)
}

// EligibleDestinations devuelve los parties válidos como destino.
func EligibleDestinations(t entity.OperationType, universe []entity.Party) []entity.Party {
	return eligible(t, universe, RoleDestination)
}

func eligible(t entity.OperationType, universe []entity.Party, role Role) []entity.Party {
	locType := t.SourceType
	tags := t.SourceTags()
	if role == RoleDestination {
		locType = t.DestinationType
		tags = t.DestinationTags()
	}

	var out []entity.Party
	for _, p := range universe {
		if p.IsLocation() {
			if locType != entity.LocationTypeLocation {
				continue
			}
			// Sin entradas de alcance para el rol, toda ubicación vale;
			// con alcance, la ubicación debe portar alguna etiqueta habilitada.
			if len(tags) > 0 && !hasAnyTag(p, tags) {
				continue
			}
			out = append(out, p)
			continue
		}
		if p.StockSourceUUID != "" && locType == entity.LocationTypeOther {
			out = append(out, p)
		}
	}
	return out
}

func hasAnyTag(p entity.Party, tags []string) bool {
	for _, tag := range tags {
		if p.HasTag(tag) {
			return true
		}
	}
	return false
}

// ── Auto-bloqueo ──────────────────────────────────────────────────────────────

// AutoLock resultado de evaluar el auto-bloqueo de un lado de la operación.
type AutoLock struct {
	// Party preseleccionado; nil si no aplica bloqueo.
	Party *entity.Party
	// Locked el campo se presenta no editable.
	Locked bool
}

// ResolveAutoLock evalúa la regla de bloqueo automático: si el alcance del
// rol tiene exactamente una etiqueta y es la bodega principal, se
// preselecciona el primer party filtrado y el campo queda de solo lectura.
// Aplica únicamente a operaciones nuevas: al editar, el party ya registrado
// prevalece y el campo sigue editable.
func ResolveAutoLock(t entity.OperationType, filtered []entity.Party, role Role, editing bool) AutoLock {
	if editing || len(filtered) == 0 {
		return AutoLock{}
	}
	tags := t.SourceTags()
	if role == RoleDestination {
		tags = t.DestinationTags()
	}
	if len(tags) != 1 || tags[0] != MainStoreTag {
		return AutoLock{}
	}
	p := filtered[0]
	return AutoLock{Party: &p, Locked: true}
}

// ── Búsqueda por nombre ───────────────────────────────────────────────────────

// normalizador descompone y descarta marcas diacríticas, para que
// "Bodega Farmacéutica" matchee con "farmaceutica".
var normalizador = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FilterByName filtra parties por nombre, insensible a mayúsculas y acentos.
// Cadena vacía devuelve la lista tal cual.
func FilterByName(parties []entity.Party, query string) []entity.Party {
	q := foldName(query)
	if q == "" {
		return parties
	}
	var out []entity.Party
	for _, p := range parties {
		if strings.Contains(foldName(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

func foldName(s string) string {
	folded, _, err := transform.String(normalizador, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return folded
}
