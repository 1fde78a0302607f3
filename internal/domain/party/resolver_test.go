package party_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/party"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func ubicacion(uuid, name string, tags ...string) entity.Party {
	return entity.Party{UUID: uuid, Name: name, LocationUUID: "loc-" + uuid, Tags: tags}
}

func fuenteExterna(uuid, name string) entity.Party {
	return entity.Party{UUID: uuid, Name: name, StockSourceUUID: "src-" + uuid}
}

func universo() []entity.Party {
	return []entity.Party{
		ubicacion("a", "Bodega Principal", party.MainStoreTag),
		ubicacion("b", "Farmacia Pediátrica", "Dispensary"),
		ubicacion("c", "Almacén General"),
		fuenteExterna("d", "Proveedor Nacional"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Elegibilidad
// ──────────────────────────────────────────────────────────────────────────────

// Fuente tipo Location sin alcance: todas las ubicaciones valen, las
// fuentes externas no.
func TestEligibleSources_UbicacionesSinAlcance(t *testing.T) {
	tipo := entity.OperationType{SourceType: entity.LocationTypeLocation}
	got := party.EligibleSources(tipo, universo())
	require.Len(t, got, 3)
	for _, p := range got {
		assert.True(t, p.IsLocation())
	}
}

// Fuente tipo Other: solo las fuentes de stock externas.
func TestEligibleSources_FuentesExternas(t *testing.T) {
	tipo := entity.OperationType{SourceType: entity.LocationTypeOther}
	got := party.EligibleSources(tipo, universo())
	require.Len(t, got, 1)
	assert.Equal(t, "d", got[0].UUID)
}

// Con alcance por etiqueta, solo pasan las ubicaciones etiquetadas.
func TestEligibleSources_AlcancePorEtiqueta(t *testing.T) {
	tipo := entity.OperationType{
		SourceType: entity.LocationTypeLocation,
		Scopes: []entity.LocationScope{
			{LocationTag: party.MainStoreTag, IsSource: true},
		},
	}
	got := party.EligibleSources(tipo, universo())
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].UUID)
}

// El alcance de destino es independiente del de fuente.
func TestEligibleDestinations_AlcanceSimetrico(t *testing.T) {
	tipo := entity.OperationType{
		SourceType:      entity.LocationTypeLocation,
		DestinationType: entity.LocationTypeLocation,
		Scopes: []entity.LocationScope{
			{LocationTag: party.MainStoreTag, IsSource: true},
			{LocationTag: "Dispensary", IsDestination: true},
		},
	}
	fuentes := party.EligibleSources(tipo, universo())
	destinos := party.EligibleDestinations(tipo, universo())
	require.Len(t, fuentes, 1)
	require.Len(t, destinos, 1)
	assert.Equal(t, "a", fuentes[0].UUID)
	assert.Equal(t, "b", destinos[0].UUID)
}

// El filtrado es referencialmente estable: misma entrada, misma salida.
func TestEligibleSources_Estable(t *testing.T) {
	tipo := entity.OperationType{SourceType: entity.LocationTypeLocation}
	u := universo()
	assert.Equal(t, party.EligibleSources(tipo, u), party.EligibleSources(tipo, u))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auto-bloqueo
// ──────────────────────────────────────────────────────────────────────────────

// Alcance de un solo elemento igual a la bodega principal: se preselecciona
// el primer party filtrado y el campo queda de solo lectura (operación nueva).
func TestResolveAutoLock_BodegaPrincipalUnica(t *testing.T) {
	tipo := entity.OperationType{
		SourceType: entity.LocationTypeLocation,
		Scopes: []entity.LocationScope{
			{LocationTag: party.MainStoreTag, IsSource: true},
		},
	}
	filtrados := party.EligibleSources(tipo, universo())

	lock := party.ResolveAutoLock(tipo, filtrados, party.RoleSource, false)
	require.NotNil(t, lock.Party)
	assert.Equal(t, "a", lock.Party.UUID)
	assert.True(t, lock.Locked)
}

// Al editar una operación existente el auto-bloqueo no pisa el party ya
// registrado.
func TestResolveAutoLock_NoAplicaAlEditar(t *testing.T) {
	tipo := entity.OperationType{
		SourceType: entity.LocationTypeLocation,
		Scopes: []entity.LocationScope{
			{LocationTag: party.MainStoreTag, IsSource: true},
		},
	}
	filtrados := party.EligibleSources(tipo, universo())

	lock := party.ResolveAutoLock(tipo, filtrados, party.RoleSource, true)
	assert.Nil(t, lock.Party)
	assert.False(t, lock.Locked)
}

// Con más de una etiqueta en el alcance, o una etiqueta distinta de la
// bodega principal, no hay bloqueo.
func TestResolveAutoLock_SoloConEtiquetaPrincipal(t *testing.T) {
	tipo := entity.OperationType{
		SourceType: entity.LocationTypeLocation,
		Scopes: []entity.LocationScope{
			{LocationTag: "Dispensary", IsSource: true},
		},
	}
	filtrados := party.EligibleSources(tipo, universo())
	lock := party.ResolveAutoLock(tipo, filtrados, party.RoleSource, false)
	assert.False(t, lock.Locked)

	tipo.Scopes = append(tipo.Scopes, entity.LocationScope{LocationTag: party.MainStoreTag, IsSource: true})
	filtrados = party.EligibleSources(tipo, universo())
	lock = party.ResolveAutoLock(tipo, filtrados, party.RoleSource, false)
	assert.False(t, lock.Locked)
}

func TestResolveAutoLock_SinCandidatosNoBloquea(t *testing.T) {
	tipo := entity.OperationType{
		SourceType: entity.LocationTypeLocation,
		Scopes: []entity.LocationScope{
			{LocationTag: party.MainStoreTag, IsSource: true},
		},
	}
	lock := party.ResolveAutoLock(tipo, nil, party.RoleSource, false)
	assert.False(t, lock.Locked)
}

// ──────────────────────────────────────────────────────────────────────────────
// Búsqueda por nombre
// ──────────────────────────────────────────────────────────────────────────────

func TestFilterByName_InsensibleAAcentosYMayusculas(t *testing.T) {
	got := party.FilterByName(universo(), "pediatrica")
	require.Len(t, got, 1)
	assert.Equal(t, "Farmacia Pediátrica", got[0].Name)

	got = party.FilterByName(universo(), "ALMACEN")
	require.Len(t, got, 1)
	assert.Equal(t, "Almacén General", got[0].Name)
}

func TestFilterByName_ConsultaVaciaDevuelveTodo(t *testing.T) {
	assert.Len(t, party.FilterByName(universo(), "  "), 4)
}
