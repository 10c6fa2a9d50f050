package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/ak736/GuardianX/internal/data"
	"github.com/ak736/GuardianX/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefault(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	sum, err := Apply(ctx, store, Default())
	require.NoError(t, err)
	assert.Equal(t, Summary{Infrastructure: 5, Sensors: 12, Alerts: 5}, sum)

	infra, _ := store.FindAllInfrastructure(ctx)
	byName := map[string]data.Infrastructure{}
	for _, in := range infra {
		byName[in.Name] = in
	}
	assert.Equal(t, data.StatusWarning, byName["Water Treatment Facility"].Status)
	assert.Equal(t, data.Point(-74.45, 40.05), byName["Power Substation Alpha"].Location)

	sensors, _ := store.FindActiveSensors(ctx)
	require.Len(t, sensors, 12)
	for _, s := range sensors {
		assert.Equal(t, DemoWallet, s.Owner)
		owner, err := store.FindInfrastructureByID(ctx, s.InfrastructureID)
		require.NoError(t, err)
		assert.Equal(t, owner.Type, s.Type)
	}

	resolved, _ := store.ListAlerts(ctx, data.AlertFilter{Status: data.AlertResolved})
	require.Len(t, resolved, 2)
	assert.NotNil(t, resolved[0].ResolvedAt)
}

func TestApplySkipsSeededStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_, err := Apply(ctx, store, Default())
	require.NoError(t, err)

	sum, err := Apply(ctx, store, Default())
	require.NoError(t, err)
	assert.Zero(t, sum)

	alerts, _ := store.ListAlerts(ctx, data.AlertFilter{})
	assert.Len(t, alerts, 5)
}

func TestLoadFrom(t *testing.T) {
	ds, err := LoadFrom(strings.NewReader(`
owner: wallet-1
sensors: 2
infrastructure:
  - name: Pump Station
    type: water
    coordinates: [-74.4, 40.1]
alerts:
  - title: Low pressure
    infrastructure_type: water
    severity: high
    area: North Sector
    confidence: 0.9
`))
	require.NoError(t, err)
	assert.Equal(t, "wallet-1", ds.Owner)
	require.Len(t, ds.Infrastructure, 1)
	assert.Equal(t, [2]float64{-74.4, 40.1}, ds.Infrastructure[0].Coordinates)

	ctx := context.Background()
	store := storage.NewMemoryStore()
	sum, err := Apply(ctx, store, ds)
	require.NoError(t, err)
	assert.Equal(t, Summary{Infrastructure: 1, Sensors: 2, Alerts: 1}, sum)

	infra, _ := store.FindAllInfrastructure(ctx)
	assert.Equal(t, data.StatusNormal, infra[0].Status)
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	_, err := LoadFrom(strings.NewReader("infrastructure:\n  - name: x\n    type: gas\n"))
	assert.ErrorContains(t, err, "invalid type")

	_, err = LoadFrom(strings.NewReader("alerts:\n  - infrastructure_type: power\n    severity: extreme\n"))
	assert.ErrorContains(t, err, "invalid severity")

	_, err = LoadFrom(strings.NewReader("infrastructure: [oops"))
	assert.Error(t, err)
}
