package statestore

import (
	"context"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/finhavoc/scenarioforge/ent"
	"github.com/finhavoc/scenarioforge/pkg/domain"
)

func newTestStore(t *testing.T) *Store {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	drv, err := sql.Open(dialect.Postgres, connStr)
	require.NoError(t, err)

	client := ent.NewClient(ent.Driver(drv))
	require.NoError(t, client.Schema.Create(ctx))
	t.Cleanup(func() { client.Close() })

	return New(client)
}

func TestSeedInfrastructure_EnterpriseProduces40Entities(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.SeedInfrastructure(ctx, EnterpriseTemplate())
	require.NoError(t, err)
	assert.Equal(t, 40, count)

	state, err := store.GetCurrentState(ctx)
	require.NoError(t, err)
	assert.Len(t, state, 40)
	assert.Contains(t, state, "SRV-CORE-001")
	assert.Contains(t, state, "WS-FINANCE-10")
}

func TestSeedInfrastructure_IsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.SeedInfrastructure(ctx, EnterpriseTemplate())
	require.NoError(t, err)

	second, err := store.SeedInfrastructure(ctx, EnterpriseTemplate())
	require.NoError(t, err)

	assert.Equal(t, first, second)

	state, err := store.GetCurrentState(ctx)
	require.NoError(t, err)
	assert.Len(t, state, 40)
}

func TestUpdateEntityStatus_AttributesToInject(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SeedInfrastructure(ctx, EnterpriseTemplate())
	require.NoError(t, err)

	require.NoError(t, store.UpdateEntityStatus(ctx, "SRV-CORE-001", domain.StatusCompromised, "INJ-001"))

	entity, err := store.GetEntityStatus(ctx, "SRV-CORE-001")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompromised, entity.Status)
	assert.Equal(t, "INJ-001", entity.LastUpdatedByInject)
}

func TestGetEntityStatus_UnknownAssetIsStateError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetEntityStatus(ctx, "SRV-NOT-EXIST")
	require.Error(t, err)
}

func TestGetAffectedEntities_OneHop(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SeedInfrastructure(ctx, EnterpriseTemplate())
	require.NoError(t, err)

	affected, err := store.GetAffectedEntities(ctx, "SRV-APP-001")
	require.NoError(t, err)
	require.NotEmpty(t, affected)

	ids := make([]string, 0, len(affected))
	for _, e := range affected {
		ids = append(ids, e.ID)
	}
	assert.Contains(t, ids, "SRV-CORE-001")
}
