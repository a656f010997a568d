package store

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restynation/buythatworks/pkg/config"
	"github.com/restynation/buythatworks/pkg/models"
)

func TestMigrationsArePaired(t *testing.T) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups, downs := 0, 0
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups++
		case strings.HasSuffix(n, ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
}

func TestNewSetupRecordsKeepsRequestOrder(t *testing.T) {
	hub, mouse := "CalDigit TS4", "MX Master 3"
	setup, blocks, edges, err := newSetupRecords(models.CreateSetupRequest{
		Setup: models.SetupPayload{Name: "Desk", UserName: "sam", PasswordHash: "$2a$10$x"},
		Blocks: []models.BlockPayload{
			{NodeID: "n1", DeviceTypeID: 1},
			{NodeID: "n2", DeviceTypeID: 3, CustomName: &hub},
			{NodeID: "n3", DeviceTypeID: 4, CustomName: &mouse},
		},
		Edges: []models.EdgePayload{
			{SourceBlockID: "n1", TargetBlockID: "n2", SourcePortTypeID: 4, TargetPortTypeID: 4},
			{SourceBlockID: "n2", TargetBlockID: "n3", SourcePortTypeID: 6, TargetPortTypeID: 6},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, setup.Comment)

	require.Len(t, blocks, 3)
	for i, b := range blocks {
		assert.Equal(t, i, b.Ordinal)
		assert.Equal(t, setup.ID, b.SetupID)
	}
	require.Len(t, edges, 2)
	assert.Equal(t, 0, edges[0].Ordinal)
	assert.Equal(t, 1, edges[1].Ordinal)
	assert.Equal(t, blocks[1].ID, edges[1].SourceBlockID)
	assert.Equal(t, blocks[2].ID, edges[1].TargetBlockID)

	_, _, _, err = newSetupRecords(models.CreateSetupRequest{
		Blocks: []models.BlockPayload{{NodeID: "n1", DeviceTypeID: 1}},
		Edges:  []models.EdgePayload{{SourceBlockID: "ghost", TargetBlockID: "n1"}},
	})
	assert.ErrorIs(t, err, ErrUnknownBlock)
}

// openTestDB connects to the database named by BTW_TEST_DATABASE_HOST and
// friends, skipping when none is configured.
func openTestDB(t *testing.T) Stores {
	t.Helper()
	host := os.Getenv("BTW_TEST_DATABASE_HOST")
	if host == "" {
		t.Skip("BTW_TEST_DATABASE_HOST not set")
	}
	db, err := Open(config.Database{
		Host:     host,
		User:     os.Getenv("BTW_TEST_DATABASE_USER"),
		Password: os.Getenv("BTW_TEST_DATABASE_PASSWORD"),
		DB:       os.Getenv("BTW_TEST_DATABASE_DB"),
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return New(db)
}

func TestSetupLifecycle(t *testing.T) {
	stores := openTestDB(t)
	ctx := context.Background()

	data, err := stores.Catalog.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, data.DeviceTypes, 5)
	assert.Len(t, data.PortTypes, 8)

	names := []string{"Logitech MX Master 3", "Keychron K2", "CalDigit TS4", "Anker hub"}
	req := models.CreateSetupRequest{
		Setup:  models.SetupPayload{Name: "Desk", UserName: "sam", PasswordHash: "$2a$10$x", Comment: "ok"},
		Blocks: []models.BlockPayload{{NodeID: "n0", DeviceTypeID: 1}},
	}
	for i := range names {
		node := "n" + string(rune('1'+i))
		req.Blocks = append(req.Blocks, models.BlockPayload{NodeID: node, DeviceTypeID: 3, CustomName: &names[i]})
		req.Edges = append(req.Edges, models.EdgePayload{SourceBlockID: "n0", TargetBlockID: node, SourcePortTypeID: 7, TargetPortTypeID: i + 1})
	}
	id, err := stores.Setups.Create(ctx, req)
	require.NoError(t, err)

	g, err := stores.Setups.GetGraph(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, g)
	require.Len(t, g.Blocks, 5)
	for i, name := range names {
		require.NotNil(t, g.Blocks[i+1].CustomName)
		assert.Equal(t, name, *g.Blocks[i+1].CustomName)
	}
	require.Len(t, g.Edges, 4)
	for i, e := range g.Edges {
		assert.Equal(t, i+1, e.TargetPortTypeID)
		assert.Equal(t, 7, e.SourcePortTypeID)
	}

	require.NoError(t, stores.Setups.SoftDelete(ctx, id))
	assert.ErrorIs(t, stores.Setups.SoftDelete(ctx, id), ErrAlreadyDeleted)
	assert.ErrorIs(t, stores.Setups.SoftDelete(ctx, "00000000-0000-0000-0000-000000000000"), ErrSetupNotFound)

	_, err = stores.Setups.Create(ctx, models.CreateSetupRequest{
		Setup:  models.SetupPayload{Name: "Broken", UserName: "sam", PasswordHash: "x"},
		Blocks: []models.BlockPayload{{NodeID: "n1", DeviceTypeID: 1}},
		Edges:  []models.EdgePayload{{SourceBlockID: "n1", TargetBlockID: "ghost"}},
	})
	assert.ErrorIs(t, err, ErrUnknownBlock)
}
