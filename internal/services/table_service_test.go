package services

import (
	"context"
	"testing"
	"time"

	"barpos/internal/common"
	"barpos/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTablesSeedsFreePool(t *testing.T) {
	repo := newFakeTableRepo()
	svc := NewTableService(repo)
	ctx := context.Background()

	require.NoError(t, svc.InitializeTables(ctx, 5))

	tables, err := svc.ListTables(ctx)
	require.NoError(t, err)
	assert.Len(t, tables, 5)
	for _, table := range tables {
		assert.Equal(t, models.TableStatusFree, table.Status)
		assert.Nil(t, table.ActiveOrderID)
	}
}

func TestInitializeTablesIsIdempotent(t *testing.T) {
	repo := newFakeTableRepo()
	svc := NewTableService(repo)
	ctx := context.Background()

	require.NoError(t, svc.InitializeTables(ctx, 5))

	// Mark a table occupied, then re-run with a different count. Neither the
	// pool size nor the occupied table may change.
	orderID := uuid.New()
	now := time.Now()
	require.NoError(t, repo.SetStatus(ctx, 2, models.TableStatusOccupied, &orderID, &now))

	require.NoError(t, svc.InitializeTables(ctx, 10))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	table, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, table.Status)
}

func TestGetTableByIDUnknown(t *testing.T) {
	repo := newFakeTableRepo()
	svc := NewTableService(repo)

	_, err := svc.GetTableByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, common.IsNotFound(err))
}
