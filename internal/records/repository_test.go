package records_test

import (
	"context"
	"testing"
	"time"

	"github.com/salonkeep/salonkeep/internal/records"
	"github.com/salonkeep/salonkeep/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) records.Repository {
	t.Helper()
	return records.NewRepository(testhelper.SetupTestDB(t))
}

func TestClientLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	dob := time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC)
	client := &records.Client{
		FirstName:   "Maja",
		LastName:    "Ahlgren",
		Email:       "maja@example.com",
		Phone:       "555-0100",
		DateOfBirth: &dob,
	}
	require.NoError(t, repo.CreateClient(ctx, client))
	require.NotZero(t, client.ID)

	loaded, err := repo.GetClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maja", loaded.FirstName)
	assert.Equal(t, "Ahlgren", loaded.LastName)
	require.NotNil(t, loaded.DateOfBirth)

	loaded.Phone = "555-0199"
	require.NoError(t, repo.UpdateClient(ctx, loaded))

	updated, err := repo.GetClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-0199", updated.Phone)

	require.NoError(t, repo.DeleteClient(ctx, client.ID))
	_, err = repo.GetClient(ctx, client.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListClientsOrderedByName(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, c := range []records.Client{
		{FirstName: "Sara", LastName: "Berg"},
		{FirstName: "Anna", LastName: "Ahlgren"},
		{FirstName: "Maja", LastName: "Ahlgren"},
	} {
		client := c
		require.NoError(t, repo.CreateClient(ctx, &client))
	}

	clients, err := repo.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, "Anna", clients[0].FirstName)
	assert.Equal(t, "Maja", clients[1].FirstName)
	assert.Equal(t, "Berg", clients[2].LastName)
}

func TestTreatmentsByClient(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := &records.Client{FirstName: "Maja", LastName: "Ahlgren"}
	second := &records.Client{FirstName: "Sara", LastName: "Berg"}
	require.NoError(t, repo.CreateClient(ctx, first))
	require.NoError(t, repo.CreateClient(ctx, second))

	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateTreatment(ctx, &records.TreatmentRecord{
		ClientID: first.ID, TreatmentDate: base, TreatmentNotes: "facial",
	}))
	require.NoError(t, repo.CreateTreatment(ctx, &records.TreatmentRecord{
		ClientID: first.ID, TreatmentDate: base.AddDate(0, 1, 0), TreatmentNotes: "peel",
	}))
	require.NoError(t, repo.CreateTreatment(ctx, &records.TreatmentRecord{
		ClientID: second.ID, TreatmentDate: base, TreatmentNotes: "massage",
	}))

	treatments, err := repo.ListTreatmentsByClient(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, treatments, 2)
	// Newest treatment first
	assert.Equal(t, "peel", treatments[0].TreatmentNotes)
	assert.Equal(t, "facial", treatments[1].TreatmentNotes)

	all, err := repo.ListTreatments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductRecordsByClient(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	client := &records.Client{FirstName: "Maja", LastName: "Ahlgren"}
	other := &records.Client{FirstName: "Sara", LastName: "Berg"}
	require.NoError(t, repo.CreateClient(ctx, client))
	require.NoError(t, repo.CreateClient(ctx, other))

	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateProductRecord(ctx, &records.ProductRecord{
		ClientID: client.ID, ProductDate: base, ProductText: "vitamin C serum",
	}))
	require.NoError(t, repo.CreateProductRecord(ctx, &records.ProductRecord{
		ClientID: client.ID, ProductDate: base.AddDate(0, 0, 5), ProductText: "retinol cream",
	}))
	require.NoError(t, repo.CreateProductRecord(ctx, &records.ProductRecord{
		ClientID: other.ID, ProductDate: base, ProductText: "clay mask",
	}))

	products, err := repo.ListProductRecordsByClient(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "retinol cream", products[0].ProductText)
	assert.Equal(t, "vitamin C serum", products[1].ProductText)
}

func TestInventoryOrderedByName(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, item := range []records.InventoryItem{
		{Name: "Toner", Capacity: 200, Unit: records.UnitMilliliters},
		{Name: "Clay powder", Capacity: 500, Unit: records.UnitGrams},
		{Name: "Sheet masks", Capacity: 10, Unit: records.UnitPieces},
	} {
		entry := item
		require.NoError(t, repo.CreateInventoryItem(ctx, &entry))
	}

	items, err := repo.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Clay powder", items[0].Name)
	assert.Equal(t, "Sheet masks", items[1].Name)
	assert.Equal(t, "Toner", items[2].Name)
}
