package resourcerepofake_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/internal/utils"
	"github.com/jrsteele09/go-dashboard/resources"
	resourcerepofake "github.com/jrsteele09/go-dashboard/resources/repofake"
	"github.com/stretchr/testify/require"
)

func seedItems(t *testing.T) *resourcerepofake.FakeResourceRepo[*resources.InventoryItem] {
	t.Helper()

	repo := resourcerepofake.NewFakeResourceRepo[*resources.InventoryItem](nil)
	items := []*resources.InventoryItem{
		{Name: "Widget", Quantity: 12, SKU: utils.Ptr("W-1"), Status: resources.InventoryInStock},
		{Name: "Gadget", Quantity: 0, Status: resources.InventoryOutOfStock},
		{Name: "widget mini", Quantity: 3, SKU: utils.Ptr("W-2"), Status: resources.InventoryInStock},
		{Name: "Sprocket", Quantity: 100, Description: utils.Ptr("a widget part"), Status: resources.InventoryBackordered},
	}
	for _, item := range items {
		require.NoError(t, repo.Create(item))
	}
	return repo
}

func TestListSearchFilterSort(t *testing.T) {
	repo := seedItems(t)

	items, total, err := repo.List(resources.ListParams{Search: "WIDGET", SortBy: "quantity", SortDirection: "desc"})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Equal(t, []string{"Sprocket", "Widget", "widget mini"}, names(items))

	items, total, err = repo.List(resources.ListParams{Filters: map[string]string{"status": resources.InventoryInStock, "sku": ""}, SortBy: "name"})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, []string{"Widget", "widget mini"}, names(items))

	// Unset SKUs sort first ascending.
	items, _, err = repo.List(resources.ListParams{SortBy: "sku", SortDirection: "asc"})
	require.NoError(t, err)
	require.Equal(t, []string{"Gadget", "Sprocket", "Widget", "widget mini"}, names(items))
}

func TestListPaging(t *testing.T) {
	repo := seedItems(t)

	items, total, err := repo.List(resources.ListParams{Page: 2, PerPage: 3})
	require.NoError(t, err)
	require.Equal(t, 4, total)
	require.Equal(t, []string{"Sprocket"}, names(items))

	items, total, err = repo.List(resources.ListParams{Page: 5, PerPage: 3})
	require.NoError(t, err)
	require.Equal(t, 4, total)
	require.Empty(t, items)
}

func TestUpdateKeepsCreationTime(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := resourcerepofake.NewFakeResourceRepo[*resources.Project](func() time.Time { return now })

	p := &resources.Project{Name: "Apollo", Status: resources.ProjectActive}
	require.NoError(t, repo.Create(p))

	now = now.Add(time.Hour)
	require.NoError(t, repo.Update(p.ID, &resources.Project{Name: "Apollo 2", Status: resources.ProjectCompleted}))

	got, err := repo.Get(p.ID)
	require.NoError(t, err)
	require.Equal(t, "Apollo 2", got.Name)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), got.CreatedAt)
	require.Equal(t, now, got.UpdatedAt)

	require.ErrorIs(t, repo.Update(99, &resources.Project{}), errors.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := seedItems(t)

	require.NoError(t, repo.Delete(2))
	require.ErrorIs(t, repo.Delete(2), errors.ErrNotFound)

	_, err := repo.Get(2)
	require.ErrorIs(t, err, errors.ErrNotFound)
	require.Len(t, repo.All(), 3)
}

func names(items []*resources.InventoryItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}
