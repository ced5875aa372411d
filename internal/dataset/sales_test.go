// internal/dataset/sales_test.go
package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storesight/analytics-backend/internal/models"
)

func TestBuildSalesViewDefaultsToDelivered(t *testing.T) {
	loader := newTestLoader(t)

	view, err := loader.BuildSalesView(SalesViewOptions{})
	require.NoError(t, err)
	require.Len(t, view.Records, 2)
	assert.True(t, view.HasDeliveryDays)

	byOrder := map[string]models.SalesRecord{}
	for _, r := range view.Records {
		byOrder[r.OrderID] = r
	}

	a := byOrder["A"]
	require.NotNil(t, a.DeliveryDays)
	assert.Equal(t, 5, *a.DeliveryDays)

	b := byOrder["B"]
	require.NotNil(t, b.DeliveryDays)
	assert.Equal(t, 5, *b.DeliveryDays)
}

func TestBuildSalesViewAllKeepsEveryItem(t *testing.T) {
	loader := newTestLoader(t)

	view, err := loader.BuildSalesView(SalesViewOptions{StatusFilter: StatusAll})
	require.NoError(t, err)

	items, err := loader.OrderItems()
	require.NoError(t, err)

	// Round-trip invariant: one row per original order item.
	assert.Len(t, view.Records, len(items))
	assert.False(t, view.HasDeliveryDays)

	// The orphan item survives the left join with zero-valued order fields.
	var orphan *models.SalesRecord
	for i := range view.Records {
		if view.Records[i].OrderID == "ZZZ" {
			orphan = &view.Records[i]
		}
	}
	require.NotNil(t, orphan)
	assert.Empty(t, orphan.CustomerID)
	assert.Empty(t, string(orphan.OrderStatus))
	assert.Nil(t, orphan.PurchaseTimestamp)
}

func TestBuildSalesViewStatusFilterIsExact(t *testing.T) {
	loader := newTestLoader(t)

	view, err := loader.BuildSalesView(SalesViewOptions{StatusFilter: "shipped"})
	require.NoError(t, err)
	require.Len(t, view.Records, 1)
	assert.Equal(t, "C", view.Records[0].OrderID)
	assert.False(t, view.HasDeliveryDays)
}

func TestBuildSalesViewDateBounds(t *testing.T) {
	loader := newTestLoader(t)

	view, err := loader.BuildSalesView(SalesViewOptions{
		StatusFilter: StatusAll,
		StartDate:    "2023-01-01",
		EndDate:      "2023-01-31",
	})
	require.NoError(t, err)

	// Orders A and B fall in January; C is February, the orphan and the
	// malformed-timestamp order have no parseable purchase timestamp.
	require.Len(t, view.Records, 2)
	for _, r := range view.Records {
		assert.Contains(t, []string{"A", "B"}, r.OrderID)
	}
}

func TestBuildSalesViewInvalidDate(t *testing.T) {
	loader := newTestLoader(t)

	_, err := loader.BuildSalesView(SalesViewOptions{StartDate: "01/05/2023"})
	require.Error(t, err)
}

func TestEnrichWithProductsLeftJoin(t *testing.T) {
	loader := newTestLoader(t)

	view, err := loader.BuildSalesView(SalesViewOptions{StatusFilter: StatusAll})
	require.NoError(t, err)

	enriched, err := loader.EnrichWithProducts(view)
	require.NoError(t, err)
	assert.True(t, enriched.HasCategory)
	assert.Len(t, enriched.Records, len(view.Records))

	// Source view untouched.
	assert.False(t, view.HasCategory)
	for _, r := range view.Records {
		assert.Nil(t, r.ProductCategory)
	}

	cats := map[string]*string{}
	for _, r := range enriched.Records {
		cats[r.OrderID] = r.ProductCategory
	}
	require.NotNil(t, cats["A"])
	assert.Equal(t, "electronics", *cats["A"])
	// prod-3 has an empty category cell.
	assert.Nil(t, cats["ZZZ"])
}

func TestEnrichWithGeographyLeftJoin(t *testing.T) {
	loader := newTestLoader(t)

	view, err := loader.BuildSalesView(SalesViewOptions{StatusFilter: StatusAll})
	require.NoError(t, err)

	enriched, err := loader.EnrichWithGeography(view)
	require.NoError(t, err)
	assert.True(t, enriched.HasGeography)
	assert.Len(t, enriched.Records, len(view.Records))

	states := map[string]*string{}
	for _, r := range enriched.Records {
		states[r.OrderID] = r.CustomerState
	}
	require.NotNil(t, states["A"])
	assert.Equal(t, "SP", *states["A"])
	// Orphan item has no customer to join on.
	assert.Nil(t, states["ZZZ"])
}

func TestEnrichWithReviewsKeepsFirstPerOrder(t *testing.T) {
	loader := newTestLoader(t)

	view, err := loader.BuildSalesView(SalesViewOptions{})
	require.NoError(t, err)

	enriched, err := loader.EnrichWithReviews(view)
	require.NoError(t, err)
	assert.True(t, enriched.HasReviews)

	scores := map[string]*int{}
	for _, r := range enriched.Records {
		scores[r.OrderID] = r.ReviewScore
	}

	// Order A has two review rows; the first one wins.
	require.NotNil(t, scores["A"])
	assert.Equal(t, 5, *scores["A"])
	require.NotNil(t, scores["B"])
	assert.Equal(t, 3, *scores["B"])
}

func ts(value string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestFilterByDateInclusiveBounds(t *testing.T) {
	rows := []models.SalesRecord{
		{OrderID: "early", PurchaseTimestamp: ts("2023-01-01 00:00:00")},
		{OrderID: "mid", PurchaseTimestamp: ts("2023-01-15 12:00:00")},
		{OrderID: "late", PurchaseTimestamp: ts("2023-02-01 00:00:00")},
		{OrderID: "none"},
	}

	filtered, err := FilterByDate(rows, func(r models.SalesRecord) *time.Time { return r.PurchaseTimestamp },
		"2023-01-01", "2023-02-01")
	require.NoError(t, err)

	ids := make([]string, 0, len(filtered))
	for _, r := range filtered {
		ids = append(ids, r.OrderID)
	}
	// Both bounds are inclusive instants; the nil timestamp is dropped.
	assert.Equal(t, []string{"early", "mid", "late"}, ids)
}

func TestFilterByDateNoBoundsCopies(t *testing.T) {
	rows := []models.SalesRecord{{OrderID: "x"}, {OrderID: "y"}}

	out, err := FilterByDate(rows, func(r models.SalesRecord) *time.Time { return r.PurchaseTimestamp }, "", "")
	require.NoError(t, err)
	require.Len(t, out, 2)

	out[0].OrderID = "mutated"
	assert.Equal(t, "x", rows[0].OrderID)
}

func TestDateRange(t *testing.T) {
	rows := []models.SalesRecord{
		{PurchaseTimestamp: ts("2022-12-30 08:00:00")},
		{PurchaseTimestamp: ts("2023-01-02 09:00:00")},
		{PurchaseTimestamp: ts("2023-01-02 18:00:00")},
		{},
	}

	info, ok := DateRange(rows, func(r models.SalesRecord) *time.Time { return r.PurchaseTimestamp })
	require.True(t, ok)
	assert.Equal(t, 2022, info.MinDate.Year())
	assert.Equal(t, 2023, info.MaxDate.Year())
	assert.Equal(t, 2, info.UniqueDates)
	assert.Equal(t, 2, info.UniqueMonths)
	assert.Equal(t, []int{2022, 2023}, info.Years)

	_, ok = DateRange(nil, func(r models.SalesRecord) *time.Time { return nil })
	assert.False(t, ok)
}
