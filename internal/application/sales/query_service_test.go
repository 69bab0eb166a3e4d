package sales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendite/backend/internal/domain/sales"
)

func testRecords() []sales.SalesRecord {
	mk := func(year, quarter int, product, region string, quantity int, revenue string) sales.SalesRecord {
		return sales.SalesRecord{
			SalespersonName:  "Mario Rossi",
			SalespersonEmail: "mario.rossi@azienda.it",
			Year:             year,
			Quarter:          quarter,
			Product:          product,
			Region:           region,
			Quantity:         quantity,
			Revenue:          decimal.RequireFromString(revenue),
		}
	}
	return []sales.SalesRecord{
		mk(2023, 1, "Software CRM", "Nord Italia", 10, "15000.50"),
		mk(2023, 2, "Cloud Storage", "Sud Italia", 5, "7200.00"),
		mk(2024, 1, "Software CRM", "Centro Italia", 8, "12400.25"),
		mk(2024, 3, "Consulenza", "Nord Italia", 2, "3000.00"),
	}
}

func TestFilterEmptyCriteriaReturnsAll(t *testing.T) {
	svc := NewQueryService()
	records := testRecords()

	assert.Equal(t, records, svc.Filter(records, sales.Criteria{}))
	assert.Equal(t, records, svc.Filter(records, sales.Criteria{
		Year: "all", Quarter: "all", Product: "all", Region: "all",
	}))
}

func TestFilterByEachDimension(t *testing.T) {
	svc := NewQueryService()
	records := testRecords()

	byYear := svc.Filter(records, sales.Criteria{Year: "2023"})
	require.Len(t, byYear, 2)
	assert.Equal(t, 2023, byYear[0].Year)
	assert.Equal(t, 2023, byYear[1].Year)

	byQuarter := svc.Filter(records, sales.Criteria{Quarter: "1"})
	require.Len(t, byQuarter, 2)

	byProduct := svc.Filter(records, sales.Criteria{Product: "Software CRM"})
	require.Len(t, byProduct, 2)

	byRegion := svc.Filter(records, sales.Criteria{Region: "Nord Italia"})
	require.Len(t, byRegion, 2)
}

func TestFilterCombinesWithAnd(t *testing.T) {
	svc := NewQueryService()
	records := testRecords()

	got := svc.Filter(records, sales.Criteria{Year: "2023", Product: "Software CRM"})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Quarter)

	assert.Empty(t, svc.Filter(records, sales.Criteria{Year: "2023", Region: "Centro Italia"}))
}

func TestFilterPreservesOrder(t *testing.T) {
	svc := NewQueryService()
	records := testRecords()

	got := svc.Filter(records, sales.Criteria{Region: "Nord Italia"})
	require.Len(t, got, 2)
	assert.Equal(t, 2023, got[0].Year)
	assert.Equal(t, 2024, got[1].Year)
}

func TestAggregateRevenueByYear(t *testing.T) {
	svc := NewQueryService()

	groups := svc.Aggregate(testRecords(), GroupByYear, MeasureRevenue)
	require.Len(t, groups, 2)

	assert.Equal(t, "2023", groups[0].Key)
	assert.True(t, groups[0].Sum.Equal(decimal.RequireFromString("22200.50")))
	assert.Equal(t, "2024", groups[1].Key)
	assert.True(t, groups[1].Sum.Equal(decimal.RequireFromString("15400.25")))
}

func TestAggregateQuantityByProduct(t *testing.T) {
	svc := NewQueryService()

	groups := svc.Aggregate(testRecords(), GroupByProduct, MeasureQuantity)
	require.Len(t, groups, 3)

	// Lexicographic key order for string dimensions.
	assert.Equal(t, "Cloud Storage", groups[0].Key)
	assert.True(t, groups[0].Sum.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "Consulenza", groups[1].Key)
	assert.True(t, groups[1].Sum.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "Software CRM", groups[2].Key)
	assert.True(t, groups[2].Sum.Equal(decimal.NewFromInt(18)))
}

func TestAggregateQuarterKeysSortNumerically(t *testing.T) {
	svc := NewQueryService()
	records := testRecords()

	groups := svc.Aggregate(records, GroupByQuarter, MeasureRevenue)
	require.Len(t, groups, 3)
	assert.Equal(t, "1", groups[0].Key)
	assert.Equal(t, "2", groups[1].Key)
	assert.Equal(t, "3", groups[2].Key)
}

func TestAggregateEmptyInput(t *testing.T) {
	svc := NewQueryService()
	assert.Empty(t, svc.Aggregate(nil, GroupByYear, MeasureRevenue))
}

func TestAggregatePartitionsTotal(t *testing.T) {
	svc := NewQueryService()
	records := testRecords()
	total := svc.TotalRevenue(records)

	for _, key := range []GroupKey{GroupByYear, GroupByQuarter, GroupByProduct, GroupByRegion} {
		sum := decimal.Zero
		for _, g := range svc.Aggregate(records, key, MeasureRevenue) {
			sum = sum.Add(g.Sum)
		}
		assert.True(t, sum.Equal(total), "grouping by %s must partition the total", key)
	}
}

func TestTotals(t *testing.T) {
	svc := NewQueryService()
	records := testRecords()

	assert.True(t, svc.TotalRevenue(records).Equal(decimal.RequireFromString("37600.75")))
	assert.Equal(t, int64(25), svc.TotalQuantity(records))

	assert.True(t, svc.TotalRevenue(nil).Equal(decimal.Zero))
	assert.Equal(t, int64(0), svc.TotalQuantity(nil))
}
