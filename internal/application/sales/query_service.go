package sales

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/vendite/backend/internal/domain/sales"
)

// GroupKey identifies the record field used for grouping.
type GroupKey string

const (
	GroupByYear    GroupKey = "year"
	GroupByQuarter GroupKey = "quarter"
	GroupByProduct GroupKey = "product"
	GroupByRegion  GroupKey = "region"
)

// Measure identifies the summed quantity of an aggregation.
type Measure string

const (
	MeasureRevenue  Measure = "revenue"
	MeasureQuantity Measure = "quantity"
)

// GroupTotal is one group of an aggregation: the group's key value and
// the sum of the measure over its records.
type GroupTotal struct {
	Key string          `json:"key"`
	Sum decimal.Decimal `json:"sum"`
}

// QueryService filters and aggregates an in-memory record set. All
// operations are pure: input order is preserved and no error paths
// exist; an all-excluding criteria simply yields an empty slice.
type QueryService struct{}

// NewQueryService creates a new QueryService
func NewQueryService() *QueryService {
	return &QueryService{}
}

// Filter narrows records to those matching every active criteria
// constraint, preserving input order.
func (s *QueryService) Filter(records []sales.SalesRecord, criteria sales.Criteria) []sales.SalesRecord {
	if criteria.IsEmpty() {
		return records
	}
	filtered := make([]sales.SalesRecord, 0, len(records))
	for _, r := range records {
		if criteria.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Aggregate groups records by the given key and sums the measure per
// group. Groups are returned in the natural ascending order of the key:
// numeric for year and quarter, lexicographic for product and region.
// Empty input yields an empty slice.
func (s *QueryService) Aggregate(records []sales.SalesRecord, key GroupKey, measure Measure) []GroupTotal {
	sums := make(map[string]decimal.Decimal)
	for _, r := range records {
		k := groupValue(r, key)
		sums[k] = sums[k].Add(measureValue(r, measure))
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	if key == GroupByYear || key == GroupByQuarter {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
	} else {
		sort.Strings(keys)
	}

	groups := make([]GroupTotal, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, GroupTotal{Key: k, Sum: sums[k]})
	}
	return groups
}

// TotalRevenue sums the revenue over all records.
func (s *QueryService) TotalRevenue(records []sales.SalesRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Revenue)
	}
	return total
}

// TotalQuantity sums the quantity over all records.
func (s *QueryService) TotalQuantity(records []sales.SalesRecord) int64 {
	var total int64
	for _, r := range records {
		total += int64(r.Quantity)
	}
	return total
}

func groupValue(r sales.SalesRecord, key GroupKey) string {
	switch key {
	case GroupByYear:
		return strconv.Itoa(r.Year)
	case GroupByQuarter:
		return strconv.Itoa(r.Quarter)
	case GroupByProduct:
		return r.Product
	case GroupByRegion:
		return r.Region
	}
	return ""
}

func measureValue(r sales.SalesRecord, measure Measure) decimal.Decimal {
	if measure == MeasureQuantity {
		return decimal.NewFromInt(int64(r.Quantity))
	}
	return r.Revenue
}
