package sales

import (
	"strconv"
	"strings"
)

// MatchAll is the sentinel criteria value imposing no constraint.
// An empty string is treated the same way, so absent query parameters
// behave like an explicit "all".
const MatchAll = "all"

// Criteria is the set of active equality filters over a record set.
// Each non-sentinel field narrows the result by exact match; fields
// combine with logical AND.
type Criteria struct {
	Year    string `json:"year"`
	Quarter string `json:"quarter"`
	Product string `json:"product"`
	Region  string `json:"region"`
}

// IsAll reports whether a criteria value imposes no constraint.
func IsAll(value string) bool {
	return value == "" || strings.EqualFold(value, MatchAll)
}

// Matches reports whether a record satisfies every active constraint.
// A numeric constraint that does not parse as an integer matches no
// record.
func (c Criteria) Matches(r SalesRecord) bool {
	if !IsAll(c.Year) {
		year, err := strconv.Atoi(c.Year)
		if err != nil || r.Year != year {
			return false
		}
	}
	if !IsAll(c.Quarter) {
		quarter, err := strconv.Atoi(c.Quarter)
		if err != nil || r.Quarter != quarter {
			return false
		}
	}
	if !IsAll(c.Product) && r.Product != c.Product {
		return false
	}
	if !IsAll(c.Region) && r.Region != c.Region {
		return false
	}
	return true
}

// IsEmpty reports whether no constraint is active.
func (c Criteria) IsEmpty() bool {
	return IsAll(c.Year) && IsAll(c.Quarter) && IsAll(c.Product) && IsAll(c.Region)
}
