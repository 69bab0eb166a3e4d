package sales

import "context"

// SelectorOptions holds the distinct field values visible to one
// salesperson, sorted ascending. The presentation layer renders them
// as the year/quarter/product/region selector inputs.
type SelectorOptions struct {
	Years    []int    `json:"years"`
	Quarters []int    `json:"quarters"`
	Products []string `json:"products"`
	Regions  []string `json:"regions"`
}

// SalesRecordRepository defines persistence operations for sales records.
// Scans return an empty slice and a nil error when no rows match; a
// non-nil error always means the read itself failed.
type SalesRecordRepository interface {
	// Insert appends one record and assigns its surrogate id.
	Insert(ctx context.Context, record *SalesRecord) error

	// FindAll returns every record ordered by id.
	FindAll(ctx context.Context) ([]SalesRecord, error)

	// FindByEmail returns the records whose salesperson email exactly
	// equals the given string (case-sensitive), ordered by id.
	FindByEmail(ctx context.Context, email string) ([]SalesRecord, error)

	// SelectorOptions returns the distinct filter values for one email.
	SelectorOptions(ctx context.Context, email string) (*SelectorOptions, error)

	// ExistsByNaturalKey reports whether a record with the same
	// email+year+quarter+product+region is already stored. Used by the
	// loader's optional dedup mode; the source itself has no key.
	ExistsByNaturalKey(ctx context.Context, record *SalesRecord) (bool, error)
}
