package persistence

import (
	"context"

	"github.com/vendite/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormSalesRecordRepository implements SalesRecordRepository using GORM
type GormSalesRecordRepository struct {
	db *gorm.DB
}

// NewGormSalesRecordRepository creates a new GormSalesRecordRepository
func NewGormSalesRecordRepository(db *gorm.DB) *GormSalesRecordRepository {
	return &GormSalesRecordRepository{db: db}
}

// Insert appends one record. The record is validated before hitting the
// store so a malformed row surfaces as CONSTRAINT_VIOLATION rather than
// a driver error; the store assigns the surrogate id.
func (r *GormSalesRecordRepository) Insert(ctx context.Context, record *sales.SalesRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// FindAll returns every record ordered by id. An empty table yields an
// empty slice and a nil error; a non-nil error means the read failed.
func (r *GormSalesRecordRepository) FindAll(ctx context.Context) ([]sales.SalesRecord, error) {
	records := make([]sales.SalesRecord, 0)
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindByEmail returns the records scoped to one salesperson email,
// matched exactly and case-sensitively, ordered by id.
func (r *GormSalesRecordRepository) FindByEmail(ctx context.Context, email string) ([]sales.SalesRecord, error) {
	records := make([]sales.SalesRecord, 0)
	err := r.db.WithContext(ctx).
		Where("email_commerciale = ?", email).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SelectorOptions returns the distinct filter values visible to one
// email, each sorted ascending.
func (r *GormSalesRecordRepository) SelectorOptions(ctx context.Context, email string) (*sales.SelectorOptions, error) {
	opts := &sales.SelectorOptions{
		Years:    make([]int, 0),
		Quarters: make([]int, 0),
		Products: make([]string, 0),
		Regions:  make([]string, 0),
	}

	scoped := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&sales.SalesRecord{}).
			Where("email_commerciale = ?", email)
	}

	if err := scoped().Distinct("anno").Order("anno ASC").Pluck("anno", &opts.Years).Error; err != nil {
		return nil, err
	}
	if err := scoped().Distinct("trimestre").Order("trimestre ASC").Pluck("trimestre", &opts.Quarters).Error; err != nil {
		return nil, err
	}
	if err := scoped().Distinct("prodotto").Order("prodotto ASC").Pluck("prodotto", &opts.Products).Error; err != nil {
		return nil, err
	}
	if err := scoped().Distinct("area_geografica").Order("area_geografica ASC").Pluck("area_geografica", &opts.Regions).Error; err != nil {
		return nil, err
	}

	return opts, nil
}

// ExistsByNaturalKey reports whether a record with the same
// email+year+quarter+product+region is already stored.
func (r *GormSalesRecordRepository) ExistsByNaturalKey(ctx context.Context, record *sales.SalesRecord) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&sales.SalesRecord{}).
		Where("email_commerciale = ? AND anno = ? AND trimestre = ? AND prodotto = ? AND area_geografica = ?",
			record.SalespersonEmail, record.Year, record.Quarter, record.Product, record.Region).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
