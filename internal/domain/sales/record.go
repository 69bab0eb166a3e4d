package sales

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vendite/backend/internal/domain/shared"
)

// emailPattern is intentionally loose: the email is a scoping key,
// not a deliverable address.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// SalesRecord is one sales transaction line scoped to a salesperson.
// It maps onto the `vendite` table; records are append-only and are
// never updated or deleted after ingestion.
type SalesRecord struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SalespersonName  string          `gorm:"column:nome_commerciale;type:text;not null" json:"salesperson_name"`
	SalespersonEmail string          `gorm:"column:email_commerciale;type:text;not null;index" json:"salesperson_email"`
	Year             int             `gorm:"column:anno;not null" json:"year"`
	Quarter          int             `gorm:"column:trimestre;not null" json:"quarter"`
	Product          string          `gorm:"column:prodotto;type:text;not null" json:"product"`
	Region           string          `gorm:"column:area_geografica;type:text;not null" json:"region"`
	Quantity         int             `gorm:"column:quantita;not null" json:"quantity"`
	Revenue          decimal.Decimal `gorm:"column:ricavo;type:real;not null" json:"revenue"`
}

// TableName returns the table name for GORM
func (SalesRecord) TableName() string {
	return "vendite"
}

// NewSalesRecord creates a validated sales record. The id is assigned
// by the store on insert.
func NewSalesRecord(name, email string, year, quarter int, product, region string, quantity int, revenue decimal.Decimal) (*SalesRecord, error) {
	r := &SalesRecord{
		SalespersonName:  strings.TrimSpace(name),
		SalespersonEmail: strings.TrimSpace(email),
		Year:             year,
		Quarter:          quarter,
		Product:          strings.TrimSpace(product),
		Region:           strings.TrimSpace(region),
		Quantity:         quantity,
		Revenue:          revenue,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the required-field and range invariants of a record.
// Violations are reported as CONSTRAINT_VIOLATION domain errors.
func (r *SalesRecord) Validate() error {
	if r.SalespersonName == "" {
		return constraintViolation("salesperson name is required")
	}
	if r.SalespersonEmail == "" {
		return constraintViolation("salesperson email is required")
	}
	if !emailPattern.MatchString(r.SalespersonEmail) {
		return constraintViolation(fmt.Sprintf("salesperson email %q is not a valid address", r.SalespersonEmail))
	}
	if r.Year <= 0 {
		return constraintViolation(fmt.Sprintf("year must be positive, got %d", r.Year))
	}
	if r.Quarter < 1 || r.Quarter > 4 {
		return constraintViolation(fmt.Sprintf("quarter must be between 1 and 4, got %d", r.Quarter))
	}
	if r.Product == "" {
		return constraintViolation("product is required")
	}
	if r.Region == "" {
		return constraintViolation("region is required")
	}
	if r.Quantity < 0 {
		return constraintViolation(fmt.Sprintf("quantity cannot be negative, got %d", r.Quantity))
	}
	if r.Revenue.IsNegative() {
		return constraintViolation(fmt.Sprintf("revenue cannot be negative, got %s", r.Revenue))
	}
	return nil
}

func constraintViolation(message string) *shared.DomainError {
	return shared.NewDomainError(shared.CodeConstraintViolation, message)
}
