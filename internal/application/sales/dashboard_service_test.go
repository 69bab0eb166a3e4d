package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendite/backend/internal/domain/sales"
	"go.uber.org/zap"
)

// stubRepo serves a fixed record set, or a fixed error.
type stubRepo struct {
	records []sales.SalesRecord
	err     error
}

func (s *stubRepo) Insert(ctx context.Context, record *sales.SalesRecord) error { return s.err }

func (s *stubRepo) FindAll(ctx context.Context) ([]sales.SalesRecord, error) {
	return s.records, s.err
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) ([]sales.SalesRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []sales.SalesRecord
	for _, r := range s.records {
		if r.SalespersonEmail == email {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRepo) SelectorOptions(ctx context.Context, email string) (*sales.SelectorOptions, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &sales.SelectorOptions{Years: []int{2023, 2024}}, nil
}

func (s *stubRepo) ExistsByNaturalKey(ctx context.Context, record *sales.SalesRecord) (bool, error) {
	return false, s.err
}

func TestDashboardSummary(t *testing.T) {
	svc := NewDashboardService(&stubRepo{records: testRecords()}, zap.NewNop())

	summary, err := svc.Summary(context.Background(), "mario.rossi@azienda.it", sales.Criteria{})
	require.NoError(t, err)

	assert.Len(t, summary.Records, 4)
	assert.True(t, summary.TotalRevenue.Equal(decimal.RequireFromString("37600.75")))
	assert.Equal(t, int64(25), summary.TotalQuantity)
	assert.Len(t, summary.ByYear, 2)
	assert.Len(t, summary.ByQuarter, 3)
	assert.Len(t, summary.ByProduct, 3)
	assert.Len(t, summary.ByRegion, 3)
}

func TestDashboardSummaryAppliesCriteria(t *testing.T) {
	svc := NewDashboardService(&stubRepo{records: testRecords()}, zap.NewNop())

	summary, err := svc.Summary(context.Background(), "mario.rossi@azienda.it", sales.Criteria{Year: "2023"})
	require.NoError(t, err)

	assert.Len(t, summary.Records, 2)
	assert.True(t, summary.TotalRevenue.Equal(decimal.RequireFromString("22200.50")))
	assert.Len(t, summary.ByYear, 1)
}

func TestDashboardSummaryPropagatesError(t *testing.T) {
	readErr := errors.New("store is gone")
	svc := NewDashboardService(&stubRepo{err: readErr}, zap.NewNop())

	_, err := svc.Summary(context.Background(), "mario.rossi@azienda.it", sales.Criteria{})
	assert.ErrorIs(t, err, readErr)

	_, err = svc.FilterOptions(context.Background(), "mario.rossi@azienda.it")
	assert.ErrorIs(t, err, readErr)

	_, err = svc.Answer(context.Background(), "mario.rossi@azienda.it", sales.Criteria{}, "ricavo totale")
	assert.ErrorIs(t, err, readErr)
}

func TestDashboardAnswerUsesFilteredRecords(t *testing.T) {
	svc := NewDashboardService(&stubRepo{records: testRecords()}, zap.NewNop())

	answer, err := svc.Answer(context.Background(), "mario.rossi@azienda.it",
		sales.Criteria{Year: "2024"}, "ricavo totale")
	require.NoError(t, err)
	assert.Equal(t, "Il tuo ricavo totale è di €15400.25.", answer)

	// Filters that exclude everything behave like having no data.
	answer, err = svc.Answer(context.Background(), "mario.rossi@azienda.it",
		sales.Criteria{Year: "1999"}, "ricavo totale")
	require.NoError(t, err)
	assert.Equal(t, "Non ci sono dati di vendita disponibili per la tua email.", answer)
}
