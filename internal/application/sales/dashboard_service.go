package sales

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vendite/backend/internal/domain/sales"
	"go.uber.org/zap"
)

// Summary is the dashboard view over one salesperson's filtered records:
// the records themselves, their totals and the per-dimension revenue
// breakdowns.
type Summary struct {
	Records       []sales.SalesRecord
	TotalRevenue  decimal.Decimal
	TotalQuantity int64
	ByYear        []GroupTotal
	ByQuarter     []GroupTotal
	ByProduct     []GroupTotal
	ByRegion      []GroupTotal
}

// DashboardService answers dashboard reads. All aggregation happens
// in memory over the email-scoped rows; the store only filters by email.
type DashboardService struct {
	repo      sales.SalesRecordRepository
	query     *QueryService
	responder *Responder
	logger    *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo sales.SalesRecordRepository, logger *zap.Logger) *DashboardService {
	query := NewQueryService()
	return &DashboardService{
		repo:      repo,
		query:     query,
		responder: NewResponder(query),
		logger:    logger.Named("dashboard"),
	}
}

// Summary returns the filtered records for one email together with
// totals and breakdowns. An email with no records yields an empty
// summary, not an error.
func (s *DashboardService) Summary(ctx context.Context, email string, criteria sales.Criteria) (*Summary, error) {
	records, err := s.scopedRecords(ctx, email, criteria)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Records:       records,
		TotalRevenue:  s.query.TotalRevenue(records),
		TotalQuantity: s.query.TotalQuantity(records),
		ByYear:        s.query.Aggregate(records, GroupByYear, MeasureRevenue),
		ByQuarter:     s.query.Aggregate(records, GroupByQuarter, MeasureRevenue),
		ByProduct:     s.query.Aggregate(records, GroupByProduct, MeasureRevenue),
		ByRegion:      s.query.Aggregate(records, GroupByRegion, MeasureRevenue),
	}, nil
}

// FilterOptions returns the distinct selector values for one email.
func (s *DashboardService) FilterOptions(ctx context.Context, email string) (*sales.SelectorOptions, error) {
	return s.repo.SelectorOptions(ctx, email)
}

// Answer runs the question responder over the email-scoped, filtered
// records and returns the Italian answer text.
func (s *DashboardService) Answer(ctx context.Context, email string, criteria sales.Criteria, question string) (string, error) {
	records, err := s.scopedRecords(ctx, email, criteria)
	if err != nil {
		return "", err
	}
	return s.responder.Respond(records, question), nil
}

func (s *DashboardService) scopedRecords(ctx context.Context, email string, criteria sales.Criteria) ([]sales.SalesRecord, error) {
	records, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to load sales records", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return s.query.Filter(records, criteria), nil
}
