package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendite/backend/internal/domain/sales"
	"github.com/vendite/backend/internal/domain/shared"
	"github.com/vendite/backend/internal/infrastructure/csvsource"
	"go.uber.org/zap"
)

// Required CSV headers, exactly as they appear in the sales export.
// Column names matter: a source missing any of these is rejected.
const (
	HeaderName    = "Nome Commerciale"
	HeaderEmail   = "Email Commerciale"
	HeaderYear    = "Anno"
	HeaderQuarter = "Trimestre"
	HeaderProduct = "Prodotto"
	HeaderRegion  = "Area Geografica"
	HeaderQty     = "Quantità"
	HeaderRevenue = "Ricavo (€)"
)

// RequiredHeaders returns the full required column set in source order.
func RequiredHeaders() []string {
	return []string{
		HeaderName, HeaderEmail, HeaderYear, HeaderQuarter,
		HeaderProduct, HeaderRegion, HeaderQty, HeaderRevenue,
	}
}

// Result summarizes one ingestion run. Rows rejected by validation are
// reported individually; inserted rows stay inserted even when later
// rows fail (no all-or-nothing guarantee).
type Result struct {
	SessionID    uuid.UUID            `json:"session_id"`
	TotalRows    int                  `json:"total_rows"`
	InsertedRows int                  `json:"inserted_rows"`
	SkippedRows  int                  `json:"skipped_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvsource.RowError `json:"errors,omitempty"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
	TotalErrors  int                  `json:"total_errors,omitempty"`
}

// Options configures a LoaderService.
type Options struct {
	// SkipDuplicates skips rows whose natural key (email+year+quarter+
	// product+region) already exists in the store. Off by default: the
	// loader always appends, so re-running ingestion duplicates rows.
	SkipDuplicates bool
}

// LoaderService reads a tabular sales export and inserts each row into
// the record store, in source order.
type LoaderService struct {
	repo   sales.SalesRecordRepository
	logger *zap.Logger
	opts   Options
}

// NewLoaderService creates a new LoaderService
func NewLoaderService(repo sales.SalesRecordRepository, logger *zap.Logger, opts Options) *LoaderService {
	return &LoaderService{
		repo:   repo,
		logger: logger.Named("ingest"),
		opts:   opts,
	}
}

// LoadFile ingests the CSV file at path. A missing or unreadable file
// is a SOURCE_READ_ERROR.
func (s *LoaderService) LoadFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sourceReadError(fmt.Sprintf("cannot open ingestion source %q: %v", path, err))
	}
	defer func() {
		_ = f.Close()
	}()
	return s.LoadAndIngest(ctx, f)
}

// LoadAndIngest reads the CSV source and inserts one record per data
// row. A malformed source (unreadable, non-UTF-8, or missing required
// columns) fails with SOURCE_READ_ERROR before any row is inserted.
// Individual rows failing validation are collected as row errors and
// ingestion continues.
func (s *LoaderService) LoadAndIngest(ctx context.Context, r io.Reader) (*Result, error) {
	parser, err := csvsource.NewParser(r)
	if err != nil {
		return nil, sourceReadError(err.Error())
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, sourceReadError(err.Error())
	}
	if missing := parser.MissingHeaders(RequiredHeaders()); len(missing) > 0 {
		return nil, sourceReadError(fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	result := &Result{SessionID: uuid.New()}
	rowErrors := csvsource.NewErrorCollection(100)

	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		row, err := parser.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A row the CSV reader itself cannot parse counts as a
			// malformed source.
			s.finish(result, rowErrors)
			return result, sourceReadError(err.Error())
		}
		if row.IsEmpty() {
			continue
		}
		result.TotalRows++

		record, err := parseRecord(row)
		if err != nil {
			result.ErrorRows++
			rowErrors.Add(csvsource.NewRowError(row.LineNumber, "", shared.CodeConstraintViolation, err.Error()))
			s.logger.Warn("Row rejected during ingestion",
				zap.Int("row", row.LineNumber),
				zap.Error(err),
			)
			continue
		}

		if s.opts.SkipDuplicates {
			exists, err := s.repo.ExistsByNaturalKey(ctx, record)
			if err != nil {
				s.finish(result, rowErrors)
				return result, err
			}
			if exists {
				result.SkippedRows++
				continue
			}
		}

		if err := s.repo.Insert(ctx, record); err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == shared.CodeConstraintViolation {
				result.ErrorRows++
				rowErrors.Add(csvsource.NewRowError(row.LineNumber, "", domainErr.Code, domainErr.Message))
				continue
			}
			// Storage failure: stop, keeping what was already inserted.
			s.finish(result, rowErrors)
			return result, err
		}
		result.InsertedRows++
	}

	s.finish(result, rowErrors)
	s.logger.Info("Ingestion completed",
		zap.String("session_id", result.SessionID.String()),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("inserted_rows", result.InsertedRows),
		zap.Int("skipped_rows", result.SkippedRows),
		zap.Int("error_rows", result.ErrorRows),
	)
	return result, nil
}

func (s *LoaderService) finish(result *Result, rowErrors *csvsource.ErrorCollection) {
	result.Errors = rowErrors.Errors()
	result.IsTruncated = rowErrors.IsTruncated()
	result.TotalErrors = rowErrors.TotalCount()
}

// parseRecord converts one CSV row into a validated sales record.
func parseRecord(row *csvsource.Row) (*sales.SalesRecord, error) {
	year, err := strconv.Atoi(row.Get(HeaderYear))
	if err != nil {
		return nil, fmt.Errorf("column %q: %q is not an integer", HeaderYear, row.Get(HeaderYear))
	}
	quarter, err := strconv.Atoi(row.Get(HeaderQuarter))
	if err != nil {
		return nil, fmt.Errorf("column %q: %q is not an integer", HeaderQuarter, row.Get(HeaderQuarter))
	}
	quantity, err := strconv.Atoi(row.Get(HeaderQty))
	if err != nil {
		return nil, fmt.Errorf("column %q: %q is not an integer", HeaderQty, row.Get(HeaderQty))
	}
	revenue, err := decimal.NewFromString(row.Get(HeaderRevenue))
	if err != nil {
		return nil, fmt.Errorf("column %q: %q is not a number", HeaderRevenue, row.Get(HeaderRevenue))
	}

	return sales.NewSalesRecord(
		row.Get(HeaderName),
		row.Get(HeaderEmail),
		year,
		quarter,
		row.Get(HeaderProduct),
		row.Get(HeaderRegion),
		quantity,
		revenue,
	)
}

func sourceReadError(message string) *shared.DomainError {
	return shared.NewDomainError(shared.CodeSourceReadError, message)
}
