package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendite/backend/internal/application/ingest"
	salesapp "github.com/vendite/backend/internal/application/sales"
	"github.com/vendite/backend/internal/domain/sales"
	"github.com/vendite/backend/internal/infrastructure/logger"
	"github.com/vendite/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// maxImportFileSize limits CSV uploads to 10MB
const maxImportFileSize = 10 << 20

// SalesHandler handles the sales dashboard API endpoints
type SalesHandler struct {
	BaseHandler
	dashboard *salesapp.DashboardService
	loader    *ingest.LoaderService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(dashboard *salesapp.DashboardService, loader *ingest.LoaderService) *SalesHandler {
	return &SalesHandler{
		dashboard: dashboard,
		loader:    loader,
	}
}

// GetSales returns the filtered records for one email together with
// totals and per-dimension revenue breakdowns.
func (h *SalesHandler) GetSales(c *gin.Context) {
	var req dto.SalesQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	summary, err := h.dashboard.Summary(c.Request.Context(), req.Email, criteriaFrom(req.Anno, req.Trimestre, req.Prodotto, req.Area))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSummaryResponse(summary))
}

// GetFilters returns the distinct selector options visible to one email.
func (h *SalesHandler) GetFilters(c *gin.Context) {
	var req dto.FilterOptionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	opts, err := h.dashboard.FilterOptions(c.Request.Context(), req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.FilterOptionsResponse{
		Anni:      opts.Years,
		Trimestri: opts.Quarters,
		Prodotti:  opts.Products,
		Aree:      opts.Regions,
	})
}

// AskQuestion answers a natural-language question over the email-scoped,
// filtered records.
func (h *SalesHandler) AskQuestion(c *gin.Context) {
	var req dto.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	answer, err := h.dashboard.Answer(c.Request.Context(), req.Email,
		criteriaFrom(req.Anno, req.Trimestre, req.Prodotto, req.Area), req.Domanda)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.QuestionResponse{Risposta: answer})
}

// ImportSales ingests an uploaded CSV file into the record store.
func (h *SalesHandler) ImportSales(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeBadRequest, "file exceeds maximum size of 10MB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && contentType != "text/csv" && contentType != "application/octet-stream" &&
		contentType != "text/plain" && contentType != "application/vnd.ms-excel" {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeBadRequest, "file must be a CSV file")
		return
	}

	result, err := h.loader.LoadAndIngest(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	logger.GetGinLogger(c).Info("CSV import completed",
		zap.String("filename", header.Filename),
		zap.String("session_id", result.SessionID.String()),
		zap.Int("inserted_rows", result.InsertedRows),
		zap.Int("error_rows", result.ErrorRows),
	)

	h.Success(c, dto.ImportResponse{
		SessionID:    result.SessionID.String(),
		TotalRows:    result.TotalRows,
		ImportedRows: result.InsertedRows,
		SkippedRows:  result.SkippedRows,
		ErrorRows:    result.ErrorRows,
		Errors:       result.Errors,
		IsTruncated:  result.IsTruncated,
		TotalErrors:  result.TotalErrors,
	})
}

// RegisterRoutes registers all sales dashboard routes
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/sales")
	{
		group.GET("", h.GetSales)
		group.GET("/filters", h.GetFilters)
		group.POST("/question", h.AskQuestion)
		group.POST("/import", h.ImportSales)
	}
}

func criteriaFrom(anno, trimestre, prodotto, area string) sales.Criteria {
	return sales.Criteria{
		Year:    anno,
		Quarter: trimestre,
		Product: prodotto,
		Region:  area,
	}
}

func toSummaryResponse(summary *salesapp.Summary) dto.SalesSummaryResponse {
	records := make([]dto.SalesRecordResponse, 0, len(summary.Records))
	for _, r := range summary.Records {
		records = append(records, dto.SalesRecordResponse{
			ID:               r.ID,
			NomeCommerciale:  r.SalespersonName,
			EmailCommerciale: r.SalespersonEmail,
			Anno:             r.Year,
			Trimestre:        r.Quarter,
			Prodotto:         r.Product,
			AreaGeografica:   r.Region,
			Quantita:         r.Quantity,
			Ricavo:           r.Revenue.StringFixed(2),
		})
	}

	return dto.SalesSummaryResponse{
		Records:        records,
		RicavoTotale:   summary.TotalRevenue.StringFixed(2),
		QuantitaTotale: summary.TotalQuantity,
		RicavoPerAnno:  toGroupTotals(summary.ByYear),
		RicavoPerTrim:  toGroupTotals(summary.ByQuarter),
		RicavoPerProd:  toGroupTotals(summary.ByProduct),
		RicavoPerArea:  toGroupTotals(summary.ByRegion),
	}
}

func toGroupTotals(groups []salesapp.GroupTotal) []dto.GroupTotalResponse {
	out := make([]dto.GroupTotalResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.GroupTotalResponse{
			Key:    g.Key,
			Ricavo: g.Sum.StringFixed(2),
		})
	}
	return out
}
