package dto

import "github.com/vendite/backend/internal/infrastructure/csvsource"

// SalesQueryRequest represents the query parameters for the sales dashboard.
// Filter fields accept a concrete value or the "all" sentinel; an absent
// field means "all" as well.
type SalesQueryRequest struct {
	Email     string `form:"email" binding:"required,email"`
	Anno      string `form:"anno" binding:"omitempty,numericselector"`
	Trimestre string `form:"trimestre" binding:"omitempty,numericselector"`
	Prodotto  string `form:"prodotto"`
	Area      string `form:"area"`
}

// FilterOptionsRequest represents the query parameters for selector options
type FilterOptionsRequest struct {
	Email string `form:"email" binding:"required,email"`
}

// QuestionRequest represents a natural-language question about one
// salesperson's filtered sales
type QuestionRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Anno      string `json:"anno" binding:"omitempty,numericselector"`
	Trimestre string `json:"trimestre" binding:"omitempty,numericselector"`
	Prodotto  string `json:"prodotto"`
	Area      string `json:"area"`
	Domanda   string `json:"domanda" binding:"required"`
}

// QuestionResponse carries the responder's answer
type QuestionResponse struct {
	Risposta string `json:"risposta"`
}

// SalesRecordResponse represents one sales record as exposed by the API
type SalesRecordResponse struct {
	ID               int64  `json:"id"`
	NomeCommerciale  string `json:"nome_commerciale"`
	EmailCommerciale string `json:"email_commerciale"`
	Anno             int    `json:"anno"`
	Trimestre        int    `json:"trimestre"`
	Prodotto         string `json:"prodotto"`
	AreaGeografica   string `json:"area_geografica"`
	Quantita         int    `json:"quantita"`
	Ricavo           string `json:"ricavo"`
}

// GroupTotalResponse is one row of a grouped revenue breakdown
type GroupTotalResponse struct {
	Key    string `json:"key"`
	Ricavo string `json:"ricavo"`
}

// SalesSummaryResponse represents the dashboard payload: the filtered
// records, their totals and the per-dimension revenue breakdowns
type SalesSummaryResponse struct {
	Records        []SalesRecordResponse `json:"records"`
	RicavoTotale   string                `json:"ricavo_totale"`
	QuantitaTotale int64                 `json:"quantita_totale"`
	RicavoPerAnno  []GroupTotalResponse  `json:"ricavo_per_anno"`
	RicavoPerTrim  []GroupTotalResponse  `json:"ricavo_per_trimestre"`
	RicavoPerProd  []GroupTotalResponse  `json:"ricavo_per_prodotto"`
	RicavoPerArea  []GroupTotalResponse  `json:"ricavo_per_area"`
}

// FilterOptionsResponse represents the distinct selector values visible
// to one email, each list sorted ascending
type FilterOptionsResponse struct {
	Anni      []int    `json:"anni"`
	Trimestri []int    `json:"trimestri"`
	Prodotti  []string `json:"prodotti"`
	Aree      []string `json:"aree"`
}

// ImportResponse represents the outcome of a CSV upload
type ImportResponse struct {
	SessionID    string               `json:"session_id"`
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	SkippedRows  int                  `json:"skipped_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvsource.RowError `json:"errors,omitempty"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
	TotalErrors  int                  `json:"total_errors,omitempty"`
}
