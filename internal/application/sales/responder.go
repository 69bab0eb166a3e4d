package sales

import (
	"fmt"
	"strings"

	"github.com/vendite/backend/internal/domain/sales"
)

// Fixed Italian messages, matching the wording the dashboard has always
// shown to salespeople.
const (
	msgNoData = "Non ci sono dati di vendita disponibili per la tua email."

	msgFallback = "Non ho capito la domanda. Puoi chiedere informazioni sulle tue vendite " +
		"per anno, trimestre, prodotto, area, ricavo totale o quantità totale."
)

// responderRule pairs a predicate over the normalized question with the
// handler producing the answer. Rules are evaluated in order; the first
// match wins.
type responderRule struct {
	matches func(question string) bool
	answer  func(records []sales.SalesRecord) string
}

// Responder answers a fixed set of keyword-matched questions about a
// record set. It is stateless: no learning, no session memory.
type Responder struct {
	query *QueryService
	rules []responderRule
}

// NewResponder creates a Responder backed by the given query service.
func NewResponder(query *QueryService) *Responder {
	r := &Responder{query: query}
	r.rules = []responderRule{
		{
			matches: containsAll("vendite", "anno"),
			answer:  r.revenueByGroup(GroupByYear, "Le tue vendite per anno:", "%s: €%s"),
		},
		{
			matches: containsAll("vendite", "trimestre"),
			answer:  r.revenueByGroup(GroupByQuarter, "Le tue vendite per trimestre:", "Trimestre %s: €%s"),
		},
		{
			matches: and(containsAll("vendite"), containsAny("prodotto", "articolo")),
			answer:  r.revenueByGroup(GroupByProduct, "Le tue vendite per prodotto:", "%s: €%s"),
		},
		{
			matches: and(containsAll("vendite"), containsAny("area", "geografica", "regione")),
			answer:  r.revenueByGroup(GroupByRegion, "Le tue vendite per area geografica:", "%s: €%s"),
		},
		{
			matches: containsAll("ricavo", "totale"),
			answer:  r.totalRevenue,
		},
		{
			matches: and(containsAny("quantità", "quantita"), containsAll("totale")),
			answer:  r.totalQuantity,
		},
	}
	return r
}

// Respond answers a free-text question against the given records.
// An empty record set always yields the fixed no-data message, before
// any rule matching; an unrecognized question yields the fallback
// message enumerating the supported intents.
func (r *Responder) Respond(records []sales.SalesRecord, question string) string {
	if len(records) == 0 {
		return msgNoData
	}

	normalized := strings.ToLower(question)
	for _, rule := range r.rules {
		if rule.matches(normalized) {
			return rule.answer(records)
		}
	}
	return msgFallback
}

// revenueByGroup builds a handler rendering one line per group, with
// revenue formatted to two decimals.
func (r *Responder) revenueByGroup(key GroupKey, header, lineFormat string) func([]sales.SalesRecord) string {
	return func(records []sales.SalesRecord) string {
		groups := r.query.Aggregate(records, key, MeasureRevenue)
		lines := make([]string, 0, len(groups)+1)
		lines = append(lines, header)
		for _, g := range groups {
			lines = append(lines, fmt.Sprintf(lineFormat, g.Key, g.Sum.StringFixed(2)))
		}
		return strings.Join(lines, "\n")
	}
}

func (r *Responder) totalRevenue(records []sales.SalesRecord) string {
	return fmt.Sprintf("Il tuo ricavo totale è di €%s.", r.query.TotalRevenue(records).StringFixed(2))
}

func (r *Responder) totalQuantity(records []sales.SalesRecord) string {
	return fmt.Sprintf("La tua quantità totale venduta è di %d.", r.query.TotalQuantity(records))
}

func containsAll(words ...string) func(string) bool {
	return func(question string) bool {
		for _, w := range words {
			if !strings.Contains(question, w) {
				return false
			}
		}
		return true
	}
}

func containsAny(words ...string) func(string) bool {
	return func(question string) bool {
		for _, w := range words {
			if strings.Contains(question, w) {
				return true
			}
		}
		return false
	}
}

func and(predicates ...func(string) bool) func(string) bool {
	return func(question string) bool {
		for _, p := range predicates {
			if !p(question) {
				return false
			}
		}
		return true
	}
}
