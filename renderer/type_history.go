package renderer

import (
	"time"

	"github.com/etnz/savingsplan"
)

// History is the renderable form of a valuation series.
//
// When Instrument is empty the report covers the whole account (cash,
// assets, total per event). When set, it narrows to one instrument
// (position, price, value per event).
type History struct {
	Currency   string
	Instrument string
	Rows       []HistoryRow
}

// HistoryRow is one event of the valuation series, pre-formatted.
type HistoryRow struct {
	Time   string
	Cash   string
	Assets string
	Total  string

	Position string
	Price    string
	Value    string
}

// NewHistory builds the account-wide valuation history report.
func NewHistory(a *savingsplan.Account, reg *savingsplan.Registry) *History {
	h := &History{Currency: a.Currency()}
	for _, s := range savingsplan.Series(a, reg) {
		h.Rows = append(h.Rows, HistoryRow{
			Time:   s.On.Format(time.RFC3339),
			Cash:   s.Cash.String(),
			Assets: s.Total.Sub(s.Cash).String(),
			Total:  s.Total.String(),
		})
	}
	return h
}

// NewInstrumentHistory builds the valuation history report narrowed to
// one instrument.
func NewInstrumentHistory(a *savingsplan.Account, reg *savingsplan.Registry, inst *savingsplan.Instrument) *History {
	h := &History{Currency: a.Currency(), Instrument: inst.Name()}
	for _, s := range savingsplan.Series(a, reg) {
		price, known := s.Prices[inst.ID()]
		if !known {
			price = savingsplan.M(0, a.Currency())
		}
		h.Rows = append(h.Rows, HistoryRow{
			Time:     s.On.Format(time.RFC3339),
			Position: s.Holdings[inst.ID()].String(),
			Price:    price.String(),
			Value:    s.Value(inst.ID()).String(),
		})
	}
	return h
}
