// Package models defines data structures for Strata
package models

import (
	"fmt"
	"strings"
	"time"
)

// EODBar represents a single day's price data
type EODBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// PriceSeries is an ordered daily price history for a single underlying,
// ascending by date with no duplicate dates. Analytics consume the
// adjusted close exclusively to avoid split/dividend distortion.
type PriceSeries struct {
	Symbol string   `json:"symbol"`
	Bars   []EODBar `json:"bars"`
}

// Len returns the number of bars in the series.
func (p *PriceSeries) Len() int {
	return len(p.Bars)
}

// AdjustedCloses returns the adjusted close prices in date order.
func (p *PriceSeries) AdjustedCloses() []float64 {
	prices := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		prices[i] = b.AdjClose
	}
	return prices
}

// Spot returns the most recent adjusted close, or 0 for an empty series.
func (p *PriceSeries) Spot() float64 {
	if len(p.Bars) == 0 {
		return 0
	}
	return p.Bars[len(p.Bars)-1].AdjClose
}

// Validate checks series ordering and price positivity.
func (p *PriceSeries) Validate() error {
	for i, b := range p.Bars {
		if b.AdjClose <= 0 {
			return fmt.Errorf("bar %d (%s): non-positive adjusted close %.4f", i, b.Date.Format("2006-01-02"), b.AdjClose)
		}
		if i > 0 && !b.Date.After(p.Bars[i-1].Date) {
			return fmt.Errorf("bar %d (%s): dates must be strictly ascending", i, b.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Date is a calendar date. Term sheets and filings quote dates as plain
// "2006-01-02" strings, so JSON unmarshaling accepts that form first and
// falls back to a full RFC3339 timestamp.
type Date struct {
	time.Time
}

// NewDate wraps a time.Time as a Date.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected 2006-01-02 or RFC3339", s)
	}
	d.Time = t
	return nil
}

// DateSet maps semantic date roles onto concrete dates. Only the pricing
// and maturity dates are consumed by analytics; the rest travel with the
// parsed document for reporting.
type DateSet struct {
	PricingDate    Date `json:"pricing_date"`
	MaturityDate   Date `json:"maturity_date"`
	TradeDate      Date `json:"trade_date,omitempty"`
	SettlementDate Date `json:"settlement_date,omitempty"`
	ObservationEnd Date `json:"observation_end,omitempty"`
}

// HasMaturityPair reports whether both dates needed for Greeks are set.
func (d *DateSet) HasMaturityPair() bool {
	return d != nil && !d.PricingDate.IsZero() && !d.MaturityDate.IsZero()
}
