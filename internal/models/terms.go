package models

// Confidence grades how reliably a term value was extracted from source text.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// TermValue is a single extracted product term. Percentages are plain
// numbers (70 means 70%).
type TermValue struct {
	Value      float64    `json:"value"`
	Unit       string     `json:"unit"` // "%", "x", "years"
	RawText    string     `json:"raw_text,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// ProductTerms holds the sparse term sheet of a structured note. A nil
// field means the product does not carry that feature — absence is
// meaningful, never an error.
type ProductTerms struct {
	ParticipationRate *TermValue `json:"participation_rate,omitempty"`
	Cap               *TermValue `json:"cap,omitempty"`
	Floor             *TermValue `json:"floor,omitempty"`
	Barrier           *TermValue `json:"barrier,omitempty"`
	Buffer            *TermValue `json:"buffer,omitempty"`
	KnockIn           *TermValue `json:"knock_in,omitempty"`
	KnockOut          *TermValue `json:"knock_out,omitempty"`
	Autocall          *TermValue `json:"autocall,omitempty"`
	Coupon            *TermValue `json:"coupon,omitempty"`
	Gearing           *TermValue `json:"gearing,omitempty"`
	Leverage          *TermValue `json:"leverage,omitempty"`
}

// IsEmpty reports whether no terms were extracted at all.
func (t *ProductTerms) IsEmpty() bool {
	if t == nil {
		return true
	}
	return t.ParticipationRate == nil && t.Cap == nil && t.Floor == nil &&
		t.Barrier == nil && t.Buffer == nil && t.KnockIn == nil &&
		t.KnockOut == nil && t.Autocall == nil && t.Coupon == nil &&
		t.Gearing == nil && t.Leverage == nil
}

// Participation returns the participation rate as a multiplier (1.0 when
// the term is absent).
func (t *ProductTerms) Participation() float64 {
	if t == nil || t.ParticipationRate == nil {
		return 1.0
	}
	return t.ParticipationRate.Value / 100.0
}
