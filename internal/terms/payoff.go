package terms

import "github.com/bobmcallan/strata/internal/models"

// PayoffType names the likely payoff profile implied by a term set. The
// classification is heuristic: it looks only at which terms are present,
// checked in order of specificity.
func PayoffType(t *models.ProductTerms) string {
	if t == nil {
		return "unknown"
	}

	switch {
	case t.Autocall != nil && t.Coupon != nil:
		return "autocallable_coupon"
	case t.Autocall != nil:
		return "autocallable"
	case t.Buffer != nil && t.ParticipationRate != nil:
		return "buffered_participation"
	case t.Barrier != nil && t.ParticipationRate != nil:
		return "barrier_participation"
	case t.Cap != nil && t.Floor != nil:
		return "range_accrual"
	case t.Cap != nil && t.ParticipationRate != nil:
		return "capped_participation"
	case t.Coupon != nil && t.Barrier != nil:
		return "reverse_convertible"
	case t.ParticipationRate != nil:
		return "leveraged_participation"
	default:
		return "unknown"
	}
}
