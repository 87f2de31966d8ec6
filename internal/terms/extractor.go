// Package terms extracts structured-note product terms from filing text
package terms

import (
	"regexp"
	"strconv"

	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/models"
)

// termSpec describes how a single product term is recognized. Patterns
// are ordered by reliability: a hit on the first pattern is tagged high
// confidence, later patterns medium.
type termSpec struct {
	name     string
	unit     string
	patterns []*regexp.Regexp
	min, max float64
	assign   func(*models.ProductTerms, *models.TermValue)
}

func pats(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile("(?i)" + e)
	}
	return out
}

var termSpecs = []termSpec{
	{
		name: "participation_rate", unit: "%", min: 0, max: 500,
		patterns: pats(
			`participation\s+(?:rate\s+)?(?:of\s+)?(\d+(?:\.\d+)?)\s*%`,
			`(\d+(?:\.\d+)?)\s*%\s+participation`,
			`participates?\s+at\s+(\d+(?:\.\d+)?)\s*%`,
		),
		assign: func(t *models.ProductTerms, v *models.TermValue) { t.ParticipationRate = v },
	},
	{
		name: "cap", unit: "%", min: 0, max: 500,
		patterns: pats(
			`(?:capped\s+at|cap\s+of|maximum\s+return\s+of|cap\s+level\s+of)\s+(\d+(?:\.\d+)?)\s*%`,
			`(\d+(?:\.\d+)?)\s*%\s+cap`,
			`cap:\s*(\d+(?:\.\d+)?)\s*%`,
		),
		assign: func(t *models.ProductTerms, v *models.TermValue) { t.Cap = v },
	},
	{
		name: "floor", unit: "%", min: -100, max: 100,
		patterns: pats(
			`(?:floor\s+of|minimum\s+return\s+of|floor\s+at)\s+(\d+(?:\.\d+)?)\s*%`,
			`(\d+(?:\.\d+)?)\s*%\s+floor`,
			`floor:\s*(\d+(?:\.\d+)?)\s*%`,
		),
		assign: func(t *models.ProductTerms, v *models.TermValue) { t.Floor = v },
	},
	{
		name: "barrier", unit: "%", min: 0, max: 100,
		patterns: pats(
			`(?:barrier\s+(?:at|of|level)?|protection\s+(?:at|of|level)?)\s+(\d+(?:\.\d+)?)\s*%`,
			`(\d+(?:\.\d+)?)\s*%\s+barrier`,
			`barrier:\s*(\d+(?:\.\d+)?)\s*%`,
		),
		assign: func(t *models.ProductTerms, v *models.TermValue) { t.Barrier = v },
	},
	{
		name: "knock_in", unit: "%", min: 0, max: 100,
		patterns: pats(
			`knock[- ]?in\s+(?:barrier\s+)?(?:at\s+)?(\d+(?:\.\d+)?)\s*%`,
			`(\d+(?:\.\d+)?)\s*%\s+knock[- ]?in`,
		),
		assign: func(t *models.ProductTerms, v *models.TermValue) { t.KnockIn = v },
	},
	{
		name: "knock_out", unit: "%", min: 100, max: 500,
		patterns: pats(
			`knock[- ]?out\s+(?:barrier\s+)?(?:at\s+)?(\d+(?:\.\d+)?)\s*%`,
			`(\d+(?:\.\d+)?)\s*%\s+knock[- ]?out`,
		),
		assign: func(t *models.ProductTerms, v *models.TermValue) { t.KnockOut = v },
	},
	{
		name: "autocall", unit: "%", min: 100, max: 200,
		patterns: pats(
			`autocall\s+(?:trigger\s+)?(?:at\s+)?(\d+(?:\.\d+)?)\s*%`,
			`(?:early\s+redemption|callable)\s+at\s+(\d+(?:\.\d+)?)\s*%`,
			`(\d+(?:\.\d+)?)\s*%\s+autocall`,
		),
		assign: func(t *models.ProductTerms, v *models.TermValue) { t.Autocall = v },
	},
	{
		name: "coupon", unit: "%", min: 0, max: 50,
		patterns: pats(
			`(?:coupon\s+(?:rate\s+)?(?:of\s+)?|pays\s+|payment\s+of\s+)(\d+(?:\.\d+)?)\s*%`,
			`(\d+(?:\.\d+)?)\s*%\s+(?:per\s+)?(?:annum|annual|coupon)`,
		),
		assign: func(t *models.ProductTerms, v *models.TermValue) { t.Coupon = v },
	},
	{
		name: "gearing", unit: "%", min: 0, max: 500,
		patterns: pats(
			`gearing\s+(?:of\s+)?(\d+(?:\.\d+)?)\s*%`,
			`(\d+(?:\.\d+)?)\s*%\s+gearing`,
			`gearing:\s*(\d+(?:\.\d+)?)\s*%`,
		),
		assign: func(t *models.ProductTerms, v *models.TermValue) { t.Gearing = v },
	},
	{
		name: "leverage", unit: "x", min: 0, max: 20,
		patterns: pats(
			`leverage\s+(?:of\s+)?(\d+(?:\.\d+)?)\s*x`,
			`(\d+(?:\.\d+)?)\s*x\s+leverage`,
		),
		assign: func(t *models.ProductTerms, v *models.TermValue) { t.Leverage = v },
	},
	{
		name: "buffer", unit: "%", min: 0, max: 100,
		patterns: pats(
			`buffer\s+(?:of\s+)?(\d+(?:\.\d+)?)\s*%`,
			`(\d+(?:\.\d+)?)\s*%\s+buffer`,
			`downside\s+protection\s+of\s+(\d+(?:\.\d+)?)\s*%`,
		),
		assign: func(t *models.ProductTerms, v *models.TermValue) { t.Buffer = v },
	},
}

// Extractor pulls product terms out of filing documents
type Extractor struct {
	logger *common.Logger
}

// NewExtractor creates a new term extractor
func NewExtractor(logger *common.Logger) *Extractor {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Extractor{logger: logger}
}

// ExtractTerms scans plain text for product terms. A term whose matched
// value falls outside its reasonable range is skipped rather than kept:
// a "700% barrier" is a parse artifact, not a term.
func (e *Extractor) ExtractTerms(text string) *models.ProductTerms {
	result := &models.ProductTerms{}
	found := 0

	for _, spec := range termSpecs {
		if v := extractTermValue(text, spec); v != nil {
			spec.assign(result, v)
			found++
			e.logger.Debug().
				Str("term", spec.name).
				Float64("value", v.Value).
				Str("confidence", string(v.Confidence)).
				Msg("Extracted product term")
		}
	}

	e.logger.Info().Int("terms", found).Msg("Product term extraction complete")
	return result
}

// ExtractTermsHTML strips markup before scanning for terms.
func (e *Extractor) ExtractTermsHTML(html string) *models.ProductTerms {
	return e.ExtractTerms(StripHTML(html))
}

func extractTermValue(text string, spec termSpec) *models.TermValue {
	for i, p := range spec.patterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if value < spec.min || value > spec.max {
				continue
			}

			conf := models.ConfidenceMedium
			if i == 0 {
				conf = models.ConfidenceHigh
			}
			return &models.TermValue{
				Value:      value,
				Unit:       spec.unit,
				RawText:    m[0],
				Confidence: conf,
			}
		}
	}
	return nil
}
