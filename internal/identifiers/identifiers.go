// Package identifiers extracts and validates security identifiers
package identifiers

import (
	"regexp"
	"strings"
)

// IdentifierSet carries the identifiers found in a single document.
type IdentifierSet struct {
	CUSIP       string `json:"cusip,omitempty"`
	ISIN        string `json:"isin,omitempty"`
	SEDOL       string `json:"sedol,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// IsEmpty reports whether no identifiers were found.
func (s IdentifierSet) IsEmpty() bool {
	return s.CUSIP == "" && s.ISIN == "" && s.SEDOL == ""
}

var (
	cusipPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)CUSIP\s*(?:No\.?|Number)?:?\s*([A-Z0-9]{9})\b`),
		regexp.MustCompile(`(?i)CUSIP\s+([A-Z0-9]{9})\b`),
	}
	cusipContext = regexp.MustCompile(`(?i)CUSIP.{0,50}?([A-Z0-9]{9})\b`)

	isinPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ISIN\s*(?:No\.?|Number)?:?\s*([A-Z]{2}[A-Z0-9]{10})\b`),
		regexp.MustCompile(`(?i)ISIN\s+([A-Z]{2}[A-Z0-9]{10})\b`),
	}
	isinContext = regexp.MustCompile(`(?i)ISIN.{0,50}?([A-Z]{2}[A-Z0-9]{10})\b`)

	sedolPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)SEDOL\s*(?:No\.?|Number)?:?\s*([A-Z0-9]{7})\b`),
		regexp.MustCompile(`(?i)SEDOL\s+([A-Z0-9]{7})\b`),
	}
)

// ExtractAll scans plain text for CUSIP, ISIN and SEDOL. Candidates that
// fail check-digit validation are discarded.
func ExtractAll(text string) IdentifierSet {
	set := IdentifierSet{
		CUSIP: ExtractCUSIP(text),
		ISIN:  ExtractISIN(text),
		SEDOL: extractSEDOL(text),
	}
	if set.ISIN != "" {
		set.CountryCode = set.ISIN[:2]
	}
	return set
}

// ExtractCUSIP finds the first check-digit-valid CUSIP in the text.
// Labeled forms ("CUSIP: 037833100") are tried first, then any
// nine-character candidate within 50 characters of the keyword.
func ExtractCUSIP(text string) string {
	for _, p := range cusipPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			c := strings.ToUpper(m[1])
			if ValidateCUSIP(c) {
				return c
			}
		}
	}
	if m := cusipContext.FindStringSubmatch(text); m != nil {
		c := strings.ToUpper(m[1])
		if ValidateCUSIP(c) {
			return c
		}
	}
	return ""
}

// ExtractISIN finds the first check-digit-valid ISIN in the text.
func ExtractISIN(text string) string {
	for _, p := range isinPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			i := strings.ToUpper(m[1])
			if ValidateISIN(i) {
				return i
			}
		}
	}
	if m := isinContext.FindStringSubmatch(text); m != nil {
		i := strings.ToUpper(m[1])
		if ValidateISIN(i) {
			return i
		}
	}
	return ""
}

// SEDOLs carry a weighted check digit we do not verify; the labeled
// pattern alone is the filter.
func extractSEDOL(text string) string {
	for _, p := range sedolPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}

// charValue maps an identifier character to its numeric value
// (0-9 for digits, A=10 through Z=35). Returns -1 for anything else.
func charValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return -1
	}
}

// ValidateCUSIP checks the 9-character format and the mod-10
// double-every-second-position check digit.
func ValidateCUSIP(cusip string) bool {
	if len(cusip) != 9 {
		return false
	}
	check := charValue(cusip[8])
	if check < 0 || check > 9 {
		return false
	}

	total := 0
	for i := 0; i < 8; i++ {
		v := charValue(cusip[i])
		if v < 0 {
			return false
		}
		if i%2 == 1 {
			v *= 2
		}
		total += v/10 + v%10
	}

	return (10-total%10)%10 == check
}

// ValidateISIN checks the 12-character format (two-letter country code)
// and the Luhn check digit over the expanded numeric string.
func ValidateISIN(isin string) bool {
	if len(isin) != 12 {
		return false
	}
	if isin[0] < 'A' || isin[0] > 'Z' || isin[1] < 'A' || isin[1] > 'Z' {
		return false
	}
	check := charValue(isin[11])
	if check < 0 || check > 9 {
		return false
	}

	return luhnCheckDigit(isin[:11]) == check
}

// luhnCheckDigit expands letters to two-digit values and runs the Luhn
// sum right to left. Returns -1 for invalid characters.
func luhnCheckDigit(base string) int {
	var digits []int
	for i := 0; i < len(base); i++ {
		v := charValue(base[i])
		if v < 0 {
			return -1
		}
		if v >= 10 {
			digits = append(digits, v/10, v%10)
		} else {
			digits = append(digits, v)
		}
	}

	total := 0
	for i := 0; i < len(digits); i++ {
		n := digits[len(digits)-1-i]
		if i%2 == 0 {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		total += n
	}

	return (10 - total%10) % 10
}

// CUSIPToISIN derives the ISIN for a CUSIP under the given country code
// (US when empty). Returns "" for an invalid CUSIP.
func CUSIPToISIN(cusip, countryCode string) string {
	if !ValidateCUSIP(cusip) {
		return ""
	}
	if countryCode == "" {
		countryCode = "US"
	}

	base := strings.ToUpper(countryCode) + strings.ToUpper(cusip)
	check := luhnCheckDigit(base)
	if check < 0 {
		return ""
	}
	return base + string(rune('0'+check))
}
