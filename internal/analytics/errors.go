package analytics

import "fmt"

// InsufficientDataError indicates a price or return series too short for
// the requested calculation.
type InsufficientDataError struct {
	What   string
	Needed int
	Got    int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: need %d, got %d", e.What, e.Needed, e.Got)
}

// InvalidParameterError indicates a malformed required numeric input.
// These are caller bugs, not transient conditions.
type InvalidParameterError struct {
	Param string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %g", e.Param, e.Value)
}
