package convert

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jrv/cambio/internal/rates"
)

// Reason identifies which validation check rejected a conversion.
type Reason int

const (
	ReasonInvalidAmount Reason = iota
	ReasonRatesUnavailable
	ReasonSelectionRequired
	ReasonRateUnavailable
)

// ValidationError reports bad or incomplete conversion input. For
// ReasonRateUnavailable, Missing names the code(s) absent from the table.
type ValidationError struct {
	Reason  Reason
	Missing []string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonInvalidAmount:
		return "invalid amount"
	case ReasonRatesUnavailable:
		return "rates unavailable"
	case ReasonSelectionRequired:
		return "selection required"
	case ReasonRateUnavailable:
		return "rate unavailable: " + strings.Join(e.Missing, ", ")
	default:
		return "invalid conversion"
	}
}

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseAmount turns user-typed text into a positive amount.
func ParseAmount(text string) (float64, error) {
	if !amountPattern.MatchString(strings.TrimSpace(text)) {
		return 0, &ValidationError{Reason: ReasonInvalidAmount}
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || amount <= 0 {
		return 0, &ValidationError{Reason: ReasonInvalidAmount}
	}
	return amount, nil
}

// Convert converts amount from source to target by pivoting through the
// table's base currency: amount / rates[source] * rates[target]. Checks run
// in a fixed order and the first failure wins.
func Convert(amount float64, source, target string, table rates.Table) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, &ValidationError{Reason: ReasonInvalidAmount}
	}
	if len(table) == 0 {
		return 0, &ValidationError{Reason: ReasonRatesUnavailable}
	}
	if source == "" || target == "" {
		return 0, &ValidationError{Reason: ReasonSelectionRequired}
	}
	var missing []string
	if _, ok := table[source]; !ok {
		missing = append(missing, source)
	}
	if _, ok := table[target]; !ok && target != source {
		missing = append(missing, target)
	}
	if len(missing) > 0 {
		return 0, &ValidationError{Reason: ReasonRateUnavailable, Missing: missing}
	}
	return amount / table[source] * table[target], nil
}

// Rate returns the derived source -> target unit rate. The table stays in its
// base-relative form; cross rates are computed on demand rather than ever
// materializing a pairwise matrix.
func Rate(source, target string, table rates.Table) (float64, error) {
	return Convert(1, source, target, table)
}

// Format renders a conversion result for display at the given precision,
// rounding to nearest, ties to even.
func Format(value float64, precision int) string {
	if precision < 0 {
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}
