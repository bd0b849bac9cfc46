package pricing

import (
	"math"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// groupedAmount matches numbers written with Indian (1,00,000) or
// international (100,000) digit grouping.
var groupedAmount = regexp.MustCompile(`^[+-]?\d{1,3}(?:(?:,\d{2})*,\d{3}|(?:,\d{3})+)(?:\.\d*)?$`)

// ParseAmount coerces user input to a number. Blank or unparsable input,
// NaN and infinities all become 0. Commas are accepted only as Indian or
// international thousands separators; "1,5" is not a number.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		if !groupedAmount.MatchString(s) {
			return 0
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	return Coerce(s)
}

// Coerce converts an arbitrary value (as decoded from JSON or a form) to a
// finite float64, returning 0 when that is not possible.
func Coerce(v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
