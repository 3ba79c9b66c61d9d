package distribution

import (
	"strconv"
	"strings"
)

// labelReplacer maps the dash glyphs seen in real workbooks (en dash,
// em dash, and the mojibake artifact left by a bad encoding pass) to a
// plain ASCII hyphen, and drops whitespace and thousands separators.
var labelReplacer = strings.NewReplacer(
	"â", "-",
	"–", "-",
	"—", "-",
	" ", "",
	"\t", "",
	",", "",
)

// CleanLabel normalizes a class-interval label so it can be split on a
// single hyphen.
func CleanLabel(label string) string {
	return labelReplacer.Replace(label)
}

// Interval is the numeric bound pair of a class-interval label.
type Interval struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// ParseInterval splits a cleaned label on the hyphen and expects exactly
// two integer tokens. Anything else reports ok=false; callers fall back
// to a zero representative value instead of failing the run.
func ParseInterval(cleaned string) (Interval, bool) {
	parts := strings.Split(cleaned, "-")
	if len(parts) != 2 {
		return Interval{}, false
	}
	low, err := strconv.Atoi(parts[0])
	if err != nil {
		return Interval{}, false
	}
	high, err := strconv.Atoi(parts[1])
	if err != nil {
		return Interval{}, false
	}
	return Interval{Low: low, High: high}, true
}
