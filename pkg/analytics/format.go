package analytics

import (
	"math"
	"strconv"
	"strings"
)

func humanize(identifier string) string {
	s := strings.ReplaceAll(identifier, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// formatValue prints counts as integers and amounts with two decimals, both
// with thousands separators.
func formatValue(metric string, v float64) string {
	if metric == "count" {
		return groupThousands(strconv.FormatFloat(math.Round(v), 'f', 0, 64))
	}
	return groupThousands(strconv.FormatFloat(v, 'f', 2, 64))
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
