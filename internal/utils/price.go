package utils

import (
	"strconv"
	"strings"
)

// ParsePrice converts a user-supplied price string to a float. Thousands
// separators are stripped first ("25,000" -> 25000). Negative prices are
// rejected.
func ParsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// FormatThousands renders a float with comma thousands separators and
// no decimals, matching the mirror caption format ("1,250,000").
func FormatThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
