package utils

import "strings"

// arabicToWestern maps Arabic-Indic digit runes (U+0660..U+0669) to
// their ASCII equivalents.
var arabicToWestern = map[rune]rune{
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
}

// NormalizeDigits converts Arabic-Indic digits in s to Western-Arabic
// digits. Every product-number lookup key passes through here first, so
// "٢٣" and "23" address the same record. The function is idempotent.
func NormalizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if w, ok := arabicToWestern[r]; ok {
			b.WriteRune(w)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
