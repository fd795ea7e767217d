package ingest

import (
	"math"
	"strconv"
	"strings"
)

// CoerceNumber converts a cell to a number. It never fails: blanks, text,
// NaN and infinities all become 0.
//
// Accepted forms besides plain floats: grouping commas or spaces
// ("1,234,567"), dot grouping ("1.234.567"), comma decimals when a dot is
// used for grouping ("1.234,5") and accounting negatives ("(1,200)").
// A single comma followed by one or two digits is a decimal comma ("12,5");
// followed by three digits it is grouping ("1,234").
func CoerceNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\'':
			return -1
		}
		return r
	}, s)

	lastDot, lastComma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma > lastDot:
		// 1.234,5
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		// 1.234.567
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", "")
	case lastDot < 0 && strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 && lastComma < len(s)-1:
		// 12,5
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if neg {
		v = -v
	}
	return v
}
