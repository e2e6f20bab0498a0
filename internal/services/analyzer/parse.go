package analyzer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// scaleSuffixes maps magnitude words and letters to multipliers. Reported
// figures mix forms freely ("$25.2B", "25,200 million", "1.2 trillion").
var scaleSuffixes = []struct {
	suffix string
	factor decimal.Decimal
}{
	{"trillion", decimal.New(1, 12)},
	{"billion", decimal.New(1, 9)},
	{"million", decimal.New(1, 6)},
	{"thousand", decimal.New(1, 3)},
	{"t", decimal.New(1, 12)},
	{"b", decimal.New(1, 9)},
	{"m", decimal.New(1, 6)},
	{"k", decimal.New(1, 3)},
}

var numericCore = regexp.MustCompile(`^[+-]?[\d,]+(?:\.\d+)?`)

// parseMagnitude turns a reported figure string into a comparable decimal
// magnitude. Returns false for anything that is not a single number with
// optional currency symbol, thousands separators, scale suffix, or percent
// sign; "N/A", ranges, and prose all fail rather than parsing as zero.
func parseMagnitude(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	// strip leading currency markers
	for _, prefix := range []string{"$", "€", "£", "¥", "US$", "USD", "A$"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	match := numericCore.FindString(s)
	if match == "" {
		return decimal.Zero, false
	}
	rest := strings.ToLower(strings.TrimSpace(s[len(match):]))
	rest = strings.TrimSuffix(rest, "%")
	rest = strings.TrimSpace(rest)

	value, err := decimal.NewFromString(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}

	if rest != "" {
		applied := false
		for _, scale := range scaleSuffixes {
			if rest == scale.suffix {
				value = value.Mul(scale.factor)
				applied = true
				break
			}
		}
		if !applied {
			// trailing words we don't recognize mean the figure is prose,
			// not a clean number
			return decimal.Zero, false
		}
	}

	if negative {
		value = value.Neg()
	}
	return value, true
}
