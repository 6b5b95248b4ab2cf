// Package numwords spells integers as English words.
package numwords

import "strings"

var (
	small = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen",
	}
	tens   = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
	scales = []string{"", "thousand", "million", "billion", "trillion", "quadrillion", "quintillion"}
)

// Words returns n in words, e.g. 123 is "one hundred twenty-three" and -5 is
// "minus five".
func Words(n int) string {
	if n == 0 {
		return small[0]
	}

	// uint64 keeps the magnitude of the smallest int representable.
	u := uint64(n)
	neg := n < 0
	if neg {
		u = -u
	}

	var groups []string
	for scale := 0; u > 0; scale++ {
		g := u % 1000
		u /= 1000
		if g == 0 {
			continue
		}
		w := hundreds(int(g))
		if scales[scale] != "" {
			w += " " + scales[scale]
		}
		groups = append([]string{w}, groups...)
	}

	out := strings.Join(groups, " ")
	if neg {
		return "minus " + out
	}
	return out
}

// hundreds spells 1..999.
func hundreds(n int) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, small[n/100]+" hundred")
		n %= 100
	}
	switch {
	case n == 0:
	case n < 20:
		parts = append(parts, small[n])
	case n%10 == 0:
		parts = append(parts, tens[n/10])
	default:
		parts = append(parts, tens[n/10]+"-"+small[n%10])
	}
	return strings.Join(parts, " ")
}
