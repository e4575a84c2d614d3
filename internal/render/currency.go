package render

import (
	"math"
	"strconv"
	"strings"
)

// FormatINR renders an amount the way en-IN locales do: the last three
// integer digits form one group and the rest are grouped in pairs
// (₹1,00,000). At most two fraction digits are kept.
func FormatINR(v float64) string {
	neg := v < 0
	paise := int64(math.Round(math.Abs(v) * 100))
	whole, frac := paise/100, paise%100

	var b strings.Builder
	b.WriteString("₹")
	if neg && paise != 0 {
		b.WriteByte('-')
	}
	b.WriteString(groupIndian(strconv.FormatInt(whole, 10)))
	if frac != 0 {
		f := strconv.FormatInt(frac+100, 10)[1:] // zero-padded to two digits
		b.WriteByte('.')
		b.WriteString(strings.TrimRight(f, "0"))
	}
	return b.String()
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}
