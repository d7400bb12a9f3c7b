package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency every amount in the tracker is held in.
const DefaultCurrency = "INR"

// FormatAmount renders v with at most two decimal places and no grouping,
// e.g. 300, 333.33. Display only; stored amounts are never rounded.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

// RoundsToZero reports whether v shows as 0 once rounded to two decimals.
func RoundsToZero(v float64) bool {
	return decimal.NewFromFloat(v).Round(2).IsZero()
}

// FormatINR renders v the way an Indian locale does: rupee sign, lakh/crore
// digit grouping, at most two decimals. 150000 becomes ₹1,50,000.
func FormatINR(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	neg := d.IsNegative()
	s := d.Abs().String()

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₹")
	b.WriteString(groupIndian(intPart))
	b.WriteString(frac)
	return b.String()
}

// groupIndian inserts separators after the last three digits and then after
// every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}
