package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatBound prints a filter bound exactly, so a value sent back from a
// form selects the same rows.
func FormatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatRupees renders an amount with Indian digit grouping, e.g. "INR 1,23,456.50".
func FormatRupees(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100
	return fmt.Sprintf("%sINR %s.%02d", sign, groupIndian(whole), frac)
}

// FormatRating renders a star rating with one decimal, "-" when unrated.
func FormatRating(r float64) string {
	if r <= 0 {
		return "-"
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

func groupIndian(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
