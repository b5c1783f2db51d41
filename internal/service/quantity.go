package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// quantityPattern splits a free-text quantity into a leading amount and a
// suffix. Alternatives are tried in order: mixed number, fraction, decimal.
// A suffix never starts with another number, so "1 2" and "1.5.3" do not
// parse.
var quantityPattern = regexp.MustCompile(`^(?:(\d+)\s+(\d+)/(\d+)|(\d+)/(\d+)|(\d+(?:\.\d+)?|\.\d+))(?:\s*([^\s\d./,].*))?$`)

type quantity struct {
	value  float64
	suffix string
}

// parseQuantity reads "2", "1.5 cups", "1/2 tsp" or "1 1/2 cups".
// Anything without a leading amount is not parseable.
func parseQuantity(s string) (quantity, bool) {
	m := quantityPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return quantity{}, false
	}

	var value float64
	switch {
	case m[1] != "":
		whole, _ := strconv.ParseFloat(m[1], 64)
		frac, ok := fraction(m[2], m[3])
		if !ok {
			return quantity{}, false
		}
		value = whole + frac
	case m[4] != "":
		frac, ok := fraction(m[4], m[5])
		if !ok {
			return quantity{}, false
		}
		value = frac
	default:
		v, err := strconv.ParseFloat(m[6], 64)
		if err != nil {
			return quantity{}, false
		}
		value = v
	}

	return quantity{
		value:  value,
		suffix: strings.Join(strings.Fields(m[7]), " "),
	}, true
}

func fraction(num, den string) (float64, bool) {
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

func formatQuantity(q quantity) string {
	rounded := math.Round(q.value*1000) / 1000
	number := strconv.FormatFloat(rounded, 'f', -1, 64)
	if q.suffix == "" {
		return number
	}
	return number + " " + q.suffix
}

// mergeQuantities sums two quantities with the same suffix. The result keeps
// the suffix spelling of a. It reports false when either side does not parse
// or the suffixes differ.
func mergeQuantities(a, b string) (string, bool) {
	qa, ok := parseQuantity(a)
	if !ok {
		return "", false
	}
	qb, ok := parseQuantity(b)
	if !ok {
		return "", false
	}
	if !strings.EqualFold(qa.suffix, qb.suffix) {
		return "", false
	}

	return formatQuantity(quantity{value: qa.value + qb.value, suffix: qa.suffix}), true
}
