package params

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errRatioFormat = errors.New(ReasonRatioFormat)

// ParseRatio accepts "0.9", "90%" and "9/10".
func ParseRatio(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errRatioFormat
	}

	if pct, ok := strings.CutSuffix(s, "%"); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(pct))
		if err != nil {
			return decimal.Zero, errRatioFormat
		}
		return d.Div(decimal.NewFromInt(100)), nil
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := decimal.NewFromString(strings.TrimSpace(num))
		if err != nil {
			return decimal.Zero, errRatioFormat
		}
		d, err := decimal.NewFromString(strings.TrimSpace(den))
		if err != nil || d.IsZero() {
			return decimal.Zero, errRatioFormat
		}
		return n.DivRound(d, ratioPrecision), nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errRatioFormat
	}
	return d, nil
}

// inUnitInterval reports 0 < d <= 1.
func inUnitInterval(d decimal.Decimal) bool {
	return d.IsPositive() && d.LessThanOrEqual(decimal.NewFromInt(1))
}
