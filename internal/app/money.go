package app

import (
	"fmt"
	"strconv"
	"strings"
)

// parseMoneyMinor переводит десятичную строку ("500", "500.5", "500.00") в
// минимальные денежные единицы. Больше двух знаков после точки — ошибка, а
// не округление.
func parseMoneyMinor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}

	whole, err := strconv.ParseUint(intPart, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}

	var frac uint64
	if hasFrac {
		if len(fracPart) == 0 || len(fracPart) > 2 {
			return 0, fmt.Errorf("amount %q must have 1 or 2 decimal places", s)
		}
		frac, err = strconv.ParseUint(fracPart, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("parse amount %q: %w", s, err)
		}
		if len(fracPart) == 1 {
			frac *= 10
		}
	}

	minor := int64(whole)*100 + int64(frac)
	if negative {
		minor = -minor
	}
	return minor, nil
}

// formatMinor печатает сумму в минимальных единицах как десятичную строку.
func formatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
