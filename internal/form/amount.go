package form

import (
	"fmt"
	"strconv"
	"strings"
)

// Cents is a money amount in integer cents. Form amounts never touch
// floating point, so "$1,234.56" round-trips exactly.
type Cents int64

// ParseCents parses a currency-shaped token: optional leading "$", optional
// thousands separators, at most one decimal point with 1-2 fraction digits.
func ParseCents(s string) (Cents, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(t, "$")
	t = strings.TrimSpace(t)
	t = strings.ReplaceAll(t, ",", "")
	if t == "" {
		return 0, fmt.Errorf("empty amount")
	}

	whole, frac := t, ""
	if i := strings.IndexByte(t, '.'); i >= 0 {
		whole, frac = t[:i], t[i+1:]
		if len(frac) == 0 || len(frac) > 2 || strings.Contains(frac, ".") {
			return 0, fmt.Errorf("malformed amount %q", s)
		}
	}
	if whole == "" {
		whole = "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q: %w", s, err)
	}
	cents := w * 100

	if frac != "" {
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed amount %q: %w", s, err)
		}
		if len(frac) == 1 {
			f *= 10
		}
		cents += f
	}
	return Cents(cents), nil
}

// String renders the amount with two fraction digits and no currency symbol,
// the form sheets expect ("1234.56").
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
