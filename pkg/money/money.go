// Package money converts between rupee amounts as they appear on the wire and the
// paise values kept in storage.
package money

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an amount cannot be represented in whole paise.
var ErrInvalidAmount = errors.New("invalid amount")

var maxPaise = decimal.NewFromInt(math.MaxInt64)

// Plain decimal notation of bounded length. No exponents: decimal's work grows with them.
var amountPattern = regexp.MustCompile(`^[+-]?[0-9]{1,19}(\.[0-9]{1,12})?$`)

// ParseRupees parses a positive rupee amount such as "100" or "99.50" into paise.
func ParseRupees(s string) (int64, error) {
	paise, err := parse(s)
	if err != nil {
		return 0, err
	}
	if paise <= 0 {
		return 0, fmt.Errorf("%w: %q is not positive", ErrInvalidAmount, s)
	}
	return paise, nil
}

// ParseTolerance parses a non-negative rupee amount into paise. An empty string is zero.
func ParseTolerance(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	paise, err := parse(s)
	if err != nil {
		return 0, err
	}
	if paise < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	return paise, nil
}

func parse(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if !amountPattern.MatchString(trimmed) {
		return 0, fmt.Errorf("%w: %q is not a plain decimal amount", ErrInvalidAmount, truncate(s))
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}

	paise := d.Shift(2)
	if !paise.IsInteger() {
		return 0, fmt.Errorf("%w: %q has fractions of a paisa", ErrInvalidAmount, s)
	}
	if paise.Abs().GreaterThan(maxPaise) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}

	return paise.IntPart(), nil
}

func truncate(s string) string {
	const limit = 32
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// FormatPaise renders paise as a rupee string with two decimals, e.g. 15000 -> "150.00".
func FormatPaise(paise int64) string {
	return decimal.New(paise, -2).StringFixed(2)
}

// Diff returns the absolute difference between two paise amounts.
func Diff(a, b int64) int64 {
	return decimal.NewFromInt(a).Sub(decimal.NewFromInt(b)).Abs().IntPart()
}
