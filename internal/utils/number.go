package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyNumber is returned by ParseNumber for nil, empty and blank input.
var ErrEmptyNumber = errors.New("empty numeric value")

// NumberError describes a value that could not be read as a number.
type NumberError struct {
	Value any
	Err   error
}

func (e *NumberError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid numeric value %q: %v", fmt.Sprint(e.Value), e.Err)
	}
	return fmt.Sprintf("invalid numeric value %q", fmt.Sprint(e.Value))
}

func (e *NumberError) Unwrap() error {
	return e.Err
}

var numberDecorations = strings.NewReplacer(
	"R$", "",
	"US$", "",
	"$", "",
	"%", "",
	" ", "",
	"\u00a0", "",
	"\t", "",
)

// ParseNumber converts numbers and locale formatted strings ("R$ 1.234,56",
// "12,5%", "1,234.56", "(300)") into a float64.
func ParseNumber(value any) (float64, error) {
	var f float64

	switch v := value.(type) {
	case nil:
		return 0, ErrEmptyNumber
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case decimal.Decimal:
		f = v.InexactFloat64()
	case json.Number:
		return ParseNumber(string(v))
	case string:
		d, err := parseDecimalString(v)
		if err != nil {
			if errors.Is(err, ErrEmptyNumber) {
				return 0, err
			}
			return 0, &NumberError{Value: v, Err: err}
		}
		f = d.InexactFloat64()
	default:
		return 0, &NumberError{Value: value, Err: fmt.Errorf("unsupported type %T", value)}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &NumberError{Value: value, Err: errors.New("not a finite number")}
	}
	return f, nil
}

// ToNumber is ParseNumber with a fallback for empty or malformed input.
func ToNumber(value any, def float64) float64 {
	f, err := ParseNumber(value)
	if err != nil {
		return def
	}
	return f
}

func parseDecimalString(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrEmptyNumber
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = numberDecorations.Replace(s)
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}
	if s == "" {
		return decimal.Zero, errors.New("no digits")
	}

	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return decimal.Zero, fmt.Errorf("unexpected character %q", r)
		}
	}

	s = normalizeSeparators(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// normalizeSeparators rewrites s so that "." is the only (optional) decimal
// separator. When both separators appear the rightmost one is the decimal
// mark. A lone comma is a decimal mark; repeated marks are thousands groups.
// A single dot followed by exactly three digits with a non-zero integer part
// ("1.500") is read as a thousands group.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")

	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)

	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			return strings.ReplaceAll(s, ".", "")
		}
		intPart, frac := s[:lastDot], s[lastDot+1:]
		if len(frac) == 3 && intPart != "" && strings.Trim(intPart, "0") != "" {
			return intPart + frac
		}
		return s
	}

	return s
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
