package cardgen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is returned when a caller passes non-digit characters where
// digits are required. It is always recoverable: reject and ask again.
var ErrInvalidInput = errors.New("invalid input")

// LuhnCheckDigit returns the digit that, appended to digits, makes the whole
// sequence Luhn-valid. Digits are processed from the rightmost one; every
// second digit (odd position after reversal) is doubled.
func LuhnCheckDigit(digits []int) int {
	total := 0
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if (len(digits)-1-i)%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		total += d
	}
	return (10 - (total % 10)) % 10
}

// LuhnValid reports whether number is a non-empty digit string whose last
// digit is the Luhn check digit of the rest.
func LuhnValid(number string) bool {
	if number == "" {
		return false
	}
	d, err := Digits(number)
	if err != nil {
		return false
	}
	return LuhnCheckDigit(d[:len(d)-1]) == d[len(d)-1]
}

// Digits converts s into its decimal digits.
func Digits(s string) ([]int, error) {
	out := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("%w: non-digit %q at position %d", ErrInvalidInput, s[i], i)
		}
		out[i] = int(s[i] - '0')
	}
	return out, nil
}

func digitString(d []int) string {
	var sb strings.Builder
	sb.Grow(len(d))
	for _, v := range d {
		sb.WriteByte('0' + byte(v))
	}
	return sb.String()
}

// ValidatePAN checks digits only, length 13..19 and the Luhn check digit.
func ValidatePAN(pan string) error {
	if pan == "" {
		return fmt.Errorf("%w: pan is required", ErrInvalidInput)
	}
	if !IsDigits(pan) {
		return fmt.Errorf("%w: pan must contain digits only", ErrInvalidInput)
	}
	if l := len(pan); l < 13 || l > 19 {
		return fmt.Errorf("%w: pan length must be 13..19 digits (got %d)", ErrInvalidInput, l)
	}
	if !LuhnValid(pan) {
		return fmt.Errorf("%w: invalid luhn check digit", ErrInvalidInput)
	}
	return nil
}

func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MaskPAN keeps the BIN and the last four digits visible. Numbers too short
// to carry a BIN only keep their last four.
func MaskPAN(pan string) string {
	b := []byte(NormalizePAN(pan))
	keepHead := 6
	if len(b) < 10 {
		keepHead = 0
	}
	for i := keepHead; i < len(b)-4; i++ {
		b[i] = '*'
	}
	if len(b) <= 4 {
		for i := range b {
			b[i] = '*'
		}
	}
	return string(b)
}

// NormalizePAN strips spaces, tabs and dashes.
func NormalizePAN(s string) string {
	return strings.NewReplacer(" ", "", "\t", "", "-", "").Replace(strings.TrimSpace(s))
}
