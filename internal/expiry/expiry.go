package expiry

import (
	"fmt"
	"strconv"
)

// Generated expiry years span 2024..2030.
const (
	MinYear = 24
	MaxYear = 30
)

// Source yields uniform integers in [0, n).
type Source interface {
	Intn(n int) (int, error)
}

// Random draws a month in 01..12 and a year in MinYear..MaxYear, both as two
// digit strings.
func Random(src Source) (month, year string, err error) {
	m, err := src.Intn(12)
	if err != nil {
		return "", "", err
	}
	y, err := src.Intn(MaxYear - MinYear + 1)
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("%02d", m+1), fmt.Sprintf("%02d", MinYear+y), nil
}

// CardFace returns expiry as MM/YY for card imprint.
func CardFace(mm, yy string) string {
	return mm + "/" + yy
}

// YYMM returns expiry in the ISO 8583 YYMM layout.
func YYMM(mm, yy string) string {
	return yy + mm
}

// ValidateMonth checks a two digit month in 01..12.
func ValidateMonth(mm string) error {
	if len(mm) != 2 || !isDigits(mm) {
		return fmt.Errorf("month must be 2 digits")
	}
	m, _ := strconv.Atoi(mm)
	if m < 1 || m > 12 {
		return fmt.Errorf("month must be 01..12")
	}
	return nil
}

// ValidateYYMM checks a YYMM expiry with month in 01..12.
func ValidateYYMM(yymm string) error {
	if len(yymm) != 4 || !isDigits(yymm) {
		return fmt.Errorf("expiry must be YYMM (4 digits)")
	}
	return ValidateMonth(yymm[2:])
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
