package cardgen

import (
	"fmt"
	"strings"

	"github.com/alovak/testcard-playground/internal/brand"
	"github.com/alovak/testcard-playground/internal/expiry"
)

const binLen = 6

// Record is one generated card: number, expiry and CVV.
type Record struct {
	Number      string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
}

// Validate checks the number is a Luhn-valid PAN, the expiry is a real
// month and the CVV length matches the brand.
func (r Record) Validate() error {
	if err := ValidatePAN(r.Number); err != nil {
		return err
	}
	if err := expiry.ValidateYYMM(expiry.YYMM(r.ExpiryMonth, r.ExpiryYear)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	want := 3
	if brand.IsAMEXPrefix(r.Number) {
		want = 4
	}
	if len(r.CVV) != want || !IsDigits(r.CVV) {
		return fmt.Errorf("%w: cvv must be %d digits", ErrInvalidInput, want)
	}
	return nil
}

// String renders the record as number|MM|YY|CVV.
func (r Record) String() string {
	return r.Number + "|" + r.ExpiryMonth + "|" + r.ExpiryYear + "|" + r.CVV
}

type brandKey string

const (
	keyVisa       brandKey = "visa"
	keyMastercard brandKey = "mastercard"
	keyAMEX       brandKey = "amex"
	keyDiscover   brandKey = "discover"
	keyJCB        brandKey = "jcb"
	keyUnionPay   brandKey = "unionpay"
)

type brandEntry struct {
	prefix string
	length int
	key    brandKey
}

// brandTable drives Random; every entry has the same chance of being picked.
var brandTable = []brandEntry{
	{"4", 16, keyVisa},
	{"51", 16, keyMastercard}, {"52", 16, keyMastercard}, {"53", 16, keyMastercard},
	{"54", 16, keyMastercard}, {"55", 16, keyMastercard},
	{"2221", 16, keyMastercard}, {"2720", 16, keyMastercard},
	{"34", 15, keyAMEX}, {"37", 15, keyAMEX},
	{"6011", 16, keyDiscover}, {"65", 16, keyDiscover},
	{"35", 16, keyJCB},
	{"62", 16, keyUnionPay},
}

// Generator builds card records. RandomFill fills unseeded positions of fully
// random cards, PrefixFill fills positions after a caller-supplied prefix and
// Aux drives CVV, expiry and brand selection.
type Generator struct {
	RandomFill Source
	PrefixFill Source
	Aux        Source
}

type Option func(*Generator)

// WithRandomFill, WithPrefixFill and WithAux replace one source. A nil
// source keeps the default.
func WithRandomFill(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.RandomFill = src
		}
	}
}

func WithPrefixFill(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.PrefixFill = src
		}
	}
}

func WithAux(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.Aux = src
		}
	}
}

// NewGenerator returns a generator with crypto/rand filling random cards and
// math/rand everywhere else, unless overridden.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		RandomFill: Secure,
		PrefixFill: DefaultPseudo,
		Aux:        DefaultPseudo,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = NewGenerator()

// GenerateRandomCard draws a brand at random and builds a card for it.
func GenerateRandomCard() (Record, error) { return defaultGenerator.Random() }

// GenerateCardFromPrefix builds a card anchored to prefix.
func GenerateCardFromPrefix(prefix string) (Record, error) {
	return defaultGenerator.FromPrefix(prefix)
}

// Random picks one brandTable entry, pads its prefix to a BIN and fills the
// rest from RandomFill.
func (g *Generator) Random() (Record, error) {
	i, err := intn(g.Aux, len(brandTable))
	if err != nil {
		return Record{}, fmt.Errorf("rand: %w", err)
	}
	entry := brandTable[i]

	head, err := Digits(entry.prefix)
	if err != nil {
		return Record{}, err
	}
	pad, err := randomDigits(g.RandomFill, binLen-len(head))
	if err != nil {
		return Record{}, fmt.Errorf("rand: %w", err)
	}
	number, err := build(append(head, pad...), entry.length, g.RandomFill)
	if err != nil {
		return Record{}, err
	}
	return g.finish(number, entry.key == keyAMEX)
}

// FromPrefix normalizes prefix to six characters (truncate or pad with '0')
// and builds a 15-digit card for AMEX-like prefixes, 16 otherwise.
func (g *Generator) FromPrefix(prefix string) (Record, error) {
	return g.FromPrefixWith(prefix, g.PrefixFill)
}

// FromPrefixWith is FromPrefix with an explicit filler source for this call.
// A nil fill falls back to PrefixFill.
func (g *Generator) FromPrefixWith(prefix string, fill Source) (Record, error) {
	if fill == nil {
		fill = g.PrefixFill
	}
	bin := NormalizeBIN(prefix)
	head, err := Digits(bin)
	if err != nil {
		return Record{}, err
	}
	amex := brand.IsAMEXPrefix(bin)
	length := 16
	if amex {
		length = 15
	}
	number, err := build(head, length, fill)
	if err != nil {
		return Record{}, err
	}
	return g.finish(number, amex)
}

// NormalizeBIN truncates s to six characters or right-pads it with '0'.
func NormalizeBIN(s string) string {
	if len(s) >= binLen {
		return s[:binLen]
	}
	return s + strings.Repeat("0", binLen-len(s))
}

// build fills head up to length-1 digits and appends the check digit.
func build(head []int, length int, fill Source) (string, error) {
	body := head
	if n := length - 1 - len(head); n > 0 {
		rest, err := randomDigits(fill, n)
		if err != nil {
			return "", fmt.Errorf("rand: %w", err)
		}
		body = append(body, rest...)
	}
	return digitString(append(body, LuhnCheckDigit(body))), nil
}

func (g *Generator) finish(number string, amex bool) (Record, error) {
	cvvLen := 3
	if amex {
		cvvLen = 4
	}
	cvv, err := randomDigits(g.Aux, cvvLen)
	if err != nil {
		return Record{}, fmt.Errorf("rand: %w", err)
	}
	mm, yy, err := expiry.Random(g.Aux)
	if err != nil {
		return Record{}, fmt.Errorf("rand: %w", err)
	}
	return Record{
		Number:      number,
		ExpiryMonth: mm,
		ExpiryYear:  yy,
		CVV:         digitString(cvv),
	}, nil
}
