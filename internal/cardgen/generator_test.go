package cardgen

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/alovak/testcard-playground/internal/brand"
	"github.com/alovak/testcard-playground/internal/expiry"
)

type failSource struct{}

func (failSource) Intn(int) (int, error) { return 0, errors.New("entropy exhausted") }

func seeded(seed int64) *Generator {
	src := NewPseudo(seed)
	return NewGenerator(WithRandomFill(src), WithPrefixFill(src), WithAux(src))
}

func checkRecord(t *testing.T, rec Record, amex bool) {
	t.Helper()
	wantLen, wantCVV := 16, 3
	if amex {
		wantLen, wantCVV = 15, 4
	}
	if len(rec.Number) != wantLen {
		t.Fatalf("number %s length %d want %d", rec.Number, len(rec.Number), wantLen)
	}
	if !LuhnValid(rec.Number) {
		t.Fatalf("number %s is not luhn valid", rec.Number)
	}
	if len(rec.CVV) != wantCVV || !IsDigits(rec.CVV) {
		t.Fatalf("cvv %q want %d digits", rec.CVV, wantCVV)
	}
	if err := expiry.ValidateMonth(rec.ExpiryMonth); err != nil {
		t.Fatalf("expiry month %q: %v", rec.ExpiryMonth, err)
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("record %s failed validation: %v", rec, err)
	}
	if rec.ExpiryYear < "24" || rec.ExpiryYear > "30" || len(rec.ExpiryYear) != 2 {
		t.Fatalf("expiry year %q out of range", rec.ExpiryYear)
	}
}

func TestRandom_Invariants(t *testing.T) {
	g := seeded(42)
	for i := 0; i < 500; i++ {
		rec, err := g.Random()
		if err != nil {
			t.Fatalf("Random: %v", err)
		}
		checkRecord(t, rec, brand.IsAMEXPrefix(rec.Number))
	}
}

func TestRandom_CoversEveryTableEntry(t *testing.T) {
	g := seeded(1)
	seen := map[string]bool{}
	for i := 0; i < 2000; i++ {
		rec, err := g.Random()
		if err != nil {
			t.Fatalf("Random: %v", err)
		}
		for _, e := range brandTable {
			if strings.HasPrefix(rec.Number, e.prefix) {
				seen[e.prefix] = true
			}
		}
	}
	for _, e := range brandTable {
		if !seen[e.prefix] {
			t.Fatalf("prefix %s never generated", e.prefix)
		}
	}
}

func TestRandom_Deterministic(t *testing.T) {
	a, err := seeded(99).Random()
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	b, err := seeded(99).Random()
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if a != b {
		t.Fatalf("same seed gave %s and %s", a, b)
	}
}

func TestGenerateRandomCard_DefaultSources(t *testing.T) {
	rec, err := GenerateRandomCard()
	if err != nil {
		t.Fatalf("GenerateRandomCard: %v", err)
	}
	checkRecord(t, rec, brand.IsAMEXPrefix(rec.Number))
}

func TestRandom_PropagatesEntropyFailure(t *testing.T) {
	g := NewGenerator(WithRandomFill(failSource{}), WithAux(NewPseudo(3)))
	if _, err := g.Random(); err == nil {
		t.Fatalf("expected entropy failure to propagate")
	}
}

func TestFromPrefix_AMEX(t *testing.T) {
	rec, err := seeded(5).FromPrefix("34")
	if err != nil {
		t.Fatalf("FromPrefix: %v", err)
	}
	if !strings.HasPrefix(rec.Number, "340000") {
		t.Fatalf("number %s does not start with normalized prefix 340000", rec.Number)
	}
	checkRecord(t, rec, true)
}

func TestFromPrefix_Normalization(t *testing.T) {
	cases := []struct {
		in, bin string
		amex    bool
	}{
		{"4", "400000", false},
		{"37", "370000", true},
		{"411111", "411111", false},
		{"55554444", "555544", false},
		{"", "000000", false},
	}
	g := seeded(11)
	for _, c := range cases {
		if got := NormalizeBIN(c.in); got != c.bin {
			t.Fatalf("NormalizeBIN(%q) = %s want %s", c.in, got, c.bin)
		}
		rec, err := g.FromPrefix(c.in)
		if err != nil {
			t.Fatalf("FromPrefix(%q): %v", c.in, err)
		}
		if !strings.HasPrefix(rec.Number, c.bin) {
			t.Fatalf("FromPrefix(%q) number %s missing bin %s", c.in, rec.Number, c.bin)
		}
		checkRecord(t, rec, c.amex)
	}
}

func TestFromPrefix_InvalidInput(t *testing.T) {
	for _, in := range []string{"ab1234", "4111-1", "12345x"} {
		_, err := GenerateCardFromPrefix(in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("GenerateCardFromPrefix(%q) err=%v want ErrInvalidInput", in, err)
		}
	}
	// characters past the sixth are dropped before validation
	if _, err := GenerateCardFromPrefix("411111zz"); err != nil {
		t.Fatalf("truncated prefix should be accepted: %v", err)
	}
}

func TestFromPrefixWith_SecureFill(t *testing.T) {
	g := seeded(8)
	rec, err := g.FromPrefixWith("520000", Secure)
	if err != nil {
		t.Fatalf("FromPrefixWith: %v", err)
	}
	checkRecord(t, rec, false)

	if _, err := g.FromPrefixWith("520000", failSource{}); err == nil {
		t.Fatalf("expected filler failure to propagate")
	}
}

func TestRecord_String(t *testing.T) {
	rec := Record{Number: "4111111111111111", ExpiryMonth: "03", ExpiryYear: "27", CVV: "123"}
	if got := rec.String(); got != "4111111111111111|03|27|123" {
		t.Fatalf("String got %s", got)
	}
}

func TestGenerator_Concurrent(t *testing.T) {
	g := NewGenerator(WithPrefixFill(NewPseudo(21)), WithAux(NewPseudo(22)))
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rec, err := g.FromPrefix("601100")
				if err != nil {
					errs <- err
					return
				}
				if !LuhnValid(rec.Number) {
					errs <- errors.New("invalid number " + rec.Number)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestGenerateUnique(t *testing.T) {
	g := seeded(13)
	recs, err := GenerateUnique(MaxBatch, 5, func() (Record, error) { return g.FromPrefix("400000") }, nil)
	if err != nil {
		t.Fatalf("GenerateUnique: %v", err)
	}
	if len(recs) != MaxBatch {
		t.Fatalf("got %d records want %d", len(recs), MaxBatch)
	}
	seen := map[string]bool{}
	for _, r := range recs {
		if seen[r.Number] {
			t.Fatalf("duplicate number %s", r.Number)
		}
		seen[r.Number] = true
	}
}

func TestGenerateUnique_ExhaustsRetries(t *testing.T) {
	fixed := Record{Number: "4111111111111111", ExpiryMonth: "05", ExpiryYear: "26", CVV: "999"}
	gen := func() (Record, error) { return fixed, nil }
	if _, err := GenerateUnique(2, 3, gen, nil); err == nil {
		t.Fatalf("expected retry exhaustion")
	}
	exists := func(string) (bool, error) { return true, nil }
	if _, err := GenerateUnique(1, 3, gen, exists); err == nil {
		t.Fatalf("expected exists callback to force exhaustion")
	}
}

func TestNewGenerator_DefaultSources(t *testing.T) {
	g := NewGenerator()
	if g.RandomFill != Secure {
		t.Fatalf("RandomFill default = %T want crypto source", g.RandomFill)
	}
	if g.PrefixFill != DefaultPseudo {
		t.Fatalf("PrefixFill default = %T want math/rand source", g.PrefixFill)
	}
	if g.Aux != DefaultPseudo {
		t.Fatalf("Aux default = %T want math/rand source", g.Aux)
	}
}

func TestGenerator_NilSources(t *testing.T) {
	g := NewGenerator(WithRandomFill(nil), WithPrefixFill(nil), WithAux(nil))
	if g.RandomFill != Secure || g.PrefixFill != DefaultPseudo || g.Aux != DefaultPseudo {
		t.Fatalf("nil options should keep defaults")
	}

	rec, err := seeded(4).FromPrefixWith("411111", nil)
	if err != nil {
		t.Fatalf("FromPrefixWith nil fill: %v", err)
	}
	checkRecord(t, rec, false)

	bare := &Generator{}
	if _, err := bare.Random(); err == nil {
		t.Fatalf("expected error from generator without sources")
	}
	if _, err := bare.FromPrefix("411111"); err == nil {
		t.Fatalf("expected error from generator without sources")
	}
}

func TestGenerateUnique_RejectsInvalidRecord(t *testing.T) {
	gen := func() (Record, error) {
		return Record{Number: "4111111111111112", ExpiryMonth: "05", ExpiryYear: "26", CVV: "999"}, nil
	}
	if _, err := GenerateUnique(1, 3, gen, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("GenerateUnique err=%v want ErrInvalidInput", err)
	}
}

func TestRecord_Validate(t *testing.T) {
	ok := Record{Number: "4111111111111111", ExpiryMonth: "03", ExpiryYear: "27", CVV: "123"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
	amex := Record{Number: "378282246310005", ExpiryMonth: "12", ExpiryYear: "30", CVV: "1234"}
	if err := amex.Validate(); err != nil {
		t.Fatalf("valid amex record rejected: %v", err)
	}

	bad := []Record{
		{Number: "4111111111111112", ExpiryMonth: "03", ExpiryYear: "27", CVV: "123"},
		{Number: "4111111111111111", ExpiryMonth: "13", ExpiryYear: "27", CVV: "123"},
		{Number: "4111111111111111", ExpiryMonth: "03", ExpiryYear: "2x", CVV: "123"},
		{Number: "4111111111111111", ExpiryMonth: "03", ExpiryYear: "27", CVV: "1234"},
		{Number: "378282246310005", ExpiryMonth: "03", ExpiryYear: "27", CVV: "123"},
	}
	for _, r := range bad {
		if err := r.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Validate(%s) err=%v want ErrInvalidInput", r, err)
		}
	}
}
