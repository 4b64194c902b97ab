package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/alovak/testcard-playground/cardsvc"
	"github.com/alovak/testcard-playground/cardsvc/models"
	"github.com/alovak/testcard-playground/internal/brand"
	"github.com/alovak/testcard-playground/internal/cardgen"
)

var (
	flagVerbose = flag.Bool("verbose", false, "print full card numbers (otherwise masked)")
	flagJSON    = flag.Bool("json", false, "print JSON instead of number|MM|YY|CVV lines")
	flagBrand   = flag.String("brand", "", "classify a number or prefix and exit")
	flagSecure  = flag.Bool("secure", false, "use crypto/rand for digits after a BIN")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: cardgen [flags] [N | BIN | BIN N]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *flagBrand != "" {
		n := cardgen.NormalizePAN(*flagBrand)
		glyph, label := brand.Classify(n)
		fmt.Printf("%s\t%s\tluhn_valid=%t\n", label, glyph, cardgen.ValidatePAN(n) == nil)
		return
	}

	bin, count, err := ParseGenArgs(flag.Args())
	must(err)

	g := cardgen.NewGenerator()
	gen := g.Random
	if bin != "" {
		fill := g.PrefixFill
		if *flagSecure {
			fill = cardgen.Secure
		}
		gen = func() (cardgen.Record, error) { return g.FromPrefixWith(bin, fill) }
	}
	records := must1(cardgen.GenerateUnique(count, 10, gen, nil))

	if *flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		must(enc.Encode(jsonCards(records, *flagVerbose)))
		return
	}
	for _, rec := range records {
		fmt.Println(formatLine(rec, *flagVerbose))
	}
}

// ParseGenArgs reads the positional arguments: nothing, a count, a 6..8
// digit BIN, or a BIN followed by a count. Counts are capped at MaxBatch.
func ParseGenArgs(args []string) (bin string, count int, err error) {
	switch {
	case len(args) == 0:
		return "", 1, nil
	case len(args) == 1 && isNumber(args[0]):
		if l := len(args[0]); l >= 6 && l <= 8 {
			return args[0], 1, nil
		}
		return "", capCount(args[0]), nil
	case len(args) == 2 && isNumber(args[0]) && isNumber(args[1]):
		return args[0], capCount(args[1]), nil
	default:
		return "", 0, fmt.Errorf("%w: expected [N | BIN | BIN N], got %q", cardgen.ErrInvalidInput, args)
	}
}

func isNumber(s string) bool { return s != "" && cardgen.IsDigits(s) }

func capCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n > cardgen.MaxBatch {
		return cardgen.MaxBatch
	}
	return n
}

func formatLine(rec cardgen.Record, verbose bool) string {
	if !verbose {
		rec.Number = cardgen.MaskPAN(rec.Number)
	}
	return rec.String()
}

// jsonCards uses the same masking rules as formatLine.
func jsonCards(records []cardgen.Record, verbose bool) []*models.Card {
	out := make([]*models.Card, 0, len(records))
	for _, rec := range records {
		c := cardsvc.ToCard(rec)
		if !verbose {
			c.Number = cardgen.MaskPAN(c.Number)
			c.Line = formatLine(rec, false)
		}
		out = append(out, c)
	}
	return out
}

func must(err error) {
	if err != nil {
		fail("%v", err)
	}
}

func must1[T any](v T, err error) T {
	if err != nil {
		fail("%v", err)
	}
	return v
}

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
