package cardgen

import "fmt"

// MaxBatch caps how many cards a single request may produce.
const MaxBatch = 20

// GenerateUnique calls gen until count valid records with distinct numbers
// are collected. exists lets callers plug in an external uniqueness check (nil to
// only dedupe within the batch). Each record gets at most maxRetries redraws.
func GenerateUnique(
	count int, maxRetries int,
	gen func() (Record, error),
	exists func(string) (bool, error),
) ([]Record, error) {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	seen := make(map[string]struct{}, count)
	out := make([]Record, 0, count)
	for len(out) < count {
		var (
			rec Record
			ok  bool
		)
		for i := 0; i <= maxRetries; i++ {
			r, err := gen()
			if err != nil {
				return nil, err
			}
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("generated record: %w", err)
			}
			if _, dup := seen[r.Number]; dup {
				continue
			}
			if exists != nil {
				used, err := exists(r.Number)
				if err != nil {
					return nil, fmt.Errorf("exists callback: %w", err)
				}
				if used {
					continue
				}
			}
			rec, ok = r, true
			break
		}
		if !ok {
			return nil, fmt.Errorf("failed to generate unique card after %d retries", maxRetries)
		}
		seen[rec.Number] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}
