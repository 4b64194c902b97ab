package cardgen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand"
	"sync"
)

// Source yields uniform integers in [0, n).
type Source interface {
	Intn(n int) (int, error)
}

var errNilSource = errors.New("nil source")

func intn(src Source, n int) (int, error) {
	if src == nil {
		return 0, errNilSource
	}
	return src.Intn(n)
}

// Secure draws from crypto/rand. Read failures are returned as-is and never
// fall back to a weaker generator.
var Secure Source = secureSource{}

// DefaultPseudo draws from the math/rand global generator.
var DefaultPseudo Source = globalPseudo{}

type secureSource struct{}

func (secureSource) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("intn: n must be positive (got %d)", n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// digits fills count digits using rejection sampling: only bytes < 250 are
// kept, then reduced mod 10, so 0-9 stay uniform.
func (secureSource) digits(count int) ([]int, error) {
	if count <= 0 {
		return nil, nil
	}
	const threshold = 250 // 256 - (256 % 10)
	out := make([]int, 0, count)
	buf := make([]byte, 64)
	for len(out) < count {
		n, err := rand.Read(buf)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n && len(out) < count; i++ {
			if buf[i] < threshold {
				out = append(out, int(buf[i]%10))
			}
		}
	}
	return out, nil
}

type globalPseudo struct{}

func (globalPseudo) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("intn: n must be positive (got %d)", n)
	}
	return mrand.Intn(n), nil
}

// Pseudo is a seeded math/rand source, safe for concurrent use.
type Pseudo struct {
	mu  sync.Mutex
	rnd *mrand.Rand
}

func NewPseudo(seed int64) *Pseudo {
	return &Pseudo{rnd: mrand.New(mrand.NewSource(seed))}
}

func (p *Pseudo) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("intn: n must be positive (got %d)", n)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Intn(n), nil
}

// randomDigits returns count uniform digits from src. The crypto source uses
// its batched sampler; others go digit by digit.
func randomDigits(src Source, count int) ([]int, error) {
	if src == nil {
		return nil, errNilSource
	}
	if s, ok := src.(secureSource); ok {
		return s.digits(count)
	}
	out := make([]int, count)
	for i := range out {
		d, err := src.Intn(10)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
