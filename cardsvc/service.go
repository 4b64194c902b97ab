package cardsvc

import (
	"fmt"

	"github.com/alovak/testcard-playground/cardsvc/models"
	"github.com/alovak/testcard-playground/internal/brand"
	"github.com/alovak/testcard-playground/internal/cardgen"
	"github.com/alovak/testcard-playground/internal/expiry"
	"github.com/google/uuid"
)

type Service struct {
	gen *cardgen.Generator
	cfg *Config
}

func NewService(gen *cardgen.Generator, cfg *Config) *Service {
	if gen == nil {
		gen = cardgen.NewGenerator()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{
		gen: gen,
		cfg: cfg,
	}
}

// Generate produces a batch of distinct cards. Counts above the configured
// maximum are capped.
func (s *Service) Generate(req models.GenerateRequest) (*models.Batch, error) {
	if req.Count < 1 {
		return nil, fmt.Errorf("%w: count must be at least 1", cardgen.ErrInvalidInput)
	}
	count := req.Count
	if count > s.cfg.MaxBatch {
		count = s.cfg.MaxBatch
	}

	gen := s.gen.Random
	if req.BIN != "" {
		fill := s.gen.PrefixFill
		if req.Secure || s.cfg.SecurePrefixFill {
			fill = cardgen.Secure
		}
		gen = func() (cardgen.Record, error) { return s.gen.FromPrefixWith(req.BIN, fill) }
	}

	records, err := cardgen.GenerateUnique(count, 10, gen, nil)
	if err != nil {
		return nil, fmt.Errorf("generating cards: %w", err)
	}

	batch := &models.Batch{
		ID:    uuid.New().String(),
		Cards: make([]*models.Card, 0, len(records)),
	}
	for _, rec := range records {
		batch.Cards = append(batch.Cards, ToCard(rec))
	}
	return batch, nil
}

// Classify returns the brand of a number or prefix. Spaces and dashes are
// ignored. LuhnValid is only set for complete 13..19 digit numbers.
func (s *Service) Classify(numberOrPrefix string) models.BrandInfo {
	n := cardgen.NormalizePAN(numberOrPrefix)
	glyph, label := brand.Classify(n)
	return models.BrandInfo{
		Label:     label,
		Glyph:     glyph,
		LuhnValid: cardgen.ValidatePAN(n) == nil,
	}
}

// ToCard maps a generated record to its API representation.
func ToCard(rec cardgen.Record) *models.Card {
	glyph, label := brand.Classify(rec.Number)
	return &models.Card{
		Number:      rec.Number,
		ExpiryMonth: rec.ExpiryMonth,
		ExpiryYear:  rec.ExpiryYear,
		CVV:         rec.CVV,
		Brand:       label,
		Glyph:       glyph,
		CardFace:    expiry.CardFace(rec.ExpiryMonth, rec.ExpiryYear),
		Line:        rec.String(),
	}
}
