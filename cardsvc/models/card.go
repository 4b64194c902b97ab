package models

type Card struct {
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	CVV         string `json:"cvv"`
	Brand       string `json:"brand"`
	Glyph       string `json:"glyph"`
	CardFace    string `json:"card_face"`
	// Line is the card in number|MM|YY|CVV form.
	Line string `json:"line"`
}

type Batch struct {
	ID    string  `json:"batch_id"`
	Cards []*Card `json:"cards"`
}

type BrandInfo struct {
	Label     string `json:"label"`
	Glyph     string `json:"glyph"`
	LuhnValid bool   `json:"luhn_valid"`
}

// GenerateRequest describes one batch. An empty BIN means fully random cards.
type GenerateRequest struct {
	Count  int
	BIN    string
	Secure bool
}
