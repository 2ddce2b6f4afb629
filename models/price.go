package models

// PriceOffer represents one retailer's price for a set
type PriceOffer struct {
	Retailer  string  `json:"retailer"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	URL       string  `json:"url,omitempty"`
	InStock   bool    `json:"in_stock"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// PriceLine is an offer after currency conversion and shipping
type PriceLine struct {
	Retailer     string  `json:"retailer"`
	URL          string  `json:"url,omitempty"`
	InStock      bool    `json:"inStock"`
	Price        float64 `json:"price"`        // converted to display currency
	Shipping     float64 `json:"shipping"`     // converted to display currency
	Total        float64 `json:"total"`        // price + shipping
	PricePerPart float64 `json:"pricePerPart"` // 0 when the set has no parts
	IsBest       bool    `json:"isBest"`
	IsRetail     bool    `json:"isRetail"`
}

// PriceComparison represents the complete price tool result for a set
type PriceComparison struct {
	Set          Set         `json:"set"`
	Currency     string      `json:"currency"`
	Lines        []PriceLine `json:"lines"`
	Best         *PriceLine  `json:"best,omitempty"`
	RetailTotal  float64     `json:"retailTotal"`
	Savings      float64     `json:"savings"`
	SavingsPct   float64     `json:"savingsPct"`
	SkippedLines []string    `json:"skipped,omitempty"` // offers in unknown currencies
}
