package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"brickvault/models"
)

// PricingConfig represents the price tool configuration file
type PricingConfig struct {
	Currency  string                    `json:"currency"`
	Rates     map[string]float64        `json:"rates"` // units of display currency per unit of the keyed currency
	Retailers map[string]RetailerConfig `json:"retailers"`
}

// RetailerConfig describes one shop the price tool compares
type RetailerConfig struct {
	Name     string         `json:"name"`
	Retail   bool           `json:"retail"` // the manufacturer's own shop, the savings baseline
	Shipping ShippingConfig `json:"shipping"`
}

// ShippingConfig is a flat shipping fee waived above a threshold.
// Amounts are in the display currency.
type ShippingConfig struct {
	Flat     float64 `json:"flat"`
	FreeOver float64 `json:"freeOver"`
}

// Retailer is a configured retailer with its key, for rendering price columns
type Retailer struct {
	Key    string
	Name   string
	Retail bool
}

// Engine compares retailer offers based on JSON configuration
type Engine struct {
	config *PricingConfig
}

var (
	engineInstance *Engine
	engineMu       sync.Mutex
)

// NewEngine loads the configuration at configPath once and returns the
// shared engine. Later calls return the same engine.
func NewEngine(configPath string) (*Engine, error) {
	engineMu.Lock()
	defer engineMu.Unlock()
	if engineInstance != nil {
		return engineInstance, nil
	}

	if !filepath.IsAbs(configPath) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		configPath = filepath.Join(wd, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing config: %w", err)
	}

	engine, err := Parse(data)
	if err != nil {
		return nil, err
	}

	engineInstance = engine
	zap.S().Infof("✅ PricingEngine: Loaded %d retailers from %s", len(engine.config.Retailers), configPath)
	return engine, nil
}

// Parse builds an engine from raw JSON without touching the shared instance
func Parse(data []byte) (*Engine, error) {
	var config PricingConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse pricing config: %w", err)
	}
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid pricing config: %w", err)
	}

	// normalise keys so lookups are case-insensitive
	rates := make(map[string]float64, len(config.Rates)+1)
	for k, v := range config.Rates {
		rates[strings.ToUpper(k)] = v
	}
	config.Currency = strings.ToUpper(config.Currency)
	rates[config.Currency] = 1
	config.Rates = rates

	retailers := make(map[string]RetailerConfig, len(config.Retailers))
	for k, v := range config.Retailers {
		retailers[strings.ToLower(k)] = v
	}
	config.Retailers = retailers

	return &Engine{config: &config}, nil
}

func validateConfig(config *PricingConfig) error {
	if config.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if len(config.Retailers) == 0 {
		return fmt.Errorf("retailers are required")
	}
	for k, v := range config.Rates {
		if v <= 0 {
			return fmt.Errorf("rate for %s must be positive", k)
		}
	}
	return nil
}

// GetEngine returns the shared engine, or nil before NewEngine succeeded
func GetEngine() *Engine {
	engineMu.Lock()
	defer engineMu.Unlock()
	return engineInstance
}

// Currency returns the display currency
func (e *Engine) Currency() string {
	return e.config.Currency
}

// Retailers returns the configured retailers ordered by name
func (e *Engine) Retailers() []Retailer {
	out := make([]Retailer, 0, len(e.config.Retailers))
	for key, r := range e.config.Retailers {
		out = append(out, Retailer{Key: key, Name: r.displayName(key), Retail: r.Retail})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Convert turns amount in currency into the display currency
func (e *Engine) Convert(amount float64, currency string) (float64, bool) {
	cur := strings.ToUpper(currency)
	if cur == "" {
		cur = e.config.Currency
	}
	rate, ok := e.config.Rates[cur]
	if !ok {
		return 0, false
	}
	return round(amount*rate, 2), true
}

func (r RetailerConfig) displayName(key string) string {
	if r.Name != "" {
		return r.Name
	}
	return key
}

// Compare builds the price tool result for set from the retailer offers.
// Offers in currencies without a configured rate are skipped and reported.
func (e *Engine) Compare(set models.Set, offers []models.PriceOffer) models.PriceComparison {
	result := models.PriceComparison{
		Set:      set,
		Currency: e.config.Currency,
		Lines:    make([]models.PriceLine, 0, len(offers)),
	}

	for _, offer := range offers {
		price, ok := e.Convert(offer.Price, offer.Currency)
		if !ok {
			zap.S().Warnf("⚠️ Compare: No rate for %s, skipping %s offer for %s", offer.Currency, offer.Retailer, set.SetNum)
			result.SkippedLines = append(result.SkippedLines, offer.Retailer)
			continue
		}

		cfg, known := e.config.Retailers[strings.ToLower(offer.Retailer)]
		shipping := 0.0
		if known {
			shipping = cfg.Shipping.Flat
			if cfg.Shipping.FreeOver > 0 && price >= cfg.Shipping.FreeOver {
				shipping = 0
			}
		}

		line := models.PriceLine{
			Retailer: offer.Retailer,
			URL:      offer.URL,
			InStock:  offer.InStock,
			Price:    price,
			Shipping: shipping,
			Total:    round(price+shipping, 2),
			IsRetail: known && cfg.Retail,
		}
		if known {
			line.Retailer = cfg.displayName(offer.Retailer)
		}
		if set.NumParts > 0 {
			line.PricePerPart = round(line.Total/float64(set.NumParts), 4)
		}
		result.Lines = append(result.Lines, line)
	}

	// in-stock offers first, cheapest first
	sort.SliceStable(result.Lines, func(i, j int) bool {
		a, b := result.Lines[i], result.Lines[j]
		if a.InStock != b.InStock {
			return a.InStock
		}
		if a.Total != b.Total {
			return a.Total < b.Total
		}
		return a.Retailer < b.Retailer
	})

	if len(result.Lines) > 0 && result.Lines[0].InStock {
		result.Lines[0].IsBest = true
		best := result.Lines[0]
		result.Best = &best
	}

	for _, line := range result.Lines {
		if line.IsRetail {
			result.RetailTotal = line.Total
			break
		}
	}

	if result.Best != nil && result.RetailTotal > 0 && result.Best.Total < result.RetailTotal {
		result.Savings = round(result.RetailTotal-result.Best.Total, 2)
		result.SavingsPct = round(result.Savings/result.RetailTotal*100, 1)
	}

	return result
}

// ApplyPrices fills set.Prices from the comparison, keyed by retailer key,
// so that list sorting by a price field works on converted totals.
func (e *Engine) ApplyPrices(set *models.Set, offers []models.PriceOffer) {
	for _, offer := range offers {
		price, ok := e.Convert(offer.Price, offer.Currency)
		if !ok {
			continue
		}
		if set.Prices == nil {
			set.Prices = make(map[string]float64)
		}
		set.Prices[strings.ToLower(offer.Retailer)] = price
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
