// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Verman94/PriceWebApp/core/pricing"
	"github.com/Verman94/PriceWebApp/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Method is the selected base-price solving strategy
	Method pricing.Method `json:"method"`

	// Currency contains exchange and customs settings
	Currency CurrencyConfig `json:"currency"`

	// Overhead contains overhead rate settings
	Overhead OverheadConfig `json:"overhead"`

	// Sales contains VAT, commission and tier rate settings
	Sales SalesConfig `json:"sales"`

	// CommonParts contains the common-parts rounding policy
	CommonParts CommonPartsConfig `json:"common_parts"`

	// DomesticRMIncreasePct inflates estimated domestic raw-material costs
	DomesticRMIncreasePct float64 `json:"domestic_rm_increase_pct"`

	// ExplosionProofModel is the model value marking explosion-proof products
	ExplosionProofModel string `json:"explosion_proof_model"`

	// ExceptionFile is an optional HCL file overriding built-in exception rules
	ExceptionFile string `json:"exception_file,omitempty"`

	// StorePath is the run-snapshot database path
	StorePath string `json:"store_path"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// CurrencyConfig contains exchange rate and customs settings
type CurrencyConfig struct {
	// EuroRates maps currency code to the value of one euro in that currency
	EuroRates map[string]float64 `json:"euro_rates"`

	// NIMARate is local currency per USD for cost conversion
	NIMARate float64 `json:"nima_rate"`

	// CustomsRate is local currency per USD used for customs duties
	CustomsRate float64 `json:"customs_rate"`

	// ExportDutyPct is the export customs duty percentage
	ExportDutyPct float64 `json:"export_duty_pct"`
}

// CustomsMultiplier is the duty scaling factor relative to the NIMA rate
func (c CurrencyConfig) CustomsMultiplier() float64 {
	if c.NIMARate == 0 {
		return 0
	}
	return c.CustomsRate / c.NIMARate
}

// OverheadConfig contains overhead rate settings
type OverheadConfig struct {
	// MOHPct is the material overhead percentage on raw-material cost
	MOHPct float64 `json:"moh_pct"`

	// LABRate is the labor overhead rate per man-hour
	LABRate float64 `json:"lab_rate"`

	// LABSU1Pct is the labor surcharge percentage on labor cost
	LABSU1Pct float64 `json:"labsu1_pct"`

	// LABSU2Pct is the labor surcharge percentage on LAB overhead
	LABSU2Pct float64 `json:"labsu2_pct"`

	// LaborRate is the flat labor cost per man-hour
	LaborRate float64 `json:"labor_rate"`
}

// SalesConfig contains VAT, commission and tier rate settings
type SalesConfig struct {
	// VATPct is the value added tax percentage
	VATPct float64 `json:"vat_pct"`

	// RepCommissionPct is the representative commission percentage
	RepCommissionPct float64 `json:"rep_commission_pct"`

	// EndUserAll is the end-user rate for general products
	EndUserAll float64 `json:"end_user_all"`

	// EndUserExplosion is the end-user rate for explosion-proof products
	EndUserExplosion float64 `json:"end_user_explosion"`

	// ElectricalAll is the electrical-shop rate for general products
	ElectricalAll float64 `json:"electrical_all"`

	// ElectricalExplosion is the electrical-shop rate for explosion-proof products
	ElectricalExplosion float64 `json:"electrical_explosion"`

	// Wholesale is the wholesale rate
	Wholesale float64 `json:"wholesale"`
}

// CommonPartsConfig contains the common-parts rounding policy
type CommonPartsConfig struct {
	// PriceThreshold splits coarse and fine rounding of common parts
	PriceThreshold float64 `json:"price_threshold"`

	// Coefficient divides finished cost before rounding
	Coefficient float64 `json:"coefficient"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	storePath := filepath.Join(homeDir, ".pricewebapp", "runs.db")

	return &Config{
		Version: "1.0",
		Method:  pricing.MethodOriginalPrice,
		Currency: CurrencyConfig{
			EuroRates: map[string]float64{
				"EUR": 1.0,
				"USD": 1.10,
				"AED": 4.054,
			},
			NIMARate:      680000,
			CustomsRate:   300000,
			ExportDutyPct: 2.5,
		},
		Overhead: OverheadConfig{
			MOHPct:    1.2,
			LABRate:   282000,
			LABSU1Pct: 27.8,
			LABSU2Pct: 22.9,
			LaborRate: 2300000,
		},
		Sales: SalesConfig{
			VATPct:              10,
			RepCommissionPct:    5,
			EndUserAll:          1.22,
			EndUserExplosion:    1.175,
			ElectricalAll:       0.895,
			ElectricalExplosion: 0.925,
			Wholesale:           0.94,
		},
		CommonParts: CommonPartsConfig{
			PriceThreshold: 900000,
			Coefficient:    0.55,
		},
		DomesticRMIncreasePct: 0,
		ExplosionProofModel:   "Explosion Proof",
		StorePath:             storePath,
		Logging:               logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
