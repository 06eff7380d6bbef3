// Package engine orchestrates one pricing pipeline run. The run is atomic
// from the caller's perspective: the input dataset is cloned before any
// stage executes, so the caller's tables are untouched when a stage aborts,
// and re-running with identical inputs produces bit-identical output.
package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Verman94/PriceWebApp/core/costing"
	"github.com/Verman94/PriceWebApp/core/exception"
	"github.com/Verman94/PriceWebApp/core/pricing"
	"github.com/Verman94/PriceWebApp/core/table"
	"github.com/Verman94/PriceWebApp/internal/config"
	"github.com/Verman94/PriceWebApp/internal/errors"
	"github.com/Verman94/PriceWebApp/internal/logging"
)

// Result is the output of one pipeline run
type Result struct {
	// Dataset holds every table with derived columns populated
	Dataset *table.Dataset `json:"dataset"`

	// Warnings lists per-table data-quality conditions of this run
	Warnings []string `json:"warnings,omitempty"`

	// InputHash is a deterministic hash of the input dataset and config
	InputHash string `json:"input_hash"`

	// Method is the strategy the run was solved with
	Method pricing.Method `json:"method"`

	// Duration is the wall-clock run time
	Duration time.Duration `json:"duration"`
}

// Run executes the full pricing pipeline on one dataset snapshot.
//
// Stage order follows the data dependencies: material costing, BOM and
// labor aggregation, finished cost, base-price solving (with compare
// adjustments), then the three price tiers for both product lists.
func Run(ds *table.Dataset, cfg *config.Config, rules *exception.Table) (*Result, error) {
	start := time.Now()
	log := logging.Stage("engine")

	if err := validate(cfg); err != nil {
		return nil, err
	}
	if rules == nil {
		rules = exception.Defaults()
	}

	inputHash, err := hashInputs(ds, cfg)
	if err != nil {
		return nil, errors.Internal("hash inputs", err)
	}

	warnings := missingTableWarnings(ds)
	for _, w := range warnings {
		log.Warn(w)
	}

	out := ds.Clone()

	costing.CostMaterials(out, costing.CurrencyParams{
		EuroRates:         cfg.Currency.EuroRates,
		NIMARate:          cfg.Currency.NIMARate,
		CustomsMultiplier: cfg.Currency.CustomsMultiplier(),
		ExportDutyPct:     cfg.Currency.ExportDutyPct,
	})
	costing.CostBOM(out, cfg.DomesticRMIncreasePct)
	costing.CostFinished(out, costing.OverheadParams{
		MOHPct:    cfg.Overhead.MOHPct,
		LABRate:   cfg.Overhead.LABRate,
		LABSU1Pct: cfg.Overhead.LABSU1Pct,
		LABSU2Pct: cfg.Overhead.LABSU2Pct,
		LaborRate: cfg.Overhead.LaborRate,
	}, rules)

	solve := pricing.SolveParams{
		RepCommissionPct:    cfg.Sales.RepCommissionPct,
		VATPct:              cfg.Sales.VATPct,
		CommonPartThreshold: cfg.CommonParts.PriceThreshold,
		CommonPartCoeff:     cfg.CommonParts.Coefficient,
	}
	if err := pricing.SolveBasePrices(out, cfg.Method, solve); err != nil {
		return nil, err
	}

	rates := pricing.TierRates{
		EndUserAll:          table.Float(cfg.Sales.EndUserAll),
		EndUserExplosion:    table.Float(cfg.Sales.EndUserExplosion),
		ElectricalAll:       table.Float(cfg.Sales.ElectricalAll),
		ElectricalExplosion: table.Float(cfg.Sales.ElectricalExplosion),
		Wholesale:           table.Float(cfg.Sales.Wholesale),
	}
	tierOrder := []table.PriceField{table.FieldEndUser, table.FieldElectrical, table.FieldWholesale}
	for _, list := range [][]table.Product{out.FullList, out.ShortList} {
		for _, field := range tierOrder {
			if err := pricing.CalcTierPrice(out.Compare, list, field, rates, cfg.ExplosionProofModel); err != nil {
				return nil, err
			}
		}
	}

	result := &Result{
		Dataset:   out,
		Warnings:  warnings,
		InputHash: inputHash,
		Method:    cfg.Method,
		Duration:  time.Since(start),
	}
	log.Info("pipeline run complete",
		zap.String("method", string(cfg.Method)),
		zap.Int("products", len(out.FullList)),
		zap.Int("short_list", len(out.ShortList)),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// validate rejects configurations no stage can run with. Anything caught
// here aborts before the dataset is cloned; no partial output exists.
func validate(cfg *config.Config) error {
	if !cfg.Method.Valid() {
		return errors.Config("unknown pricing method: " + string(cfg.Method))
	}
	if cfg.Currency.NIMARate == 0 {
		return errors.Config("NIMA rate must be non-zero")
	}
	if rate, ok := cfg.Currency.EuroRates["USD"]; !ok || rate == 0 {
		return errors.Config("euro rate table must carry a non-zero USD rate")
	}
	if cfg.CommonParts.Coefficient == 0 {
		return errors.Config("common-parts coefficient must be non-zero")
	}
	return nil
}

// missingTableWarnings reports each absent input table. An absent table is
// treated as empty downstream; joins against it resolve to nulls.
func missingTableWarnings(ds *table.Dataset) []string {
	var warnings []string
	checks := []struct {
		name  string
		empty bool
	}{
		{"CostCenters", len(ds.CostCenters) == 0},
		{"AluminiumProfile", len(ds.Aluminium) == 0},
		{"ImportedRawMaterial", len(ds.Imported) == 0},
		{"ManHour", len(ds.ManHours) == 0},
		{"BOM", len(ds.BOM) == 0},
		{"Shemsh", len(ds.Shemsh) == 0},
		{"DomesticShortList", len(ds.ShortList) == 0},
		{"DomesticFullList", len(ds.FullList) == 0},
		{"CompareRules", len(ds.Compare) == 0},
	}
	for _, c := range checks {
		if c.empty {
			warnings = append(warnings, "input table missing or empty: "+c.name)
		}
	}
	return warnings
}

// hashInputs produces a deterministic hash of the run inputs, recorded so
// identical re-runs are recognizable in stored snapshots.
func hashInputs(ds *table.Dataset, cfg *config.Config) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	if err := enc.Encode(ds); err != nil {
		return "", err
	}
	if err := enc.Encode(cfg); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
