// Package costing implements the cost roll-up stages of the pipeline:
// landed material costs, BOM and labor aggregation, and the per-product
// finished cost.
package costing

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Verman94/PriceWebApp/core/rounding"
	"github.com/Verman94/PriceWebApp/core/table"
	"github.com/Verman94/PriceWebApp/internal/logging"
)

// CurrencyParams are the exchange and customs inputs of material costing
type CurrencyParams struct {
	// EuroRates maps currency code to the value of one euro in that currency
	EuroRates map[string]float64

	// NIMARate is local currency per USD
	NIMARate float64

	// CustomsMultiplier scales duty bases relative to the NIMA rate
	CustomsMultiplier float64

	// ExportDutyPct is the export customs duty percentage
	ExportDutyPct float64
}

// FlagUnknownCurrency marks an imported row whose currency has no euro rate
const FlagUnknownCurrency = "unknown currency"

// FlagNullCostInput marks an imported row with a null cost, commission, or
// tariff cell
const FlagNullCostInput = "null cost input"

// CostMaterials computes aluminium profile totals and the imported-material
// landed-cost chain. Derived columns are added in place; source columns are
// never touched. An unknown currency code nulls the row's derived chain and
// flags it, it never aborts the batch.
func CostMaterials(ds *table.Dataset, p CurrencyParams) {
	log := logging.Stage("material")

	for i := range ds.Aluminium {
		al := &ds.Aluminium[i]
		var total table.Float
		for _, fee := range al.Fees {
			total += fee * al.Weight
		}
		al.Total = total
	}

	usdRate := p.EuroRates["USD"]
	for i := range ds.Imported {
		rm := &ds.Imported[i]

		rate, ok := p.EuroRates[rm.Currency]
		if !ok || rate == 0 {
			log.Warn("no euro rate for currency",
				zap.String("part_no", rm.PartNo),
				zap.String("currency", rm.Currency))
			nullImportedChain(rm)
			rm.Flags = append(rm.Flags, FlagUnknownCurrency+": "+rm.Currency)
			continue
		}

		if rm.Cost.IsNull() || rm.Commission1Pct.IsNull() || rm.Commission2Pct.IsNull() || rm.TariffPct.IsNull() {
			log.Warn("null cost input",
				zap.String("part_no", rm.PartNo))
			nullImportedChain(rm)
			rm.Flags = append(rm.Flags, FlagNullCostInput)
			continue
		}

		// The commission and duty chain is money math, computed exactly
		// and only surfaced as a table cell at the column boundary.
		euro := decimal.NewFromFloat(float64(rm.Cost)).Div(decimal.NewFromFloat(rate))
		stage1 := euro.Mul(pctFactor(rm.Commission1Pct))
		stage2 := stage1.Mul(pctFactor(rm.Commission2Pct))
		local := stage2.
			Mul(decimal.NewFromFloat(usdRate)).
			Mul(decimal.NewFromFloat(p.NIMARate))

		multiplier := decimal.NewFromFloat(p.CustomsMultiplier)
		domesticDuty := local.
			Mul(decimal.NewFromFloat(float64(rm.TariffPct))).
			Div(decimal.NewFromInt(100)).
			Mul(multiplier)
		exportDuty := local.
			Mul(decimal.NewFromFloat(p.ExportDutyPct)).
			Div(decimal.NewFromInt(100)).
			Mul(multiplier)
		domestic := local.Add(domesticDuty)

		rm.EuroCost = table.Float(euro.InexactFloat64())
		rm.Commission1Cost = table.Float(stage1.InexactFloat64())
		rm.Commission2Cost = table.Float(stage2.InexactFloat64())
		rm.LocalCost = table.Float(local.InexactFloat64())
		rm.DomesticDuty = table.Float(domesticDuty.InexactFloat64())
		rm.ExportDuty = table.Float(exportDuty.InexactFloat64())
		rm.DomesticCost = table.Float(domestic.InexactFloat64())
		rm.FinalDomesticCost = rounding.Custom(rm.DomesticCost)
	}
}

// pctFactor converts a percentage markup to a multiplication factor
func pctFactor(pct table.Float) decimal.Decimal {
	return decimal.NewFromFloat(float64(pct)).Div(decimal.NewFromInt(100)).Add(decimal.NewFromInt(1))
}

func nullImportedChain(rm *table.ImportedRawMaterial) {
	rm.EuroCost = table.Null()
	rm.Commission1Cost = table.Null()
	rm.Commission2Cost = table.Null()
	rm.LocalCost = table.Null()
	rm.DomesticDuty = table.Null()
	rm.ExportDuty = table.Null()
	rm.DomesticCost = table.Null()
	rm.FinalDomesticCost = table.Null()
}
