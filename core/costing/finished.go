package costing

import (
	"go.uber.org/zap"

	"github.com/Verman94/PriceWebApp/core/exception"
	"github.com/Verman94/PriceWebApp/core/table"
	"github.com/Verman94/PriceWebApp/internal/logging"
)

// OverheadParams are the overhead and labor rate inputs of the roll-up
type OverheadParams struct {
	// MOHPct is the material overhead percentage on raw-material cost
	MOHPct float64

	// LABRate is the labor overhead rate per man-hour
	LABRate float64

	// LABSU1Pct is the labor surcharge percentage on labor cost
	LABSU1Pct float64

	// LABSU2Pct is the labor surcharge percentage on LAB overhead
	LABSU2Pct float64

	// LaborRate is the flat labor cost per man-hour
	LaborRate float64
}

// FlagNoBOM marks a product with no BOM rows at all
const FlagNoBOM = "no bom rows"

// FlagMissingAnchor marks a product whose man-hour copy anchor is unknown
const FlagMissingAnchor = "man-hour anchor not found"

// CostFinished rolls material, labor and overhead up into the per-product
// finished cost on the full list. After this stage
// FinishedCost == MaterialCost + OverheadCost + LaborCost on every row.
func CostFinished(ds *table.Dataset, p OverheadParams, rules *exception.Table) {
	log := logging.Stage("finished")

	manHours := make(map[string]table.Float, len(ds.ManHours))
	for _, mh := range ds.ManHours {
		if mh.ManHour.IsNull() {
			continue
		}
		manHours[mh.PartNo] += mh.ManHour
	}

	componentCost := make(map[string]table.Float)
	rawMaterialCost := make(map[string]table.Float)
	hasBOM := make(map[string]struct{})
	for _, line := range ds.BOM {
		hasBOM[line.TopLevelPartNo] = struct{}{}
		componentCost[line.TopLevelPartNo] += line.TotalComponentCost
		if line.TemplateID == table.TemplateRawMaterial {
			rawMaterialCost[line.TopLevelPartNo] += line.TotalComponentCost
		}
	}

	idx := table.ProductIndex(ds.FullList)

	for i := range ds.FullList {
		prod := &ds.FullList[i]
		prod.ManHour = manHours[prod.PartNo]
		if hours, ok := rules.FixedManHour(prod.PartNo); ok {
			prod.ManHour = table.Float(hours)
		}
	}

	// Copy-anchor overrides resolve after every direct man-hour is known,
	// so an anchor's own value is final when it is copied.
	for i := range ds.FullList {
		prod := &ds.FullList[i]
		anchor, ok := rules.CopyAnchor(prod.PartNo)
		if !ok {
			continue
		}
		src, found := idx[anchor]
		if !found {
			prod.Flag(FlagMissingAnchor)
			log.Warn("man-hour anchor not in product list",
				zap.String("part_no", prod.PartNo),
				zap.String("anchor", anchor))
			continue
		}
		prod.ManHour = src.ManHour
	}

	laborRate := table.Float(p.LaborRate)
	mohPct := table.Float(p.MOHPct)
	labRate := table.Float(p.LABRate)
	labsu1 := table.Float(p.LABSU1Pct)
	labsu2 := table.Float(p.LABSU2Pct)

	for i := range ds.FullList {
		prod := &ds.FullList[i]

		prod.LaborCost = prod.ManHour * laborRate

		if _, ok := hasBOM[prod.PartNo]; ok {
			prod.MaterialCost = componentCost[prod.PartNo]
			prod.RawMaterialCost = rawMaterialCost[prod.PartNo]
		} else {
			prod.MaterialCost = table.Null()
			prod.RawMaterialCost = table.Null()
			prod.Flag(FlagNoBOM)
		}

		prod.MOH = prod.RawMaterialCost * mohPct / 100
		if rules.MOHExempt(prod.PartNo) {
			prod.MOH = 0
		}

		prod.LAB = prod.ManHour*labRate +
			labsu2*labRate*prod.ManHour/100 +
			prod.LaborCost*labsu1/100

		prod.OverheadCost = prod.Depreciation + prod.Machine + prod.LAB + prod.MOH
		prod.FinishedCost = prod.MaterialCost + prod.OverheadCost + prod.LaborCost
	}
}
