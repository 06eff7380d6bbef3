package costing

import (
	"go.uber.org/zap"

	"github.com/Verman94/PriceWebApp/core/table"
	"github.com/Verman94/PriceWebApp/internal/logging"
)

// FlagUnknownCostCenter marks a routing row with no matching cost center
const FlagUnknownCostCenter = "unknown cost center"

// FlagIndeterminateManHour marks a routing row whose formula inputs are zero
const FlagIndeterminateManHour = "indeterminate man-hour"

// CostBOM resolves every BOM line's material cost from the three cost
// sources and computes per-row man-hours from the routing table.
//
// A line's material cost is the sum of whichever of aluminium total,
// imported final domestic cost and semi-finished estimate match its part
// number. When none match, the line falls back to its own estimated cost
// inflated by the domestic raw-material increase; a line with neither is a
// data-quality warning, not an error.
func CostBOM(ds *table.Dataset, domesticRMIncreasePct float64) {
	log := logging.Stage("bom")

	aluminium := make(map[string]table.Float, len(ds.Aluminium))
	for _, al := range ds.Aluminium {
		aluminium[al.PartNo] = al.Total
	}
	imported := make(map[string]table.Float, len(ds.Imported))
	for _, rm := range ds.Imported {
		imported[rm.PartNo] = rm.FinalDomesticCost
	}
	shemsh := make(map[string]table.Float, len(ds.Shemsh))
	for _, sh := range ds.Shemsh {
		shemsh[sh.PartNo] = sh.EstMtrCost
	}

	inflation := table.Float(1 + domesticRMIncreasePct/100)
	for i := range ds.BOM {
		line := &ds.BOM[i]

		var cost table.Float
		source := table.SourceNone
		if v, ok := aluminium[line.PartNo]; ok && !v.IsNull() {
			cost += v
			source = table.SourceAluminium
		}
		if v, ok := imported[line.PartNo]; ok && !v.IsNull() {
			cost += v
			source = table.SourceImported
		}
		if v, ok := shemsh[line.PartNo]; ok && !v.IsNull() {
			cost += v
			source = table.SourceSemiFinished
		}

		if cost == 0 {
			cost = line.EstimatedMtrCost * inflation
			source = table.SourceEstimated
			if cost == 0 {
				source = table.SourceNone
				log.Warn("component has no cost source and no estimate",
					zap.String("part_no", line.PartNo),
					zap.String("top_level", line.TopLevelPartNo))
			}
		}

		line.MaterialCost = cost
		line.CostSource = source
		line.TotalComponentCost = cost * line.CumQtyPerAssembly
	}

	centers := make(map[string]struct{}, len(ds.CostCenters))
	for _, cc := range ds.CostCenters {
		centers[cc.Code] = struct{}{}
	}

	for i := range ds.ManHours {
		mh := &ds.ManHours[i]

		if _, ok := centers[mh.CostCenter]; !ok {
			mh.Flags = append(mh.Flags, FlagUnknownCostCenter+": "+mh.CostCenter)
		}

		if mh.RunFactor == 0 || mh.StdLotSize == 0 {
			mh.ManHour = table.Null()
			mh.Flags = append(mh.Flags, FlagIndeterminateManHour)
			log.Warn("man-hour inputs are zero",
				zap.String("part_no", mh.PartNo),
				zap.String("cost_center", mh.CostCenter))
			continue
		}

		mh.ManHour = (1/mh.RunFactor + mh.SetupTime/mh.StdLotSize) * mh.Qty * mh.CrewSize
	}
}
