package pricing

import (
	"math"

	"go.uber.org/zap"

	"github.com/Verman94/PriceWebApp/core/rounding"
	"github.com/Verman94/PriceWebApp/core/table"
	"github.com/Verman94/PriceWebApp/internal/errors"
	"github.com/Verman94/PriceWebApp/internal/logging"
)

// SolveParams are the scalar inputs of the base-price solver
type SolveParams struct {
	// RepCommissionPct is the representative commission percentage
	RepCommissionPct float64

	// VATPct is the value added tax percentage
	VATPct float64

	// CommonPartThreshold splits coarse and fine common-parts rounding
	CommonPartThreshold float64

	// CommonPartCoeff divides finished cost for common-parts pricing
	CommonPartCoeff float64
}

// Row flags recorded by the solver
const (
	// FlagNotInFullList marks a short-list part absent from the full list
	FlagNotInFullList = "not in full list"

	// FlagZeroAnchor marks a row whose anchor price makes the coefficient
	// indeterminate
	FlagZeroAnchor = "zero or missing anchor price"

	// FlagZeroOldPrice marks a row whose prior price makes gross or change
	// percentages indeterminate
	FlagZeroOldPrice = "zero old base price"

	// FlagUnsolvable marks a row whose margin target cannot produce a price
	FlagUnsolvable = "unsolvable margin target"
)

// SolveBasePrices derives the new VAT-inclusive base price for every
// short-list product with the selected method, propagates the result to
// the full catalog, applies the common-parts rounding override and the
// compare adjustments, and recomputes the gross and change columns.
//
// An unrecognized method is a configuration error: the dataset is left
// untouched and no partial output is produced.
func SolveBasePrices(ds *table.Dataset, method Method, p SolveParams) error {
	if !method.Valid() {
		return errors.Config("unknown pricing method: " + string(method))
	}
	log := logging.Stage("baseprice")

	fullIdx := table.ProductIndex(ds.FullList)
	shortIdx := table.ProductIndex(ds.ShortList)

	for i := range ds.ShortList {
		s := &ds.ShortList[i]
		if m, ok := fullIdx[s.PartNo]; ok {
			s.FinishedCost = m.FinishedCost
			s.OldBasePrice = m.OldBasePrice
			s.OldFinishedCostWithComp = m.OldFinishedCostWithComp
		} else {
			s.Flag(FlagNotInFullList)
			log.Warn("short-list part missing from full list", zap.String("part_no", s.PartNo))
		}
		s.OldGross = grossOfOldPrice(s.OldBasePrice, s.OldFinishedCostWithComp, p)
		if s.OldGross.IsNull() {
			s.Flag(FlagZeroOldPrice)
		}
	}

	// Coefficient expresses a row's prior price as a fraction of its
	// anchor's prior price. A zero or missing anchor is indeterminate for
	// that row only, never fatal for the batch.
	for i := range ds.ShortList {
		s := &ds.ShortList[i]
		anchor, ok := shortIdx[s.SuperBasePart]
		if !ok || anchor.OldBasePrice == 0 {
			s.Coefficient = table.Null()
			s.Flag(FlagZeroAnchor)
			continue
		}
		s.Coefficient = s.OldBasePrice / anchor.OldBasePrice * 100
	}

	for i := range ds.ShortList {
		s := &ds.ShortList[i]
		switch method {
		case MethodOriginalPrice:
			anchorOriginal := table.Null()
			if anchor, ok := shortIdx[s.SuperBasePart]; ok {
				anchorOriginal = anchor.OriginalPrice
			}
			s.RoughPrice = anchorOriginal * s.Coefficient / 100
			s.NewGross = grossOfNewPrice(s.RoughPrice, s.FinishedCost, p)
			s.BasePrice = solvePriceFromGross(s.FinishedCost, s.NewGross, p)
			s.BasePriceChangePct = changePct(s.BasePrice, s.OldBasePrice)

		case MethodNewGross:
			// NewGross is the operator-supplied target margin on this row
			s.BasePrice = solvePriceFromGross(s.FinishedCost, s.NewGross, p)
			s.BasePriceChangePct = changePct(s.BasePrice, s.OldBasePrice)

		case MethodPriceDiff:
			// BasePriceChangePct is the operator-supplied change on this row
			s.BasePrice = rounding.CeilTo(s.OldBasePrice*(1+s.BasePriceChangePct/100), 10000)
			s.NewGross = grossOfNewPrice(s.BasePrice, s.FinishedCost, p)
			if s.Coefficient == 100 {
				s.OriginalPrice = s.BasePrice / (s.Coefficient / 100)
			}
		}

		if s.BasePrice.IsNull() {
			s.Flag(FlagUnsolvable)
		}
		if s.BasePriceChangePct.IsNull() && method != MethodPriceDiff {
			s.Flag(FlagZeroOldPrice)
		}
	}

	// Propagation: a product prices as itself when short-listed, else as
	// its designated base part, else zero.
	for i := range ds.FullList {
		prod := &ds.FullList[i]
		if s, ok := shortIdx[prod.PartNo]; ok {
			prod.BasePrice = s.BasePrice
		} else if s, ok := shortIdx[prod.BasePart]; ok {
			prod.BasePrice = s.BasePrice
		} else {
			prod.BasePrice = 0
		}

		if prod.IsCommonPart() {
			scaled := prod.FinishedCost / table.Float(p.CommonPartCoeff)
			switch {
			case prod.FinishedCost > table.Float(p.CommonPartThreshold):
				prod.BasePrice = rounding.CeilTo(scaled, 100000)
			case prod.FinishedCost < table.Float(p.CommonPartThreshold):
				prod.BasePrice = rounding.CeilTo(scaled, 5000)
			}
		}

		// Integer currency units
		prod.BasePrice = table.Float(math.Trunc(float64(prod.BasePrice)))
	}

	Adjust(ds.Compare, ds.FullList, table.FieldBasePrice)

	for i := range ds.FullList {
		prod := &ds.FullList[i]
		prod.OldGross = grossOfOldPrice(prod.OldBasePrice, prod.OldFinishedCostWithComp, p)
		prod.NewGross = grossOfNewPrice(prod.BasePrice, prod.FinishedCost, p)
		prod.BasePriceChangePct = changePct(prod.BasePrice, prod.OldBasePrice)
		if prod.OldGross.IsNull() || prod.BasePriceChangePct.IsNull() {
			prod.Flag(FlagZeroOldPrice)
		}
	}

	return nil
}

// grossOfOldPrice is the prior-period margin, taken on the
// commission-net, VAT-exclusive revenue.
func grossOfOldPrice(price, cost table.Float, p SolveParams) table.Float {
	net := table.Float(1-p.RepCommissionPct/100) * price / table.Float(1+p.VATPct/100)
	if net == 0 {
		return table.Null()
	}
	return (net - cost) / net * 100
}

// grossOfNewPrice is the solved margin of a candidate price, taken on the
// VAT-exclusive revenue before commission.
func grossOfNewPrice(price, cost table.Float, p SolveParams) table.Float {
	noVAT := price / table.Float(1+p.VATPct/100)
	if noVAT == 0 {
		return table.Null()
	}
	return (table.Float(1-p.RepCommissionPct/100)*noVAT - cost) / noVAT * 100
}

// solvePriceFromGross inverts the margin formula into a VAT-inclusive
// price, rounded up to the nearest 10000.
func solvePriceFromGross(finishedCost, gross table.Float, p SolveParams) table.Float {
	denom := (table.Float(100-p.RepCommissionPct) - gross) / 100
	if denom == 0 {
		return table.Null()
	}
	return rounding.CeilTo(finishedCost*table.Float(1+p.VATPct/100)/denom, 10000)
}

func changePct(newPrice, oldPrice table.Float) table.Float {
	if oldPrice == 0 {
		return table.Null()
	}
	return (newPrice - oldPrice) / oldPrice * 100
}
