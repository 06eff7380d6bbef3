package pricing

import (
	"testing"

	"github.com/Verman94/PriceWebApp/core/table"
	"github.com/Verman94/PriceWebApp/internal/errors"
)

func testSolveParams() SolveParams {
	return SolveParams{
		RepCommissionPct:    5,
		VATPct:              10,
		CommonPartThreshold: 900000,
		CommonPartCoeff:     0.55,
	}
}

// TestSolveBasePricesUnknownMethod tests that a bad method aborts untouched
func TestSolveBasePricesUnknownMethod(t *testing.T) {
	ds := &table.Dataset{
		ShortList: []table.Product{{PartNo: "P1", OldBasePrice: 100}},
	}
	err := SolveBasePrices(ds, Method("Guesswork"), testSolveParams())
	if err == nil {
		t.Fatal("expected an error for an unknown method")
	}
	if !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("error type = %v, want config", err)
	}
	if !ds.ShortList[0].BasePrice.IsNull() && ds.ShortList[0].BasePrice != 0 {
		t.Errorf("dataset was touched: BasePrice = %v", ds.ShortList[0].BasePrice)
	}
}

// TestSolveNewGross tests the margin-target method end to end
func TestSolveNewGross(t *testing.T) {
	ds := &table.Dataset{
		FullList: []table.Product{{
			PartNo:                  "P1",
			OldBasePrice:            1600000,
			OldFinishedCostWithComp: 900000,
			FinishedCost:            1000000,
		}},
		ShortList: []table.Product{{
			PartNo:        "P1",
			SuperBasePart: "P1",
			NewGross:      30,
		}},
	}
	if err := SolveBasePrices(ds, MethodNewGross, testSolveParams()); err != nil {
		t.Fatal(err)
	}

	s := &ds.ShortList[0]
	// 1000000 * 1.10 / ((100 - 5 - 30)/100) = 1692307.69, up to 1700000
	if got := s.BasePrice; !nearlyEqual(got, 1700000) {
		t.Errorf("BasePrice = %v, want 1700000", got)
	}
	if got := s.BasePriceChangePct; !nearlyEqual(got, 6.25) {
		t.Errorf("BasePriceChangePct = %v, want 6.25", got)
	}
	if got := s.FinishedCost; !nearlyEqual(got, 1000000) {
		t.Errorf("short-list FinishedCost = %v, want the full list's 1000000", got)
	}

	full := &ds.FullList[0]
	if got := full.BasePrice; !nearlyEqual(got, 1700000) {
		t.Errorf("full-list BasePrice = %v, want 1700000", got)
	}
}

// TestSolvePriceDiff tests the change-percentage method
func TestSolvePriceDiff(t *testing.T) {
	ds := &table.Dataset{
		FullList: []table.Product{{
			PartNo:       "P1",
			OldBasePrice: 1000000,
			FinishedCost: 600000,
		}},
		ShortList: []table.Product{{
			PartNo:             "P1",
			SuperBasePart:      "P1",
			BasePriceChangePct: 10,
		}},
	}
	if err := SolveBasePrices(ds, MethodPriceDiff, testSolveParams()); err != nil {
		t.Fatal(err)
	}

	s := &ds.ShortList[0]
	if got := s.BasePrice; !nearlyEqual(got, 1100000) {
		t.Errorf("BasePrice = %v, want 1100000", got)
	}
	// noVAT = 1000000; (0.95*1000000 - 600000) / 1000000 * 100
	if got := s.NewGross; !nearlyEqual(got, 35) {
		t.Errorf("NewGross = %v, want 35", got)
	}
	// The row anchors to itself, so the original price back-fills
	if got := s.OriginalPrice; !nearlyEqual(got, 1100000) {
		t.Errorf("OriginalPrice = %v, want 1100000", got)
	}
}

// TestSolveOriginalPrice tests the anchor-scaled method
func TestSolveOriginalPrice(t *testing.T) {
	ds := &table.Dataset{
		FullList: []table.Product{
			{PartNo: "A", OldBasePrice: 2000000, FinishedCost: 1200000},
			{PartNo: "S", OldBasePrice: 1000000, FinishedCost: 650000},
		},
		ShortList: []table.Product{
			{PartNo: "A", SuperBasePart: "A", OriginalPrice: 2200000},
			{PartNo: "S", SuperBasePart: "A"},
		},
	}
	if err := SolveBasePrices(ds, MethodOriginalPrice, testSolveParams()); err != nil {
		t.Fatal(err)
	}

	idx := table.ProductIndex(ds.ShortList)
	s := idx["S"]
	if got := s.Coefficient; !nearlyEqual(got, 50) {
		t.Errorf("Coefficient = %v, want 50", got)
	}
	if got := s.RoughPrice; !nearlyEqual(got, 1100000) {
		t.Errorf("RoughPrice = %v, want half the anchor's original", got)
	}
	// noVAT = 1000000; gross = (950000 - 650000)/1000000*100 = 30;
	// solving back lands on the rough price
	if got := s.NewGross; !nearlyEqual(got, 30) {
		t.Errorf("NewGross = %v, want 30", got)
	}
	if got := s.BasePrice; !nearlyEqual(got, 1100000) {
		t.Errorf("BasePrice = %v, want 1100000", got)
	}
}

// TestSolveFlagsAndPropagation tests row flags and full-catalog propagation
func TestSolveFlagsAndPropagation(t *testing.T) {
	ds := &table.Dataset{
		FullList: []table.Product{
			{PartNo: "P1", OldBasePrice: 1000000, FinishedCost: 600000},
			{PartNo: "D1", BasePart: "P1"},
			{PartNo: "D2", BasePart: "UNPRICED"},
		},
		ShortList: []table.Product{
			{PartNo: "P1", SuperBasePart: "P1", BasePriceChangePct: 10},
			{PartNo: "GHOST", SuperBasePart: "NOBODY"},
		},
	}
	if err := SolveBasePrices(ds, MethodPriceDiff, testSolveParams()); err != nil {
		t.Fatal(err)
	}

	short := table.ProductIndex(ds.ShortList)
	ghost := short["GHOST"]
	if !hasFlag(ghost, FlagNotInFullList) {
		t.Errorf("GHOST flags = %v, want %q", ghost.Flags, FlagNotInFullList)
	}
	if !hasFlag(ghost, FlagZeroAnchor) {
		t.Errorf("GHOST flags = %v, want %q", ghost.Flags, FlagZeroAnchor)
	}
	if !ghost.Coefficient.IsNull() {
		t.Errorf("GHOST coefficient = %v, want null", ghost.Coefficient)
	}

	full := table.ProductIndex(ds.FullList)
	if got := full["D1"].BasePrice; !nearlyEqual(got, 1100000) {
		t.Errorf("D1 price = %v, want its base part's 1100000", got)
	}
	if got := full["D2"].BasePrice; got != 0 {
		t.Errorf("D2 price = %v, want 0 with no priced base part", got)
	}
}

// TestSolveCommonParts tests the cost-derived override on common parts
func TestSolveCommonParts(t *testing.T) {
	tests := []struct {
		name     string
		cost     table.Float
		expected table.Float
	}{
		// 1100000 / 0.55 = 2000000, above the threshold: step 100000
		{"above threshold", 1100000, 2000000},
		// 550000 / 0.55 = 1000000, below the threshold: step 5000
		{"below threshold", 550000, 1000000},
		{"coarse step rounds up", 1100001, 2100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := &table.Dataset{
				FullList: []table.Product{{
					PartNo:        "C1",
					PriceListType: table.PriceListCommon,
					FinishedCost:  tt.cost,
				}},
			}
			if err := SolveBasePrices(ds, MethodNewGross, testSolveParams()); err != nil {
				t.Fatal(err)
			}
			if got := ds.FullList[0].BasePrice; !nearlyEqual(got, tt.expected) {
				t.Errorf("common-part price = %v, want %v", got, tt.expected)
			}
		})
	}
}

func hasFlag(p *table.Product, flag string) bool {
	for _, f := range p.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
