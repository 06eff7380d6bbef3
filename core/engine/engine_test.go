package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Verman94/PriceWebApp/core/pricing"
	"github.com/Verman94/PriceWebApp/core/table"
	"github.com/Verman94/PriceWebApp/internal/config"
	"github.com/Verman94/PriceWebApp/internal/errors"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Method = pricing.MethodNewGross
	return cfg
}

// testDataset builds a minimal but fully-joined snapshot: one product with
// one imported component and one routing row.
func testDataset() *table.Dataset {
	return &table.Dataset{
		CostCenters: []table.CostCenter{{Code: "CC1", Description: "Assembly"}},
		Aluminium:   []table.AluminiumProfile{{PartNo: "AL1", Fees: []table.Float{100}, Weight: 2}},
		Imported: []table.ImportedRawMaterial{{
			PartNo: "RM1", Cost: 100, Currency: "USD", Commission1Pct: 5, Commission2Pct: 3, TariffPct: 10,
		}},
		ManHours: []table.ManHourLine{{
			CostCenter: "CC1", PartNo: "P1", RunFactor: 2, SetupTime: 10, StdLotSize: 100, Qty: 1, CrewSize: 2,
		}},
		BOM: []table.BOMLine{
			{TopLevelPartNo: "P1", PartNo: "RM1", CumQtyPerAssembly: 1, TemplateID: "RM"},
			{TopLevelPartNo: "P1", PartNo: "AL1", CumQtyPerAssembly: 2},
		},
		Shemsh: []table.ShemshPart{{PartNo: "SH1", EstMtrCost: 700}},
		ShortList: []table.Product{{
			PartNo: "P1", SuperBasePart: "P1", NewGross: 30,
		}},
		FullList: []table.Product{{
			PartNo: "P1", OldBasePrice: 120000000, OldFinishedCostWithComp: 70000000,
		}},
		Compare: []table.CompareRule{{Part1: "P1", Part2: "P1", SuperComponent: "NONE"}},
	}
}

// TestRunEndToEnd tests one full pipeline pass over a joined snapshot
func TestRunEndToEnd(t *testing.T) {
	ds := testDataset()
	result, err := Run(ds, testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if result.Method != pricing.MethodNewGross {
		t.Errorf("Method = %v, want %v", result.Method, pricing.MethodNewGross)
	}
	if result.InputHash == "" {
		t.Error("InputHash is empty")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none for a fully-populated snapshot", result.Warnings)
	}

	p := &result.Dataset.FullList[0]
	if p.FinishedCost.IsNull() || p.FinishedCost <= 0 {
		t.Errorf("FinishedCost = %v, want a positive cost", p.FinishedCost)
	}
	for name, v := range map[string]table.Float{
		"BasePrice":       p.BasePrice,
		"EndUserPrice":    p.EndUserPrice,
		"ElectricalPrice": p.ElectricalPrice,
		"WholesalePrice":  p.WholesalePrice,
	} {
		if v.IsNull() || v <= 0 {
			t.Errorf("%s = %v, want a positive price", name, v)
		}
	}
	if p.EndUserPrice <= p.BasePrice {
		t.Errorf("EndUserPrice %v should exceed BasePrice %v", p.EndUserPrice, p.BasePrice)
	}

	s := &result.Dataset.ShortList[0]
	for name, v := range map[string]table.Float{
		"EndUserPrice":    s.EndUserPrice,
		"ElectricalPrice": s.ElectricalPrice,
		"WholesalePrice":  s.WholesalePrice,
	} {
		if v.IsNull() || v <= 0 {
			t.Errorf("short list %s = %v, want a positive price", name, v)
		}
	}
}

// TestRunLeavesInputUntouched tests the clone-before-compute guarantee
func TestRunLeavesInputUntouched(t *testing.T) {
	ds := testDataset()
	before, err := json.Marshal(ds)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Run(ds, testConfig(), nil); err != nil {
		t.Fatal(err)
	}

	after, err := json.Marshal(ds)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("input dataset was mutated by the run")
	}
}

// TestRunDeterminism tests that identical inputs reproduce identical output
func TestRunDeterminism(t *testing.T) {
	first, err := Run(testDataset(), testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Run(testDataset(), testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if first.InputHash != second.InputHash {
		t.Errorf("input hashes differ: %s vs %s", first.InputHash, second.InputHash)
	}
	a, _ := json.Marshal(first.Dataset)
	b, _ := json.Marshal(second.Dataset)
	if string(a) != string(b) {
		t.Error("identical inputs produced different priced tables")
	}
}

// TestRunValidation tests the fail-fast configuration guards
func TestRunValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown method", func(c *config.Config) { c.Method = "Vibes" }},
		{"zero NIMA rate", func(c *config.Config) { c.Currency.NIMARate = 0 }},
		{"missing USD rate", func(c *config.Config) { delete(c.Currency.EuroRates, "USD") }},
		{"zero USD rate", func(c *config.Config) { c.Currency.EuroRates["USD"] = 0 }},
		{"zero common-parts coefficient", func(c *config.Config) { c.CommonParts.Coefficient = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			_, err := Run(testDataset(), cfg, nil)
			if err == nil {
				t.Fatal("expected a config error")
			}
			if !errors.IsType(err, errors.TypeConfig) {
				t.Errorf("error type = %v, want config", err)
			}
		})
	}
}

// TestRunMissingTableWarnings tests that empty tables warn, not abort
func TestRunMissingTableWarnings(t *testing.T) {
	ds := testDataset()
	ds.Shemsh = nil
	ds.Compare = nil

	result, err := Run(ds, testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("Warnings = %v, want two", result.Warnings)
	}
	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "Shemsh") || !strings.Contains(joined, "CompareRules") {
		t.Errorf("Warnings = %v, want Shemsh and CompareRules named", result.Warnings)
	}
}
