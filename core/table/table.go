// Package table defines the typed in-memory tables the pricing pipeline
// operates on. Every table is keyed by part number, kept as an opaque
// string to avoid precision loss on numeric-looking identifiers.
package table

// PriceListCommon tags products subject to the common-parts price policy
const PriceListCommon = "Common Parts"

// TemplateRawMaterial tags BOM lines whose component is a raw material
const TemplateRawMaterial = "RM"

// CostCenter maps a cost-center code to its description.
// The description is presentation-only and dropped after the man-hour join.
type CostCenter struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// AluminiumProfile is one aluminium profile with its per-kg base fees
type AluminiumProfile struct {
	PartNo string  `json:"part_no"`
	Fees   []Float `json:"fees"`
	Weight Float   `json:"weight"`

	// Total is the derived material cost: sum of fee x weight
	Total Float `json:"total"`
}

// ImportedRawMaterial is one imported material row with its landed-cost chain
type ImportedRawMaterial struct {
	PartNo         string `json:"part_no"`
	Cost           Float  `json:"cost"`
	Currency       string `json:"currency"`
	Commission1Pct Float  `json:"commission1_pct"`
	Commission2Pct Float  `json:"commission2_pct"`
	TariffPct      Float  `json:"tariff_pct"`

	// Derived landed-cost chain, source currency through rounded local cost
	EuroCost          Float `json:"euro_cost"`
	Commission1Cost   Float `json:"commission1_cost"`
	Commission2Cost   Float `json:"commission2_cost"`
	LocalCost         Float `json:"local_cost"`
	DomesticDuty      Float `json:"domestic_duty"`
	ExportDuty        Float `json:"export_duty"`
	DomesticCost      Float `json:"domestic_cost"`
	FinalDomesticCost Float `json:"final_domestic_cost"`

	Flags []string `json:"flags,omitempty"`
}

// CostSource records which cost table resolved a BOM line
type CostSource string

const (
	SourceAluminium    CostSource = "aluminium"
	SourceImported     CostSource = "imported"
	SourceSemiFinished CostSource = "semifinished"
	SourceEstimated    CostSource = "estimated"
	SourceNone         CostSource = "none"
)

// BOMLine is one bill-of-materials row: a component of a top-level part
type BOMLine struct {
	TopLevelPartNo    string `json:"top_level_part_no"`
	PartNo            string `json:"part_no"`
	CumQtyPerAssembly Float  `json:"cum_qty_per_assembly"`
	TemplateID        string `json:"template_id"`
	EstimatedMtrCost  Float  `json:"estimated_mtr_cost"`

	MaterialCost       Float      `json:"material_cost"`
	TotalComponentCost Float      `json:"total_component_cost"`
	CostSource         CostSource `json:"cost_source,omitempty"`
}

// ManHourLine is one routing row for a part at a cost center
type ManHourLine struct {
	CostCenter string `json:"cost_center"`
	PartNo     string `json:"part_no"`
	RunFactor  Float  `json:"run_factor"`
	SetupTime  Float  `json:"setup_time"`
	StdLotSize Float  `json:"std_lot_size"`
	Qty        Float  `json:"qty"`
	CrewSize   Float  `json:"crew_size"`

	ManHour Float    `json:"man_hour"`
	Flags   []string `json:"flags,omitempty"`
}

// ShemshPart is a semi-finished part with its estimated material cost
type ShemshPart struct {
	PartNo     string `json:"part_no"`
	EstMtrCost Float  `json:"est_mtr_cost"`
}

// CompareRule pairs two substitutable components under a super component.
// Price deltas between the pair propagate one hop through the super component.
type CompareRule struct {
	Part1          string `json:"part1"`
	Part2          string `json:"part2"`
	SuperComponent string `json:"super_component"`

	Diff      Float `json:"diff"`
	SuperDiff Float `json:"super_diff"`
	Net       Float `json:"net"`
}

// Product is one sellable or manufactured part with every cost and price
// column the pipeline derives. The short list uses the same row type with
// SuperBasePart and OriginalPrice populated.
type Product struct {
	PartNo        string `json:"part_no"`
	Description   string `json:"description"`
	PriceListType string `json:"price_list_type"`
	Model         string `json:"model"`
	BasePart      string `json:"base_part,omitempty"`
	SuperBasePart string `json:"super_base_part,omitempty"`

	// Prior-period and operator-editable inputs
	Depreciation            Float `json:"depreciation"`
	Machine                 Float `json:"machine"`
	OldBasePrice            Float `json:"old_base_price"`
	OldFinishedCostWithComp Float `json:"old_finished_cost_with_comp"`
	OriginalPrice           Float `json:"original_price"`
	NewGross                Float `json:"new_gross"`
	BasePriceChangePct      Float `json:"base_price_change_pct"`

	// Derived costs
	ManHour         Float `json:"man_hour"`
	LaborCost       Float `json:"labor_cost"`
	MaterialCost    Float `json:"material_cost"`
	RawMaterialCost Float `json:"raw_material_cost"`
	MOH             Float `json:"moh"`
	LAB             Float `json:"lab"`
	OverheadCost    Float `json:"overhead_cost"`
	FinishedCost    Float `json:"finished_cost"`

	// Derived prices
	OldGross        Float `json:"old_gross"`
	Coefficient     Float `json:"coefficient"`
	RoughPrice      Float `json:"rough_price"`
	BasePrice       Float `json:"base_price"`
	EndUserPrice    Float `json:"end_user_price"`
	ElectricalPrice Float `json:"electrical_price"`
	WholesalePrice  Float `json:"wholesale_price"`

	Flags []string `json:"flags,omitempty"`
}

// Flag records a data-quality condition on the row, once
func (p *Product) Flag(flag string) {
	for _, f := range p.Flags {
		if f == flag {
			return
		}
	}
	p.Flags = append(p.Flags, flag)
}

// IsCommonPart reports whether the product is in the common-parts list
func (p *Product) IsCommonPart() bool {
	return p.PriceListType == PriceListCommon
}
