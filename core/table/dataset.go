package table

// Dataset is one uploaded snapshot of every input table. A pipeline run
// clones the dataset first, so the caller's tables are untouched when a
// stage aborts.
type Dataset struct {
	CostCenters []CostCenter          `json:"cost_centers"`
	Aluminium   []AluminiumProfile    `json:"aluminium"`
	Imported    []ImportedRawMaterial `json:"imported"`
	ManHours    []ManHourLine         `json:"man_hours"`
	BOM         []BOMLine             `json:"bom"`
	Shemsh      []ShemshPart          `json:"shemsh"`
	ShortList   []Product             `json:"short_list"`
	FullList    []Product             `json:"full_list"`
	Compare     []CompareRule         `json:"compare"`
}

// Clone returns a deep copy of the dataset
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		CostCenters: append([]CostCenter(nil), d.CostCenters...),
		Imported:    append([]ImportedRawMaterial(nil), d.Imported...),
		ManHours:    append([]ManHourLine(nil), d.ManHours...),
		BOM:         append([]BOMLine(nil), d.BOM...),
		Shemsh:      append([]ShemshPart(nil), d.Shemsh...),
		ShortList:   append([]Product(nil), d.ShortList...),
		FullList:    append([]Product(nil), d.FullList...),
		Compare:     append([]CompareRule(nil), d.Compare...),
	}
	out.Aluminium = make([]AluminiumProfile, len(d.Aluminium))
	for i, a := range d.Aluminium {
		a.Fees = append([]Float(nil), a.Fees...)
		out.Aluminium[i] = a
	}
	for i := range out.Imported {
		out.Imported[i].Flags = append([]string(nil), d.Imported[i].Flags...)
	}
	for i := range out.ManHours {
		out.ManHours[i].Flags = append([]string(nil), d.ManHours[i].Flags...)
	}
	for i := range out.ShortList {
		out.ShortList[i].Flags = append([]string(nil), d.ShortList[i].Flags...)
	}
	for i := range out.FullList {
		out.FullList[i].Flags = append([]string(nil), d.FullList[i].Flags...)
	}
	return out
}

// ProductIndex maps part number to row pointer for a product list
func ProductIndex(products []Product) map[string]*Product {
	idx := make(map[string]*Product, len(products))
	for i := range products {
		idx[products[i].PartNo] = &products[i]
	}
	return idx
}

// PriceField names a price column on Product that the adjustment engine
// and the tier calculator operate on by field.
type PriceField string

const (
	FieldBasePrice  PriceField = "base_price"
	FieldEndUser    PriceField = "end_user_price"
	FieldElectrical PriceField = "electrical_price"
	FieldWholesale  PriceField = "wholesale_price"
)

// Get reads the named price column
func (f PriceField) Get(p *Product) Float {
	switch f {
	case FieldBasePrice:
		return p.BasePrice
	case FieldEndUser:
		return p.EndUserPrice
	case FieldElectrical:
		return p.ElectricalPrice
	case FieldWholesale:
		return p.WholesalePrice
	}
	return Null()
}

// Set writes the named price column
func (f PriceField) Set(p *Product, v Float) {
	switch f {
	case FieldBasePrice:
		p.BasePrice = v
	case FieldEndUser:
		p.EndUserPrice = v
	case FieldElectrical:
		p.ElectricalPrice = v
	case FieldWholesale:
		p.WholesalePrice = v
	}
}
