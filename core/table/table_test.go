package table

import "testing"

// TestDatasetClone tests that a clone shares nothing mutable with its source
func TestDatasetClone(t *testing.T) {
	ds := &Dataset{
		Aluminium: []AluminiumProfile{{PartNo: "AL1", Fees: []Float{100, 50}, Weight: 2}},
		FullList:  []Product{{PartNo: "P1", Flags: []string{"existing"}}},
		ShortList: []Product{{PartNo: "P1"}},
	}

	clone := ds.Clone()
	clone.Aluminium[0].Fees[0] = 999
	clone.Aluminium[0].Total = 1
	clone.FullList[0].Flag("added on clone")
	clone.FullList[0].BasePrice = 5

	if ds.Aluminium[0].Fees[0] != 100 {
		t.Errorf("clone fee write leaked into source: %v", ds.Aluminium[0].Fees[0])
	}
	if ds.Aluminium[0].Total != 0 {
		t.Errorf("clone total write leaked into source: %v", ds.Aluminium[0].Total)
	}
	if len(ds.FullList[0].Flags) != 1 {
		t.Errorf("clone flag leaked into source: %v", ds.FullList[0].Flags)
	}
	if ds.FullList[0].BasePrice != 0 {
		t.Errorf("clone price write leaked into source: %v", ds.FullList[0].BasePrice)
	}
}

// TestProductFlagDedup tests that a flag is recorded once
func TestProductFlagDedup(t *testing.T) {
	var p Product
	p.Flag("no bom rows")
	p.Flag("no bom rows")
	p.Flag("other")
	if len(p.Flags) != 2 {
		t.Errorf("Flags = %v, want two distinct entries", p.Flags)
	}
}

// TestPriceField tests field-addressed reads and writes
func TestPriceField(t *testing.T) {
	fields := []PriceField{FieldBasePrice, FieldEndUser, FieldElectrical, FieldWholesale}

	var p Product
	for i, f := range fields {
		f.Set(&p, Float(1000*(i+1)))
	}
	for i, f := range fields {
		if got := f.Get(&p); got != Float(1000*(i+1)) {
			t.Errorf("%s = %v, want %v", f, got, 1000*(i+1))
		}
	}

	if got := PriceField("bogus").Get(&p); !got.IsNull() {
		t.Errorf("unknown field read = %v, want null", got)
	}
}

// TestProductIndex tests that the index points at the backing rows
func TestProductIndex(t *testing.T) {
	products := []Product{{PartNo: "A"}, {PartNo: "B"}}
	idx := ProductIndex(products)

	idx["A"].BasePrice = 42
	if products[0].BasePrice != 42 {
		t.Error("index does not point at backing row")
	}
	if _, ok := idx["C"]; ok {
		t.Error("index resolved an absent part")
	}
}
