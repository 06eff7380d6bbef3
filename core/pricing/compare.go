package pricing

import (
	"github.com/Verman94/PriceWebApp/core/table"
)

// Adjust propagates manual price-override deltas through the compare rules
// and applies the net adjustment to the named price field.
//
// Per rule the direct delta is price(Part1) - price(Part2). The super
// delta is the direct delta of the rule whose Part1 is this rule's super
// component, resolved through exactly one hop; substitution chains are not
// walked transitively. The net adjustment, super delta minus direct delta,
// is added to every product whose part number is a rule's Part1. Products
// without a rule, and rules whose deltas are unresolved, adjust by zero.
//
// After adjustment, common-parts prices are clamped up to the prior-period
// base price.
func Adjust(rules []table.CompareRule, products []table.Product, field table.PriceField) {
	prices := make(map[string]table.Float, len(products))
	for i := range products {
		prices[products[i].PartNo] = field.Get(&products[i])
	}

	lookup := func(partNo string) table.Float {
		if v, ok := prices[partNo]; ok {
			return v
		}
		return table.Null()
	}

	diffByPart1 := make(map[string]table.Float, len(rules))
	for i := range rules {
		r := &rules[i]
		r.Diff = lookup(r.Part1) - lookup(r.Part2)
		diffByPart1[r.Part1] = r.Diff
	}

	netByPart1 := make(map[string]table.Float, len(rules))
	for i := range rules {
		r := &rules[i]
		if super, ok := diffByPart1[r.SuperComponent]; ok {
			r.SuperDiff = super
		} else {
			r.SuperDiff = table.Null()
		}
		r.Net = r.SuperDiff - r.Diff
		netByPart1[r.Part1] = r.Net
	}

	for i := range products {
		p := &products[i]
		adj, ok := netByPart1[p.PartNo]
		if !ok || adj.IsNull() {
			adj = 0
		}
		field.Set(p, field.Get(p)+adj)

		if p.IsCommonPart() && field.Get(p) <= p.OldBasePrice {
			field.Set(p, p.OldBasePrice)
		}
	}
}
