package pricing

import (
	"github.com/Verman94/PriceWebApp/core/rounding"
	"github.com/Verman94/PriceWebApp/core/table"
	"github.com/Verman94/PriceWebApp/internal/errors"
)

// TierRates is the fixed multiplicative rate table for downstream prices
type TierRates struct {
	EndUserAll          table.Float
	EndUserExplosion    table.Float
	ElectricalAll       table.Float
	ElectricalExplosion table.Float
	Wholesale           table.Float
}

// CalcTierPrice derives one downstream price tier for a product list.
// The chain is fixed: base price feeds the end-user price, the end-user
// price feeds both the electrical-shop and wholesale prices. Explosion-proof
// models use their category rate where one exists. The raw price goes
// through consumer rounding and then a compare-adjustment pass.
func CalcTierPrice(rules []table.CompareRule, products []table.Product, field table.PriceField, rates TierRates, explosionModel string) error {
	var prior table.PriceField
	var rate, explosionRate table.Float

	switch field {
	case table.FieldEndUser:
		prior = table.FieldBasePrice
		rate, explosionRate = rates.EndUserAll, rates.EndUserExplosion
	case table.FieldElectrical:
		prior = table.FieldEndUser
		rate, explosionRate = rates.ElectricalAll, rates.ElectricalExplosion
	case table.FieldWholesale:
		prior = table.FieldEndUser
		rate, explosionRate = rates.Wholesale, rates.Wholesale
	default:
		return errors.Config("no tier rate for price field: " + string(field))
	}

	for i := range products {
		p := &products[i]
		r := rate
		if p.Model == explosionModel {
			r = explosionRate
		}
		field.Set(p, rounding.Consumer(prior.Get(p)*r))
	}

	Adjust(rules, products, field)
	return nil
}
