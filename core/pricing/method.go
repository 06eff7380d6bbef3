// Package pricing derives sale prices from finished costs: the base-price
// solver, the compare/adjustment engine for manual overrides, and the
// tiered consumer prices.
package pricing

// Method selects the base-price solving strategy
type Method string

const (
	// MethodOriginalPrice anchors prices to operator-edited original prices
	MethodOriginalPrice Method = "Original Price"

	// MethodNewGross solves prices from operator-supplied target margins
	MethodNewGross Method = "New Gross"

	// MethodPriceDiff applies operator-supplied change percentages
	MethodPriceDiff Method = "Price Diff"
)

// Valid reports whether the method is a recognized strategy
func (m Method) Valid() bool {
	switch m {
	case MethodOriginalPrice, MethodNewGross, MethodPriceDiff:
		return true
	}
	return false
}
