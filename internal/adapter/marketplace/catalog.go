package marketplace

// catalog lists the ingredients the farmers market sells. Anything else fails
// fast without a network call.
var catalog = map[string]struct{}{
	"tomato":  {},
	"lemon":   {},
	"potato":  {},
	"rice":    {},
	"ketchup": {},
	"lettuce": {},
	"onion":   {},
	"cheese":  {},
	"meat":    {},
	"chicken": {},
}

// unitPrices is the fixed client-side price table. The marketplace response
// carries no trustworthy cost, so cost is always computed here.
var unitPrices = map[string]float64{
	"tomato":  0.80,
	"lemon":   0.60,
	"potato":  0.50,
	"rice":    1.20,
	"ketchup": 2.00,
	"lettuce": 0.90,
	"onion":   0.40,
	"cheese":  3.50,
	"meat":    5.00,
	"chicken": 4.20,
}

const defaultUnitPrice = 1.00

// CanSupply reports whether the marketplace sells the ingredient.
func CanSupply(ingredient string) bool {
	_, ok := catalog[ingredient]
	return ok
}

// UnitPrice returns the fixed per-unit cost of an ingredient.
func UnitPrice(ingredient string) float64 {
	if price, ok := unitPrices[ingredient]; ok {
		return price
	}
	return defaultUnitPrice
}
