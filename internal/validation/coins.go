package validation

// coins is the fixed denomination set accepted by the machine, in cents.
var coins = map[int64]struct{}{
	5:   {},
	10:  {},
	20:  {},
	50:  {},
	100: {},
}

// IsValidCoin reports whether value is an accepted coin denomination.
func IsValidCoin(value int64) bool {
	_, ok := coins[value]
	return ok
}
