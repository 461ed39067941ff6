package electre

// WeaklyDominates reports whether a is at least as good as b on every
// criterion.
func WeaklyDominates(a, b ProductVector, criteria Criteria) bool {
	for _, c := range criteria {
		if !c.Better(a.Get(c.ID), b.Get(c.ID)) {
			return false
		}
	}
	return true
}

// Dominates reports whether a weakly dominates b and is strictly better on
// at least one criterion.
func Dominates(a, b ProductVector, criteria Criteria) bool {
	if !WeaklyDominates(a, b, criteria) {
		return false
	}
	for _, c := range criteria {
		if a.Get(c.ID) != b.Get(c.ID) {
			return true
		}
	}
	return false
}

// Frontier returns the products not dominated by any other product, in
// input order. O(n^2) dominance check.
func Frontier(products []Product, criteria Criteria) []Product {
	if len(products) <= 1 {
		return products
	}

	var frontier []Product
	for i := range products {
		dominated := false
		for j := range products {
			if i == j {
				continue
			}
			if Dominates(products[j].Vector, products[i].Vector, criteria) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, products[i])
		}
	}
	return frontier
}
