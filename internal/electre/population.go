package electre

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
)

// Population is the immutable reference set used to derive profiles. Its
// hash identifies the content and keys the profile cache.
type Population struct {
	products []Product
	hash     string
	invalid  int
}

// NewPopulation copies products so later mutation by the caller cannot
// change the population or invalidate its hash.
func NewPopulation(products []Product) *Population {
	cp := make([]Product, len(products))
	invalid := 0
	for i, p := range products {
		cp[i] = p
		cp[i].Vector = p.Vector.Clone()
		for id, x := range p.Vector {
			if validateValue(id, x) != nil {
				invalid++
			}
		}
	}
	return &Population{products: cp, hash: hashProducts(cp), invalid: invalid}
}

// Invalid counts the cells Values ignores: unknown criteria and values
// ValidateVector would reject.
func (p *Population) Invalid() int {
	if p == nil {
		return 0
	}
	return p.invalid
}

// Len returns the number of products.
func (p *Population) Len() int {
	if p == nil {
		return 0
	}
	return len(p.products)
}

// Hash returns the hex SHA-256 of the population's criterion values.
func (p *Population) Hash() string {
	if p == nil {
		return ""
	}
	return p.hash
}

// Products returns a copy of the population members.
func (p *Population) Products() []Product {
	if p == nil {
		return nil
	}
	out := make([]Product, len(p.products))
	for i, pr := range p.products {
		out[i] = pr
		out[i].Vector = pr.Vector.Clone()
	}
	return out
}

// Values pools the valid observations of one criterion, under the same
// rules as ValidateVector. Products that do not carry the criterion, or
// carry an invalid value for it, contribute nothing.
func (p *Population) Values(id string) []float64 {
	if p == nil {
		return nil
	}
	var out []float64
	for _, pr := range p.products {
		x, ok := pr.Vector[id]
		if !ok || validateValue(id, x) != nil {
			continue
		}
		out = append(out, x)
	}
	return out
}

// hashProducts digests only the vectors, in population order. Names and ids
// do not influence profiles, so they do not influence the key either.
func hashProducts(products []Product) string {
	h := sha256.New()
	buf := make([]byte, 0, 64)
	for _, pr := range products {
		keys := make([]string, 0, len(pr.Vector))
		for k := range pr.Vector {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			buf = buf[:0]
			buf = append(buf, k...)
			buf = append(buf, '=')
			buf = strconv.AppendFloat(buf, pr.Vector[k], 'g', -1, 64)
			buf = append(buf, ';')
			h.Write(buf)
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
