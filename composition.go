/*
 * composition.go, part of gomat.
 *
 * Copyright 2024 Rodrigo Molina <rmolina{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * gomat is developed at the Universidad de Santiago de Chile
 * (USACH).
 *
 */

package matter

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

//Composition represents a chemical formula as amounts of each element.
//Amounts are float64 as fractional occupancies ("Li0.5Na0.5Cl") are legal.
type Composition struct {
	counts map[string]float64
}

//NewComposition builds a Composition directly from an element->amount map.
//It returns an error if any symbol is unknown or any amount is not positive.
func NewComposition(counts map[string]float64) (*Composition, error) {
	c := &Composition{counts: make(map[string]float64, len(counts))}
	for sym, n := range counts {
		if !KnownElement(sym) {
			return nil, fmt.Errorf("NewComposition: Unknown element symbol: %s", sym)
		}
		if n <= 0 {
			return nil, fmt.Errorf("NewComposition: Non-positive amount %v for element %s", n, sym)
		}
		c.counts[sym] += n
	}
	if len(c.counts) == 0 {
		return nil, fmt.Errorf("NewComposition: Empty composition")
	}
	return c, nil
}

//ParseComposition parses a formula string into a Composition. Parenthesized
//groups with multipliers ("Li(OH)2", "Ca3(PO4)2") and fractional amounts
//("Li0.5") are supported. Symbols must be in gomat's element tables.
func ParseComposition(formula string) (*Composition, error) {
	s := strings.TrimSpace(formula)
	if s == "" {
		return nil, fmt.Errorf("ParseComposition: Empty formula")
	}
	counts, i, err := parseGroup(s, 0)
	if err != nil {
		return nil, err
	}
	if i != len(s) {
		//parseGroup only stops early on an unmatched closing parenthesis
		return nil, fmt.Errorf("ParseComposition: Unexpected \")\" at position %d in %q", i, formula)
	}
	return NewComposition(counts)
}

//parseGroup reads element/count pairs and parenthesized subgroups starting at
//position i, and returns the accumulated amounts together with the position
//where reading stopped (len(s), or the index of an unconsumed ')').
func parseGroup(s string, i int) (map[string]float64, int, error) {
	counts := make(map[string]float64)
	for i < len(s) {
		switch {
		case s[i] == ' ':
			i++
		case s[i] == ')':
			return counts, i, nil
		case s[i] == '(':
			sub, j, err := parseGroup(s, i+1)
			if err != nil {
				return nil, 0, err
			}
			if j >= len(s) || s[j] != ')' {
				return nil, 0, fmt.Errorf("ParseComposition: Unbalanced \"(\" at position %d in %q", i, s)
			}
			mult, j2, err := parseAmount(s, j+1)
			if err != nil {
				return nil, 0, err
			}
			for sym, n := range sub {
				counts[sym] += n * mult
			}
			i = j2
		case s[i] >= 'A' && s[i] <= 'Z':
			j := i + 1
			for j < len(s) && s[j] >= 'a' && s[j] <= 'z' {
				j++
			}
			sym := s[i:j]
			if !KnownElement(sym) {
				return nil, 0, fmt.Errorf("ParseComposition: Unknown element symbol %q in %q", sym, s)
			}
			n, j2, err := parseAmount(s, j)
			if err != nil {
				return nil, 0, err
			}
			counts[sym] += n
			i = j2
		default:
			return nil, 0, fmt.Errorf("ParseComposition: Unexpected character %q at position %d in %q", s[i], i, s)
		}
	}
	return counts, i, nil
}

//parseAmount reads a (possibly fractional) multiplier starting at i.
//An absent multiplier means 1.
func parseAmount(s string, i int) (float64, int, error) {
	j := i
	for j < len(s) && (s[j] == '.' || (s[j] >= '0' && s[j] <= '9')) {
		j++
	}
	if j == i {
		return 1, i, nil
	}
	n, err := strconv.ParseFloat(s[i:j], 64)
	if err != nil || n <= 0 {
		return 0, 0, fmt.Errorf("ParseComposition: Bad amount %q at position %d in %q", s[i:j], i, s)
	}
	return n, j, nil
}

//Elements returns the element symbols in the composition, in
//alphabetical order.
func (c *Composition) Elements() []string {
	els := make([]string, 0, len(c.counts))
	for sym := range c.counts {
		els = append(els, sym)
	}
	sort.Strings(els)
	return els
}

//Amount returns the stoichiometric amount of the element sym, or
//zero if absent.
func (c *Composition) Amount(sym string) float64 {
	return c.counts[sym]
}

//NumAtoms returns the total number of atoms in the formula unit.
func (c *Composition) NumAtoms() float64 {
	var n float64
	for _, v := range c.counts {
		n += v
	}
	return n
}

//Fraction returns the atomic fraction of the element sym.
func (c *Composition) Fraction(sym string) float64 {
	return c.counts[sym] / c.NumAtoms()
}

//Elemental returns the symbol and true if the composition contains
//a single element, or an empty string and false otherwise.
func (c *Composition) Elemental() (string, bool) {
	if len(c.counts) != 1 {
		return "", false
	}
	for sym := range c.counts {
		return sym, true
	}
	return "", false //unreachable
}

//Weight returns the mass of the formula unit, in amu.
func (c *Composition) Weight() float64 {
	var w float64
	for sym, n := range c.counts {
		w += Mass(sym) * n
	}
	return w
}

//Copy returns a copy of the composition.
func (c *Composition) Copy() *Composition {
	n := &Composition{counts: make(map[string]float64, len(c.counts))}
	for sym, v := range c.counts {
		n.counts[sym] = v
	}
	return n
}

//String returns the formula with elements in alphabetical order and
//unreduced amounts.
func (c *Composition) String() string {
	var b strings.Builder
	for _, sym := range c.Elements() {
		b.WriteString(sym)
		b.WriteString(fmtAmount(c.counts[sym]))
	}
	return b.String()
}

//ReducedFormula returns the formula with amounts divided by their greatest
//common divisor, elements in alphabetical order ("Li4O2" -> "Li2O").
//Fractional compositions are scaled so the smallest amount becomes 1.
func (c *Composition) ReducedFormula() string {
	amounts := make([]float64, 0, len(c.counts))
	for _, v := range c.counts {
		amounts = append(amounts, v)
	}
	g := gcdFloats(amounts)
	if g <= 1e-8 {
		g = 1 //shouldn't happen with positive amounts, but don't divide by ~0
	}
	var b strings.Builder
	for _, sym := range c.Elements() {
		b.WriteString(sym)
		b.WriteString(fmtAmount(c.counts[sym] / g))
	}
	return b.String()
}

//fmtAmount formats a stoichiometric amount, omitting "1" and trailing
//zeros, as is conventional in formulas.
func fmtAmount(n float64) string {
	if math.Abs(n-1) < 1e-8 {
		return ""
	}
	if math.Abs(n-math.Round(n)) < 1e-8 {
		return strconv.Itoa(int(math.Round(n)))
	}
	return strconv.FormatFloat(n, 'g', 6, 64)
}

//gcdFloats is a float-tolerant Euclid over a slice.
func gcdFloats(vals []float64) float64 {
	g := vals[0]
	for _, v := range vals[1:] {
		g = gcdFloat(g, v)
	}
	return g
}

func gcdFloat(a, b float64) float64 {
	const tol = 1e-5
	a, b = math.Abs(a), math.Abs(b)
	for b > tol {
		a, b = b, math.Mod(a, b)
	}
	return a
}
