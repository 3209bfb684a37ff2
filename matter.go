/*
 * matter.go, part of gomat.
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

	"gonum.org/v1/gonum/mat"
)

/**Note: some functions here panic instead of returning errors. They are "fundamental"
 * functions (accessors, mostly). If something goes wrong in them the program is
 * way-most likely wrong and should crash.**/

//Site is one crystallographic site: an element plus an optional label
//("Li1"). Coordinates are kept separately, in a matrix.
type Site struct {
	Symbol string
	Label  string
}

//Copy returns a copy of the Site.
func (S *Site) Copy() *Site {
	if S == nil {
		panic("Attempted to copy a nil site")
	}
	return &Site{Symbol: S.Symbol, Label: S.Label}
}

//Structure is a periodic crystal structure: a lattice, the sites, and
//their fractional coordinates. The lattice is a 3x3 matrix whose _rows_
//are the cell vectors, in Å. Frac is an NumSites x 3 matrix.
type Structure struct {
	Name    string
	Lattice *mat.Dense
	Sites   []*Site
	Frac    *mat.Dense
}

//NewStructure builds a structure and checks the dimensions of its
//matrices against the number of sites.
func NewStructure(name string, lattice *mat.Dense, sites []*Site, frac *mat.Dense) (*Structure, error) {
	s := &Structure{Name: name, Lattice: lattice, Sites: sites, Frac: frac}
	if err := s.Corrupted(); err != nil {
		return nil, err
	}
	return s, nil
}

//Corrupted checks that the lattice is 3x3 and that there is one row of
//fractional coordinates per site.
func (s *Structure) Corrupted() error {
	if s.Lattice == nil || s.Frac == nil || s.Sites == nil {
		return fmt.Errorf("Structure: nil lattice, sites or coordinates")
	}
	lr, lc := s.Lattice.Dims()
	if lr != 3 || lc != 3 {
		return fmt.Errorf("Structure: Lattice must be 3x3, got %dx%d", lr, lc)
	}
	fr, fc := s.Frac.Dims()
	if fc != 3 || fr != len(s.Sites) {
		return fmt.Errorf("Structure: Inconsistent coordinates/sites: %d sites, %dx%d coords", len(s.Sites), fr, fc)
	}
	return nil
}

//NumSites returns the number of sites in the structure.
func (s *Structure) NumSites() int {
	return len(s.Sites)
}

//Site returns the site at index i. Panics if out of range.
func (s *Structure) Site(i int) *Site {
	if i >= len(s.Sites) {
		panic("Structure: Requested site out of bounds")
	}
	return s.Sites[i]
}

//Composition returns the composition of the cell contents.
func (s *Structure) Composition() (*Composition, error) {
	counts := make(map[string]float64)
	for _, site := range s.Sites {
		counts[site.Symbol]++
	}
	return NewComposition(counts)
}

//Cart returns the cartesian coordinates of the sites, in Å, as a new
//NumSites x 3 matrix (frac * lattice, with row-vector cell vectors).
func (s *Structure) Cart() *mat.Dense {
	n := s.NumSites()
	cart := mat.NewDense(n, 3, nil)
	cart.Mul(s.Frac, s.Lattice)
	return cart
}

//Volume returns the cell volume in Å^3.
func (s *Structure) Volume() float64 {
	return math.Abs(mat.Det(s.Lattice))
}

//Copy returns a deep copy of the structure.
func (s *Structure) Copy() *Structure {
	n := &Structure{Name: s.Name}
	n.Lattice = mat.DenseCopyOf(s.Lattice)
	n.Frac = mat.DenseCopyOf(s.Frac)
	n.Sites = make([]*Site, len(s.Sites))
	for i, site := range s.Sites {
		n.Sites[i] = site.Copy()
	}
	return n
}

//LatticeParams returns the cell parameters a, b, c (Å) and alpha, beta,
//gamma (degrees) of the given lattice matrix.
func LatticeParams(lattice *mat.Dense) (a, b, c, alpha, beta, gamma float64) {
	va := lattice.RawRowView(0)
	vb := lattice.RawRowView(1)
	vc := lattice.RawRowView(2)
	a = norm3(va)
	b = norm3(vb)
	c = norm3(vc)
	alpha = Rad2Deg(math.Acos(dot3(vb, vc) / (b * c)))
	beta = Rad2Deg(math.Acos(dot3(va, vc) / (a * c)))
	gamma = Rad2Deg(math.Acos(dot3(va, vb) / (a * b)))
	return a, b, c, alpha, beta, gamma
}

//LatticeFromParams builds a lattice matrix from cell parameters (Å and
//degrees) with the conventional orientation: a along x, b in the xy
//plane.
func LatticeFromParams(a, b, c, alpha, beta, gamma float64) (*mat.Dense, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, fmt.Errorf("LatticeFromParams: Non-positive cell length")
	}
	ca := math.Cos(Deg2Rad(alpha))
	cb := math.Cos(Deg2Rad(beta))
	cg := math.Cos(Deg2Rad(gamma))
	sg := math.Sin(Deg2Rad(gamma))
	if math.Abs(sg) < 1e-10 {
		return nil, fmt.Errorf("LatticeFromParams: Degenerate gamma angle: %v", gamma)
	}
	cy := (ca - cb*cg) / sg
	czsq := 1 - cb*cb - cy*cy
	if czsq <= 0 {
		return nil, fmt.Errorf("LatticeFromParams: Impossible cell angles: %v %v %v", alpha, beta, gamma)
	}
	return mat.NewDense(3, 3, []float64{
		a, 0, 0,
		b * cg, b * sg, 0,
		c * cb, c * cy, c * math.Sqrt(czsq),
	}), nil
}

func Deg2Rad(f float64) float64 {
	return f * math.Pi / 180
}

func Rad2Deg(f float64) float64 {
	return f * 180 / math.Pi
}

func norm3(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func dot3(a, b []float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
