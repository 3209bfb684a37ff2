/*
 * files.go, part of gomat.
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
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//POSCAR I/O

//POSCARRead reads a VASP POSCAR/CONTCAR file. Only VASP5-style files, with
//the element symbols line, are supported. Both direct and cartesian
//coordinates are handled; a selective-dynamics block is skipped over.
func POSCARRead(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	lines := make([]string, 0, 30)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(lines) < 8 {
		return nil, fmt.Errorf("POSCARRead: %s: Truncated POSCAR, only %d lines", path, len(lines))
	}
	name := strings.TrimSpace(lines[0])
	scale, err := strconv.ParseFloat(strings.TrimSpace(lines[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("POSCARRead: %s: Bad scale factor on line 2: %v", path, err)
	}
	latdata := make([]float64, 0, 9)
	for i := 2; i < 5; i++ {
		fields := strings.Fields(lines[i])
		if len(fields) < 3 {
			return nil, fmt.Errorf("POSCARRead: %s: Ill-formed lattice vector on line %d", path, i+1)
		}
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, fmt.Errorf("POSCARRead: %s: Bad lattice component on line %d: %v", path, i+1, err)
			}
			latdata = append(latdata, v)
		}
	}
	lattice := mat.NewDense(3, 3, latdata)
	//A negative scale factor is, per VASP convention, the desired cell volume.
	if scale < 0 {
		scale = math.Cbrt(-scale / math.Abs(mat.Det(lattice)))
	}
	lattice.Scale(scale, lattice)
	symbols := strings.Fields(lines[5])
	if len(symbols) == 0 {
		return nil, fmt.Errorf("POSCARRead: %s: Missing element symbols on line 6", path)
	}
	if _, err := strconv.Atoi(symbols[0]); err == nil {
		return nil, fmt.Errorf("POSCARRead: %s: VASP4 POSCAR without an element symbols line is not supported", path)
	}
	countFields := strings.Fields(lines[6])
	if len(countFields) != len(symbols) {
		return nil, fmt.Errorf("POSCARRead: %s: %d symbols but %d counts", path, len(symbols), len(countFields))
	}
	natoms := 0
	counts := make([]int, len(countFields))
	for i, cf := range countFields {
		counts[i], err = strconv.Atoi(cf)
		if err != nil || counts[i] <= 0 {
			return nil, fmt.Errorf("POSCARRead: %s: Bad atom count %q on line 7", path, cf)
		}
		natoms += counts[i]
	}
	cur := 7
	if len(lines[cur]) > 0 && (lines[cur][0] == 's' || lines[cur][0] == 'S') {
		cur++ //selective dynamics, nothing for us there
	}
	if cur >= len(lines) {
		return nil, fmt.Errorf("POSCARRead: %s: Missing coordinate mode line", path)
	}
	mode := strings.TrimSpace(lines[cur])
	if mode == "" {
		return nil, fmt.Errorf("POSCARRead: %s: Empty coordinate mode line", path)
	}
	cartesian := false
	switch mode[0] {
	case 'd', 'D':
	case 'c', 'C', 'k', 'K':
		cartesian = true
	default:
		return nil, fmt.Errorf("POSCARRead: %s: Unknown coordinate mode %q", path, mode)
	}
	cur++
	if len(lines) < cur+natoms {
		return nil, fmt.Errorf("POSCARRead: %s: Expected %d coordinate lines, found %d", path, natoms, len(lines)-cur)
	}
	coords := make([]float64, 0, natoms*3)
	for i := 0; i < natoms; i++ {
		fields := strings.Fields(lines[cur+i])
		if len(fields) < 3 {
			return nil, fmt.Errorf("POSCARRead: %s: Ill-formed coordinate line %d", path, cur+i+1)
		}
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, fmt.Errorf("POSCARRead: %s: Bad coordinate on line %d: %v", path, cur+i+1, err)
			}
			coords = append(coords, v)
		}
	}
	frac := mat.NewDense(natoms, 3, coords)
	if cartesian {
		//cartesian positions are also subject to the scale factor
		frac.Scale(scale, frac)
		var inv mat.Dense
		if err := inv.Inverse(lattice); err != nil {
			return nil, fmt.Errorf("POSCARRead: %s: Singular lattice: %v", path, err)
		}
		frac.Mul(frac, &inv)
	}
	sites := make([]*Site, 0, natoms)
	for i, sym := range symbols {
		if !KnownElement(sym) {
			return nil, fmt.Errorf("POSCARRead: %s: Unknown element symbol %q", path, sym)
		}
		for j := 0; j < counts[i]; j++ {
			sites = append(sites, &Site{Symbol: sym, Label: fmt.Sprintf("%s%d", sym, j+1)})
		}
	}
	return NewStructure(name, lattice, sites, frac)
}

//POSCARWrite writes the structure s as a VASP5 POSCAR with direct
//coordinates. Sites are grouped by element, in order of first appearance.
func POSCARWrite(path string, s *Structure) error {
	if err := s.Corrupted(); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	name := s.Name
	if name == "" {
		name = "written with gomat :-)"
	}
	fmt.Fprintf(out, "%s\n", name)
	fmt.Fprintf(out, "1.0\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(out, " %21.16f %21.16f %21.16f\n", s.Lattice.At(i, 0), s.Lattice.At(i, 1), s.Lattice.At(i, 2))
	}
	symbols, counts := groupedSymbols(s)
	for _, sym := range symbols {
		fmt.Fprintf(out, " %s", sym)
	}
	fmt.Fprint(out, "\n")
	for _, n := range counts {
		fmt.Fprintf(out, " %d", n)
	}
	fmt.Fprint(out, "\nDirect\n")
	for _, sym := range symbols {
		for i, site := range s.Sites {
			if site.Symbol != sym {
				continue
			}
			_, err = fmt.Fprintf(out, " %19.16f %19.16f %19.16f\n", s.Frac.At(i, 0), s.Frac.At(i, 1), s.Frac.At(i, 2))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

//groupedSymbols returns the distinct element symbols of s in order of first
//appearance, and the number of sites of each.
func groupedSymbols(s *Structure) ([]string, []int) {
	symbols := make([]string, 0, 4)
	counts := make([]int, 0, 4)
	for _, site := range s.Sites {
		found := false
		for i, sym := range symbols {
			if sym == site.Symbol {
				counts[i]++
				found = true
				break
			}
		}
		if !found {
			symbols = append(symbols, site.Symbol)
			counts = append(counts, 1)
		}
	}
	return symbols, counts
}

//CIF I/O

//CIFRead reads a crystal structure from a CIF file. Only a subset of the
//format is supported: the cell parameters and a P1 atom-site loop with
//fractional coordinates. Symmetry operations are NOT applied; files
//written by gomat or by most analysis toolkits (which expand symmetry on
//writing) are fine, raw experimental CIFs with symmetry may not be.
func CIFRead(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	params := make(map[string]float64)
	name := ""
	var cols []string
	var rows [][]string
	inLoop := false //reading _atom_site column headers
	inData := false //reading atom-site data rows
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			inLoop = false
			inData = false
		case strings.HasPrefix(line, "data_"):
			name = strings.TrimPrefix(line, "data_")
			inLoop, inData = false, false
		case line == "loop_":
			inLoop = true
			inData = false
			cols = nil
		case strings.HasPrefix(line, "_"):
			fields := strings.Fields(line)
			if inLoop {
				cols = append(cols, fields[0])
				break
			}
			inData = false
			if len(fields) >= 2 {
				key := fields[0]
				if v, err := parseCIFNumber(fields[1]); err == nil {
					params[key] = v
				}
			}
		default:
			if inLoop {
				inLoop = false
				inData = isAtomSiteLoop(cols)
			}
			if inData {
				rows = append(rows, strings.Fields(line))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for _, key := range []string{"_cell_length_a", "_cell_length_b", "_cell_length_c",
		"_cell_angle_alpha", "_cell_angle_beta", "_cell_angle_gamma"} {
		if _, ok := params[key]; !ok {
			return nil, fmt.Errorf("CIFRead: %s: Missing %s", path, key)
		}
	}
	lattice, err := LatticeFromParams(params["_cell_length_a"], params["_cell_length_b"],
		params["_cell_length_c"], params["_cell_angle_alpha"], params["_cell_angle_beta"],
		params["_cell_angle_gamma"])
	if err != nil {
		return nil, fmt.Errorf("CIFRead: %s: %v", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CIFRead: %s: No _atom_site loop found", path)
	}
	isym := indexOf(cols, "_atom_site_type_symbol")
	ilabel := indexOf(cols, "_atom_site_label")
	if isym < 0 {
		isym = ilabel //some CIFs only carry labels; the symbol is recovered from them
	}
	ix := indexOf(cols, "_atom_site_fract_x")
	iy := indexOf(cols, "_atom_site_fract_y")
	iz := indexOf(cols, "_atom_site_fract_z")
	if isym < 0 || ix < 0 || iy < 0 || iz < 0 {
		return nil, fmt.Errorf("CIFRead: %s: Atom-site loop lacks symbol or fractional coordinate columns", path)
	}
	sites := make([]*Site, 0, len(rows))
	coords := make([]float64, 0, len(rows)*3)
	for n, row := range rows {
		if len(row) < len(cols) {
			return nil, fmt.Errorf("CIFRead: %s: Short atom-site row %d", path, n+1)
		}
		sym, err := symbolFromCIF(row[isym])
		if err != nil {
			return nil, fmt.Errorf("CIFRead: %s: Row %d: %v", path, n+1, err)
		}
		label := row[isym]
		if ilabel >= 0 {
			label = row[ilabel]
		}
		for _, i := range []int{ix, iy, iz} {
			v, err := parseCIFNumber(row[i])
			if err != nil {
				return nil, fmt.Errorf("CIFRead: %s: Bad coordinate in atom-site row %d: %v", path, n+1, err)
			}
			coords = append(coords, v)
		}
		sites = append(sites, &Site{Symbol: sym, Label: label})
	}
	frac := mat.NewDense(len(sites), 3, coords)
	return NewStructure(name, lattice, sites, frac)
}

//CIFWrite writes the structure as a P1 CIF with fractional coordinates.
func CIFWrite(path string, s *Structure) error {
	if err := s.Corrupted(); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	comp, err := s.Composition()
	if err != nil {
		return err
	}
	name := s.Name
	if name == "" {
		name = comp.ReducedFormula()
	}
	a, b, c, alpha, beta, gamma := LatticeParams(s.Lattice)
	fmt.Fprintf(out, "# written with gomat :-)\n")
	fmt.Fprintf(out, "data_%s\n", strings.ReplaceAll(name, " ", "_"))
	fmt.Fprintf(out, "_symmetry_space_group_name_H-M   'P 1'\n")
	fmt.Fprintf(out, "_symmetry_Int_Tables_number      1\n")
	fmt.Fprintf(out, "_chemical_formula_sum            '%s'\n", comp.String())
	fmt.Fprintf(out, "_cell_length_a     %.6f\n", a)
	fmt.Fprintf(out, "_cell_length_b     %.6f\n", b)
	fmt.Fprintf(out, "_cell_length_c     %.6f\n", c)
	fmt.Fprintf(out, "_cell_angle_alpha  %.6f\n", alpha)
	fmt.Fprintf(out, "_cell_angle_beta   %.6f\n", beta)
	fmt.Fprintf(out, "_cell_angle_gamma  %.6f\n", gamma)
	fmt.Fprintf(out, "loop_\n")
	fmt.Fprintf(out, " _atom_site_type_symbol\n")
	fmt.Fprintf(out, " _atom_site_label\n")
	fmt.Fprintf(out, " _atom_site_fract_x\n")
	fmt.Fprintf(out, " _atom_site_fract_y\n")
	fmt.Fprintf(out, " _atom_site_fract_z\n")
	for i, site := range s.Sites {
		label := site.Label
		if label == "" {
			label = fmt.Sprintf("%s%d", site.Symbol, i+1)
		}
		_, err = fmt.Fprintf(out, " %-2s %-6s %10.6f %10.6f %10.6f\n", site.Symbol, label,
			s.Frac.At(i, 0), s.Frac.At(i, 1), s.Frac.At(i, 2))
		if err != nil {
			return err
		}
	}
	return nil
}

//Format dispatch

//StructureRead reads a structure file, deciding the format from the file
//name: ".cif" means CIF, ".vasp", ".poscar" or a base name containing
//"POSCAR" or "CONTCAR" mean VASP POSCAR.
func StructureRead(path string) (*Structure, error) {
	switch {
	case strings.EqualFold(filepath.Ext(path), ".cif"):
		return CIFRead(path)
	case isPOSCARName(path):
		return POSCARRead(path)
	}
	return nil, fmt.Errorf("StructureRead: Can't guess the format of %s; expected a .cif or POSCAR-like name", path)
}

//StructureWrite writes a structure file, with the same name-based format
//dispatch as StructureRead.
func StructureWrite(path string, s *Structure) error {
	switch {
	case strings.EqualFold(filepath.Ext(path), ".cif"):
		return CIFWrite(path, s)
	case isPOSCARName(path):
		return POSCARWrite(path, s)
	}
	return fmt.Errorf("StructureWrite: Can't guess the format of %s; expected a .cif or POSCAR-like name", path)
}

func isPOSCARName(path string) bool {
	base := strings.ToUpper(filepath.Base(path))
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".vasp" || ext == ".poscar" || strings.Contains(base, "POSCAR") || strings.Contains(base, "CONTCAR")
}

//parseCIFNumber parses a CIF numeric value, dropping a trailing
//parenthesized standard uncertainty ("5.431(2)").
func parseCIFNumber(s string) (float64, error) {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	return strconv.ParseFloat(s, 64)
}

//symbolFromCIF extracts an element symbol from a type-symbol or label
//field, which may carry oxidation states or site numbering ("Fe3+", "O2-",
//"Li1").
func symbolFromCIF(s string) (string, error) {
	end := 0
	for end < len(s) && end < 2 {
		ch := s[end]
		if (end == 0 && ch >= 'A' && ch <= 'Z') || (end == 1 && ch >= 'a' && ch <= 'z') {
			end++
		} else {
			break
		}
	}
	if end == 0 {
		return "", fmt.Errorf("Can't extract an element symbol from %q", s)
	}
	sym := s[:end]
	if !KnownElement(sym) {
		if end == 2 && KnownElement(sym[:1]) {
			return sym[:1], nil //e.g. "Ho" in a label that is actually H + "o"... unlikely, but "Np1" labels for N do happen
		}
		return "", fmt.Errorf("Unknown element symbol %q", sym)
	}
	return sym, nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

//isAtomSiteLoop returns whether a loop's columns look like an atom-site
//loop with fractional coordinates.
func isAtomSiteLoop(cols []string) bool {
	return indexOf(cols, "_atom_site_fract_x") >= 0
}
