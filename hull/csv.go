/*
 * csv.go, part of gomat.
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

package hull

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
)

//The required input columns. Column order in the file is free.
const (
	colComposition = "composition"
	colEnergy      = "energy_per_atom_eV"
	colLabel       = "label"
)

//ReadEntriesCSV reads hull entries from a CSV file with columns
//"composition" and "energy_per_atom_eV" (required, any order) and
//"label" (optional). Any other columns are kept in the entries' Extra
//maps, so they survive into the results file. Errors carry the
//offending line number.
func ReadEntriesCSV(path string) ([]*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("ReadEntriesCSV: %s: Can't read header: %v", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, req := range []string{colComposition, colEnergy} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("ReadEntriesCSV: %s: Missing required column %q", path, req)
		}
	}
	ilabel, hasLabel := cols[colLabel]
	extraCols := make([]string, 0, len(header))
	for _, name := range header {
		name = strings.TrimSpace(name)
		if name != colComposition && name != colEnergy && name != colLabel {
			extraCols = append(extraCols, name)
		}
	}
	entries := make([]*Entry, 0, 32)
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("ReadEntriesCSV: %s: Line %d: %v", path, line, err)
		}
		formula := strings.TrimSpace(rec[cols[colComposition]])
		epa, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[colEnergy]]), 64)
		if err != nil {
			return nil, fmt.Errorf("ReadEntriesCSV: %s: Line %d: Bad energy: %v", path, line, err)
		}
		label := ""
		if hasLabel {
			label = strings.TrimSpace(rec[ilabel])
		}
		e, err := NewEntry(formula, epa, label)
		if err != nil {
			return nil, fmt.Errorf("ReadEntriesCSV: %s: Line %d: %v", path, line, err)
		}
		if len(extraCols) > 0 {
			e.Extra = make(map[string]string, len(extraCols))
			for _, name := range extraCols {
				e.Extra[name] = strings.TrimSpace(rec[cols[name]])
			}
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("ReadEntriesCSV: %s: No data rows", path)
	}
	return entries, nil
}

//WriteResultsCSV writes the entries along with their formation energies
//and distances to the hull, preserving input order. Extra input columns
//are re-emitted (in alphabetical order) between the label and the two
//result columns. The file is replaced atomically, so a crashed run never
//leaves a half-written results file.
func WriteResultsCSV(path string, entries []*Entry, formation, distance []float64) error {
	if len(entries) != len(formation) || len(entries) != len(distance) {
		return fmt.Errorf("WriteResultsCSV: %d entries but %d/%d result values", len(entries), len(formation), len(distance))
	}
	extraSet := make(map[string]bool)
	for _, e := range entries {
		for name := range e.Extra {
			extraSet[name] = true
		}
	}
	extraCols := make([]string, 0, len(extraSet))
	for name := range extraSet {
		extraCols = append(extraCols, name)
	}
	sort.Strings(extraCols)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := append([]string{colComposition, colEnergy, colLabel}, extraCols...)
	header = append(header, "formation_energy_per_atom_eV", "distance_to_hull_eV")
	if err := w.Write(header); err != nil {
		return err
	}
	for i, e := range entries {
		formula := e.Raw
		if formula == "" {
			formula = e.Comp.String()
		}
		rec := []string{
			formula,
			strconv.FormatFloat(e.EPA, 'f', 6, 64),
			e.Label,
		}
		for _, name := range extraCols {
			rec = append(rec, e.Extra[name])
		}
		rec = append(rec,
			strconv.FormatFloat(formation[i], 'f', 6, 64),
			strconv.FormatFloat(distance[i], 'f', 6, 64))
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return renameio.WriteFile(path, buf.Bytes(), 0644)
}
