/*
 * plot_test.go, part of gomat.
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
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinaryPlot(t *testing.T) {
	pd := readLiO(t)
	err := Plot(pd, "Li-O hull", "../test/LiO_hull.png")
	require.NoError(t, err)
	info, err := os.Stat("../test/LiO_hull.png")
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestTernaryPlot(t *testing.T) {
	entries, err := ReadEntriesCSV("../test/ternary.csv")
	require.NoError(t, err)
	pd, err := NewPhaseDiagram(entries)
	require.NoError(t, err)
	err = Plot(pd, "Li-Fe-O hull", "../test/LiFeO_hull.png")
	require.NoError(t, err)
}

func TestNotPlottable(t *testing.T) {
	var entries []*Entry
	for _, v := range []struct {
		formula string
		epa     float64
	}{{"Li", -1.9}, {"Fe", -8.3}, {"O", -4.95}, {"Na", -1.3}, {"LiFeNaO4", -5.0}} {
		e, err := NewEntry(v.formula, v.epa, "")
		require.NoError(t, err)
		entries = append(entries, e)
	}
	pd, err := NewPhaseDiagram(entries)
	require.NoError(t, err)
	err = Plot(pd, "", "nope.png")
	require.True(t, errors.Is(err, ErrNotPlottable))
}

func TestUnaryNotPlottable(t *testing.T) {
	e, err := NewEntry("Li", -1.9, "")
	require.NoError(t, err)
	pd, err := NewPhaseDiagram([]*Entry{e})
	require.NoError(t, err)
	err = Plot(pd, "", "nope.png")
	require.True(t, errors.Is(err, ErrNotPlottable))
}
