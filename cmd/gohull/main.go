/*
 * main.go, part of gomat.
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
 * */

//gohull reads composition/energy data from a CSV file, computes
//formation energies and distances to the convex hull, and writes the
//results back as CSV, optionally with a plot for binary and ternary
//systems.

package main

import (
	"errors"
	"os"
	"strings"

	"github.com/rmolina/gomat/hull"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	outPath   string
	plotPath  string
	plotTitle string
)

var rootCmd = &cobra.Command{
	Use:   "gohull input.csv",
	Short: "Convex-hull analysis of composition/energy data",
	Long: `gohull reads a CSV with columns "composition" and "energy_per_atom_eV"
(plus an optional "label"), builds the phase diagram of the system, and
writes a CSV with two added columns: the formation energy of each entry
against the elemental references found in the data, and its distance to
the convex hull. With --plot, binary and ternary systems also get an
image of the diagram.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&outPath, "out", "hull_results.csv", "output CSV path")
	rootCmd.Flags().StringVar(&plotPath, "plot", "", "image path for the hull plot (binary/ternary only)")
	rootCmd.Flags().StringVar(&plotTitle, "title", "", "plot title (default: the chemical system)")
}

func run(cmd *cobra.Command, args []string) error {
	entries, err := hull.ReadEntriesCSV(args[0])
	if err != nil {
		return err
	}
	pd, err := hull.NewPhaseDiagram(entries)
	if err != nil {
		return err
	}
	formation, distance, err := pd.Analyze()
	if err != nil {
		return err
	}
	if err := hull.WriteResultsCSV(outPath, entries, formation, distance); err != nil {
		return err
	}
	stable := 0
	for _, d := range distance {
		if d <= hull.StableTol {
			stable++
		}
	}
	log.Info().Str("out", outPath).Int("entries", len(entries)).Int("on_hull", stable).
		Str("system", strings.Join(pd.Elements(), "-")).Msg("Wrote hull results")
	if plotPath == "" {
		return nil
	}
	title := plotTitle
	if title == "" {
		title = strings.Join(pd.Elements(), "-") + " hull"
	}
	err = hull.Plot(pd, title, plotPath)
	if errors.Is(err, hull.ErrNotPlottable) {
		log.Warn().Int("elements", len(pd.Elements())).
			Msg("Plotting supported only for binary/ternary systems. Skipping.")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("plot", plotPath).Msg("Wrote hull plot")
	return nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("gohull failed")
	}
}
