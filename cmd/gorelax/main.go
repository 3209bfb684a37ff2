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

//gorelax pre-relaxes a crystal structure with an external
//machine-learned potential driver (CHGNet by default), optionally runs a
//short MD shake test, and writes the relaxed structure together with
//sanity-check and provenance reports.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	matter "github.com/rmolina/gomat"
	"github.com/rmolina/gomat/relax"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

//config mirrors the YAML config file and collects the flag values. Flags
//given explicitly win over the config file, which wins over defaults.
type config struct {
	Driver       string  `yaml:"driver"`
	FMax         float64 `yaml:"fmax"`
	MDSteps      int     `yaml:"md_steps"`
	MDTimestepFs float64 `yaml:"md_timestep_fs"`
	MDTempK      float64 `yaml:"md_temperature_K"`
	Seed         int     `yaml:"seed"`
	DriftTol     float64 `yaml:"drift_threshold_meV_per_atom"`
}

var (
	cfg        config
	outdir     string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "gorelax structure",
	Short: "Pre-relax a structure with an ML potential, with provenance",
	Long: `gorelax reads a CIF or POSCAR structure, relaxes it through an external
CHGNet-style driver program and, if asked, runs a short MD "shake test"
at finite temperature. It writes the relaxed structure (CIF and POSCAR),
a sanity-check report (residual forces, MD energy drift), and a JSON
provenance record with the exact settings and component versions.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&outdir, "outdir", "runs/out", "output directory")
	f.StringVar(&configPath, "config", "", "YAML file with default settings")
	f.StringVar(&cfg.Driver, "driver", "", "driver command (default $CHGNET_DRIVER or chgnet-driver)")
	f.Float64Var(&cfg.FMax, "fmax", 0.05, "relaxation force threshold in eV/Å")
	f.IntVar(&cfg.MDSteps, "md-steps", 0, "number of MD shake-test steps (0 to skip)")
	f.Float64Var(&cfg.MDTimestepFs, "md-timestep-fs", 1.0, "MD timestep (fs)")
	f.Float64Var(&cfg.MDTempK, "md-temperature-K", 300.0, "MD temperature (K)")
	f.IntVar(&cfg.Seed, "seed", 42, "random seed for the initial velocities")
	f.Float64Var(&cfg.DriftTol, "drift-threshold", relax.DefaultDriftTol,
		"flag the run if |MD energy drift| exceeds this many meV/atom")
}

//mergeConfig overlays the YAML file (if any) under the flags: a value
//from the file applies only when its flag wasn't given explicitly.
func mergeConfig(cmd *cobra.Command) error {
	if configPath == "" {
		return nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}
	var fileCfg config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("%s: %v", configPath, err)
	}
	flags := cmd.Flags()
	if !flags.Changed("driver") && fileCfg.Driver != "" {
		cfg.Driver = fileCfg.Driver
	}
	if !flags.Changed("fmax") && fileCfg.FMax > 0 {
		cfg.FMax = fileCfg.FMax
	}
	if !flags.Changed("md-steps") && fileCfg.MDSteps > 0 {
		cfg.MDSteps = fileCfg.MDSteps
	}
	if !flags.Changed("md-timestep-fs") && fileCfg.MDTimestepFs > 0 {
		cfg.MDTimestepFs = fileCfg.MDTimestepFs
	}
	if !flags.Changed("md-temperature-K") && fileCfg.MDTempK > 0 {
		cfg.MDTempK = fileCfg.MDTempK
	}
	if !flags.Changed("seed") && fileCfg.Seed != 0 {
		cfg.Seed = fileCfg.Seed
	}
	if !flags.Changed("drift-threshold") && fileCfg.DriftTol > 0 {
		cfg.DriftTol = fileCfg.DriftTol
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	if err := mergeConfig(cmd); err != nil {
		return err
	}
	input := args[0]
	s, err := matter.StructureRead(input)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return err
	}
	Q := &relax.Options{
		FMax:         cfg.FMax,
		MDSteps:      cfg.MDSteps,
		MDTimestepFs: cfg.MDTimestepFs,
		MDTempK:      cfg.MDTempK,
		Seed:         cfg.Seed,
	}
	h := relax.NewCHGNetHandle()
	if cfg.Driver != "" {
		h.SetCommand(cfg.Driver)
	}
	h.SetName(filepath.Join(outdir, "job"))
	if err := h.BuildInput(s, Q); err != nil {
		return err
	}
	log.Info().Str("structure", input).Int("sites", s.NumSites()).
		Str("driver", h.Command()).Float64("fmax", Q.FMax).Int("md_steps", Q.MDSteps).
		Msg("Running driver")
	if err := h.Run(true); err != nil {
		return err
	}
	energy, err := h.Energy()
	if err != nil {
		return err
	}
	maxForce, err := h.MaxForce()
	if err != nil {
		return err
	}
	relaxed, err := h.OptimizedStructure()
	if err != nil {
		return err
	}
	prov := relax.NewProvenance(input, os.Args[1:], Q, h.Versions())
	relaxedCIF := filepath.Join(outdir, "relaxed.cif")
	relaxedPOSCAR := filepath.Join(outdir, "relaxed.POSCAR")
	if err := matter.CIFWrite(relaxedCIF, relaxed); err != nil {
		return err
	}
	prov.AddOutput("relaxed_cif", relaxedCIF)
	if err := matter.POSCARWrite(relaxedPOSCAR, relaxed); err != nil {
		return err
	}
	prov.AddOutput("relaxed_poscar", relaxedPOSCAR)

	var mdEnergies []float64
	if Q.MDSteps > 0 {
		mdEnergies, err = h.MDEnergies()
		if err != nil {
			log.Warn().Err(err).Msg("MD was requested but the driver returned no energies")
		} else {
			mdPath := filepath.Join(outdir, "md_summary.json")
			if err := relax.WriteJSON(map[string][]float64{"energies_eV": mdEnergies}, mdPath); err != nil {
				return err
			}
			prov.AddOutput("md_summary", mdPath)
			if err := writeTrajectory(h, relaxed, prov, mdEnergies); err != nil {
				return err
			}
		}
	}
	sanity := relax.Sanity(Q, energy, maxForce, mdEnergies, relaxed.NumSites(), cfg.DriftTol)
	sanityPath := filepath.Join(outdir, "sanity.json")
	if err := relax.WriteJSON(sanity, sanityPath); err != nil {
		return err
	}
	prov.AddOutput("sanity", sanityPath)
	if err := relax.WriteJSON(prov, filepath.Join(outdir, "provenance.json")); err != nil {
		return err
	}
	ev := log.Info()
	if sanity.Flagged {
		ev = log.Warn().Strs("reasons", sanity.Reasons)
	}
	ev.Float64("energy_eV", energy).Float64("max_force_eVA", maxForce).
		Bool("flagged", sanity.Flagged).Str("outdir", outdir).Msg("Done")
	return nil
}

//writeTrajectory saves the sampled MD frames, if the driver recorded
//any, as a zstd-compressed shake-test trajectory.
func writeTrajectory(h *relax.CHGNetHandle, relaxed *matter.Structure, prov *relax.Provenance, energies []float64) error {
	frames, err := h.MDFrames()
	if err != nil {
		return nil //frames are optional, energies are the real shake-test data
	}
	syms := make([]string, relaxed.NumSites())
	for i := range syms {
		syms[i] = relaxed.Site(i).Symbol
	}
	trajPath := filepath.Join(outdir, "md.traj.zst")
	w, err := relax.NewTrajWriter(trajPath, relaxed.NumSites(), map[string]string{"source": "gorelax"})
	if err != nil {
		return err
	}
	defer w.Close()
	for i, frame := range frames {
		energy := 0.0
		if i < len(energies) {
			energy = energies[i]
		}
		if err := w.WNext(i+1, energy, syms, frame); err != nil {
			return err
		}
	}
	prov.AddOutput("md_trajectory", trajPath)
	return nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("gorelax failed")
	}
}
