/*
 * report.go, part of gomat.
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

package relax

import (
	"encoding/json"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	matter "github.com/rmolina/gomat"
)

//Provenance records where a result came from: the exact invocation, the
//versions of everything involved, and the paths of all outputs. One is
//written next to every job's results, since a pre-relaxed structure
//without its provenance is worthless a month later.
type Provenance struct {
	RunID     string            `json:"run_id"`
	Args      []string          `json:"cli_args"`
	Settings  *Options          `json:"settings"`
	Versions  map[string]string `json:"versions"`
	Timestamp string            `json:"timestamp"`
	Input     string            `json:"structure_input"`
	Outputs   map[string]string `json:"outputs"`
}

//NewProvenance builds a provenance record for a run on the given input
//file. versions should come from the driver (Versions on the handle);
//the gomat version is added here.
func NewProvenance(input string, args []string, Q *Options, versions map[string]string) *Provenance {
	v := make(map[string]string, len(versions)+1)
	for k, val := range versions {
		v[k] = val
	}
	v["gomat"] = matter.Version
	return &Provenance{
		RunID:     uuid.NewString(),
		Args:      args,
		Settings:  Q,
		Versions:  v,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		Input:     input,
		Outputs:   make(map[string]string),
	}
}

//AddOutput records an output file under the given key.
func (P *Provenance) AddOutput(key, path string) {
	P.Outputs[key] = path
}

//WriteJSON writes v as indented JSON to path, atomically: the file
//appears complete or not at all.
func WriteJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return renameio.WriteFile(path, data, 0644)
}
