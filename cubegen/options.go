/*
 * options.go, part of gocube.
 *
 * Copyright 2024 The gocube Authors.
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
 */

package cubegen

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//DefaultHeight is the height, in angstrom above the topmost atom, at which
//planes are taken if no heights are given.
const DefaultHeight = 2.0

//Options controls which planes are collected from each cube file.
type Options struct {
	//Heights above the topmost atom, in angstrom, in the order the planes
	//will be stacked.
	Heights []float64 `yaml:"heights" json:"heights"`

	//OrientCube reorients each grid before sampling, so the last axis
	//is the one where the molecule is thinnest.
	OrientCube bool `yaml:"orient_cube" json:"orient_cube"`
}

//DefaultOptions returns the default options: one plane 2 A above the molecule,
//no reorientation.
func DefaultOptions() *Options {
	return &Options{Heights: []float64{DefaultHeight}}
}

//Validate returns an error if O can't be used to parse cube files.
func (O *Options) Validate() error {
	if len(O.Heights) == 0 {
		return &OptionsError{"no heights given", []string{"Validate"}}
	}
	for i, h := range O.Heights {
		if math.IsNaN(h) || math.IsInf(h, 0) {
			return &OptionsError{fmt.Sprintf("height %d is not a finite number: %v", i, h), []string{"Validate"}}
		}
	}
	return nil
}

//ParseOptions overlays the YAML (or JSON) document data on the default options,
//and validates the result.
func ParseOptions(data []byte) (*Options, error) {
	O := DefaultOptions()
	if err := yaml.Unmarshal(data, O); err != nil {
		return nil, &OptionsError{err.Error(), []string{"ParseOptions"}}
	}
	if err := O.Validate(); err != nil {
		return nil, errDecorate(err, "ParseOptions")
	}
	return O, nil
}

//LoadOptions reads options from the YAML or JSON file path. If the file doesn't
//exist, the default options are returned.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		Logf("cubegen: options file %s not found, using defaults", path)
		return DefaultOptions(), nil
	} else if err != nil {
		return nil, fmt.Errorf("cubegen: reading options: %w", err)
	}
	O, err := ParseOptions(data)
	if err != nil {
		return nil, errDecorate(err, "LoadOptions "+path)
	}
	return O, nil
}
