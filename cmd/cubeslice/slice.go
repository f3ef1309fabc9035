/*
 * slice.go, part of gocube.
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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rmera/gocube/archive"
	"github.com/rmera/gocube/cubegen"
	"github.com/spf13/cobra"
)

func sliceCmd() *cobra.Command {
	var temp, config, jsonOut, dbPath string
	var heights []float64
	var orient bool
	var workers int

	c := &cobra.Command{
		Use:   "slice DIR",
		Short: "Collect planes above the molecule from every cube file in DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			O := cubegen.DefaultOptions()
			var err error
			if config != "" {
				if O, err = cubegen.LoadOptions(config); err != nil {
					return fail(cmd, err)
				}
			}
			if cmd.Flags().Changed("height") {
				O.Heights = heights
			}
			if cmd.Flags().Changed("orient") {
				O.OrientCube = orient
			}
			slog.Debug("slice options", "heights", O.Heights, "orient", O.OrientCube, "workers", workers)
			P := &cubegen.Parser{Options: O, Workers: workers}
			out, err := P.Parse(cubegen.OpenRetrieved(args[0], temp))
			if err != nil {
				return fail(cmd, err)
			}
			slog.Info("cube files parsed", "dir", args[0], "stacks", len(out.Labels()))
			printOutput(cmd.OutOrStdout(), out)
			if jsonOut != "" {
				if err := writeJSON(jsonOut, out); err != nil {
					return fail(cmd, err)
				}
			}
			if dbPath != "" {
				id, err := saveRun(cmd.Context(), dbPath, args[0], O, out)
				if err != nil {
					return fail(cmd, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "run: %s\n", id)
			}
			return nil
		},
	}
	c.Flags().StringVarP(&temp, "temp", "t", "", "Second folder with cube files, which must exist if given")
	c.Flags().StringVarP(&config, "config", "c", "", "YAML or JSON file with the options (heights, orient_cube)")
	c.Flags().Float64SliceVar(&heights, "height", []float64{cubegen.DefaultHeight}, "Heights above the topmost atom, in angstrom")
	c.Flags().BoolVar(&orient, "orient", false, "Reorient each grid so the molecule is thinnest along z")
	c.Flags().IntVarP(&workers, "workers", "j", 1, "Number of files parsed at the same time")
	c.Flags().StringVar(&jsonOut, "json", "", "Write the collected arrays to this JSON file")
	c.Flags().StringVar(&dbPath, "db", "", "Store the collected arrays in this SQLite archive")
	return c
}

func printOutput(w io.Writer, out cubegen.Output) {
	for _, l := range out.Labels() {
		shape := out[l].Shape()
		s := make([]string, len(shape))
		for i, v := range shape {
			s[i] = fmt.Sprint(v)
		}
		fmt.Fprintf(w, "%-24s %s\n", l, strings.Join(s, " x "))
	}
	if h, ok := out[cubegen.HArr]; ok {
		fmt.Fprintf(w, "heights: %v\n", h.Data())
	}
}

func writeJSON(path string, out cubegen.Output) error {
	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

func saveRun(ctx context.Context, dbPath, source string, O *cubegen.Options, out cubegen.Output) (string, error) {
	S, err := archive.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer S.Close()
	return S.SaveRun(ctx, source, O, out)
}
