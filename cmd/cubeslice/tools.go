/*
 * tools.go, part of gocube.
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
	"fmt"
	"io"
	"os"

	cube "github.com/rmera/gocube"
	"github.com/rmera/gocube/archive"
	"github.com/spf13/cobra"
)

func orientCmd() *cobra.Command {
	var geometry string
	c := &cobra.Command{
		Use:   "orient IN OUT",
		Short: "Reorient a cube file so the molecule is most extended along x and thinnest along z",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			G, err := cube.FileRead(args[0])
			if err != nil {
				return fail(cmd, err)
			}
			perm := G.Orient()
			if err := cube.FileWrite(args[1], G); err != nil {
				return fail(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "axis order: %d %d %d\n", perm[0], perm[1], perm[2])
			if geometry == "" {
				return nil
			}
			f, err := os.Create(geometry)
			if err != nil {
				return fail(cmd, err)
			}
			defer f.Close()
			if err := cube.GeometryWrite(f, G); err != nil {
				return fail(cmd, err)
			}
			return f.Close()
		},
	}
	c.Flags().StringVar(&geometry, "xyz", "", "Also write the reoriented geometry to this XYZ file")
	return c
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Print a summary of a cube file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			G, err := cube.FileRead(args[0])
			if err != nil {
				return fail(cmd, err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, G)
			s := G.AtomSpread()
			fmt.Fprintf(w, "atom spread (A): %.4f %.4f %.4f\n", s[0], s[1], s[2])
			fmt.Fprintf(w, "voxel volume (bohr^3): %.6g\n", G.VoxelVolume())
			fmt.Fprintf(w, "integral: %.6g\n", G.Integrate())
			return nil
		},
	}
}

func runsCmd() *cobra.Command {
	var dbPath string
	c := &cobra.Command{
		Use:   "runs",
		Short: "List the runs stored in an archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			S, err := openArchive(dbPath)
			if err != nil {
				return fail(cmd, err)
			}
			defer S.Close()
			runs, err := S.Runs(cmd.Context())
			if err != nil {
				return fail(cmd, err)
			}
			for _, r := range runs {
				printRun(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
	c.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite archive")
	_ = c.MarkPersistentFlagRequired("db")
	c.AddCommand(runShowCmd(&dbPath), runRmCmd(&dbPath))
	return c
}

func runShowCmd(dbPath *string) *cobra.Command {
	var jsonOut string
	c := &cobra.Command{
		Use:   "show ID",
		Short: "Print the arrays of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			S, err := openArchive(*dbPath)
			if err != nil {
				return fail(cmd, err)
			}
			defer S.Close()
			r, out, err := S.LoadRun(cmd.Context(), args[0])
			if err != nil {
				return fail(cmd, err)
			}
			printRun(cmd.OutOrStdout(), r)
			printOutput(cmd.OutOrStdout(), out)
			if jsonOut != "" {
				if err := writeJSON(jsonOut, out); err != nil {
					return fail(cmd, err)
				}
			}
			return nil
		},
	}
	c.Flags().StringVar(&jsonOut, "json", "", "Write the arrays of the run to this JSON file")
	return c
}

func runRmCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			S, err := openArchive(*dbPath)
			if err != nil {
				return fail(cmd, err)
			}
			defer S.Close()
			if err := S.DeleteRun(cmd.Context(), args[0]); err != nil {
				return fail(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted: %s\n", args[0])
			return nil
		},
	}
}

//openArchive opens an existing archive. Unlike archive.Open, it doesn't
//create the database.
func openArchive(path string) (*archive.Store, error) {
	if !exists(path) {
		return nil, fmt.Errorf("archive %s not found", path)
	}
	return archive.Open(path)
}

func printRun(w io.Writer, r *archive.Run) {
	fmt.Fprintf(w, "%s  %s  %2d arrays  heights %v  %s\n",
		r.ID, r.Created.Format("2006-01-02 15:04:05"), r.NArrays, r.Options.Heights, r.Source)
}
