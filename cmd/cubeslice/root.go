/*
 * root.go, part of gocube.
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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	cube "github.com/rmera/gocube"
	"github.com/rmera/gocube/cubegen"
	"github.com/spf13/cobra"
)

//setupLogging sends the logs of the libraries to a slog text handler on w.
func setupLogging(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	libLog := func(format string, v ...any) {
		l.Info(fmt.Sprintf(format, v...))
	}
	cube.SetLogger(libLog)
	cubegen.SetLogger(libLog)
	return l
}

func newRootCmd() *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:           "cubeslice",
		Short:         "Collect and inspect planes of Gaussian cube files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr(), debug)
		},
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debugging information to stderr")
	cmd.AddCommand(sliceCmd(), orientCmd(), infoCmd(), runsCmd())
	return cmd
}

//fail logs err and returns it, so the error is reported once, through slog.
func fail(cmd *cobra.Command, err error) error {
	attrs := []any{"error", err}
	var merr *cubegen.MissingLocationError
	if errors.As(err, &merr) {
		attrs = append(attrs, "code", merr.Code, "name", merr.Name(), "exit", exitStatus(err))
	}
	if tr := cube.Trace(err); tr != "" {
		attrs = append(attrs, "trace", tr)
	}
	slog.Error(cmd.Name()+" failed", attrs...)
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
