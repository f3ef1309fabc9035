/*
 * location.go, part of gocube.
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
	"io"
	"io/fs"
	"os"
)

//Location is a flat collection of files, such as the folder where a calculation
//left its results.
type Location interface {
	//Name identifies the location in logs and errors.
	Name() string
	//List returns the names of the regular files in the location, sorted.
	List() ([]string, error)
	//Open opens one of the files returned by List.
	Open(name string) (io.ReadCloser, error)
}

//FSLocation is a Location backed by the root directory of an fs.FS.
type FSLocation struct {
	FS    fs.FS
	Label string
}

//Name returns the label of the location.
func (L *FSLocation) Name() string { return L.Label }

//List returns the regular files in the root of L.FS, in lexical order.
//Symbolic links to regular files are included, broken links are not.
func (L *FSLocation) List() ([]string, error) {
	entries, err := fs.ReadDir(L.FS, ".")
	if err != nil {
		return nil, err
	}
	ret := make([]string, 0, len(entries))
	for _, v := range entries {
		switch {
		case v.Type().IsRegular():
		case v.Type()&fs.ModeSymlink != 0:
			info, err := fs.Stat(L.FS, v.Name())
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		default:
			continue
		}
		ret = append(ret, v.Name())
	}
	return ret, nil
}

//Open opens the file name.
func (L *FSLocation) Open(name string) (io.ReadCloser, error) {
	return L.FS.Open(name)
}

//DirLocation returns a Location for the directory path of the OS filesystem.
func DirLocation(path string) *FSLocation {
	return &FSLocation{FS: os.DirFS(path), Label: path}
}

//Retrieved describes where the cube files of a calculation are. Folder is the main
//location, and it must exist. Temporary is a second location that is only required if
//TemporaryExpected is true.
type Retrieved struct {
	Folder            Location
	Temporary         Location
	TemporaryExpected bool

	//paths that were not found, for error messages
	missingFolder, missingTemporary string
}

//Locations returns the locations to be scanned, in order, or a MissingLocationError
//if a required location is not available.
func (R Retrieved) Locations() ([]Location, error) {
	if R.Folder == nil {
		return nil, &MissingLocationError{Code: ErrNoRetrievedFolder, Path: R.missingFolder, deco: []string{"Locations"}}
	}
	ret := []Location{R.Folder}
	if !R.TemporaryExpected {
		return ret, nil
	}
	if R.Temporary == nil {
		return nil, &MissingLocationError{Code: ErrNoRetrievedTemporaryFolder, Path: R.missingTemporary, deco: []string{"Locations"}}
	}
	return append(ret, R.Temporary), nil
}

//OpenRetrieved builds a Retrieved from OS directories. An empty temporary means no
//temporary location is expected. Directories that don't exist are left
//unset, so the error appears when the locations are requested.
func OpenRetrieved(folder, temporary string) Retrieved {
	var R Retrieved
	if isDir(folder) {
		R.Folder = DirLocation(folder)
	} else {
		R.missingFolder = folder
	}
	if temporary == "" {
		return R
	}
	R.TemporaryExpected = true
	if isDir(temporary) {
		R.Temporary = DirLocation(temporary)
	} else {
		R.missingTemporary = temporary
	}
	return R
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
