/*
 * compress.go, part of gocube.
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

package cube

import (
	"compress/gzip"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//Compression identifies how a cube file is compressed, which is
//decided from the file name.
type Compression int

const (
	None Compression = iota
	Gzip
	Zstd
)

//CompressionOf returns the compression implied by the suffix of name.
//.gz means gzip, .zst and .zstd mean z-standard, anything else means none.
func CompressionOf(name string) Compression {
	n := strings.ToLower(name)
	switch {
	case strings.HasSuffix(n, ".gz"):
		return Gzip
	case strings.HasSuffix(n, ".zst"), strings.HasSuffix(n, ".zstd"):
		return Zstd
	default:
		return None
	}
}

//StripCompression returns name without its compression suffix, if any.
func StripCompression(name string) string {
	n := strings.ToLower(name)
	for _, suf := range []string{".gz", ".zstd", ".zst"} {
		if strings.HasSuffix(n, suf) {
			return name[:len(name)-len(suf)]
		}
	}
	return name
}

//*zstd.Decoder doesn't implement io.ReadCloser, since its Close
//returns nothing.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }

//NewReader returns a reader that decompresses r according to the suffix
//of name. Closing the returned reader doesn't close r.
func NewReader(name string, r io.Reader) (io.ReadCloser, error) {
	switch CompressionOf(name) {
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, &FormatError{message: "can't open gzip stream: " + err.Error(), filename: name, deco: []string{"NewReader"}}
		}
		return gz, nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, &FormatError{message: "can't open zstd stream: " + err.Error(), filename: name, deco: []string{"NewReader"}}
		}
		return zstdReadCloser{zr}, nil
	default:
		return nopCloser{r}, nil
	}
}

//NewWriter returns a writer that compresses into w according to the suffix of
//name. The returned writer must be closed to flush the compressed stream.
//Closing it doesn't close w.
func NewWriter(name string, w io.Writer) (io.WriteCloser, error) {
	switch CompressionOf(name) {
	case Gzip:
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
