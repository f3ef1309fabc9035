/*
 * archive.go, part of gocube.
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

//Package archive keeps the outputs of cubegen parsers in a SQLite database,
//so planes from many calculations can be stored and retrieved later.
package archive

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	cube "github.com/rmera/gocube"
	"github.com/rmera/gocube/cubegen"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

//fixed width, so the stored times sort as strings.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

//ErrRunNotFound is returned when a requested run is not in the archive.
var ErrRunNotFound = errors.New("archive: run not found")

//Run describes a stored parser output.
type Run struct {
	ID      string
	Created time.Time
	Source  string //where the cube files came from, free text
	Options *cubegen.Options
	NArrays int
}

//Store is an archive of parser outputs, backed by a SQLite database.
type Store struct {
	db *sql.DB
}

//Open opens, or creates, the archive in the SQLite file path, and brings
//its schema up to date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: opening %s: %w", path, err)
	}
	//SQLite allows only one writer at a time.
	db.SetMaxOpenConns(1)
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

//migrateLogger sends the messages of golang-migrate to the library logger.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	cube.Logf("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool { return false }

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("archive: reading migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("archive: creating sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("archive: creating migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	//m is not closed, as that would close db.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("archive: migration up failed: %w", err)
	}
	return nil
}

//Close closes the database.
func (S *Store) Close() error {
	return S.db.Close()
}

//SaveRun stores out, obtained with the options O from source, and
//returns the ID assigned to it.
func (S *Store) SaveRun(ctx context.Context, source string, O *cubegen.Options, out cubegen.Output) (string, error) {
	if O == nil {
		O = cubegen.DefaultOptions()
	}
	opts, err := json.Marshal(O)
	if err != nil {
		return "", fmt.Errorf("archive: encoding options: %w", err)
	}
	id := uuid.New().String()
	tx, err := S.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("archive: %w", err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `INSERT INTO runs (id, created_at, source, options) VALUES (?, ?, ?, ?)`,
		id, time.Now().UTC().Format(timeFormat), source, string(opts))
	if err != nil {
		return "", fmt.Errorf("archive: inserting run: %w", err)
	}
	for label, A := range out {
		_, err = tx.ExecContext(ctx, `INSERT INTO arrays (run_id, label, shape, data) VALUES (?, ?, ?, ?)`,
			id, label, encodeShape(A.Shape()), encodeData(A.Data()))
		if err != nil {
			return "", fmt.Errorf("archive: inserting array %s: %w", label, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("archive: committing run: %w", err)
	}
	return id, nil
}

//LoadRun returns the run with the given ID and its output. ErrRunNotFound is
//returned if there is no such run.
func (S *Store) LoadRun(ctx context.Context, id string) (*Run, cubegen.Output, error) {
	row := S.db.QueryRowContext(ctx, `SELECT id, created_at, source, options,
		(SELECT COUNT(*) FROM arrays WHERE run_id = runs.id) FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	} else if err != nil {
		return nil, nil, err
	}
	rows, err := S.db.QueryContext(ctx, `SELECT label, shape, data FROM arrays WHERE run_id = ?`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("archive: querying arrays: %w", err)
	}
	defer rows.Close()
	out := make(cubegen.Output)
	for rows.Next() {
		var label, shape string
		var blob []byte
		if err := rows.Scan(&label, &shape, &blob); err != nil {
			return nil, nil, fmt.Errorf("archive: reading array: %w", err)
		}
		A, err := decodeArray(shape, blob)
		if err != nil {
			return nil, nil, fmt.Errorf("archive: array %s of run %s: %w", label, id, err)
		}
		out[label] = A
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("archive: %w", err)
	}
	return run, out, nil
}

//Runs returns all the stored runs, oldest first.
func (S *Store) Runs(ctx context.Context) ([]*Run, error) {
	rows, err := S.db.QueryContext(ctx, `SELECT id, created_at, source, options,
		(SELECT COUNT(*) FROM arrays WHERE run_id = runs.id) FROM runs ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("archive: querying runs: %w", err)
	}
	defer rows.Close()
	var ret []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	return ret, nil
}

//DeleteRun removes a run and its arrays.
func (S *Store) DeleteRun(ctx context.Context, id string) error {
	tx, err := S.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	defer tx.Rollback()
	if _, err = tx.ExecContext(ctx, `DELETE FROM arrays WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("archive: deleting arrays: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("archive: deleting run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var r Run
	var created, opts string
	if err := s.Scan(&r.ID, &created, &r.Source, &opts, &r.NArrays); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("archive: reading run: %w", err)
	}
	var err error
	if r.Created, err = time.Parse(timeFormat, created); err != nil {
		return nil, fmt.Errorf("archive: run %s: bad creation time: %w", r.ID, err)
	}
	r.Options = new(cubegen.Options)
	if err = json.Unmarshal([]byte(opts), r.Options); err != nil {
		return nil, fmt.Errorf("archive: run %s: bad options: %w", r.ID, err)
	}
	return &r, nil
}

func encodeShape(shape []int) string {
	s := make([]string, len(shape))
	for i, v := range shape {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ",")
}

//arrays are stored as little-endian float64.
func encodeData(data []float64) []byte {
	ret := make([]byte, 0, 8*len(data))
	for _, v := range data {
		ret = binary.LittleEndian.AppendUint64(ret, math.Float64bits(v))
	}
	return ret
}

func decodeArray(shape string, blob []byte) (*cubegen.Array, error) {
	var dims []int
	if shape != "" {
		for _, v := range strings.Split(shape, ",") {
			d, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("bad shape %q", shape)
			}
			dims = append(dims, d)
		}
	}
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("data blob of %d bytes is not a float64 array", len(blob))
	}
	data := make([]float64, len(blob)/8)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8*i:]))
	}
	return cubegen.NewArray(data, dims...)
}
