// Package store persists the project dataset as a single flat CSV file
// and owns the process-wide in-memory copy of it.
//
// The file contract: UTF-8 with a BOM (tolerated on read, written on
// save), a header row naming all columns, dates as YYYY-MM-DD. The
// store keeps one cached dataset plus a version counter; saves are
// version-checked so a stale writer cannot silently overwrite a newer
// file, and a successful save invalidates the cache so the next read
// reloads from disk.
package store

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/labdesk/labdesk/internal/core"
)

// Sentinel errors for the load and save paths. Message text feeds
// core.MapError, so the phrasing is part of the error contract.
var (
	ErrNotFound     = errors.New("data file not found")
	ErrParse        = errors.New("invalid data file")
	ErrWrite        = errors.New("data file write failed")
	ErrStaleVersion = errors.New("dataset version conflict")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store reads and writes the dataset at a fixed path.
type Store struct {
	path string

	mu      sync.Mutex
	cached  *core.Dataset
	version uint64
	valid   bool
}

// New creates a store for the CSV file at path. Nothing is read until
// the first Current call.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path the store persists to.
func (s *Store) Path() string {
	return s.path
}

// Current returns a copy of the current dataset and its version,
// reading the file only when the cache is invalid. Callers must treat
// an error as "dataset unavailable" and render nothing.
func (s *Store) Current(ctx context.Context) (*core.Dataset, uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid {
		ds, err := readFile(s.path)
		if err != nil {
			return nil, 0, err
		}
		s.cached = ds
		s.valid = true
		s.version++
	}
	return s.cached.Clone(), s.version, nil
}

// Invalidate forces the next Current call to re-read the file.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid = false
}

// Save writes ds to the file unconditionally, bypassing the version
// check. Used by the seed tool; the interactive path goes through
// SaveVersion.
func (s *Store) Save(ctx context.Context, ds *core.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFile(s.path, ds); err != nil {
		return err
	}
	s.valid = false
	s.version++
	return nil
}

// SaveVersion writes ds to the file if version still matches the
// store's current version. A stale version fails with ErrStaleVersion
// and leaves the file untouched; the caller keeps its buffer. On
// success the cache is invalidated and the version bumped, forcing the
// next read to reload from disk.
func (s *Store) SaveVersion(ctx context.Context, ds *core.Dataset, version uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if version != s.version {
		return fmt.Errorf("%w: have %d, file is at %d", ErrStaleVersion, version, s.version)
	}
	if err := writeFile(s.path, ds); err != nil {
		return err
	}
	s.valid = false
	s.version++
	return nil
}

// readFile parses the CSV at path into a dataset.
func readFile(path string) (*core.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if err := skipBOM(br); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	r := csv.NewReader(br)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", ErrParse, err)
	}

	// Columns are matched by header name, not position, so files with
	// reordered columns still load.
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[h] = i
	}
	for _, col := range core.Columns {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %s", ErrParse, col)
		}
	}

	ds := &core.Dataset{}
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, line, err)
		}
		p, err := parseRecord(record, colIdx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, line, err)
		}
		ds.Projects = append(ds.Projects, p)
	}
	return ds, nil
}

// skipBOM consumes a leading UTF-8 BOM if present.
func skipBOM(br *bufio.Reader) error {
	prefix, err := br.Peek(len(utf8BOM))
	if err != nil {
		// Shorter than a BOM; let the CSV reader report the real problem.
		return nil
	}
	if prefix[0] == utf8BOM[0] && prefix[1] == utf8BOM[1] && prefix[2] == utf8BOM[2] {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return err
		}
	}
	return nil
}

// parseRecord converts one CSV record into a Project. Dates and the two
// integer fields must parse; the free-text fields fall back to "".
// Status and phase are not validated here: the enum invariant holds for
// the editor path only, not for out-of-band file edits.
func parseRecord(record []string, colIdx map[string]int) (core.Project, error) {
	field := func(name string) string {
		i, ok := colIdx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	start, err := time.Parse(core.DateFormat, field("Start_Date"))
	if err != nil {
		return core.Project{}, fmt.Errorf("Start_Date: %v", err)
	}
	end, err := time.Parse(core.DateFormat, field("End_Date"))
	if err != nil {
		return core.Project{}, fmt.Errorf("End_Date: %v", err)
	}
	budget, err := strconv.ParseInt(field("Budget"), 10, 64)
	if err != nil {
		return core.Project{}, fmt.Errorf("Budget: %v", err)
	}
	progress, err := strconv.Atoi(field("Progress"))
	if err != nil {
		return core.Project{}, fmt.Errorf("Progress: %v", err)
	}

	return core.Project{
		ID:             field("Project_ID"),
		Name:           field("Project_Name"),
		Investigator:   field("Principal_Investigator"),
		Department:     field("Department"),
		StartDate:      start,
		EndDate:        end,
		Budget:         budget,
		Progress:       progress,
		ResearchArea:   field("Research_Area"),
		Status:         core.Status(field("Status")),
		Phase:          core.Phase(field("Current_Phase")),
		ReviewComments: field("Review_Comments"),
		ActionItems:    field("Action_Items"),
	}, nil
}

// writeFile serializes ds to a temp file in the same directory and
// renames it over path, so a failed write leaves the previous file
// untouched. Output is UTF-8 with a BOM to match the existing file
// contract (Excel-friendly for the Korean text fields).
func writeFile(path string, ds *core.Dataset) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".projects-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpName := tmp.Name()

	if err := writeCSV(tmp, ds); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func writeCSV(w io.Writer, ds *core.Dataset) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(core.Columns); err != nil {
		return err
	}
	for _, p := range ds.Projects {
		record := make([]string, len(core.Columns))
		for i, col := range core.Columns {
			record[i] = p.Field(col)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
