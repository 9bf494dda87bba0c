// Package catalog loads the fixed medicine reference data and serves
// read-only lookups over it.
//
// A Store is immutable once built: every accessor returns copies, so one
// Store can be shared by any number of goroutines without locking.
package catalog

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Store holds the loaded catalog.
type Store struct {
	source  string
	records []Record
	names   []string
	byName  map[string]int
	issues  []Issue
}

// New builds a Store from records in catalog order. Names are trimmed, rows
// with an empty name are dropped, and enumerated attributes are canonicalized.
// Anything that does not fit is recorded as an Issue.
func New(source string, records []Record) *Store {
	s := &Store{
		source:  source,
		records: make([]Record, 0, len(records)),
		byName:  make(map[string]int, len(records)),
	}

	var collisions int
	for i, r := range records {
		row := i + 1
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			s.issues = append(s.issues, Issue{Row: row, Field: ColMedicine, Value: ""})
			continue
		}

		var ok bool
		if r.ToxicityLevel, ok = ParseToxicity(string(r.ToxicityLevel)); !ok {
			s.issues = append(s.issues, Issue{Row: row, Name: r.Name, Field: ColToxicityLevel, Value: string(r.ToxicityLevel)})
		}
		if r.CompostSafe, ok = ParseCompost(string(r.CompostSafe)); !ok {
			s.issues = append(s.issues, Issue{Row: row, Name: r.Name, Field: ColCompostSafe, Value: string(r.CompostSafe)})
		}

		key := nameKey(r.Name)
		if _, exists := s.byName[key]; exists {
			collisions++
		} else {
			s.byName[key] = len(s.records)
		}
		s.records = append(s.records, r)
		s.names = append(s.names, r.Name)
	}
	sort.Strings(s.names)

	if collisions > 0 {
		zap.L().Warn("duplicate medicine names, first entry wins",
			zap.String("source", source), zap.Int("collisions", collisions))
	}
	for _, is := range s.issues {
		zap.L().Warn("catalog data-quality issue", zap.String("source", source), zap.Stringer("issue", is))
	}
	return s
}

// Load reads a catalog from path. A directory is read through its
// manifest.yaml; a .gob file is a snapshot; .db, .sqlite and .sqlite3 are
// SQLite databases; .xlsx is a spreadsheet whose first sheet holds the
// table; anything else is read as comma-separated CSV.
func Load(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: eris.Wrap(err, "stat catalog source")}
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gob":
		return LoadGob(path)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(path)
	case ".xlsx":
		return LoadXLSX(path, FormatSpec{})
	default:
		return LoadCSV(path, FormatSpec{})
	}
}

// LoadDir reads a catalog directory described by manifest.yaml.
// A data.gob snapshot takes priority over the declared data file.
func LoadDir(dir string) (*Store, error) {
	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, &LoadError{Source: dir, Err: err}
	}

	gobPath := filepath.Join(dir, "data.gob")
	if _, err := os.Stat(gobPath); err == nil {
		return LoadGob(gobPath)
	}

	dataPath := filepath.Join(dir, m.DataFile)
	switch strings.ToLower(filepath.Ext(dataPath)) {
	case ".gob":
		return LoadGob(dataPath)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(dataPath)
	case ".xlsx":
		return LoadXLSX(dataPath, m.Format)
	}
	return LoadCSV(dataPath, m.Format)
}

// LoadCSV reads a CSV catalog file.
func LoadCSV(path string, format FormatSpec) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: eris.Wrap(err, "open data file")}
	}
	defer f.Close()
	return ReadCSV(f, path, format)
}

// ReadCSV reads CSV catalog data from r. The first row must be a header
// containing every required column; extra columns are ignored.
func ReadCSV(r io.Reader, source string, format FormatSpec) (*Store, error) {
	// Transcode non-UTF-8 encodings declared in the manifest.
	if enc := format.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, &LoadError{Source: source, Err: eris.Wrapf(err, "unsupported encoding %q", enc)}
		}
		r = transform.NewReader(r, e.NewDecoder())
	}

	cr := csv.NewReader(r)
	if delim := format.Delimiter; delim != "" {
		cr.Comma = []rune(delim)[0]
	}
	// Cells are trimmed in fromTable. TrimLeadingSpace would swallow empty
	// cells when the delimiter is itself whitespace.
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		want := format.Columns.headers()
		return nil, &LoadError{Source: source, Missing: want[:], Err: eris.New("empty catalog")}
	}
	if err != nil {
		return nil, &LoadError{Source: source, Err: eris.Wrap(err, "read header")}
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Source: source, Err: eris.Wrap(err, "read row")}
		}
		rows = append(rows, row)
	}
	return fromTable(source, header, rows, format.Columns)
}

// fromTable builds a Store from a header row and data rows, locating the
// required columns by name. Short rows are padded with empty cells.
func fromTable(source string, header []string, rows [][]string, cols ColumnMap) (*Store, error) {
	idx, missing := resolveColumns(header, cols)
	if len(missing) > 0 {
		return nil, &LoadError{Source: source, Missing: missing, Err: eris.New("missing required columns")}
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		cell := func(i int) string {
			if i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		records = append(records, Record{
			Name:          cell(idx[0]),
			ToxicityLevel: Toxicity(cell(idx[1])),
			Disposal:      cell(idx[2]),
			CompostSafe:   Compost(cell(idx[3])),
			Warnings:      cell(idx[4]),
		})
	}
	return New(source, records), nil
}

// resolveColumns finds each required column in header (case-insensitive,
// BOM and surrounding space ignored) and lists the ones that are absent.
func resolveColumns(header []string, cols ColumnMap) ([5]int, []string) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	var idx [5]int
	var missing []string
	for i, want := range cols.headers() {
		p, ok := pos[strings.ToLower(want)]
		if !ok {
			missing = append(missing, want)
			continue
		}
		idx[i] = p
	}
	return idx, missing
}

// Source returns where the catalog was loaded from.
func (s *Store) Source() string { return s.source }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of all records in catalog order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Names returns every medicine name sorted alphabetically, for selection lists.
func (s *Store) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// LookupExact finds a record by name, ignoring case and surrounding space.
func (s *Store) LookupExact(name string) (Record, bool) {
	i, ok := s.byName[nameKey(name)]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Filter returns the records with the given toxicity level, in catalog order.
// An empty level returns every record.
func (s *Store) Filter(level Toxicity) []Record {
	if level == "" {
		return s.Records()
	}
	var out []Record
	for _, r := range s.records {
		if r.ToxicityLevel == level {
			out = append(out, r)
		}
	}
	return out
}

// Issues returns the data-quality problems found at load time.
func (s *Store) Issues() []Issue {
	out := make([]Issue, len(s.issues))
	copy(out, s.issues)
	return out
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
