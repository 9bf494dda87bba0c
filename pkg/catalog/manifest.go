package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Required CSV columns, by their default header names.
const (
	ColMedicine      = "medicine"
	ColToxicityLevel = "toxicity_level"
	ColDisposal      = "disposal"
	ColCompostSafe   = "compost_safe"
	ColWarnings      = "warnings"
)

// Manifest describes a catalog directory: where the data comes from and how
// to read it.
type Manifest struct {
	ID        string     `yaml:"id" json:"id"`
	Version   string     `yaml:"version" json:"version"`
	Source    string     `yaml:"source" json:"source"`
	SourceURL string     `yaml:"source_url,omitempty" json:"source_url,omitempty"`
	License   string     `yaml:"license" json:"license"`
	DataFile  string     `yaml:"data_file" json:"data_file"`
	Format    FormatSpec `yaml:"format" json:"-"`
}

// FormatSpec describes the table layout. Zero values mean comma-separated
// UTF-8 (or the first spreadsheet sheet) with the default column names.
type FormatSpec struct {
	Delimiter string    `yaml:"delimiter,omitempty"`
	Encoding  string    `yaml:"encoding,omitempty"`
	Sheet     string    `yaml:"sheet,omitempty"`
	Columns   ColumnMap `yaml:"columns,omitempty"`
}

// ColumnMap renames the required columns when the header differs.
type ColumnMap struct {
	Medicine      string `yaml:"medicine,omitempty"`
	ToxicityLevel string `yaml:"toxicity_level,omitempty"`
	Disposal      string `yaml:"disposal,omitempty"`
	CompostSafe   string `yaml:"compost_safe,omitempty"`
	Warnings      string `yaml:"warnings,omitempty"`
}

// headers returns the expected header name for each required column, in the
// order of the Record fields.
func (c ColumnMap) headers() [5]string {
	pick := func(v, def string) string {
		if v != "" {
			return v
		}
		return def
	}
	return [5]string{
		pick(c.Medicine, ColMedicine),
		pick(c.ToxicityLevel, ColToxicityLevel),
		pick(c.Disposal, ColDisposal),
		pick(c.CompostSafe, ColCompostSafe),
		pick(c.Warnings, ColWarnings),
	}
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read manifest %s", path)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "parse manifest %s", path)
	}
	if m.ID == "" {
		return nil, eris.Errorf("manifest %s: missing id", path)
	}
	if m.DataFile == "" {
		m.DataFile = "data.csv"
	}
	return &m, nil
}
