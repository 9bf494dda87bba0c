package importer

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/greenmeds/pkg/catalog"
)

const catalogID = "greenmeds-meds"

// newManifest describes a snapshot converted from sourcePath.
func newManifest(sourcePath, dataFile string) *catalog.Manifest {
	return &catalog.Manifest{
		ID:       catalogID,
		Version:  time.Now().UTC().Format("2006-01-02"),
		Source:   sourcePath,
		License:  "unspecified",
		DataFile: dataFile,
	}
}

// writeManifest writes a Manifest as YAML to dir/manifest.yaml.
func writeManifest(dir string, m *catalog.Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return eris.Wrap(err, "marshal manifest")
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644); err != nil {
		return eris.Wrap(err, "write manifest")
	}
	return nil
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	return nil
}
