package importer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hazyhaar/greenmeds/pkg/catalog"
)

func init() {
	Register(&snapshotAdapter{
		id:       "csv-gob",
		desc:     "Catalog converted to a gob snapshot (data.gob)",
		dataFile: "data.gob",
		save:     catalog.SaveGob,
	})
	Register(&snapshotAdapter{
		id:       "csv-sqlite",
		desc:     "Catalog converted to a SQLite database (catalog.db, table medicines)",
		dataFile: "catalog.db",
		save:     catalog.SaveSQLite,
	})
}

// snapshotAdapter loads any catalog source and saves it with one writer.
type snapshotAdapter struct {
	id       string
	desc     string
	dataFile string
	save     func(records []catalog.Record, path string) error
}

func (a *snapshotAdapter) ID() string          { return a.id }
func (a *snapshotAdapter) Description() string { return a.desc }

func (a *snapshotAdapter) Import(ctx context.Context, sourcePath, outputDir string) (*Summary, error) {
	store, err := catalog.Load(sourcePath)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: load source", a.id)
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrapf(err, "%s", a.id)
	}

	if err := ensureDir(outputDir); err != nil {
		return nil, err
	}
	dataPath := filepath.Join(outputDir, a.dataFile)
	// A stale gob next to the manifest would shadow a new SQLite snapshot.
	if a.dataFile != "data.gob" {
		if err := os.Remove(filepath.Join(outputDir, "data.gob")); err != nil && !os.IsNotExist(err) {
			return nil, eris.Wrap(err, "remove stale data.gob")
		}
	}
	if err := a.save(store.Records(), dataPath); err != nil {
		return nil, eris.Wrapf(err, "%s: write %s", a.id, dataPath)
	}
	if err := writeManifest(outputDir, newManifest(sourcePath, a.dataFile)); err != nil {
		return nil, err
	}

	sum := &Summary{
		Adapter:  a.id,
		Output:   outputDir,
		Records:  store.Len(),
		Issues:   len(store.Issues()),
		DataFile: a.dataFile,
	}
	zap.L().Info("catalog imported",
		zap.String("adapter", a.id),
		zap.String("source", sourcePath),
		zap.String("output", dataPath),
		zap.Int("records", sum.Records),
		zap.Int("issues", sum.Issues))
	return sum, nil
}
