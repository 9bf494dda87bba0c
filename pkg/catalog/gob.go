package catalog

import (
	"encoding/gob"
	"os"

	"github.com/rotisserie/eris"
)

// LoadGob reads a catalog snapshot written by SaveGob.
func LoadGob(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: eris.Wrap(err, "open gob file")}
	}
	defer f.Close()

	var records []Record
	if err := gob.NewDecoder(f).Decode(&records); err != nil {
		return nil, &LoadError{Source: path, Err: eris.Wrap(err, "decode gob")}
	}
	return New(path, records), nil
}

// SaveGob serializes records, in order, to a gob-encoded file at path.
func SaveGob(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create gob file")
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(records); err != nil {
		return eris.Wrap(err, "encode gob")
	}
	return f.Close()
}
