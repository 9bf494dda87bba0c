package catalog

import (
	"database/sql"
	"os"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

const medicinesDDL = `CREATE TABLE IF NOT EXISTS medicines (
	position       INTEGER PRIMARY KEY,
	medicine       TEXT NOT NULL,
	toxicity_level TEXT NOT NULL DEFAULT '',
	disposal       TEXT NOT NULL DEFAULT '',
	compost_safe   TEXT NOT NULL DEFAULT '',
	warnings       TEXT NOT NULL DEFAULT ''
)`

// LoadSQLite reads the medicines table of a SQLite database, ordered by
// position. The file must already exist.
func LoadSQLite(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Source: path, Err: eris.Wrap(err, "stat sqlite file")}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, &LoadError{Source: path, Err: eris.Wrap(err, "open sqlite")}
	}
	defer db.Close()

	rows, err := db.Query(`SELECT medicine, toxicity_level, disposal, compost_safe, warnings
		FROM medicines ORDER BY position`)
	if err != nil {
		return nil, &LoadError{Source: path, Err: eris.Wrap(err, "query medicines")}
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var tox, compost string
		if err := rows.Scan(&r.Name, &tox, &r.Disposal, &compost, &r.Warnings); err != nil {
			return nil, &LoadError{Source: path, Err: eris.Wrap(err, "scan medicine")}
		}
		r.ToxicityLevel = Toxicity(tox)
		r.CompostSafe = Compost(compost)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: path, Err: eris.Wrap(err, "iterate medicines")}
	}
	return New(path, records), nil
}

// SaveSQLite writes records to the medicines table at path, replacing any
// previous content. The database is created if needed.
func SaveSQLite(records []Record, path string) error {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return eris.Wrap(err, "open sqlite")
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return eris.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(medicinesDDL); err != nil {
		return eris.Wrap(err, "create medicines table")
	}
	if _, err := tx.Exec(`DELETE FROM medicines`); err != nil {
		return eris.Wrap(err, "clear medicines")
	}

	stmt, err := tx.Prepare(`INSERT INTO medicines
		(position, medicine, toxicity_level, disposal, compost_safe, warnings)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(i+1, r.Name, string(r.ToxicityLevel), r.Disposal, string(r.CompostSafe), r.Warnings); err != nil {
			return eris.Wrapf(err, "insert %s", r.Name)
		}
	}
	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "commit")
	}
	return nil
}
