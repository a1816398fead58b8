/*
Package catalog implements a small SQLite index of the tiles written to the
output catalog, so a tree of several hundred PNG files can be searched by
category, coordinate or checksum without walking the filesystem.
*/
package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Record describes one tile file in the output catalog.
type Record struct {
	Path     string
	Category string
	Name     string
	Source   string
	Row      int
	Col      int
	SHA1     string
}

// DB is the catalog index.
type DB struct {
	db *sql.DB
}

// Open opens the index stored in file, creating it if necessary.
func Open(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS tile (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, category TEXT NOT NULL, name TEXT NOT NULL, source TEXT NOT NULL, row INTEGER NOT NULL, col INTEGER NOT NULL, sha1 TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS tile_category ON tile (category)"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the index.
func (db *DB) Close() error {
	return db.db.Close()
}

// Add stores r, replacing any existing record for the same path.
func (db *DB) Add(r Record) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO tile (path, category, name, source, row, col, sha1) VALUES (?, ?, ?, ?, ?, ?, ?)", r.Path, r.Category, r.Name, r.Source, r.Row, r.Col, strings.ToUpper(r.SHA1)); err != nil {
		return err
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns the records in category, including any subcategories, ordered
// by path. An empty category lists everything.
func (db *DB) List(category string) ([]Record, error) {
	var rows *sql.Rows
	var err error

	category = strings.Trim(category, "/")
	if category == "" {
		rows, err = db.db.Query("SELECT path, category, name, source, row, col, sha1 FROM tile ORDER BY path")
	} else {
		rows, err = db.db.Query(`SELECT path, category, name, source, row, col, sha1 FROM tile WHERE category = ? OR category LIKE ? ESCAPE '\' ORDER BY path`, category, escapeLike(category)+"/%")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Path, &r.Category, &r.Name, &r.Source, &r.Row, &r.Col, &r.SHA1); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// FindBySHA1 returns every record whose file has the given checksum, which is
// how identical tiles stored under different names are spotted.
func (db *DB) FindBySHA1(sha string) ([]Record, error) {
	rows, err := db.db.Query("SELECT path, category, name, source, row, col, sha1 FROM tile WHERE sha1 = ? ORDER BY path", strings.ToUpper(sha))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Path, &r.Category, &r.Name, &r.Source, &r.Row, &r.Col, &r.SHA1); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
