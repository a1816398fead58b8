/*
Package tilemap holds the hand-authored tables that give a tile at a given
grid coordinate of a sprite sheet a category and a semantic name.

Tables are plain YAML data:

	sheet: DarkIcons0.4.png
	tiles:
	  - {row: 0, col: 0, category: items/armor/shields, name: wooden-shield}

Two tables for the DarkIcons sheet are embedded: one used when extracting and
a later, corrected one used when reorganizing already extracted tiles. They
were revised independently and do not agree on coordinates, so they are kept
as separate assets.
*/
package tilemap

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Uncategorized is the category given to a tile with no table entry.
const Uncategorized = "uncategorized"

var (
	// ErrDuplicate is returned when a table lists the same coordinate twice
	ErrDuplicate = errors.New("tilemap: duplicate coordinate")
	// ErrInvalid is returned for an entry with a bad coordinate, category or
	// name
	ErrInvalid = errors.New("tilemap: invalid entry")
)

//go:embed tables/*.yaml
var tables embed.FS

// Coord is a zero-based grid position, rows counting down from the top.
type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("[%d,%d]", c.Row, c.Col)
}

// Entry places one tile in the output catalog.
type Entry struct {
	Coord
	Category string
	Name     string
}

// Filename returns the path of the tile relative to an output root.
func (e Entry) Filename() string {
	return filepath.Join(filepath.FromSlash(e.Category), e.Name+".png")
}

// Table is an immutable mapping of coordinates to entries that remembers the
// order entries were defined in.
type Table struct {
	sheet   string
	entries []Entry
	index   map[Coord]int
}

type yamlTable struct {
	Sheet string      `yaml:"sheet"`
	Tiles []yamlEntry `yaml:"tiles"`
}

type yamlEntry struct {
	Row      int    `yaml:"row"`
	Col      int    `yaml:"col"`
	Category string `yaml:"category"`
	Name     string `yaml:"name"`
}

func validCategory(category string) bool {
	if category == "" || path.IsAbs(category) || strings.Contains(category, "\\") {
		return false
	}
	for _, part := range strings.Split(category, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\\")
}

// Load parses a YAML table from r.
func Load(r io.Reader) (*Table, error) {
	var yt yamlTable
	if err := yaml.NewDecoder(r).Decode(&yt); err != nil {
		return nil, err
	}

	t := &Table{
		sheet:   yt.Sheet,
		entries: make([]Entry, 0, len(yt.Tiles)),
		index:   make(map[Coord]int, len(yt.Tiles)),
	}

	for _, y := range yt.Tiles {
		e := Entry{
			Coord:    Coord{Row: y.Row, Col: y.Col},
			Category: y.Category,
			Name:     y.Name,
		}
		if e.Row < 0 || e.Col < 0 || !validCategory(e.Category) || !validName(e.Name) {
			return nil, fmt.Errorf("%w: %v %q %q", ErrInvalid, e.Coord, e.Category, e.Name)
		}
		if _, ok := t.index[e.Coord]; ok {
			return nil, fmt.Errorf("%w: %v", ErrDuplicate, e.Coord)
		}
		t.index[e.Coord] = len(t.entries)
		t.entries = append(t.entries, e)
	}

	return t, nil
}

// LoadFile parses the YAML table stored in file.
func LoadFile(file string) (*Table, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return t, nil
}

func mustLoad(name string) *Table {
	f, err := tables.Open(name)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	return t
}

// Extract returns the table used when extracting tiles from the DarkIcons
// sheet.
func Extract() *Table {
	return mustLoad("tables/darkicons-extract.yaml")
}

// Reorganize returns the corrected table used when moving already extracted
// DarkIcons tiles into their categories.
func Reorganize() *Table {
	return mustLoad("tables/darkicons-reorganize.yaml")
}

// ForSheet returns the built-in extraction table for the sprite sheet at
// file, or nil if there isn't one. Any path mentioning DarkIcons matches,
// including a sheet kept in a DarkIcons directory.
func ForSheet(file string) *Table {
	if strings.Contains(file, "DarkIcons") {
		return Extract()
	}
	return nil
}

// Sheet returns the name of the sprite sheet the table describes.
func (t *Table) Sheet() string {
	return t.sheet
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the entries in definition order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return append([]Entry(nil), t.entries...)
}

// Lookup returns the entry for c. A nil table has no entries.
func (t *Table) Lookup(c Coord) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	i, ok := t.index[c]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Resolve returns the table entry for c, or an uncategorized entry named
// after the coordinate.
func (t *Table) Resolve(c Coord, prefix string) Entry {
	if e, ok := t.Lookup(c); ok {
		return e
	}
	return Entry{
		Coord:    c,
		Category: Uncategorized,
		Name:     AutoName(prefix, c.Row, c.Col),
	}
}

// AutoName returns the generated name for an uncategorized tile, e.g.
// "tile-r03-c07".
func AutoName(prefix string, row, col int) string {
	return fmt.Sprintf("%stile-r%02d-c%02d", prefix, row, col)
}
