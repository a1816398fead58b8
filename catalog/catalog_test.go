package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestAddReplaces(t *testing.T) {
	db := openTemp(t)

	r := Record{
		Path:     "out/items/misc/rope.png",
		Category: "items/misc",
		Name:     "rope",
		Source:   "sheet.png",
		Row:      1,
		Col:      2,
		SHA1:     "abcdef",
	}
	require.NoError(t, db.Add(r))

	r.Row = 3
	require.NoError(t, db.Add(r))

	records, err := db.List("")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].Row)
	assert.Equal(t, "ABCDEF", records[0].SHA1)
}

func TestList(t *testing.T) {
	db := openTemp(t)

	for _, r := range []Record{
		{Path: "out/items/weapons_old/club.png", Category: "items/weapons_old", Name: "club", SHA1: "03"},
		{Path: "out/items/weapons/swords/katana.png", Category: "items/weapons/swords", Name: "katana", SHA1: "01"},
		{Path: "out/items/weapons/axe.png", Category: "items/weapons", Name: "axe", SHA1: "02"},
		{Path: "out/items/weaponsmith/anvil.png", Category: "items/weaponsmith", Name: "anvil", SHA1: "01"},
	} {
		require.NoError(t, db.Add(r))
	}

	records, err := db.List("items/weapons/")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "axe", records[0].Name)
	assert.Equal(t, "katana", records[1].Name)

	records, err = db.List("items")
	require.NoError(t, err)
	assert.Len(t, records, 4)

	records, err = db.List("items/weapons_")
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = db.FindBySHA1("01")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "katana", records[0].Name)
	assert.Equal(t, "anvil", records[1].Name)
}
