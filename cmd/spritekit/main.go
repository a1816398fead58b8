package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/talesmud/spritekit"
	"github.com/talesmud/spritekit/catalog"
	"github.com/talesmud/spritekit/tile"
	"github.com/talesmud/spritekit/tilemap"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(os.Stdout, "", 0)
	if c.Bool("quiet") {
		logger.SetOutput(io.Discard)
	}
	return logger
}

// newSpriteKit returns a SpriteKit recording into the catalog database if one
// was given, along with a function to close it again.
func newSpriteKit(c *cli.Context, logger *log.Logger) (*spritekit.SpriteKit, func() error, error) {
	if c.String("db") == "" {
		return spritekit.New(logger, nil), func() error { return nil }, nil
	}

	db, err := catalog.Open(c.String("db"))
	if err != nil {
		return nil, nil, err
	}

	return spritekit.New(logger, db), db.Close, nil
}

// checkArgs rejects anything after the first n arguments. Flags following a
// positional argument aren't parsed, so a trailing --dry-run must not be
// dropped.
func checkArgs(c *cli.Context, n int) error {
	if c.NArg() <= n {
		return nil
	}
	msg := "unexpected arguments: " + strings.Join(c.Args().Slice()[n:], " ")
	if n > 0 {
		msg += fmt.Sprintf(" (flags go before %s)", c.Command.ArgsUsage)
	}
	return cli.Exit(msg, 1)
}

func extract(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}
	if err := checkArgs(c, 1); err != nil {
		return err
	}
	input := c.Args().First()

	logger := newLogger(c)

	var table *tilemap.Table
	switch {
	case c.IsSet("map"):
		var err error
		if table, err = tilemap.LoadFile(c.String("map")); err != nil {
			return cli.Exit(err, 1)
		}
		logger.Printf("Using tile map %s\n", c.String("map"))
	case !c.Bool("no-map"):
		if table = tilemap.ForSheet(input); table != nil {
			logger.Println("Using DarkIcons tile map")
		}
	}

	s, closer, err := newSpriteKit(c, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	if _, err := s.Extract(spritekit.ExtractOptions{
		Input:      input,
		TileWidth:  c.Int("tile-size"),
		TileHeight: c.Int("tile-size"),
		Table:      table,
		Output:     c.String("output"),
		Prefix:     c.String("prefix"),
		Colors:     c.Int("colors"),
		DryRun:     c.Bool("dry-run"),
	}); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func reorganize(c *cli.Context) error {
	if err := checkArgs(c, 0); err != nil {
		return err
	}

	logger := newLogger(c)

	s, closer, err := newSpriteKit(c, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer()

	logger.Println("Reorganizing tiles...")

	if _, err := s.Reorganize(spritekit.ReorganizeOptions{
		Table:        tilemap.Reorganize(),
		Source:       spritekit.DefaultSource,
		Target:       spritekit.DefaultOutput,
		SourcePrefix: spritekit.DefaultSourcePrefix,
		Threshold:    c.Int64("threshold"),
		InspectAlpha: c.Bool("inspect-alpha"),
		DryRun:       c.Bool("dry-run"),
	}); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func scale(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}
	if err := checkArgs(c, 1); err != nil {
		return err
	}

	s := spritekit.New(newLogger(c), nil)

	if _, err := s.Scale(spritekit.ScaleOptions{
		Root:   c.Args().First(),
		Factor: c.Int("scale"),
		DryRun: c.Bool("dry-run"),
	}); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	return nil
}

func list(c *cli.Context) error {
	if err := checkArgs(c, 1); err != nil {
		return err
	}
	if c.String("db") == "" {
		return cli.Exit("no catalog database, set --db or SPRITEKIT_DB", 1)
	}

	db, err := catalog.Open(c.String("db"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer db.Close()

	var records []catalog.Record
	if c.IsSet("sha1") {
		records, err = db.FindBySHA1(c.String("sha1"))
	} else {
		records, err = db.List(c.Args().First())
	}
	if err != nil {
		return cli.Exit(err, 1)
	}

	for _, r := range records {
		fmt.Fprintf(c.App.Writer, "%s\t[%d,%d]\t%s\t%s\n", r.Path, r.Row, r.Col, r.SHA1, r.Source)
	}

	return nil
}

func dryRunFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "just show what would be done",
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "spritekit"
	app.Usage = "Sprite sheet slicing and pixel-art asset utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SPRITEKIT_DB"},
			Usage:   "record written tiles in the catalog database at `FILE`",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "don't report progress",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "extract",
			Usage:       "Extract tiles from a sprite sheet",
			Description: "Slices the sheet into a grid, skips fully transparent tiles and files the rest by category",
			ArgsUsage:   "INPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "tile-size",
					Value: tile.DefaultSize,
					Usage: "tile width and height in pixels",
				},
				&cli.StringFlag{
					Name:  "output",
					Value: spritekit.DefaultOutput,
					Usage: "output base `DIRECTORY`",
				},
				&cli.StringFlag{
					Name:  "prefix",
					Usage: "prefix for auto-generated names",
				},
				&cli.StringFlag{
					Name:  "map",
					Usage: "use the tile map in YAML `FILE`",
				},
				&cli.BoolFlag{
					Name:  "no-map",
					Usage: "don't use built-in tile maps",
				},
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce each tile to a palette of at most this many colors",
				},
				dryRunFlag(),
			},
			Action: extract,
		},
		{
			Name:        "reorganize",
			Usage:       "Reorganize extracted tiles into categories",
			Description: fmt.Sprintf("Copies tiles from %s into %s using the corrected DarkIcons tile map", spritekit.DefaultSource, spritekit.DefaultOutput),
			Flags: []cli.Flag{
				&cli.Int64Flag{
					Name:  "threshold",
					Value: spritekit.DefaultThreshold,
					Usage: "treat tiles smaller than this many bytes as empty, 0 to disable",
				},
				&cli.BoolFlag{
					Name:  "inspect-alpha",
					Usage: "also treat fully transparent tiles as empty",
				},
				dryRunFlag(),
			},
			Action: reorganize,
		},
		{
			Name:        "scale",
			Usage:       "Scale pixel art sprites",
			Description: "Enlarges every PNG under the directory smaller than 32x32 using nearest-neighbor sampling",
			ArgsUsage:   "INPUT_DIR",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "scale",
					Value: spritekit.DefaultFactor,
					Usage: "scale factor, at least 1",
				},
				dryRunFlag(),
			},
			Action: scale,
		},
		{
			Name:        "catalog",
			Usage:       "List tiles recorded in the catalog database",
			Description: "Lists the tiles recorded by extract and reorganize with --db, limited to a category and its subcategories, or finds every tile with the given checksum",
			ArgsUsage:   "[CATEGORY]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "sha1",
					Usage: "only list tiles with this checksum",
				},
			},
			Action: list,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
