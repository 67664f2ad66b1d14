package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/carlmjohnson/versioninfo"
	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"

	"github.com/tilemaps/tilemaps/config"
	"github.com/tilemaps/tilemaps/geo"
	"github.com/tilemaps/tilemaps/loader"
	"github.com/tilemaps/tilemaps/tile"
)

const CONFIG string = `config`
const SOURCE string = `source`
const OUTPUT string = `output`
const ZOOM string = `zoom`
const BEARING string = `bearing`
const METERSPERPIXEL string = `metersperpixel`

//nolint:funlen
func main() {
	app := cli.NewApp()
	app.Name = "tilemaps"
	app.Usage = "Fetch web-map tiles and assemble metric-resolution crops"
	app.Version = versioninfo.Short()

	configFlag := &cli.StringFlag{
		Name:     CONFIG,
		Aliases:  []string{"c"},
		Usage:    "JSON tile source descriptor document",
		Required: true,
		EnvVars:  []string{strcase.ToScreamingSnake(CONFIG)},
	}
	sourceFlag := &cli.StringFlag{
		Name:     SOURCE,
		Aliases:  []string{"s"},
		Usage:    "Name of the tile source in the descriptor document",
		Required: true,
		EnvVars:  []string{strcase.ToScreamingSnake(SOURCE)},
	}
	outputFlag := &cli.StringFlag{
		Name:     OUTPUT,
		Aliases:  []string{"o"},
		Usage:    "Output image file (extension selects the format)",
		Value:    "tile.png",
		Required: false,
		EnvVars:  []string{strcase.ToScreamingSnake(OUTPUT)},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "fetch",
			Usage:     "Fetch a single tile by x y z and write it to a file",
			ArgsUsage: "<x> <y> <z>",
			Flags:     []cli.Flag{configFlag, sourceFlag, outputFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() != 3 {
					return fmt.Errorf("expected x, y and z arguments, got %d", c.NArg())
				}
				var id tile.ID
				args := c.Args().Get(0) + " " + c.Args().Get(1) + " " + c.Args().Get(2)
				if _, err := fmt.Sscanf(args, "%d %d %d", &id.X, &id.Y, &id.Z); err != nil {
					return fmt.Errorf("parsing tile coordinates: %w", err)
				}
				built, err := buildSource(c)
				if err != nil {
					return err
				}
				raster, err := built.Loader.Load(id)
				if err != nil {
					return err
				}
				return writeImage(c.String(OUTPUT), raster)
			},
		},
		{
			Name:      "crop",
			Usage:     "Assemble a metric crop around a latlon anchor",
			ArgsUsage: "<lat> <lon> <height> <width>",
			Flags: []cli.Flag{
				configFlag, sourceFlag, outputFlag,
				&cli.Float64Flag{
					Name:    BEARING,
					Aliases: []string{"b"},
					Usage:   "Orientation in degrees clockwise from north",
					Value:   0,
					EnvVars: []string{strcase.ToScreamingSnake(BEARING)},
				},
				&cli.Float64Flag{
					Name:    METERSPERPIXEL,
					Aliases: []string{"m"},
					Usage:   "Output resolution in meters per pixel",
					Value:   0.5,
					EnvVars: []string{strcase.ToScreamingSnake(METERSPERPIXEL)},
				},
				&cli.IntFlag{
					Name:    ZOOM,
					Aliases: []string{"z"},
					Usage:   "Zoom level at which tiles are fetched; chosen from the resolution if unset",
					Value:   -1,
					EnvVars: []string{strcase.ToScreamingSnake(ZOOM)},
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 4 {
					return fmt.Errorf("expected lat, lon, height and width arguments, got %d", c.NArg())
				}
				var latlon geo.LatLon
				var shape [2]int
				args := c.Args().Get(0) + " " + c.Args().Get(1) + " " + c.Args().Get(2) + " " + c.Args().Get(3)
				if _, err := fmt.Sscanf(args, "%f %f %d %d", &latlon.Lat, &latlon.Lon, &shape[0], &shape[1]); err != nil {
					return fmt.Errorf("parsing crop arguments: %w", err)
				}
				built, err := buildSource(c)
				if err != nil {
					return err
				}

				var raster *tile.Raster
				if zoom := c.Int(ZOOM); zoom >= 0 {
					raster, err = loader.LoadMetric(built.Loader, latlon, c.Float64(BEARING), c.Float64(METERSPERPIXEL), shape, zoom)
				} else {
					raster, err = loader.LoadMetricAutoZoom(built.Loader, latlon, c.Float64(BEARING), c.Float64(METERSPERPIXEL), shape)
				}
				if err != nil {
					return err
				}
				return writeImage(c.String(OUTPUT), raster)
			},
		},
		{
			Name:  "sources",
			Usage: "List the tile sources of a descriptor document",
			Flags: []cli.Flag{configFlag},
			Action: func(c *cli.Context) error {
				cfg, err := config.Load(c.String(CONFIG))
				if err != nil {
					return err
				}
				names := make([]string, 0, len(cfg.Sources))
				for name := range cfg.Sources {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					src := cfg.Sources[name]
					log.Printf("%s: %s (zoom %d-%d)", name, src.URI, src.MinZoom, src.MaxZoom)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildSource(c *cli.Context) (config.NamedLoader, error) {
	cfg, err := config.Load(c.String(CONFIG))
	if err != nil {
		return config.NamedLoader{}, err
	}
	return cfg.Build(c.String(SOURCE))
}

func writeImage(path string, raster *tile.Raster) error {
	data, err := tile.Encode(raster, filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Printf("wrote %dx%d image to %s", raster.W, raster.H, path)
	return nil
}
