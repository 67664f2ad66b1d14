// Package config builds tile loader chains from JSON source descriptors. A
// descriptor names each source and carries its URL template, zoom band,
// cache locations and HTTP options; unknown keys are tolerated so
// descriptors can carry annotations.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/perimeterx/marshmallow"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/loader"
	"github.com/tilemaps/tilemaps/tile"
)

// Source describes one tile source.
type Source struct {
	// URI is the tile URL template with {}-placeholders.
	URI string `validate:"required,uri" json:"uri"`
	// Path enables an on-disk cache rooted there (or a path template).
	Path string `json:"path"`
	// Zoom is the zoom level downstream consumers should prefer.
	Zoom int `validate:"min=0" json:"zoom"`
	// MinZoom and MaxZoom bound the requests sent to the server.
	MinZoom int `validate:"min=0" json:"min-zoom"`
	MaxZoom int `default:"20" validate:"min=0" json:"max-zoom"`
	// Memory enables an in-memory LRU cache holding this many tiles.
	Memory int `validate:"min=0" json:"memory"`
	// TileSize is the edge length of the served tiles in pixels.
	TileSize int `default:"256" validate:"min=1" json:"tile-size"`
	// Retries and WaitAfterError tune the HTTP retry policy.
	Retries        int     `default:"10" validate:"min=1" json:"retries"`
	WaitAfterError float64 `default:"1.5" validate:"min=0" json:"wait-after-error"`
	// SkipSSLVerify disables TLS verification for this source.
	SkipSSLVerify bool `json:"skip-ssl-verify"`
	// FillColor, when set, substitutes a filled tile for missing ones.
	FillColor *[3]uint8 `json:"fill-color"`
	// Header is merged over the document-wide http-header block.
	Header map[string]string `json:"header"`
}

func (s *Source) UnmarshalJSON(data []byte) error {
	if err := defaults.Set(s); err != nil {
		return err
	}
	if _, err := marshmallow.Unmarshal(data, s, marshmallow.WithExcludeKnownFieldsFromMap(true)); err != nil {
		return err
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(s)
}

// Config is a parsed source-descriptor document.
type Config struct {
	// Header applies to every source unless overridden per source.
	Header map[string]string `json:"http-header"`
	// Sources maps source names to their descriptors.
	Sources map[string]Source `validate:"required,min=1" json:"tileloaders"`
}

// Parse decodes and validates a descriptor document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads a descriptor document from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// NamedLoader pairs a built loader chain with the zoom level the
// descriptor recommends.
type NamedLoader struct {
	Loader loader.TileLoader
	Zoom   int
}

// Build assembles the loader chain of one source: HTTP source, then the
// disk cache, then the in-memory cache, then the default-fill fallback,
// innermost first.
func (c *Config) Build(name string) (NamedLoader, error) {
	src, ok := c.Sources[name]
	if !ok {
		return NamedLoader{}, fmt.Errorf("no tile source named %q", name)
	}

	lay, err := layout.XYZ(src.TileSize)
	if err != nil {
		return NamedLoader{}, err
	}

	header := make(map[string]string, len(c.Header)+len(src.Header))
	for k, v := range c.Header {
		header[k] = v
	}
	for k, v := range src.Header {
		header[k] = v
	}

	var chain loader.TileLoader
	chain, err = loader.NewHTTP(src.URI, lay, src.MinZoom, src.MaxZoom, loader.HTTPOptions{
		Retries:       src.Retries,
		RetryDelay:    time.Duration(src.WaitAfterError * float64(time.Second)),
		SkipSSLVerify: src.SkipSSLVerify,
		Header:        header,
	})
	if err != nil {
		return NamedLoader{}, err
	}
	if src.Path != "" {
		chain = loader.NewDiskCached(chain, src.Path, 0)
	}
	if src.Memory > 0 {
		chain = loader.NewLRUCached(chain, src.Memory)
	}
	if src.FillColor != nil {
		chain = loader.NewWithDefault(chain, tile.RGB(*src.FillColor))
	}
	return NamedLoader{Loader: chain, Zoom: src.Zoom}, nil
}

// BuildAll assembles every source in the document.
func (c *Config) BuildAll() (map[string]NamedLoader, error) {
	out := make(map[string]NamedLoader, len(c.Sources))
	for name := range c.Sources {
		built, err := c.Build(name)
		if err != nil {
			return nil, fmt.Errorf("building tile source %q: %w", name, err)
		}
		out[name] = built
	}
	return out, nil
}
