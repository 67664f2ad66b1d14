package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/loader"
)

// Preset is a ready-made descriptor for a public tile server.
type Preset struct {
	Name        string
	URI         string
	Attribution string
	MinZoom     int
	MaxZoom     int
	TileSize    int
}

// Presets lists the built-in providers by key.
var Presets = map[string]Preset{
	"openstreetmap": {
		Name:        "OpenStreetMap",
		URI:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "© OpenStreetMap contributors",
		MinZoom:     0, MaxZoom: 19, TileSize: 256,
	},
	"opentopomap": {
		Name:        "OpenTopoMap",
		URI:         "https://tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: "© OpenTopoMap (CC-BY-SA), © OpenStreetMap contributors",
		MinZoom:     0, MaxZoom: 17, TileSize: 256,
	},
	"esri-world-imagery": {
		Name:        "ESRI World Imagery",
		URI:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: "© Esri, Maxar, Earthstar Geographics",
		MinZoom:     0, MaxZoom: 20, TileSize: 256,
	},
}

// NewLoader builds the HTTP source for a preset.
func (p Preset) NewLoader(opts loader.HTTPOptions) (*loader.HTTP, error) {
	lay, err := layout.XYZ(p.TileSize)
	if err != nil {
		return nil, err
	}
	return loader.NewHTTP(p.URI, lay, p.MinZoom, p.MaxZoom, opts)
}

const bingMetadataURL = "https://dev.virtualearth.net/REST/V1/Imagery/Metadata/%s?output=json&include=ImageryProviders&key=%s"

// BingMaps resolves the imagery metadata of the Bing Maps REST service into
// a quadkey-addressed HTTP loader.
// https://learn.microsoft.com/en-us/bingmaps/rest-services/directly-accessing-the-bing-maps-tiles
func BingMaps(key, imagerySet string, opts loader.HTTPOptions) (*loader.HTTP, error) {
	if imagerySet == "" {
		imagerySet = "Aerial"
	}
	resp, err := http.Get(fmt.Sprintf(bingMetadataURL, imagerySet, key))
	if err != nil {
		return nil, fmt.Errorf("%w: fetching bing metadata: %v", loader.ErrTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: bing metadata returned status %d", loader.ErrTransport, resp.StatusCode)
	}

	var metadata struct {
		ResourceSets []struct {
			Resources []struct {
				ImageURL           string   `json:"imageUrl"`
				ImageURLSubdomains []string `json:"imageUrlSubdomains"`
				ZoomMin            int      `json:"zoomMin"`
				ZoomMax            int      `json:"zoomMax"`
			} `json:"resources"`
		} `json:"resourceSets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("%w: decoding bing metadata: %v", loader.ErrDecode, err)
	}
	if len(metadata.ResourceSets) == 0 || len(metadata.ResourceSets[0].Resources) == 0 {
		return nil, fmt.Errorf("%w: bing metadata contains no resources", loader.ErrNotFound)
	}
	resource := metadata.ResourceSets[0].Resources[0]

	uri := resource.ImageURL
	if len(resource.ImageURLSubdomains) > 0 {
		uri = strings.ReplaceAll(uri, "{subdomain}", resource.ImageURLSubdomains[0])
	}
	uri = strings.ReplaceAll(uri, "{quadkey}", "{quad}")

	lay, err := layout.XYZ(256)
	if err != nil {
		return nil, err
	}
	return loader.NewHTTP(uri, lay, resource.ZoomMin, resource.ZoomMax, opts)
}
