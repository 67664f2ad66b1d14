package loader

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muesli/reflow/truncate"

	"github.com/tilemaps/tilemaps/layout"
	"github.com/tilemaps/tilemaps/tile"
)

// HTTPOptions tunes the HTTP tile source. The zero value gives 10 retries
// with a 1.5s delay, a 30s request timeout, TLS verification on, and
// serialized requests.
type HTTPOptions struct {
	// Retries is the total number of attempts per tile.
	Retries int
	// RetryDelay is slept between attempts.
	RetryDelay time.Duration
	// Timeout bounds a single request.
	Timeout time.Duration
	// SkipSSLVerify disables TLS host and peer verification.
	SkipSSLVerify bool
	// CAPath is a directory of PEM certificates to trust; CAFile a single
	// bundle. CAPath wins when both are set.
	CAPath string
	CAFile string
	// Header is added to every request.
	Header map[string]string
	// AllowMultithreading lifts the per-instance lock that otherwise
	// serializes all requests through this source.
	AllowMultithreading bool
}

func (o *HTTPOptions) fillDefaults() {
	if o.Retries == 0 {
		o.Retries = 10
	}
	if o.RetryDelay == 0 {
		o.RetryDelay = 1500 * time.Millisecond
	}
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
}

// HTTP loads tiles from a templated URL with bounded retries.
type HTTP struct {
	url     string
	lay     *layout.Layout
	minZoom int
	maxZoom int
	opts    HTTPOptions
	client  *http.Client
	mu      sync.Mutex
}

// NewHTTP creates an HTTP tile source for a URL template using the
// placeholder vocabulary of the layout package.
func NewHTTP(url string, lay *layout.Layout, minZoom, maxZoom int, opts HTTPOptions) (*HTTP, error) {
	opts.fillDefaults()

	tlsConfig := &tls.Config{InsecureSkipVerify: opts.SkipSSLVerify}
	if opts.CAPath != "" || opts.CAFile != "" {
		pool := x509.NewCertPool()
		if opts.CAPath != "" {
			pems, err := filepath.Glob(filepath.Join(opts.CAPath, "*.pem"))
			if err != nil {
				return nil, fmt.Errorf("%w: reading capath %s: %v", ErrTransport, opts.CAPath, err)
			}
			for _, pem := range pems {
				data, err := os.ReadFile(pem)
				if err != nil {
					return nil, fmt.Errorf("%w: reading ca certificate %s: %v", ErrTransport, pem, err)
				}
				pool.AppendCertsFromPEM(data)
			}
		} else {
			data, err := os.ReadFile(opts.CAFile)
			if err != nil {
				return nil, fmt.Errorf("%w: reading cafile %s: %v", ErrTransport, opts.CAFile, err)
			}
			pool.AppendCertsFromPEM(data)
		}
		tlsConfig.RootCAs = pool
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			TLSClientConfig:     tlsConfig,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &HTTP{
		url:     url,
		lay:     lay,
		minZoom: minZoom,
		maxZoom: maxZoom,
		opts:    opts,
		client:  client,
	}, nil
}

func (h *HTTP) Layout() *layout.Layout {
	return h.lay
}

func (h *HTTP) MinZoom() int {
	return h.minZoom
}

func (h *HTTP) MaxZoom() int {
	return h.maxZoom
}

// URL renders the request URL for a tile.
func (h *HTTP) URL(id tile.ID) (string, error) {
	if err := CheckZoom(h, id.Z); err != nil {
		return "", err
	}
	return layout.ExpandPlaceholders(h.url, h.lay, id)
}

func (h *HTTP) Load(id tile.ID) (*tile.Raster, error) {
	if err := CheckZoom(h, id.Z); err != nil {
		return nil, err
	}
	if !h.opts.AllowMultithreading {
		h.mu.Lock()
		defer h.mu.Unlock()
	}

	url, err := h.URL(id)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < h.opts.Retries; attempt++ {
		if attempt > 0 {
			time.Sleep(h.opts.RetryDelay)
		}
		raster, err := h.fetch(url)
		if err != nil {
			lastErr = err
			continue
		}
		return raster, nil
	}
	return nil, lastErr
}

func (h *HTTP) fetch(url string) (*tile.Raster, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request for %s: %v", ErrTransport, url, err)
	}
	for name, value := range h.opts.Header {
		req.Header.Set(name, value)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrTransport, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrTransport, url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body of %s: %v", ErrTransport, url, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: received no data from %s", ErrTransport, url)
	}

	raster, err := tile.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %d bytes from %s: %v: %q",
			ErrDecode, len(body), url, err, truncate.String(string(body), 64))
	}
	if err := ValidateTile(h.lay, raster); err != nil {
		return nil, fmt.Errorf("downloaded invalid tile from %s: %w", url, err)
	}
	return raster, nil
}
