package loader

import "errors"

var (
	// ErrZoomOutOfRange is returned for zoom levels outside the band
	// supported by a loader.
	ErrZoomOutOfRange = errors.New("zoom level out of range")
	// ErrNotFound is returned when a tile is absent in the source.
	ErrNotFound = errors.New("tile not found")
	// ErrTransport covers HTTP-layer failures: connect, TLS, timeout,
	// non-2xx status, empty body.
	ErrTransport = errors.New("transport failure")
	// ErrDecode is returned when the image decoder rejects the bytes or a
	// JPEG carries invalid markers.
	ErrDecode = errors.New("image decode failure")
	// ErrInvalidTile is returned for decoded tiles with the wrong
	// dimensions or an unsupported channel count.
	ErrInvalidTile = errors.New("invalid tile")
	// ErrCacheMiss is returned when a cache answered Contains but could not
	// produce the tile.
	ErrCacheMiss = errors.New("cache miss")
	// ErrWriteFile is a persistent-cache write failure.
	ErrWriteFile = errors.New("failed to write file")
	// ErrLoadFile is a persistent-cache read failure.
	ErrLoadFile = errors.New("failed to load file")
)

// cacheRecoverable reports whether a cache failure may be answered by
// falling through to the inner loader.
func cacheRecoverable(err error) bool {
	return errors.Is(err, ErrCacheMiss) || errors.Is(err, ErrLoadFile) || errors.Is(err, ErrDecode)
}

// defaultRecoverable reports whether WithDefault may substitute a fill tile
// for the error.
func defaultRecoverable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrLoadFile) || errors.Is(err, ErrCacheMiss)
}
