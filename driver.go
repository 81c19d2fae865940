// Package nisar exposes NISAR satellite radar products stored in HDF5
// containers as raster bands with geospatial referencing. Products are
// opened from local paths or cloud object storage, a layer is resolved
// from an explicit internal path or structured options, and pixels are
// served through chunk-aligned block reads.
package nisar

import (
	"strings"

	"github.com/nci/nisar/container"
	"github.com/nci/nisar/internal/h5"
)

// Identify reports whether conn plausibly addresses a NISAR product:
// either the NISAR: prefix or a reference to an .h5 container.
func Identify(conn string) bool {
	s := strings.TrimSpace(conn)
	if len(s) >= len(connPrefix) && strings.EqualFold(s[:len(connPrefix)], connPrefix) {
		return true
	}
	ref, _, err := parseConnString(s)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(ref), ".h5")
}

// Open opens a product. conn follows [NISAR:]<container-ref>[:<internal-path>];
// the reference may be a local path, an s3:// or /vsis3/ object reference,
// or a direct URL. Without an internal path or layer options the dataset
// opens in listing mode.
func Open(conn string, opts OpenOptions) (*Dataset, error) {
	return openWith(conn, opts, LoadConfig(), container.Opener(h5.Open))
}
