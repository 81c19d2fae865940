package nisar

import (
	"fmt"
	"strings"

	"github.com/nci/nisar/container"
)

// ListEntry describes one raster layer discovered in listing mode.
type ListEntry struct {
	// Name is a connection string that opens this layer directly.
	Name string `json:"name"`
	// Description summarizes shape, path and pixel type.
	Description string `json:"description"`

	Path     string   `json:"path"`
	Dims     []uint64 `json:"dims"`
	DataType DataType `json:"data_type"`
}

// buildListing walks the instrument subtree and returns one entry per
// array of rank two or more. Layers whose element type has no raster
// mapping are still listed, with an unknown pixel type.
func buildListing(c container.Container, ref, instrument string) ([]ListEntry, error) {
	root := "/science/" + instrument
	var entries []ListEntry
	err := c.Walk(root, func(path string, info container.ArrayInfo) {
		if len(info.Dims) < 2 {
			return
		}
		dt, _ := resolveDataType(info.Type)
		entries = append(entries, ListEntry{
			Name:        fmt.Sprintf("NISAR:%s:%s", quoteRef(ref), path),
			Description: fmt.Sprintf("[%s] %s (%s)", dimsString(info.Dims), path, dt),
			Path:        path,
			Dims:        info.Dims,
			DataType:    dt,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("nisar: cannot enumerate %s: %w", root, err)
	}
	return entries, nil
}

func dimsString(dims []uint64) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return strings.Join(parts, "x")
}

// quoteRef wraps references containing a colon so the listing entry
// round-trips through the connection string parser.
func quoteRef(ref string) string {
	if strings.Contains(ref, ":") {
		return `"` + ref + `"`
	}
	return ref
}
