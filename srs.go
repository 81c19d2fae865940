package nisar

import (
	"github.com/nci/nisar/container"
)

// SpatialRef carries the coordinate reference of a map-projected layer,
// either as an EPSG authority code or as well-known text.
type SpatialRef struct {
	EPSG int
	WKT  string
}

// resolveSpatialRef looks for a sibling "projection" object next to the
// layer and reads its epsg_code attribute, falling back to spatial_ref
// well-known text. nil means no reference is recorded.
func resolveSpatialRef(c container.Container, path string) *SpatialRef {
	proj := parentPath(path) + "/projection"
	if !c.Exists(proj) {
		return nil
	}
	if code, ok := c.IntAttr(proj, "epsg_code"); ok && code > 0 {
		return &SpatialRef{EPSG: int(code)}
	}
	if wkt, ok := c.StringAttr(proj, "spatial_ref"); ok && wkt != "" {
		return &SpatialRef{WKT: wkt}
	}
	return nil
}
