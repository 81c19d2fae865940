package nisar

import (
	"log"
	"strings"

	"github.com/nci/nisar/container"
)

// GeoTransform maps pixel/line to projected coordinates:
// [originX, pixelWidth, rotX, originY, rotY, pixelHeight].
type GeoTransform [6]float64

var identityTransform = GeoTransform{0, 1, 0, 0, 0, 1}

// coordinate arrays are only meaningful under these subtrees; matched as
// path segment prefixes so group names like calibrationInformation qualify
var griddedSubtrees = []string{"grids", "metadata", "calibration", "radarGrid"}

// resolveGeoTransform derives the affine transform for a map-projected
// layer. A 6-double GeoTransform attribute on the layer wins; otherwise
// the ancestor groups are searched outward for sibling 1-D coordinate
// axes whose endpoints give pixel size and, shifted by half a pixel from
// center to corner, the origin. found=false is the all-quiet fallback,
// not an error.
func resolveGeoTransform(c container.Container, path string) (gt GeoTransform, found bool) {
	if vals, ok := c.DoublesAttr(path, "GeoTransform"); ok && len(vals) == 6 {
		copy(gt[:], vals)
		warnPositiveYSpacing(path, gt[5])
		return gt, true
	}

	if !underGriddedSubtree(path) {
		return identityTransform, false
	}

	for dir := parentPath(path); dir != "" && dir != "/"; dir = parentPath(dir) {
		xPath := dir + "/xCoordinates"
		yPath := dir + "/yCoordinates"
		if !c.Exists(xPath) || !c.Exists(yPath) {
			continue
		}
		x0, x1, nx, err := c.ReadFloats1DEnds(xPath)
		if err != nil || nx < 2 {
			return identityTransform, false
		}
		y0, y1, ny, err := c.ReadFloats1DEnds(yPath)
		if err != nil || ny < 2 {
			return identityTransform, false
		}
		pixelW := (x1 - x0) / float64(nx-1)
		pixelH := (y1 - y0) / float64(ny-1)
		warnPositiveYSpacing(path, pixelH)
		return GeoTransform{
			x0 - 0.5*pixelW, pixelW, 0,
			y0 - 0.5*pixelH, 0, pixelH,
		}, true
	}
	return identityTransform, false
}

// Some products store north-up rasters with ascending y coordinates. The
// sign convention is unconfirmed per product, so this only warns and
// never flips the transform.
func warnPositiveYSpacing(path string, pixelH float64) {
	if pixelH > 0 {
		log.Printf("nisar: %s has positive y pixel spacing %g, expected negative for north-up", path, pixelH)
	}
}

func underGriddedSubtree(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		for _, s := range griddedSubtrees {
			if strings.HasPrefix(seg, s) {
				return true
			}
		}
	}
	return false
}

func parentPath(path string) string {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return ""
	}
	return path[:i]
}
