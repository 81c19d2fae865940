package nisar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nci/nisar/container"
)

// GCP ties one raster (pixel, line) position to a ground coordinate.
type GCP struct {
	ID    string
	Pixel float64
	Line  float64
	X     float64
	Y     float64
	Z     float64
}

// GCPSet is a complete ground-control-point set with the EPSG authority
// code its coordinates are expressed in.
type GCPSet struct {
	Points []GCP
	EPSG   int
}

// resolveGCPs inverts the product's geolocation grid against the swath's
// range and time sampling. Sensor-geometry rasters are indexed by (zero
// Doppler time, slant range), so each grid node maps back to raster
// coordinates through the starting range, range spacing and PRF. Any
// missing input fails the whole set; no partial sets are produced.
func resolveGCPs(c container.Container, p product, freq string) (*GCPSet, error) {
	grid := p.root() + "/metadata/geolocationGrid"

	epsg, err := c.ReadScalarInt(grid + "/epsg")
	if err != nil {
		return nil, fmt.Errorf("nisar: cannot read %s/epsg: %w", grid, err)
	}

	xs, ny, nx, err := c.ReadFloats2D(grid + "/coordinateX")
	if err != nil {
		return nil, err
	}
	ys, ny2, nx2, err := c.ReadFloats2D(grid + "/coordinateY")
	if err != nil {
		return nil, err
	}
	if ny != ny2 || nx != nx2 {
		return nil, fmt.Errorf("nisar: geolocation grid coordinate shapes differ: %dx%d vs %dx%d", ny, nx, ny2, nx2)
	}

	slantRange, err := c.ReadFloats1D(grid + "/slantRange")
	if err != nil {
		return nil, err
	}
	times, err := c.ReadFloats1D(grid + "/zeroDopplerTime")
	if err != nil {
		return nil, err
	}
	if len(slantRange) != nx || len(times) != ny {
		return nil, fmt.Errorf("nisar: geolocation grid axes (%d ranges, %d times) do not match coordinates %dx%d",
			len(slantRange), len(times), ny, nx)
	}

	units, ok := c.StringAttr(grid+"/zeroDopplerTime", "units")
	if !ok {
		return nil, fmt.Errorf("nisar: %s/zeroDopplerTime has no units attribute", grid)
	}
	epoch, err := parseTimeUnits(units)
	if err != nil {
		return nil, fmt.Errorf("nisar: %s/zeroDopplerTime: %w", grid, err)
	}

	freqGroup := p.frequencyGroup(freq)
	startingRange, _, nRanges, err := c.ReadFloats1DEnds(freqGroup + "/slantRange")
	if err != nil || nRanges == 0 {
		return nil, fmt.Errorf("nisar: cannot read starting range from %s/slantRange", freqGroup)
	}
	rangeSpacing, err := c.ReadScalarFloat(freqGroup + "/slantRangeSpacing")
	if err != nil {
		return nil, err
	}
	prf, err := c.ReadScalarFloat(freqGroup + "/nominalAcquisitionPRF")
	if err != nil {
		return nil, err
	}
	if rangeSpacing == 0 || prf == 0 {
		return nil, fmt.Errorf("nisar: degenerate swath sampling (spacing %g, prf %g)", rangeSpacing, prf)
	}

	startStr, err := c.ReadScalarString(p.identificationGroup() + "/zeroDopplerStartTime")
	if err != nil {
		return nil, err
	}
	sceneStart, err := parseISOTime(startStr)
	if err != nil {
		return nil, fmt.Errorf("nisar: zeroDopplerStartTime: %w", err)
	}

	epochOffset := epoch.Sub(sceneStart).Seconds()
	points := make([]GCP, 0, ny*nx)
	for i := 0; i < ny; i++ {
		line := (epochOffset+times[i])*prf + 0.5
		for j := 0; j < nx; j++ {
			points = append(points, GCP{
				ID:    strconv.Itoa(len(points) + 1),
				Pixel: (slantRange[j]-startingRange)/rangeSpacing + 0.5,
				Line:  line,
				X:     xs[i*nx+j],
				Y:     ys[i*nx+j],
				Z:     0,
			})
		}
	}
	return &GCPSet{Points: points, EPSG: int(epsg)}, nil
}

// parseTimeUnits extracts the epoch from a CF-style time axis units
// string such as "seconds since 2023-07-01 00:00:00".
func parseTimeUnits(units string) (time.Time, error) {
	s := strings.TrimSpace(units)
	const prefix = "seconds since"
	if !strings.HasPrefix(s, prefix) {
		return time.Time{}, fmt.Errorf("unsupported time units %q", units)
	}
	return parseISOTime(strings.TrimSpace(s[len(prefix):]))
}

var isoTimeFormats = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseISOTime(s string) (time.Time, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	for _, layout := range isoTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
