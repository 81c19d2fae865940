package nisar

import (
	"fmt"
	"log"
	"strings"

	"github.com/nci/nisar/container"
)

// product identifies what kind of NISAR product a container holds and
// where its raster layers live.
type product struct {
	instrument  string
	productType string
	level       int
}

var productLevels = map[string]int{
	"RSLC": 1,
	"RIFG": 1,
	"RUNW": 1,
	"ROFF": 1,
	"GSLC": 2,
	"GCOV": 2,
	"GUNW": 2,
	"GOFF": 2,
}

// probe order for containers with unreadable identification fields
var knownProductTypes = []string{"RSLC", "RIFG", "RUNW", "ROFF", "GSLC", "GCOV", "GUNW", "GOFF"}

func (p product) root() string {
	return fmt.Sprintf("/science/%s/%s", p.instrument, p.productType)
}

// dataRoot is the subtree holding raster layers: Level 1 products keep
// sensor-geometry rasters under swaths, Level 2 map-projected rasters
// live under grids.
func (p product) dataRoot() string {
	if p.level == 1 {
		return p.root() + "/swaths"
	}
	return p.root() + "/grids"
}

func (p product) frequencyGroup(freq string) string {
	return p.dataRoot() + "/frequency" + freq
}

func (p product) identificationGroup() string {
	return fmt.Sprintf("/science/%s/identification", p.instrument)
}

// classifyProduct reads the product type from the identification group.
// When that fails it degrades to structural probes rather than aborting,
// since some historical products carry incomplete identification.
func classifyProduct(c container.Container, instrument string) (product, error) {
	idPath := fmt.Sprintf("/science/%s/identification/productType", instrument)
	ptype, err := c.ReadScalarString(idPath)
	if err == nil {
		ptype = strings.ToUpper(strings.TrimSpace(ptype))
		if level, ok := productLevels[ptype]; ok {
			return product{instrument: instrument, productType: ptype, level: level}, nil
		}
		log.Printf("nisar: unrecognized productType %q, probing structure", ptype)
	} else {
		log.Printf("nisar: cannot read %s, probing structure", idPath)
	}

	for _, ptype := range knownProductTypes {
		if c.Exists(fmt.Sprintf("/science/%s/%s", instrument, ptype)) {
			return product{instrument: instrument, productType: ptype, level: productLevels[ptype]}, nil
		}
	}
	return product{}, fmt.Errorf("nisar: no recognizable product under /science/%s", instrument)
}

// defaultPolarization is the layer picked when POL is not given:
// covariance products store 4-character terms, everything else
// 2-character polarization codes.
func (p product) defaultPolarization() string {
	if p.productType == "GCOV" {
		return "HHHH"
	}
	return "HH"
}

// resolveLayerPath builds and validates the internal path of the raster
// layer selected by the open options. The requested polarization must be
// a member of the product's published per-frequency polarization list;
// otherwise the open fails naming the valid set. Only containers without
// a readable list fall back to bare layer existence.
func resolveLayerPath(c container.Container, p product, opts *OpenOptions) (string, error) {
	freq := opts.frequency()
	freqGroup := p.frequencyGroup(freq)
	if !c.Exists(freqGroup) {
		return "", fmt.Errorf("nisar: frequency %s not present in %s product (checked %s)",
			freq, p.productType, freqGroup)
	}

	pol := opts.Polarization
	if pol == "" {
		pol = p.defaultPolarization()
	}
	path := freqGroup + "/" + pol

	pols, err := c.ReadStrings1D(freqGroup + "/listOfPolarizations")
	if err != nil {
		// Degraded container without a published list: layer existence
		// is the only check left.
		log.Printf("nisar: no polarization list under %s, relying on layer existence", freqGroup)
		if !c.Exists(path) {
			return "", fmt.Errorf("nisar: polarization layer %s not present", path)
		}
		return path, nil
	}
	listed := false
	for _, q := range pols {
		if strings.EqualFold(strings.TrimSpace(q), pol) {
			listed = true
			break
		}
	}
	if !listed {
		return "", fmt.Errorf("nisar: polarization %s not available for frequency %s, valid polarizations: {%s}",
			pol, freq, strings.Join(pols, ", "))
	}
	if !c.Exists(path) {
		return "", fmt.Errorf("nisar: polarization layer %s not present", path)
	}
	return path, nil
}

// loadMetadata reads the identification group plus any metadata groups
// requested through the METADATA option. Individual unreadable entries
// are skipped; metadata never fails an open.
func loadMetadata(c container.Container, p product, groups []string) map[string]string {
	meta := make(map[string]string)
	addMetadataGroup(c, p.identificationGroup(), "identification", meta)

	metaRoot := p.root() + "/metadata"
	for _, g := range groups {
		if strings.EqualFold(g, "ALL") {
			children, err := c.Children(metaRoot)
			if err != nil {
				log.Printf("nisar: cannot enumerate %s", metaRoot)
				continue
			}
			for _, ch := range children {
				if ch.Kind == container.KindGroup {
					addMetadataGroup(c, metaRoot+"/"+ch.Name, ch.Name, meta)
				}
			}
			continue
		}
		addMetadataGroup(c, metaRoot+"/"+g, g, meta)
	}
	return meta
}

func addMetadataGroup(c container.Container, path, label string, meta map[string]string) {
	children, err := c.Children(path)
	if err != nil {
		log.Printf("nisar: cannot enumerate metadata group %s", path)
		return
	}
	for _, ch := range children {
		if ch.Kind != container.KindArray {
			continue
		}
		v, err := c.ReadScalarAsString(path + "/" + ch.Name)
		if err != nil {
			continue
		}
		meta[label+"/"+ch.Name] = v
	}
}
