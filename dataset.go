package nisar

import (
	"fmt"

	"github.com/nci/nisar/container"
)

// Dataset is one opened product: either a raster layer with its bands,
// or a listing of every raster layer the product holds.
type Dataset struct {
	conn string
	ref  string
	path string
	opts OpenOptions
	cfg  *Config

	product product
	freq    string

	sess    *session
	arr     container.Array
	bands   []*Band
	listing []ListEntry
	meta    map[string]string

	geo  memo[geoResult]
	gcps memo[*GCPSet]
	srs  memo[*SpatialRef]
}

type geoResult struct {
	gt    GeoTransform
	found bool
}

func openWith(conn string, opts OpenOptions, cfg *Config, open container.Opener) (*Dataset, error) {
	wantsLayer := opts.explicit()
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	ref, internal, err := parseConnString(conn)
	if err != nil {
		return nil, err
	}

	sess, err := openSession(ref, cfg, open)
	if err != nil {
		return nil, err
	}
	ok := false
	defer func() {
		if !ok {
			sess.Close()
		}
	}()

	p, err := classifyProduct(sess.c, opts.instrument())
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		conn:    conn,
		ref:     ref,
		path:    internal,
		opts:    opts,
		cfg:     cfg,
		product: p,
		freq:    opts.frequency(),
		sess:    sess,
	}
	ds.meta = loadMetadata(sess.c, p, opts.Metadata)

	if internal == "" && !wantsLayer {
		listing, err := buildListing(sess.c, ref, p.instrument)
		if err != nil {
			return nil, err
		}
		ds.listing = listing
		ok = true
		return ds, nil
	}

	if internal == "" {
		internal, err = resolveLayerPath(sess.c, p, &opts)
		if err != nil {
			return nil, err
		}
		ds.path = internal
	} else if !sess.c.Exists(internal) {
		return nil, fmt.Errorf("nisar: path %s not present in %s", internal, ref)
	}

	arr, err := ds.openArray(internal)
	if err != nil {
		return nil, err
	}
	ds.arr = arr

	dims := arr.Dims()
	bandCount := 1
	if len(dims) == 3 {
		bandCount = int(dims[0])
	}
	for i := 1; i <= bandCount; i++ {
		b, err := newBand(ds, arr, i, false)
		if err != nil {
			ds.closeBands()
			arr.Close()
			return nil, err
		}
		ds.bands = append(ds.bands, b)
	}

	ok = true
	return ds, nil
}

// openArray opens an array with the chunk cache from the options, or the
// configured default.
func (ds *Dataset) openArray(path string) (container.Array, error) {
	cacheMB := ds.cfg.ChunkCacheSizeMB
	if ds.opts.ChunkCacheMB > 0 {
		cacheMB = ds.opts.ChunkCacheMB
	}
	return ds.sess.c.OpenArray(path, int64(cacheMB)<<20)
}

// IsListing reports container mode: no layer was selected and the
// dataset carries the product's layer inventory instead of bands.
func (ds *Dataset) IsListing() bool { return ds.arr == nil }

// Listing returns the discovered layers in container mode, nil otherwise.
func (ds *Dataset) Listing() []ListEntry { return ds.listing }

// RasterSize is the pixel extent of the opened layer, 0x0 in listing mode.
func (ds *Dataset) RasterSize() (w, h int) {
	if len(ds.bands) == 0 {
		return 0, 0
	}
	return ds.bands[0].RasterSize()
}

func (ds *Dataset) BandCount() int { return len(ds.bands) }

func (ds *Dataset) Band(i int) (*Band, error) {
	if i < 1 || i > len(ds.bands) {
		return nil, fmt.Errorf("nisar: band %d out of range 1..%d", i, len(ds.bands))
	}
	return ds.bands[i-1], nil
}

// Path is the resolved internal object path, empty in listing mode.
func (ds *Dataset) Path() string { return ds.path }

// ProductType reports the classified product type, such as RSLC or GCOV.
func (ds *Dataset) ProductType() string { return ds.product.productType }

// Level reports the processing level: 1 for sensor geometry, 2 for
// map-projected products.
func (ds *Dataset) Level() int { return ds.product.level }

// Metadata returns the identification fields plus any metadata groups
// loaded through the METADATA option, keyed group/name.
func (ds *Dataset) Metadata() map[string]string {
	out := make(map[string]string, len(ds.meta))
	for k, v := range ds.meta {
		out[k] = v
	}
	return out
}

// GeoTransform returns the affine transform of a map-projected layer.
// found is false, with the identity transform, when the layer carries no
// transform or the product is georeferenced by GCPs instead. Computed
// once; later calls return the memoized result.
func (ds *Dataset) GeoTransform() (GeoTransform, bool) {
	res, _ := ds.geo.get(func() (geoResult, error) {
		if ds.product.level != 2 || ds.arr == nil {
			return geoResult{gt: identityTransform}, nil
		}
		gt, found := resolveGeoTransform(ds.sess.c, ds.path)
		return geoResult{gt: gt, found: found}, nil
	})
	return res.gt, res.found
}

// GCPs returns the ground-control-point set of a sensor-geometry layer,
// nil for map-projected products. A generation failure is memoized and
// reported on every call.
func (ds *Dataset) GCPs() (*GCPSet, error) {
	return ds.gcps.get(func() (*GCPSet, error) {
		if ds.product.level != 1 || ds.arr == nil {
			return nil, nil
		}
		return resolveGCPs(ds.sess.c, ds.product, ds.freq)
	})
}

// SpatialRef returns the coordinate reference of a map-projected layer,
// nil when none is recorded or the product carries GCPs (the GCP set
// holds its own authority code).
func (ds *Dataset) SpatialRef() *SpatialRef {
	srs, _ := ds.srs.get(func() (*SpatialRef, error) {
		if ds.product.level != 2 || ds.arr == nil {
			return nil, nil
		}
		return resolveSpatialRef(ds.sess.c, ds.path), nil
	})
	return srs
}

func (ds *Dataset) closeBands() {
	for _, b := range ds.bands {
		b.close()
	}
	ds.bands = nil
}

func (ds *Dataset) Close() error {
	ds.closeBands()
	if ds.arr != nil {
		ds.arr.Close()
		ds.arr = nil
	}
	if ds.sess != nil {
		err := ds.sess.Close()
		ds.sess = nil
		return err
	}
	return nil
}
