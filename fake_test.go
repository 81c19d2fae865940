package nisar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nci/nisar/container"
)

// fake2d is a canned ReadFloats2D result.
type fake2d struct {
	vals []float64
	ny   int
	nx   int
}

// fakeContainer is an in-memory container for driver tests.
type fakeContainer struct {
	pageSize     uint64
	pageSizeErr  error
	arrays       map[string]*fakeArray
	strScalars   map[string]string
	floatScalars map[string]float64
	intScalars   map[string]int64
	floats1d     map[string][]float64
	floats2d     map[string]fake2d
	strs1d       map[string][]string
	strAttrs     map[string]string
	intAttrs     map[string]int64
	dblAttrs     map[string][]float64
	groups       map[string]bool
	closed       int
}

func newFakeContainer() *fakeContainer {
	return &fakeContainer{
		pageSize:     4096,
		arrays:       make(map[string]*fakeArray),
		strScalars:   make(map[string]string),
		floatScalars: make(map[string]float64),
		intScalars:   make(map[string]int64),
		floats1d:     make(map[string][]float64),
		floats2d:     make(map[string]fake2d),
		strs1d:       make(map[string][]string),
		strAttrs:     make(map[string]string),
		intAttrs:     make(map[string]int64),
		dblAttrs:     make(map[string][]float64),
		groups:       make(map[string]bool),
	}
}

func attrKey(path, name string) string { return path + "#" + name }

func (f *fakeContainer) objectPaths() []string {
	var paths []string
	for p := range f.arrays {
		paths = append(paths, p)
	}
	for p := range f.strScalars {
		paths = append(paths, p)
	}
	for p := range f.floatScalars {
		paths = append(paths, p)
	}
	for p := range f.intScalars {
		paths = append(paths, p)
	}
	for p := range f.floats1d {
		paths = append(paths, p)
	}
	for p := range f.floats2d {
		paths = append(paths, p)
	}
	for p := range f.strs1d {
		paths = append(paths, p)
	}
	for p := range f.groups {
		paths = append(paths, p)
	}
	return paths
}

func (f *fakeContainer) PageSize() (uint64, error) {
	return f.pageSize, f.pageSizeErr
}

func (f *fakeContainer) Exists(path string) bool {
	for _, p := range f.objectPaths() {
		if p == path || strings.HasPrefix(p, path+"/") {
			return true
		}
	}
	return false
}

func (f *fakeContainer) OpenArray(path string, chunkCacheBytes int64) (container.Array, error) {
	a, ok := f.arrays[path]
	if !ok {
		return nil, fmt.Errorf("fake: no array at %s", path)
	}
	a.cacheBytes = chunkCacheBytes
	return a, nil
}

func (f *fakeContainer) Children(path string) ([]container.Child, error) {
	if !f.Exists(path) {
		return nil, fmt.Errorf("fake: no group at %s", path)
	}
	seen := make(map[string]container.ObjectKind)
	for _, p := range f.objectPaths() {
		if !strings.HasPrefix(p, path+"/") {
			continue
		}
		rest := p[len(path)+1:]
		if i := strings.Index(rest, "/"); i >= 0 {
			seen[rest[:i]] = container.KindGroup
		} else if f.groups[p] {
			seen[rest] = container.KindGroup
		} else {
			seen[rest] = container.KindArray
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]container.Child, 0, len(names))
	for _, n := range names {
		out = append(out, container.Child{Name: n, Kind: seen[n]})
	}
	return out, nil
}

func (f *fakeContainer) Walk(root string, fn func(path string, info container.ArrayInfo)) error {
	var paths []string
	for p := range f.arrays {
		if strings.HasPrefix(p, strings.TrimSuffix(root, "/")+"/") {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	for _, p := range paths {
		a := f.arrays[p]
		fn(p, container.ArrayInfo{Dims: a.dims, Type: a.typ})
	}
	return nil
}

func (f *fakeContainer) ReadScalarString(path string) (string, error) {
	if v, ok := f.strScalars[path]; ok {
		return v, nil
	}
	return "", fmt.Errorf("fake: no string scalar at %s", path)
}

func (f *fakeContainer) ReadScalarFloat(path string) (float64, error) {
	if v, ok := f.floatScalars[path]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("fake: no float scalar at %s", path)
}

func (f *fakeContainer) ReadScalarInt(path string) (int64, error) {
	if v, ok := f.intScalars[path]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("fake: no int scalar at %s", path)
}

func (f *fakeContainer) ReadScalarAsString(path string) (string, error) {
	if v, ok := f.strScalars[path]; ok {
		return v, nil
	}
	if v, ok := f.intScalars[path]; ok {
		return fmt.Sprintf("%d", v), nil
	}
	if v, ok := f.floatScalars[path]; ok {
		return fmt.Sprintf("%g", v), nil
	}
	return "", fmt.Errorf("fake: no scalar at %s", path)
}

func (f *fakeContainer) ReadFloats1D(path string) ([]float64, error) {
	if v, ok := f.floats1d[path]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("fake: no 1-D floats at %s", path)
}

func (f *fakeContainer) ReadFloats1DEnds(path string) (float64, float64, uint64, error) {
	v, ok := f.floats1d[path]
	if !ok || len(v) == 0 {
		return 0, 0, 0, fmt.Errorf("fake: no 1-D floats at %s", path)
	}
	return v[0], v[len(v)-1], uint64(len(v)), nil
}

func (f *fakeContainer) ReadFloats2D(path string) ([]float64, int, int, error) {
	if v, ok := f.floats2d[path]; ok {
		return v.vals, v.ny, v.nx, nil
	}
	return nil, 0, 0, fmt.Errorf("fake: no 2-D floats at %s", path)
}

func (f *fakeContainer) ReadStrings1D(path string) ([]string, error) {
	if v, ok := f.strs1d[path]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("fake: no string array at %s", path)
}

func (f *fakeContainer) StringAttr(path, name string) (string, bool) {
	v, ok := f.strAttrs[attrKey(path, name)]
	return v, ok
}

func (f *fakeContainer) IntAttr(path, name string) (int64, bool) {
	v, ok := f.intAttrs[attrKey(path, name)]
	return v, ok
}

func (f *fakeContainer) DoublesAttr(path, name string) ([]float64, bool) {
	v, ok := f.dblAttrs[attrKey(path, name)]
	return v, ok
}

func (f *fakeContainer) Close() error {
	f.closed++
	return nil
}

// fakeArray serves reads from a row-major byte slice and counts I/O
// requests for the one-read-per-block property.
type fakeArray struct {
	path       string
	dims       []uint64
	chunk      []uint64
	typ        container.TypeInfo
	data       []byte
	reads      int
	readErr    error
	cacheBytes int64
	closed     int
}

func (a *fakeArray) Path() string             { return a.path }
func (a *fakeArray) Dims() []uint64           { return a.dims }
func (a *fakeArray) ChunkDims() []uint64      { return a.chunk }
func (a *fakeArray) Type() container.TypeInfo { return a.typ }
func (a *fakeArray) Close() error             { a.closed++; return nil }

func (a *fakeArray) NewBlockReader(blockH, blockW int) (container.BlockReader, error) {
	return &fakeBlockReader{a: a, blockW: blockW}, nil
}

type fakeBlockReader struct {
	a      *fakeArray
	blockW int
	closed int
}

func (r *fakeBlockReader) Read(src container.Region, dstH, dstW int, dst []byte) error {
	a := r.a
	a.reads++
	if a.readErr != nil {
		return a.readErr
	}
	rank := len(a.dims)
	if len(src.Start) != rank || len(src.Count) != rank {
		return fmt.Errorf("fake: selection rank %d against rank %d array", len(src.Start), rank)
	}
	elem := a.typ.Size
	width := a.dims[rank-1]
	height := a.dims[rank-2]
	var plane uint64
	if rank == 3 {
		if src.Count[0] != 1 {
			return fmt.Errorf("fake: band selection must have extent 1")
		}
		plane = src.Start[0]
	}
	startRow, startCol := src.Start[rank-2], src.Start[rank-1]
	nRows, nCols := src.Count[rank-2], src.Count[rank-1]
	if int(nRows) != dstH || int(nCols) != dstW {
		return fmt.Errorf("fake: source %dx%d does not match destination %dx%d", nRows, nCols, dstH, dstW)
	}
	if startRow+nRows > height || startCol+nCols > width {
		return fmt.Errorf("fake: selection beyond extent")
	}
	for i := uint64(0); i < nRows; i++ {
		srcOff := (plane*height*width + (startRow+i)*width + startCol) * uint64(elem)
		dstOff := int(i) * r.blockW * elem
		copy(dst[dstOff:dstOff+int(nCols)*elem], a.data[srcOff:])
	}
	return nil
}

func (r *fakeBlockReader) Close() error { r.closed++; return nil }

// uint8Type and friends build the common element types used in tests.
func uint8Type() container.TypeInfo {
	return container.TypeInfo{Class: container.ClassInteger, Size: 1, MembersEqual: true}
}

func float32Type() container.TypeInfo {
	return container.TypeInfo{Class: container.ClassFloat, Size: 4, MembersEqual: true}
}

func complexFloat32Type() container.TypeInfo {
	member := container.TypeInfo{Class: container.ClassFloat, Size: 4, MembersEqual: true}
	return container.TypeInfo{
		Class:        container.ClassCompound,
		Size:         8,
		MemberNames:  []string{"r", "i"},
		Members:      []container.TypeInfo{member, member},
		MembersEqual: true,
	}
}

// newGSLCFixture builds a minimal map-projected product with one HH
// layer of the given shape.
func newGSLCFixture(dims, chunk []uint64, typ container.TypeInfo, data []byte) (*fakeContainer, *fakeArray) {
	f := newFakeContainer()
	f.strScalars["/science/LSAR/identification/productType"] = "GSLC"
	f.strScalars["/science/LSAR/identification/zeroDopplerStartTime"] = "2023-07-01T00:00:00"
	freq := "/science/LSAR/GSLC/grids/frequencyA"
	f.strs1d[freq+"/listOfPolarizations"] = []string{"HH", "HV"}
	arr := &fakeArray{path: freq + "/HH", dims: dims, chunk: chunk, typ: typ, data: data}
	f.arrays[arr.path] = arr
	return f, arr
}

// fixtureOpener serves a canned container regardless of endpoint.
func fixtureOpener(f *fakeContainer) container.Opener {
	return func(endpoint string, cfg container.OpenConfig) (container.Container, error) {
		return f, nil
	}
}

func testConfig() *Config {
	return &Config{ChunkCacheSizeMB: 512, PageBufferTargetMB: 16, DefaultPageSize: 4096}
}
