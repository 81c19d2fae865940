// Package container defines the boundary to the hierarchical array
// container holding NISAR products. The driver core consumes these
// interfaces only; internal/h5 provides the libhdf5-backed implementation
// and tests substitute in-memory fakes.
package container

// ObjectKind classifies a child of a group.
type ObjectKind int

const (
	KindGroup ObjectKind = iota
	KindArray
	KindOther
)

// Child is one immediate member of a group.
type Child struct {
	Name string
	Kind ObjectKind
}

// TypeClass is the coarse class of an element type.
type TypeClass int

const (
	ClassInteger TypeClass = iota
	ClassFloat
	ClassString
	ClassCompound
	ClassOther
)

// TypeInfo describes an array element type in container-neutral terms.
// For compound types the member descriptions appear in declaration order
// and MembersEqual reports whether all members share one underlying type.
type TypeInfo struct {
	Class        TypeClass
	Size         int
	Signed       bool
	MemberNames  []string
	Members      []TypeInfo
	MembersEqual bool
}

// ArrayInfo is the shape/type summary passed to Walk callbacks.
type ArrayInfo struct {
	Dims []uint64
	Type TypeInfo
}

// Region is a rectangular selection in an array's index space.
type Region struct {
	Start []uint64
	Count []uint64
}

// ObjectStoreAuth carries credentials for a remote container endpoint.
type ObjectStoreAuth struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// OpenConfig tunes a container open. A zero PageBufferBytes leaves the
// implementation defaults in place; Auth is nil for local files.
type OpenConfig struct {
	PageBufferBytes uint64
	Auth            *ObjectStoreAuth
}

// Opener opens a container at a resolved endpoint (local path or URL).
type Opener func(endpoint string, cfg OpenConfig) (Container, error)

// Container is one open product file.
type Container interface {
	// PageSize reports the file's native page granularity in bytes.
	// Zero means the file does not use paged allocation.
	PageSize() (uint64, error)

	Exists(path string) bool
	OpenArray(path string, chunkCacheBytes int64) (Array, error)
	Children(path string) ([]Child, error)

	// Walk visits every array object below root in name order,
	// passing container-absolute paths.
	Walk(root string, fn func(path string, info ArrayInfo)) error

	ReadScalarString(path string) (string, error)
	ReadScalarFloat(path string) (float64, error)
	ReadScalarInt(path string) (int64, error)
	// ReadScalarAsString renders any scalar dataset as text.
	ReadScalarAsString(path string) (string, error)

	ReadFloats1D(path string) ([]float64, error)
	// ReadFloats1DEnds reads only the first and last element of a 1-D axis.
	ReadFloats1DEnds(path string) (first, last float64, n uint64, err error)
	// ReadFloats2D reads a 2-D array, or the height-0 slice of a 3-D cube,
	// row-major as (ny, nx).
	ReadFloats2D(path string) (vals []float64, ny, nx int, err error)
	ReadStrings1D(path string) ([]string, error)

	StringAttr(path, name string) (string, bool)
	IntAttr(path, name string) (int64, bool)
	// DoublesAttr returns the attribute only when stored as native doubles.
	DoublesAttr(path, name string) ([]float64, bool)

	Close() error
}

// Array is one open array object.
type Array interface {
	Path() string
	Dims() []uint64
	// ChunkDims is nil when the array is not chunked.
	ChunkDims() []uint64
	Type() TypeInfo
	// NewBlockReader prepares a reusable destination-side selection of
	// blockH x blockW elements for repeated strided reads.
	NewBlockReader(blockH, blockW int) (BlockReader, error)
	Close() error
}

// BlockReader issues one strided read per call: the src file region lands
// in the top-left dstH x dstW sub-region of the full block buffer. It is
// not safe for concurrent use; callers serialize per band.
type BlockReader interface {
	Read(src Region, dstH, dstW int, dst []byte) error
	Close() error
}
