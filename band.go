package nisar

import (
	"fmt"
	"sync"

	"github.com/nci/nisar/container"
)

const defaultBlockSize = 512

// Band exposes one raster layer, or one plane of a band-indexed cube,
// through chunk-aligned block reads.
type Band struct {
	ds      *Dataset
	arr     container.Array
	ownsArr bool
	index   int

	dtype  DataType
	width  int
	height int
	blockW int
	blockH int
	rank   int

	// the reusable destination hyperslab is not safe for concurrent
	// reads, so block requests on one band are serialized
	mu  sync.Mutex
	rdr container.BlockReader

	mask memo[*MaskBand]
}

// newBand builds the block engine over arr. ownsArr hands the array
// handle's lifetime to the band; cube bands share one dataset-owned
// handle instead.
func newBand(ds *Dataset, arr container.Array, index int, ownsArr bool) (*Band, error) {
	dims := arr.Dims()
	rank := len(dims)
	if rank != 2 && rank != 3 {
		return nil, fmt.Errorf("nisar: %s has rank %d, only 2-D rasters and 3-D cubes are supported",
			arr.Path(), rank)
	}
	if index < 1 {
		return nil, fmt.Errorf("nisar: invalid band index %d", index)
	}
	if rank == 3 && uint64(index) > dims[0] {
		return nil, fmt.Errorf("nisar: band %d out of range, %s has %d bands", index, arr.Path(), dims[0])
	}

	dtype, err := resolveDataType(arr.Type())
	if err != nil {
		return nil, fmt.Errorf("%w (at %s)", err, arr.Path())
	}

	blockH, blockW := defaultBlockSize, defaultBlockSize
	if chunk := arr.ChunkDims(); len(chunk) >= 2 {
		blockH = int(chunk[len(chunk)-2])
		blockW = int(chunk[len(chunk)-1])
	}

	rdr, err := arr.NewBlockReader(blockH, blockW)
	if err != nil {
		return nil, err
	}

	return &Band{
		ds:      ds,
		arr:     arr,
		ownsArr: ownsArr,
		index:   index,
		dtype:   dtype,
		width:   int(dims[rank-1]),
		height:  int(dims[rank-2]),
		blockW:  blockW,
		blockH:  blockH,
		rank:    rank,
		rdr:     rdr,
	}, nil
}

func (b *Band) DataType() DataType     { return b.dtype }
func (b *Band) BlockSize() (w, h int)  { return b.blockW, b.blockH }
func (b *Band) RasterSize() (w, h int) { return b.width, b.height }
func (b *Band) Path() string           { return b.arr.Path() }

// BlockBufferSize is the byte length ReadBlock expects.
func (b *Band) BlockBufferSize() int {
	return b.blockW * b.blockH * b.dtype.Size()
}

// ReadBlock fills buf with the block at block coordinates (bx, by). The
// buffer is zeroed first, so edge blocks carry zero padding outside the
// raster extent and a block entirely outside it is all zeros without any
// I/O. Interior pixels are fetched with a single strided read. A failed
// read fails only this request.
func (b *Band) ReadBlock(bx, by int, buf []byte) error {
	if bx < 0 || by < 0 {
		return fmt.Errorf("nisar: invalid block coordinates (%d, %d)", bx, by)
	}
	if len(buf) != b.BlockBufferSize() {
		return fmt.Errorf("nisar: block buffer is %d bytes, need %d", len(buf), b.BlockBufferSize())
	}

	clear(buf)

	offX := bx * b.blockW
	offY := by * b.blockH
	if offX >= b.width || offY >= b.height {
		return nil
	}
	clipW := min(b.blockW, b.width-offX)
	clipH := min(b.blockH, b.height-offY)

	var src container.Region
	if b.rank == 3 {
		src = container.Region{
			Start: []uint64{uint64(b.index - 1), uint64(offY), uint64(offX)},
			Count: []uint64{1, uint64(clipH), uint64(clipW)},
		}
	} else {
		src = container.Region{
			Start: []uint64{uint64(offY), uint64(offX)},
			Count: []uint64{uint64(clipH), uint64(clipW)},
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.rdr.Read(src, clipH, clipW, buf); err != nil {
		return fmt.Errorf("nisar: block (%d, %d) of %s: %w", bx, by, b.arr.Path(), err)
	}
	return nil
}

// MaskBand returns the validity mask overlay for this band, or nil when
// no mask sibling exists or masking is disabled: all pixels valid. The
// result, success or failure, is computed once.
func (b *Band) MaskBand() (*MaskBand, error) {
	return b.mask.get(func() (*MaskBand, error) {
		if b.ds.opts.DisableMask {
			return nil, nil
		}
		return openMaskBand(b)
	})
}

func (b *Band) close() {
	if b.rdr != nil {
		b.rdr.Close()
		b.rdr = nil
	}
	if mb, _ := b.mask.get(func() (*MaskBand, error) { return nil, nil }); mb != nil {
		mb.close()
	}
	if b.ownsArr && b.arr != nil {
		b.arr.Close()
	}
	b.arr = nil
}
