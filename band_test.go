package nisar

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 7 rows by 5 columns of sequential bytes, chunked 4x4
func openClippedFixture(t *testing.T) (*Dataset, *Band, *fakeArray) {
	t.Helper()
	data := make([]byte, 7*5)
	for i := range data {
		data[i] = byte(i + 1)
	}
	f, arr := newGSLCFixture([]uint64{7, 5}, []uint64{4, 4}, uint8Type(), data)

	ds, err := openWith("product.h5:/science/LSAR/GSLC/grids/frequencyA/HH",
		OpenOptions{}, testConfig(), fixtureOpener(f))
	require.NoError(t, err)
	t.Cleanup(func() { ds.Close() })

	b, err := ds.Band(1)
	require.NoError(t, err)
	return ds, b, arr
}

func TestBandGeometry(t *testing.T) {
	ds, b, _ := openClippedFixture(t)
	w, h := ds.RasterSize()
	assert.Equal(t, 5, w)
	assert.Equal(t, 7, h)
	assert.Equal(t, 1, ds.BandCount())

	bw, bh := b.BlockSize()
	assert.Equal(t, 4, bw)
	assert.Equal(t, 4, bh)
	assert.Equal(t, TypeUInt8, b.DataType())
	assert.Equal(t, 16, b.BlockBufferSize())
}

func TestReadBlockInterior(t *testing.T) {
	_, b, arr := openClippedFixture(t)
	buf := make([]byte, b.BlockBufferSize())
	require.NoError(t, b.ReadBlock(0, 0, buf))

	want := []byte{
		1, 2, 3, 4,
		6, 7, 8, 9,
		11, 12, 13, 14,
		16, 17, 18, 19,
	}
	assert.Equal(t, want, buf)
	assert.Equal(t, 1, arr.reads)

	// reading the same block again yields identical bytes
	again := make([]byte, len(buf))
	require.NoError(t, b.ReadBlock(0, 0, again))
	assert.Equal(t, buf, again)
	assert.Equal(t, 2, arr.reads)
}

func TestReadBlockEdgePadding(t *testing.T) {
	_, b, _ := openClippedFixture(t)
	buf := make([]byte, b.BlockBufferSize())

	// right edge: one valid column, three zero columns
	require.NoError(t, b.ReadBlock(1, 0, buf))
	want := []byte{
		5, 0, 0, 0,
		10, 0, 0, 0,
		15, 0, 0, 0,
		20, 0, 0, 0,
	}
	assert.Equal(t, want, buf)

	// bottom-right corner: 3 rows x 1 column valid
	require.NoError(t, b.ReadBlock(1, 1, buf))
	want = []byte{
		25, 0, 0, 0,
		30, 0, 0, 0,
		35, 0, 0, 0,
		0, 0, 0, 0,
	}
	assert.Equal(t, want, buf)
}

func TestReadBlockOutsideExtent(t *testing.T) {
	_, b, arr := openClippedFixture(t)
	buf := make([]byte, b.BlockBufferSize())
	for i := range buf {
		buf[i] = 0xAA
	}
	require.NoError(t, b.ReadBlock(9, 9, buf))
	for i, v := range buf {
		assert.Zero(t, v, "byte %d", i)
	}
	// entirely outside the raster: zero-filled without any I/O
	assert.Zero(t, arr.reads)
}

func TestReadBlockValidation(t *testing.T) {
	_, b, _ := openClippedFixture(t)
	assert.Error(t, b.ReadBlock(0, 0, make([]byte, 3)))
	assert.Error(t, b.ReadBlock(-1, 0, make([]byte, b.BlockBufferSize())))
}

func TestReadBlockFailureIsPerRequest(t *testing.T) {
	_, b, arr := openClippedFixture(t)
	buf := make([]byte, b.BlockBufferSize())

	arr.readErr = fmt.Errorf("fake: transient I/O failure")
	assert.Error(t, b.ReadBlock(0, 0, buf))

	arr.readErr = nil
	assert.NoError(t, b.ReadBlock(0, 0, buf))
}

func TestCubeBandSelection(t *testing.T) {
	// two 3x3 planes, chunked to 1x2x2 blocks
	data := make([]byte, 2*3*3)
	for i := range data {
		data[i] = byte(i)
	}
	f, _ := newGSLCFixture([]uint64{2, 3, 3}, []uint64{1, 2, 2}, uint8Type(), data)

	ds, err := openWith("product.h5:/science/LSAR/GSLC/grids/frequencyA/HH",
		OpenOptions{}, testConfig(), fixtureOpener(f))
	require.NoError(t, err)
	defer ds.Close()

	assert.Equal(t, 2, ds.BandCount())
	w, h := ds.RasterSize()
	assert.Equal(t, 3, w)
	assert.Equal(t, 3, h)

	b2, err := ds.Band(2)
	require.NoError(t, err)
	buf := make([]byte, b2.BlockBufferSize())
	require.NoError(t, b2.ReadBlock(0, 0, buf))
	// plane 1 starts at flat offset 9
	assert.Equal(t, []byte{9, 10, 12, 13}, buf)

	_, err = ds.Band(3)
	assert.Error(t, err)
}

func TestUnsupportedRankFailsOpen(t *testing.T) {
	f, _ := newGSLCFixture([]uint64{2, 2, 4, 4}, nil, uint8Type(), make([]byte, 64))
	_, err := openWith("product.h5:/science/LSAR/GSLC/grids/frequencyA/HH",
		OpenOptions{}, testConfig(), fixtureOpener(f))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank 4")
}

func TestUnsupportedElementTypeFailsOpen(t *testing.T) {
	bad := complexFloat32Type()
	bad.MemberNames = []string{"a", "b"}
	f, _ := newGSLCFixture([]uint64{4, 4}, nil, bad, nil)
	_, err := openWith("product.h5:/science/LSAR/GSLC/grids/frequencyA/HH",
		OpenOptions{}, testConfig(), fixtureOpener(f))
	assert.Error(t, err)
}

func TestDerivedBandNames(t *testing.T) {
	f, _ := newGSLCFixture([]uint64{4, 4}, nil, complexFloat32Type(), make([]byte, 128))
	ds, err := openWith("product.h5:/science/LSAR/GSLC/grids/frequencyA/HH",
		OpenOptions{}, testConfig(), fixtureOpener(f))
	require.NoError(t, err)
	defer ds.Close()

	b, err := ds.Band(1)
	require.NoError(t, err)
	names := b.DerivedBandNames()
	assert.Contains(t, names, "AMPLITUDE")
	assert.Contains(t, names, "PHASE")
	assert.Contains(t, names, "LOGAMPLITUDE")
	assert.Len(t, names, 7)
}
