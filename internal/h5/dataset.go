package h5

/*
#include <stdlib.h>
#include <hdf5.h>

static hid_t nisar_dapl_with_cache(size_t nbytes) {
	hid_t dapl;
	size_t nslots, cache_bytes;
	double w0;
	dapl = H5Pcreate(H5P_DATASET_ACCESS);
	if (dapl < 0) {
		return dapl;
	}
	if (nbytes > 0 && H5Pget_chunk_cache(dapl, &nslots, &cache_bytes, &w0) >= 0) {
		nslots = nslots * 4 < 10009 ? 10009 : nslots * 4;
		H5Pset_chunk_cache(dapl, nslots, nbytes, w0);
	}
	return dapl;
}

static hid_t nisar_native_type(hid_t dtype) {
	return H5Tget_native_type(dtype, H5T_DIR_ASCEND);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/nci/nisar/container"
)

// Dataset is an open array object. It owns a native-endian copy of the
// element type used for all reads.
type Dataset struct {
	file   *File
	id     C.hid_t
	path   string
	dims   []uint64
	chunk  []uint64
	native C.hid_t
	info   container.TypeInfo
}

func (f *File) OpenArray(path string, chunkCacheBytes int64) (container.Array, error) {
	dapl := C.nisar_dapl_with_cache(C.size_t(chunkCacheBytes))
	if dapl < 0 {
		return nil, fmt.Errorf("h5: cannot create dataset access property list")
	}
	cPath := C.CString(path)
	id := C.H5Dopen2(f.id, cPath, dapl)
	C.free(unsafe.Pointer(cPath))
	C.H5Pclose(dapl)
	if id < 0 {
		return nil, fmt.Errorf("h5: cannot open dataset %s", path)
	}

	dims, err := datasetDims(id)
	if err != nil {
		C.H5Dclose(id)
		return nil, fmt.Errorf("h5: %s: %v", path, err)
	}

	dtype := C.H5Dget_type(id)
	if dtype < 0 {
		C.H5Dclose(id)
		return nil, fmt.Errorf("h5: cannot read type of %s", path)
	}
	native := C.nisar_native_type(dtype)
	C.H5Tclose(dtype)
	if native < 0 {
		C.H5Dclose(id)
		return nil, fmt.Errorf("h5: cannot resolve native type of %s", path)
	}

	d := &Dataset{
		file:   f,
		id:     id,
		path:   path,
		dims:   dims,
		chunk:  datasetChunkDims(id, len(dims)),
		native: native,
		info:   typeInfo(native),
	}
	return d, nil
}

func (d *Dataset) Path() string             { return d.path }
func (d *Dataset) Dims() []uint64           { return d.dims }
func (d *Dataset) ChunkDims() []uint64      { return d.chunk }
func (d *Dataset) Type() container.TypeInfo { return d.info }

func (d *Dataset) Close() error {
	if d.native >= 0 {
		C.H5Tclose(d.native)
		d.native = -1
	}
	if d.id >= 0 {
		C.H5Dclose(d.id)
		d.id = -1
	}
	return nil
}

func datasetDims(id C.hid_t) ([]uint64, error) {
	space := C.H5Dget_space(id)
	if space < 0 {
		return nil, fmt.Errorf("cannot read dataspace")
	}
	defer C.H5Sclose(space)
	rank := int(C.H5Sget_simple_extent_ndims(space))
	if rank < 0 {
		return nil, fmt.Errorf("cannot read rank")
	}
	if rank == 0 {
		return nil, nil
	}
	dims := make([]C.hsize_t, rank)
	if C.H5Sget_simple_extent_dims(space, &dims[0], nil) < 0 {
		return nil, fmt.Errorf("cannot read extents")
	}
	out := make([]uint64, rank)
	for i, v := range dims {
		out[i] = uint64(v)
	}
	return out, nil
}

func datasetChunkDims(id C.hid_t, rank int) []uint64 {
	if rank == 0 {
		return nil
	}
	dcpl := C.H5Dget_create_plist(id)
	if dcpl < 0 {
		return nil
	}
	defer C.H5Pclose(dcpl)
	if C.H5Pget_layout(dcpl) != C.H5D_CHUNKED {
		return nil
	}
	chunk := make([]C.hsize_t, rank)
	if int(C.H5Pget_chunk(dcpl, C.int(rank), &chunk[0])) != rank {
		return nil
	}
	out := make([]uint64, rank)
	for i, v := range chunk {
		out[i] = uint64(v)
	}
	return out
}

func typeInfo(t C.hid_t) container.TypeInfo {
	info := container.TypeInfo{Size: int(C.H5Tget_size(t)), MembersEqual: true}
	switch C.H5Tget_class(t) {
	case C.H5T_INTEGER:
		info.Class = container.ClassInteger
		info.Signed = C.H5Tget_sign(t) != C.H5T_SGN_NONE
	case C.H5T_FLOAT:
		info.Class = container.ClassFloat
	case C.H5T_STRING:
		info.Class = container.ClassString
	case C.H5T_COMPOUND:
		info.Class = container.ClassCompound
		n := int(C.H5Tget_nmembers(t))
		var first C.hid_t = -1
		for i := 0; i < n; i++ {
			mt := C.H5Tget_member_type(t, C.uint(i))
			if mt < 0 {
				continue
			}
			name := C.H5Tget_member_name(t, C.uint(i))
			info.MemberNames = append(info.MemberNames, C.GoString(name))
			C.H5free_memory(unsafe.Pointer(name))
			info.Members = append(info.Members, typeInfo(mt))
			if first < 0 {
				first = mt
				continue
			}
			if C.H5Tequal(first, mt) <= 0 {
				info.MembersEqual = false
			}
			C.H5Tclose(mt)
		}
		if first >= 0 {
			C.H5Tclose(first)
		}
	default:
		info.Class = container.ClassOther
	}
	return info
}

// arrayInfo summarizes one dataset for Walk without holding it open.
func (f *File) arrayInfo(path string) (container.ArrayInfo, error) {
	arr, err := f.OpenArray(path, 0)
	if err != nil {
		return container.ArrayInfo{}, err
	}
	defer arr.Close()
	return container.ArrayInfo{Dims: arr.Dims(), Type: arr.Type()}, nil
}

// blockReader keeps a block-shaped memory dataspace alive across reads so
// repeated block I/O reuses one destination selection.
type blockReader struct {
	dset     C.hid_t
	dtype    C.hid_t
	memspace C.hid_t
	blockH   int
	blockW   int
	lastH    int
	lastW    int
}

func (d *Dataset) NewBlockReader(blockH, blockW int) (container.BlockReader, error) {
	if blockH <= 0 || blockW <= 0 {
		return nil, fmt.Errorf("h5: invalid block shape %dx%d", blockW, blockH)
	}
	dims := []C.hsize_t{C.hsize_t(blockH), C.hsize_t(blockW)}
	memspace := C.H5Screate_simple(2, &dims[0], nil)
	if memspace < 0 {
		return nil, fmt.Errorf("h5: cannot create block dataspace for %s", d.path)
	}
	return &blockReader{
		dset:     d.id,
		dtype:    d.native,
		memspace: memspace,
		blockH:   blockH,
		blockW:   blockW,
		lastH:    blockH,
		lastW:    blockW,
	}, nil
}

func (r *blockReader) Read(src container.Region, dstH, dstW int, dst []byte) error {
	if len(src.Start) != len(src.Count) {
		return fmt.Errorf("h5: mismatched selection rank")
	}
	filespace := C.H5Dget_space(r.dset)
	if filespace < 0 {
		return fmt.Errorf("h5: cannot read dataspace")
	}
	defer C.H5Sclose(filespace)

	start := toHsize(src.Start)
	count := toHsize(src.Count)
	if C.H5Sselect_hyperslab(filespace, C.H5S_SELECT_SET, &start[0], nil, &count[0], nil) < 0 {
		return fmt.Errorf("h5: cannot select source region")
	}

	if dstH != r.lastH || dstW != r.lastW {
		if dstH == r.blockH && dstW == r.blockW {
			if C.H5Sselect_all(r.memspace) < 0 {
				return fmt.Errorf("h5: cannot reset block selection")
			}
		} else {
			mStart := []C.hsize_t{0, 0}
			mCount := []C.hsize_t{C.hsize_t(dstH), C.hsize_t(dstW)}
			if C.H5Sselect_hyperslab(r.memspace, C.H5S_SELECT_SET, &mStart[0], nil, &mCount[0], nil) < 0 {
				return fmt.Errorf("h5: cannot select block sub-region")
			}
		}
		r.lastH, r.lastW = dstH, dstW
	}

	if C.H5Dread(r.dset, r.dtype, r.memspace, filespace, 0, unsafe.Pointer(&dst[0])) < 0 {
		return fmt.Errorf("h5: block read failed")
	}
	return nil
}

func (r *blockReader) Close() error {
	if r.memspace >= 0 {
		C.H5Sclose(r.memspace)
		r.memspace = -1
	}
	return nil
}
