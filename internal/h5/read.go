package h5

/*
#include <stdlib.h>
#include <string.h>
#include <hdf5.h>

static hid_t nisar_mem_double(void) { return H5T_NATIVE_DOUBLE; }
static hid_t nisar_mem_llong(void)  { return H5T_NATIVE_LLONG; }

static int nisar_dataset_class(hid_t file, const char *path) {
	hid_t dset, dtype;
	int cls;
	dset = H5Dopen2(file, path, H5P_DEFAULT);
	if (dset < 0) {
		return -1;
	}
	dtype = H5Dget_type(dset);
	if (dtype < 0) {
		H5Dclose(dset);
		return -1;
	}
	cls = (int)H5Tget_class(dtype);
	H5Tclose(dtype);
	H5Dclose(dset);
	return cls;
}

static char *nisar_read_scalar_string(hid_t file, const char *path) {
	hid_t dset = -1, dtype = -1, space = -1, memtype = -1;
	char *result = NULL;
	dset = H5Dopen2(file, path, H5P_DEFAULT);
	if (dset < 0) {
		return NULL;
	}
	dtype = H5Dget_type(dset);
	space = H5Dget_space(dset);
	if (dtype >= 0 && space >= 0 && H5Tget_class(dtype) == H5T_STRING) {
		if (H5Tis_variable_str(dtype) > 0) {
			char *raw = NULL;
			memtype = H5Tcopy(H5T_C_S1);
			H5Tset_size(memtype, H5T_VARIABLE);
			if (H5Dread(dset, memtype, H5S_ALL, H5S_ALL, H5P_DEFAULT, &raw) >= 0 && raw != NULL) {
				result = strdup(raw);
				H5Treclaim(memtype, space, H5P_DEFAULT, &raw);
			}
		} else {
			size_t size = H5Tget_size(dtype);
			memtype = H5Tcopy(H5T_C_S1);
			H5Tset_size(memtype, size + 1);
			H5Tset_strpad(memtype, H5T_STR_NULLTERM);
			result = (char *)calloc(size + 2, 1);
			if (result != NULL &&
			    H5Dread(dset, memtype, H5S_ALL, H5S_ALL, H5P_DEFAULT, result) < 0) {
				free(result);
				result = NULL;
			}
		}
	}
	if (memtype >= 0) H5Tclose(memtype);
	if (space >= 0) H5Sclose(space);
	if (dtype >= 0) H5Tclose(dtype);
	H5Dclose(dset);
	return result;
}

static int nisar_read_string_array(hid_t file, const char *path,
                                   char ***out, size_t *count) {
	hid_t dset = -1, dtype = -1, space = -1, memtype = -1;
	hssize_t npoints;
	char **items = NULL;
	int ret = -1;
	size_t i;

	dset = H5Dopen2(file, path, H5P_DEFAULT);
	if (dset < 0) {
		return -1;
	}
	dtype = H5Dget_type(dset);
	space = H5Dget_space(dset);
	if (dtype < 0 || space < 0 || H5Tget_class(dtype) != H5T_STRING) {
		goto done;
	}
	npoints = H5Sget_simple_extent_npoints(space);
	if (npoints <= 0) {
		goto done;
	}
	items = (char **)calloc((size_t)npoints, sizeof(char *));
	if (items == NULL) {
		goto done;
	}
	if (H5Tis_variable_str(dtype) > 0) {
		char **raw = (char **)calloc((size_t)npoints, sizeof(char *));
		if (raw == NULL) {
			goto done;
		}
		memtype = H5Tcopy(H5T_C_S1);
		H5Tset_size(memtype, H5T_VARIABLE);
		if (H5Dread(dset, memtype, H5S_ALL, H5S_ALL, H5P_DEFAULT, raw) >= 0) {
			for (i = 0; i < (size_t)npoints; i++) {
				items[i] = strdup(raw[i] != NULL ? raw[i] : "");
			}
			H5Treclaim(memtype, space, H5P_DEFAULT, raw);
			ret = 0;
		}
		free(raw);
	} else {
		size_t size = H5Tget_size(dtype);
		char *buf = (char *)calloc((size_t)npoints, size + 1);
		if (buf == NULL) {
			goto done;
		}
		memtype = H5Tcopy(H5T_C_S1);
		H5Tset_size(memtype, size + 1);
		H5Tset_strpad(memtype, H5T_STR_NULLTERM);
		if (H5Dread(dset, memtype, H5S_ALL, H5S_ALL, H5P_DEFAULT, buf) >= 0) {
			for (i = 0; i < (size_t)npoints; i++) {
				items[i] = strdup(buf + i * (size + 1));
			}
			ret = 0;
		}
		free(buf);
	}

done:
	if (ret == 0) {
		*out = items;
		*count = (size_t)npoints;
	} else if (items != NULL) {
		free(items);
	}
	if (memtype >= 0) H5Tclose(memtype);
	if (space >= 0) H5Sclose(space);
	if (dtype >= 0) H5Tclose(dtype);
	H5Dclose(dset);
	return ret;
}

static void nisar_free_string_array(char **items, size_t count) {
	size_t i;
	for (i = 0; i < count; i++) {
		free(items[i]);
	}
	free(items);
}
*/
import "C"

import (
	"fmt"
	"strconv"
	"unsafe"
)

// openForRead opens path with the default access list and reports its
// dataspace dimensions.
func (f *File) openForRead(path string) (C.hid_t, []uint64, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	id := C.H5Dopen2(f.id, cPath, 0)
	if id < 0 {
		return -1, nil, fmt.Errorf("h5: cannot open dataset %s", path)
	}
	dims, err := datasetDims(id)
	if err != nil {
		C.H5Dclose(id)
		return -1, nil, fmt.Errorf("h5: %s: %v", path, err)
	}
	return id, dims, nil
}

func (f *File) readAllDoubles(path string, want int) ([]float64, []uint64, error) {
	id, dims, err := f.openForRead(path)
	if err != nil {
		return nil, nil, err
	}
	defer C.H5Dclose(id)

	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	if want > 0 && n != want {
		return nil, nil, fmt.Errorf("h5: %s holds %d values, expected %d", path, n, want)
	}
	buf := make([]C.double, n)
	if C.H5Dread(id, C.nisar_mem_double(), 0, 0, 0, unsafe.Pointer(&buf[0])) < 0 {
		return nil, nil, fmt.Errorf("h5: cannot read %s", path)
	}
	out := make([]float64, n)
	for i, v := range buf {
		out[i] = float64(v)
	}
	return out, dims, nil
}

func (f *File) ReadScalarFloat(path string) (float64, error) {
	vals, _, err := f.readAllDoubles(path, 1)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

func (f *File) ReadScalarInt(path string) (int64, error) {
	id, _, err := f.openForRead(path)
	if err != nil {
		return 0, err
	}
	defer C.H5Dclose(id)
	var v C.longlong
	if C.H5Dread(id, C.nisar_mem_llong(), 0, 0, 0, unsafe.Pointer(&v)) < 0 {
		return 0, fmt.Errorf("h5: cannot read %s", path)
	}
	return int64(v), nil
}

func (f *File) ReadScalarString(path string) (string, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	raw := C.nisar_read_scalar_string(f.id, cPath)
	if raw == nil {
		return "", fmt.Errorf("h5: cannot read string dataset %s", path)
	}
	defer C.free(unsafe.Pointer(raw))
	return C.GoString(raw), nil
}

// ReadScalarAsString renders any scalar dataset as text so metadata
// groups can be exposed uniformly.
func (f *File) ReadScalarAsString(path string) (string, error) {
	cPath := C.CString(path)
	cls := C.nisar_dataset_class(f.id, cPath)
	C.free(unsafe.Pointer(cPath))
	switch cls {
	case C.int(C.H5T_STRING):
		return f.ReadScalarString(path)
	case C.int(C.H5T_INTEGER):
		v, err := f.ReadScalarInt(path)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(v, 10), nil
	case C.int(C.H5T_FLOAT):
		v, err := f.ReadScalarFloat(path)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("h5: %s is not a scalar of a printable type", path)
}

func (f *File) ReadFloats1D(path string) ([]float64, error) {
	vals, dims, err := f.readAllDoubles(path, 0)
	if err != nil {
		return nil, err
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("h5: %s is not one dimensional", path)
	}
	return vals, nil
}

func (f *File) ReadFloats1DEnds(path string) (float64, float64, uint64, error) {
	id, dims, err := f.openForRead(path)
	if err != nil {
		return 0, 0, 0, err
	}
	defer C.H5Dclose(id)
	if len(dims) != 1 || dims[0] == 0 {
		return 0, 0, 0, fmt.Errorf("h5: %s is not a coordinate axis", path)
	}
	n := dims[0]

	readAt := func(idx uint64) (float64, error) {
		filespace := C.H5Dget_space(id)
		if filespace < 0 {
			return 0, fmt.Errorf("h5: cannot read dataspace of %s", path)
		}
		defer C.H5Sclose(filespace)
		start := []C.hsize_t{C.hsize_t(idx)}
		count := []C.hsize_t{1}
		if C.H5Sselect_hyperslab(filespace, C.H5S_SELECT_SET, &start[0], nil, &count[0], nil) < 0 {
			return 0, fmt.Errorf("h5: cannot select element of %s", path)
		}
		memspace := C.H5Screate_simple(1, &count[0], nil)
		if memspace < 0 {
			return 0, fmt.Errorf("h5: cannot create dataspace")
		}
		defer C.H5Sclose(memspace)
		var v C.double
		if C.H5Dread(id, C.nisar_mem_double(), memspace, filespace, 0, unsafe.Pointer(&v)) < 0 {
			return 0, fmt.Errorf("h5: cannot read %s", path)
		}
		return float64(v), nil
	}

	first, err := readAt(0)
	if err != nil {
		return 0, 0, 0, err
	}
	last, err := readAt(n - 1)
	if err != nil {
		return 0, 0, 0, err
	}
	return first, last, n, nil
}

// ReadFloats2D reads a 2-D array in full, or the leading slice of a 3-D
// cube, as row-major doubles.
func (f *File) ReadFloats2D(path string) ([]float64, int, int, error) {
	id, dims, err := f.openForRead(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer C.H5Dclose(id)

	var ny, nx int
	switch len(dims) {
	case 2:
		ny, nx = int(dims[0]), int(dims[1])
	case 3:
		ny, nx = int(dims[1]), int(dims[2])
	default:
		return nil, 0, 0, fmt.Errorf("h5: %s has rank %d, expected 2 or 3", path, len(dims))
	}
	if ny == 0 || nx == 0 {
		return nil, 0, 0, fmt.Errorf("h5: %s has an empty extent", path)
	}
	buf := make([]C.double, ny*nx)

	if len(dims) == 2 {
		if C.H5Dread(id, C.nisar_mem_double(), 0, 0, 0, unsafe.Pointer(&buf[0])) < 0 {
			return nil, 0, 0, fmt.Errorf("h5: cannot read %s", path)
		}
	} else {
		filespace := C.H5Dget_space(id)
		if filespace < 0 {
			return nil, 0, 0, fmt.Errorf("h5: cannot read dataspace of %s", path)
		}
		defer C.H5Sclose(filespace)
		start := []C.hsize_t{0, 0, 0}
		count := []C.hsize_t{1, C.hsize_t(ny), C.hsize_t(nx)}
		if C.H5Sselect_hyperslab(filespace, C.H5S_SELECT_SET, &start[0], nil, &count[0], nil) < 0 {
			return nil, 0, 0, fmt.Errorf("h5: cannot select slice of %s", path)
		}
		mdims := []C.hsize_t{C.hsize_t(ny), C.hsize_t(nx)}
		memspace := C.H5Screate_simple(2, &mdims[0], nil)
		if memspace < 0 {
			return nil, 0, 0, fmt.Errorf("h5: cannot create dataspace")
		}
		defer C.H5Sclose(memspace)
		if C.H5Dread(id, C.nisar_mem_double(), memspace, filespace, 0, unsafe.Pointer(&buf[0])) < 0 {
			return nil, 0, 0, fmt.Errorf("h5: cannot read %s", path)
		}
	}

	out := make([]float64, len(buf))
	for i, v := range buf {
		out[i] = float64(v)
	}
	return out, ny, nx, nil
}

func (f *File) ReadStrings1D(path string) ([]string, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	var items **C.char
	var count C.size_t
	if C.nisar_read_string_array(f.id, cPath, &items, &count) < 0 {
		return nil, fmt.Errorf("h5: cannot read string array %s", path)
	}
	defer C.nisar_free_string_array(items, count)
	n := int(count)
	out := make([]string, n)
	raw := unsafe.Slice(items, n)
	for i := 0; i < n; i++ {
		out[i] = C.GoString(raw[i])
	}
	return out, nil
}
