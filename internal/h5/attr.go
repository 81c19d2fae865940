package h5

/*
#include <stdlib.h>
#include <string.h>
#include <hdf5.h>

static hid_t nisar_attr_mem_double(void) { return H5T_NATIVE_DOUBLE; }
static hid_t nisar_attr_mem_llong(void)  { return H5T_NATIVE_LLONG; }

static int nisar_attr_is_double(hid_t attr) {
	hid_t dtype;
	int ret;
	dtype = H5Aget_type(attr);
	if (dtype < 0) {
		return 0;
	}
	ret = H5Tequal(dtype, H5T_NATIVE_DOUBLE) > 0;
	H5Tclose(dtype);
	return ret;
}

static char *nisar_read_attr_string(hid_t file, const char *path, const char *name) {
	hid_t attr = -1, dtype = -1, space = -1, memtype = -1;
	char *result = NULL;
	if (H5Aexists_by_name(file, path, name, H5P_DEFAULT) <= 0) {
		return NULL;
	}
	attr = H5Aopen_by_name(file, path, name, H5P_DEFAULT, H5P_DEFAULT);
	if (attr < 0) {
		return NULL;
	}
	dtype = H5Aget_type(attr);
	space = H5Aget_space(attr);
	if (dtype >= 0 && space >= 0 && H5Tget_class(dtype) == H5T_STRING) {
		if (H5Tis_variable_str(dtype) > 0) {
			char *raw = NULL;
			memtype = H5Tcopy(H5T_C_S1);
			H5Tset_size(memtype, H5T_VARIABLE);
			if (H5Aread(attr, memtype, &raw) >= 0 && raw != NULL) {
				result = strdup(raw);
				H5Treclaim(memtype, space, H5P_DEFAULT, &raw);
			}
		} else {
			size_t size = H5Tget_size(dtype);
			memtype = H5Tcopy(H5T_C_S1);
			H5Tset_size(memtype, size + 1);
			H5Tset_strpad(memtype, H5T_STR_NULLTERM);
			result = (char *)calloc(size + 2, 1);
			if (result != NULL && H5Aread(attr, memtype, result) < 0) {
				free(result);
				result = NULL;
			}
		}
	}
	if (memtype >= 0) H5Tclose(memtype);
	if (space >= 0) H5Sclose(space);
	if (dtype >= 0) H5Tclose(dtype);
	H5Aclose(attr);
	return result;
}
*/
import "C"

import (
	"unsafe"
)

func (f *File) openAttr(path, name string) C.hid_t {
	cPath := C.CString(path)
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cPath))
	defer C.free(unsafe.Pointer(cName))
	if C.H5Aexists_by_name(f.id, cPath, cName, 0) <= 0 {
		return -1
	}
	return C.H5Aopen_by_name(f.id, cPath, cName, 0, 0)
}

func (f *File) StringAttr(path, name string) (string, bool) {
	cPath := C.CString(path)
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cPath))
	defer C.free(unsafe.Pointer(cName))
	raw := C.nisar_read_attr_string(f.id, cPath, cName)
	if raw == nil {
		return "", false
	}
	defer C.free(unsafe.Pointer(raw))
	return C.GoString(raw), true
}

func (f *File) IntAttr(path, name string) (int64, bool) {
	attr := f.openAttr(path, name)
	if attr < 0 {
		return 0, false
	}
	defer C.H5Aclose(attr)
	space := C.H5Aget_space(attr)
	if space < 0 {
		return 0, false
	}
	npoints := C.H5Sget_simple_extent_npoints(space)
	C.H5Sclose(space)
	if npoints != 1 {
		return 0, false
	}
	var v C.longlong
	if C.H5Aread(attr, C.nisar_attr_mem_llong(), unsafe.Pointer(&v)) < 0 {
		return 0, false
	}
	return int64(v), true
}

// DoublesAttr reads an attribute only when it is stored as native doubles.
func (f *File) DoublesAttr(path, name string) ([]float64, bool) {
	attr := f.openAttr(path, name)
	if attr < 0 {
		return nil, false
	}
	defer C.H5Aclose(attr)
	if C.nisar_attr_is_double(attr) == 0 {
		return nil, false
	}
	space := C.H5Aget_space(attr)
	if space < 0 {
		return nil, false
	}
	npoints := int(C.H5Sget_simple_extent_npoints(space))
	C.H5Sclose(space)
	if npoints <= 0 {
		return nil, false
	}
	buf := make([]C.double, npoints)
	if C.H5Aread(attr, C.nisar_attr_mem_double(), unsafe.Pointer(&buf[0])) < 0 {
		return nil, false
	}
	out := make([]float64, npoints)
	for i, v := range buf {
		out[i] = float64(v)
	}
	return out, true
}
