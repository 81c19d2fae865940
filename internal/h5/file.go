package h5

/*
#include <stdlib.h>
#include <string.h>
#include <hdf5.h>

static hid_t nisar_fapl_create(void) {
	return H5Pcreate(H5P_FILE_ACCESS);
}

static herr_t nisar_fapl_ros3(hid_t fapl, const char *region, const char *id,
                              const char *key, const char *token) {
#ifdef H5_HAVE_ROS3_VFD
	H5FD_ros3_fapl_t conf;
	herr_t status;
	memset(&conf, 0, sizeof(conf));
	conf.version = H5FD_CURR_ROS3_FAPL_T_VERSION;
	conf.authenticate = (id != NULL && id[0] != '\0');
	strncpy(conf.aws_region, region, H5FD_ROS3_MAX_REGION_LEN);
	if (id != NULL) {
		strncpy(conf.secret_id, id, H5FD_ROS3_MAX_SECRET_ID_LEN);
	}
	if (key != NULL) {
		strncpy(conf.secret_key, key, H5FD_ROS3_MAX_SECRET_KEY_LEN);
	}
	status = H5Pset_fapl_ros3(fapl, &conf);
	if (status < 0) {
		return status;
	}
	if (token != NULL && token[0] != '\0') {
		return H5Pset_fapl_ros3_token(fapl, token);
	}
	return status;
#else
	return -1;
#endif
}

static herr_t nisar_set_page_buffer(hid_t fapl, size_t nbytes) {
	return H5Pset_page_buffer_size(fapl, nbytes, 0, 0);
}

static hid_t nisar_open_file(const char *name, hid_t fapl) {
	return H5Fopen(name, H5F_ACC_RDONLY, fapl);
}

static hsize_t nisar_page_size(hid_t file) {
	hid_t fcpl;
	hsize_t page = 0;
	fcpl = H5Fget_create_plist(file);
	if (fcpl < 0) {
		return 0;
	}
	if (H5Pget_file_space_page_size(fcpl, &page) < 0) {
		page = 0;
	}
	H5Pclose(fcpl);
	return page;
}

static int nisar_exists(hid_t file, const char *path) {
	char buf[2048];
	size_t n, i;
	n = strlen(path);
	if (n == 0 || n >= sizeof(buf)) {
		return 0;
	}
	strcpy(buf, path);
	for (i = 1; i < n; i++) {
		if (buf[i] == '/') {
			buf[i] = '\0';
			if (H5Lexists(file, buf, H5P_DEFAULT) <= 0) {
				return 0;
			}
			buf[i] = '/';
		}
	}
	return H5Lexists(file, buf, H5P_DEFAULT) > 0;
}

typedef struct {
	char **names;
	int *kinds;
	size_t n;
	size_t cap;
} nisar_children;

static herr_t nisar_child_cb(hid_t loc, const char *name,
                             const H5L_info2_t *info, void *op) {
	nisar_children *ch = (nisar_children *)op;
	H5O_info2_t oinfo;
	if (H5Oget_info_by_name3(loc, name, &oinfo, H5O_INFO_BASIC, H5P_DEFAULT) < 0) {
		return 0;
	}
	if (ch->n == ch->cap) {
		size_t cap = ch->cap == 0 ? 16 : ch->cap * 2;
		char **names = (char **)realloc(ch->names, cap * sizeof(char *));
		int *kinds = (int *)realloc(ch->kinds, cap * sizeof(int));
		if (names == NULL || kinds == NULL) {
			return -1;
		}
		ch->names = names;
		ch->kinds = kinds;
		ch->cap = cap;
	}
	ch->names[ch->n] = strdup(name);
	ch->kinds[ch->n] = (int)oinfo.type;
	ch->n++;
	return 0;
}

static herr_t nisar_list_children(hid_t file, const char *path, nisar_children *ch) {
	hsize_t idx = 0;
	return H5Literate_by_name2(file, path, H5_INDEX_NAME, H5_ITER_INC, &idx,
	                           nisar_child_cb, ch, H5P_DEFAULT);
}

static void nisar_free_children(nisar_children *ch) {
	size_t i;
	for (i = 0; i < ch->n; i++) {
		free(ch->names[i]);
	}
	free(ch->names);
	free(ch->kinds);
}
*/
import "C"

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/nci/nisar/container"
)

// File is an open HDF5 container.
type File struct {
	id       C.hid_t
	endpoint string
}

// Open opens endpoint read-only. An http(s) endpoint goes through the ROS3
// virtual file driver using cfg.Auth; everything else is a local path.
// A non-zero PageBufferBytes installs a page buffer of that size.
func Open(endpoint string, cfg container.OpenConfig) (container.Container, error) {
	silenceErrorStack()

	fapl := C.nisar_fapl_create()
	if fapl < 0 {
		return nil, fmt.Errorf("h5: cannot create file access property list")
	}
	defer C.H5Pclose(fapl)

	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		if cfg.Auth == nil {
			return nil, fmt.Errorf("h5: remote endpoint %s requires credentials config", endpoint)
		}
		cRegion := C.CString(cfg.Auth.Region)
		cID := C.CString(cfg.Auth.AccessKeyID)
		cKey := C.CString(cfg.Auth.SecretAccessKey)
		cToken := C.CString(cfg.Auth.SessionToken)
		status := C.nisar_fapl_ros3(fapl, cRegion, cID, cKey, cToken)
		C.free(unsafe.Pointer(cRegion))
		C.free(unsafe.Pointer(cID))
		C.free(unsafe.Pointer(cKey))
		C.free(unsafe.Pointer(cToken))
		if status < 0 {
			return nil, fmt.Errorf("h5: ROS3 driver unavailable or misconfigured for %s", endpoint)
		}
	}

	if cfg.PageBufferBytes > 0 {
		if C.nisar_set_page_buffer(fapl, C.size_t(cfg.PageBufferBytes)) < 0 {
			return nil, fmt.Errorf("h5: cannot set page buffer of %d bytes", cfg.PageBufferBytes)
		}
	}

	cName := C.CString(endpoint)
	defer C.free(unsafe.Pointer(cName))
	id := C.nisar_open_file(cName, fapl)
	if id < 0 {
		return nil, fmt.Errorf("h5: cannot open %s", endpoint)
	}
	return &File{id: id, endpoint: endpoint}, nil
}

func (f *File) Close() error {
	if f.id >= 0 {
		C.H5Fclose(f.id)
		f.id = -1
	}
	return nil
}

// PageSize reports the file space page size recorded at creation time,
// or zero when the file does not use paged aggregation.
func (f *File) PageSize() (uint64, error) {
	return uint64(C.nisar_page_size(f.id)), nil
}

func (f *File) Exists(path string) bool {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	return C.nisar_exists(f.id, cPath) != 0
}

func (f *File) Children(path string) ([]container.Child, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var ch C.nisar_children
	if C.nisar_list_children(f.id, cPath, &ch) < 0 {
		C.nisar_free_children(&ch)
		return nil, fmt.Errorf("h5: cannot list children of %s", path)
	}
	defer C.nisar_free_children(&ch)

	n := int(ch.n)
	out := make([]container.Child, 0, n)
	names := unsafe.Slice(ch.names, n)
	kinds := unsafe.Slice(ch.kinds, n)
	for i := 0; i < n; i++ {
		kind := container.KindOther
		switch kinds[i] {
		case C.int(C.H5O_TYPE_GROUP):
			kind = container.KindGroup
		case C.int(C.H5O_TYPE_DATASET):
			kind = container.KindArray
		}
		out = append(out, container.Child{Name: C.GoString(names[i]), Kind: kind})
	}
	return out, nil
}

// Walk visits every array below root in name order.
func (f *File) Walk(root string, fn func(path string, info container.ArrayInfo)) error {
	children, err := f.Children(root)
	if err != nil {
		return err
	}
	prefix := strings.TrimSuffix(root, "/")
	for _, c := range children {
		path := prefix + "/" + c.Name
		switch c.Kind {
		case container.KindGroup:
			if err := f.Walk(path, fn); err != nil {
				return err
			}
		case container.KindArray:
			info, err := f.arrayInfo(path)
			if err != nil {
				continue
			}
			fn(path, info)
		}
	}
	return nil
}
