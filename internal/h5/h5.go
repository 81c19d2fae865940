// Package h5 implements the container boundary on top of libhdf5. It
// speaks the native C API directly so it can reach the ROS3 virtual file
// driver, page buffering and chunk cache controls that no Go binding
// exposes.
package h5

/*
#cgo pkg-config: hdf5
#include <hdf5.h>

static void nisar_silence_errors(void) {
	H5Eset_auto2(H5E_DEFAULT, NULL, NULL);
}
*/
import "C"

import (
	"sync"
)

var silenceOnce sync.Once

// silenceErrorStack turns off libhdf5's stderr error dump. Failed probes
// are part of normal product resolution and must stay quiet.
func silenceErrorStack() {
	silenceOnce.Do(func() {
		C.nisar_silence_errors()
	})
}

func toHsize(vals []uint64) []C.hsize_t {
	out := make([]C.hsize_t, len(vals))
	for i, v := range vals {
		out[i] = C.hsize_t(v)
	}
	return out
}
