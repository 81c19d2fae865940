package nisar

import (
	"fmt"
	"strconv"
	"strings"
)

// OpenOptions selects which layer of a product to expose. The zero value
// asks for listing mode when the connection string has no internal path.
type OpenOptions struct {
	// Instrument is LSAR or SSAR. Empty means LSAR.
	Instrument string
	// Frequency is A or B. Empty means A.
	Frequency string
	// Polarization is a layer code such as HH or, for covariance
	// products, a term such as HHHH. Empty picks the product default.
	Polarization string
	// DisableMask suppresses the validity mask overlay.
	DisableMask bool
	// Metadata lists auxiliary metadata groups to load eagerly.
	// The single entry ALL loads every group.
	Metadata []string
	// ChunkCacheMB overrides the configured per-object chunk cache size.
	ChunkCacheMB int
}

// explicit reports whether the caller selected a layer through options,
// which turns off listing mode.
func (o *OpenOptions) explicit() bool {
	return o.Instrument != "" || o.Frequency != "" || o.Polarization != ""
}

func (o *OpenOptions) normalize() error {
	o.Instrument = strings.ToUpper(strings.TrimSpace(o.Instrument))
	o.Frequency = strings.ToUpper(strings.TrimSpace(o.Frequency))
	o.Polarization = strings.ToUpper(strings.TrimSpace(o.Polarization))

	switch o.Instrument {
	case "", "LSAR", "SSAR":
	default:
		return fmt.Errorf("nisar: invalid instrument %q, valid values: LSAR, SSAR", o.Instrument)
	}
	switch o.Frequency {
	case "", "A", "B":
	default:
		return fmt.Errorf("nisar: invalid frequency %q, valid values: A, B", o.Frequency)
	}
	if o.ChunkCacheMB < 0 {
		return fmt.Errorf("nisar: invalid chunk cache size %d MiB", o.ChunkCacheMB)
	}
	return nil
}

// instrument and frequency apply the documented defaults without
// disturbing the explicit-options check.
func (o *OpenOptions) instrument() string {
	if o.Instrument == "" {
		return "LSAR"
	}
	return o.Instrument
}

func (o *OpenOptions) frequency() string {
	if o.Frequency == "" {
		return "A"
	}
	return o.Frequency
}

// ParseOptions builds OpenOptions from string key/value pairs as passed
// by host frameworks: INST, FREQ, POL, MASK, METADATA, CHUNK_CACHE_SIZE_MB.
func ParseOptions(kv map[string]string) (OpenOptions, error) {
	var opts OpenOptions
	for k, v := range kv {
		switch strings.ToUpper(k) {
		case "INST", "INSTRUMENT":
			opts.Instrument = v
		case "FREQ", "FREQUENCY":
			opts.Frequency = v
		case "POL", "POLARIZATION":
			opts.Polarization = v
		case "MASK":
			switch strings.ToUpper(strings.TrimSpace(v)) {
			case "", "YES", "TRUE", "ON", "1":
				opts.DisableMask = false
			case "NO", "FALSE", "OFF", "0":
				opts.DisableMask = true
			default:
				return opts, fmt.Errorf("nisar: invalid MASK value %q, valid values: YES, NO", v)
			}
		case "METADATA":
			for _, g := range strings.Split(v, ",") {
				if g = strings.TrimSpace(g); g != "" {
					opts.Metadata = append(opts.Metadata, g)
				}
			}
		case "CHUNK_CACHE_SIZE_MB":
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 0 {
				return opts, fmt.Errorf("nisar: invalid CHUNK_CACHE_SIZE_MB value %q", v)
			}
			opts.ChunkCacheMB = n
		default:
			return opts, fmt.Errorf("nisar: unknown option %q", k)
		}
	}
	if err := opts.normalize(); err != nil {
		return opts, err
	}
	return opts, nil
}
