package nisar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions(map[string]string{
		"INST":                "ssar",
		"FREQ":                "b",
		"POL":                 "vh",
		"MASK":                "NO",
		"METADATA":            "orbit, attitude",
		"CHUNK_CACHE_SIZE_MB": "64",
	})
	require.NoError(t, err)
	assert.Equal(t, "SSAR", opts.Instrument)
	assert.Equal(t, "B", opts.Frequency)
	assert.Equal(t, "VH", opts.Polarization)
	assert.True(t, opts.DisableMask)
	assert.Equal(t, []string{"orbit", "attitude"}, opts.Metadata)
	assert.Equal(t, 64, opts.ChunkCacheMB)
}

func TestParseOptionsErrors(t *testing.T) {
	cases := []map[string]string{
		{"INST": "XSAR"},
		{"FREQ": "C"},
		{"MASK": "MAYBE"},
		{"CHUNK_CACHE_SIZE_MB": "lots"},
		{"CHUNK_CACHE_SIZE_MB": "-1"},
		{"BOGUS": "1"},
	}
	for _, kv := range cases {
		_, err := ParseOptions(kv)
		assert.Error(t, err, "%v", kv)
	}
}

func TestOptionDefaults(t *testing.T) {
	var opts OpenOptions
	require.NoError(t, opts.normalize())
	assert.Equal(t, "LSAR", opts.instrument())
	assert.Equal(t, "A", opts.frequency())
	assert.False(t, opts.explicit())
	assert.False(t, opts.DisableMask)

	opts.Polarization = "HH"
	assert.True(t, opts.explicit())
}
