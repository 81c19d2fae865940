package nisar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnString(t *testing.T) {
	cases := []struct {
		conn     string
		ref      string
		internal string
	}{
		{"product.h5", "product.h5", ""},
		{"NISAR:product.h5", "product.h5", ""},
		{"nisar:product.h5", "product.h5", ""},
		{"NISAR:product.h5:/science/LSAR/GSLC/grids/frequencyA/HH",
			"product.h5", "/science/LSAR/GSLC/grids/frequencyA/HH"},
		{"/data/products/product.h5:/science/LSAR/identification",
			"/data/products/product.h5", "/science/LSAR/identification"},
		{"s3://bucket/key/product.h5", "s3://bucket/key/product.h5", ""},
		{"NISAR:s3://bucket/product.h5:/science/LSAR/GSLC/grids/frequencyA/HH",
			"s3://bucket/product.h5", "/science/LSAR/GSLC/grids/frequencyA/HH"},
		{"https://bucket.s3.us-west-2.amazonaws.com/product.h5",
			"https://bucket.s3.us-west-2.amazonaws.com/product.h5", ""},
		{`NISAR:"s3://bucket/product.h5":/science/LSAR/GSLC/grids/frequencyA/HH`,
			"s3://bucket/product.h5", "/science/LSAR/GSLC/grids/frequencyA/HH"},
		{"/vsis3/bucket/product.h5", "/vsis3/bucket/product.h5", ""},
	}
	for _, c := range cases {
		ref, internal, err := parseConnString(c.conn)
		require.NoError(t, err, c.conn)
		assert.Equal(t, c.ref, ref, c.conn)
		assert.Equal(t, c.internal, internal, c.conn)
	}
}

func TestParseConnStringErrors(t *testing.T) {
	for _, conn := range []string{"", "NISAR:", ":/science/LSAR"} {
		_, _, err := parseConnString(conn)
		assert.Error(t, err, conn)
	}
}

func TestIdentify(t *testing.T) {
	assert.True(t, Identify("NISAR:whatever"))
	assert.True(t, Identify("product.h5"))
	assert.True(t, Identify("s3://bucket/product.h5:/science/LSAR/GSLC/grids/frequencyA/HH"))
	assert.False(t, Identify("product.tif"))
	assert.False(t, Identify(""))
}
