package nisar

import (
	"fmt"
)

// maskRule decodes raw mask codes into 255 (valid) or 0 (invalid).
type maskRule func(raw byte) byte

// maskRuleDefault treats subswath codes 1 through 5 as valid; 0 and the
// 255 fill value are invalid.
func maskRuleDefault(raw byte) byte {
	if raw >= 1 && raw <= 5 {
		return 255
	}
	return 0
}

// maskRuleUnwrapped decodes the two-digit codes of unwrapped
// interferogram masks: a pixel is valid only when both the tens and the
// units decimal digit are non-zero. 255 is fill.
func maskRuleUnwrapped(raw byte) byte {
	if raw == 255 {
		return 0
	}
	if (raw/10)%10 != 0 && raw%10 != 0 {
		return 255
	}
	return 0
}

// MaskBand is the derived validity overlay of a raster band. Reads are
// block-aligned to the mask array's own chunking, one byte per pixel,
// decoded to 255/0.
type MaskBand struct {
	band *Band
	rule maskRule
}

// openMaskBand looks for a sibling array named "mask" next to the parent
// band's layer. Absence is not an error; it means every pixel is valid.
func openMaskBand(parent *Band) (*MaskBand, error) {
	maskPath := parentPath(parent.arr.Path()) + "/mask"
	if !parent.ds.sess.c.Exists(maskPath) {
		return nil, nil
	}
	arr, err := parent.ds.openArray(maskPath)
	if err != nil {
		return nil, fmt.Errorf("nisar: cannot open mask %s: %w", maskPath, err)
	}
	inner, err := newBand(parent.ds, arr, 1, true)
	if err != nil {
		arr.Close()
		return nil, err
	}
	if inner.dtype.Size() != 1 {
		inner.close()
		return nil, fmt.Errorf("nisar: mask %s is %s, expected an 8-bit type", maskPath, inner.dtype)
	}
	if inner.width != parent.width || inner.height != parent.height {
		inner.close()
		return nil, fmt.Errorf("nisar: mask %s is %dx%d, band %s is %dx%d",
			maskPath, inner.width, inner.height, parent.arr.Path(), parent.width, parent.height)
	}

	rule := maskRule(maskRuleDefault)
	if parent.ds.product.productType == "GUNW" {
		rule = maskRuleUnwrapped
	}
	return &MaskBand{band: inner, rule: rule}, nil
}

func (m *MaskBand) BlockSize() (w, h int)  { return m.band.BlockSize() }
func (m *MaskBand) RasterSize() (w, h int) { return m.band.RasterSize() }
func (m *MaskBand) BlockBufferSize() int   { return m.band.BlockBufferSize() }

// ReadBlock reads the raw mask block and decodes it in place. Padding
// outside the raster extent decodes to invalid.
func (m *MaskBand) ReadBlock(bx, by int, buf []byte) error {
	if err := m.band.ReadBlock(bx, by, buf); err != nil {
		return err
	}
	for i, v := range buf {
		buf[i] = m.rule(v)
	}
	return nil
}

func (m *MaskBand) close() {
	m.band.close()
}
