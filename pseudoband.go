package nisar

// Derived views a host framework can synthesize from a complex band.
// Only the names are advertised here; their pixel functions are the
// framework's own.
var derivedBandNames = []string{
	"AMPLITUDE",
	"PHASE",
	"REAL",
	"IMAG",
	"CONJ",
	"INTENSITY",
	"LOGAMPLITUDE",
}

// DerivedBandNames lists the pseudo-band names available for this band,
// empty for real-valued data.
func (b *Band) DerivedBandNames() []string {
	if !b.dtype.IsComplex() {
		return nil
	}
	out := make([]string, len(derivedBandNames))
	copy(out, derivedBandNames)
	return out
}
