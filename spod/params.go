package spod

import "fmt"

// windowKind discriminates the window specification variants
type windowKind int

const (
	windowDefault windowKind = iota
	windowFixedLength
	windowExplicit
)

// WindowSpec is a tagged variant describing how the DFT window is chosen.
// The zero value is the default policy: length 2^floor(log2(nt/10)) with
// Hamming coefficients.
type WindowSpec struct {
	kind   windowKind
	length int
	coeffs []float64
}

// DefaultWindow selects the default window policy
func DefaultWindow() WindowSpec {
	return WindowSpec{kind: windowDefault}
}

// FixedWindow selects a Hamming window of an explicit length
func FixedWindow(length int) WindowSpec {
	return WindowSpec{kind: windowFixedLength, length: length}
}

// ExplicitWindow uses the given coefficients verbatim, regardless of
// whether their count is a power of two
func ExplicitWindow(coefficients []float64) WindowSpec {
	c := make([]float64, len(coefficients))
	copy(c, coefficients)
	return WindowSpec{kind: windowExplicit, coeffs: c}
}

// ParseWindowPolicy maps a window keyword to a WindowSpec. Only "default"
// is recognized.
func ParseWindowPolicy(name string) (WindowSpec, error) {
	if name == "default" {
		return DefaultWindow(), nil
	}
	return WindowSpec{}, fmt.Errorf("window policy %q not recognized", name)
}

// OverlapSpec is a tagged variant describing the block overlap. The zero
// value is the default policy, floor(nDFT/2).
type OverlapSpec struct {
	explicit bool
	samples  int
}

// DefaultOverlap selects the default overlap, half the window length
func DefaultOverlap() OverlapSpec {
	return OverlapSpec{}
}

// Overlap selects an explicit overlap in samples
func Overlap(samples int) OverlapSpec {
	return OverlapSpec{explicit: true, samples: samples}
}

// ParseOverlapPolicy maps an overlap keyword to an OverlapSpec. Only
// "default" is recognized.
func ParseOverlapPolicy(name string) (OverlapSpec, error) {
	if name == "default" {
		return DefaultOverlap(), nil
	}
	return OverlapSpec{}, fmt.Errorf("overlap policy %q not recognized", name)
}

// meanKind discriminates the mean-removal policy variants
type meanKind int

const (
	meanLongTime meanKind = iota
	meanBlockwise
	meanZero
	meanExplicit
)

// MeanSpec is a tagged variant describing the mean-removal policy. The
// zero value is the longtime policy.
type MeanSpec struct {
	kind  meanKind
	field []complex128
}

// LongTimeMean removes the mean of the full time series, accumulated in
// bounded-memory chunks
func LongTimeMean() MeanSpec {
	return MeanSpec{kind: meanLongTime}
}

// BlockwiseMean defers mean removal to each block
func BlockwiseMean() MeanSpec {
	return MeanSpec{kind: meanBlockwise}
}

// ZeroMean removes no mean. Discouraged; resolution emits a warning.
func ZeroMean() MeanSpec {
	return MeanSpec{kind: meanZero}
}

// ExplicitMean removes a caller-supplied mean field, which must flatten to
// length nx*nv
func ExplicitMean(field []complex128) MeanSpec {
	f := make([]complex128, len(field))
	copy(f, field)
	return MeanSpec{kind: meanExplicit, field: f}
}

// ParseMeanPolicy maps a mean keyword to a MeanSpec. Recognized keywords
// are "longtime", "blockwise" and "zero" (alias "0").
func ParseMeanPolicy(name string) (MeanSpec, error) {
	switch name {
	case "longtime":
		return LongTimeMean(), nil
	case "blockwise":
		return BlockwiseMean(), nil
	case "zero", "0":
		return ZeroMean(), nil
	}
	return MeanSpec{}, fmt.Errorf("mean policy %q not recognized", name)
}

// Params collects the raw user parameters of a run. Nt, Xdim, Nv and Dt
// are mandatory; the specs default to the policies described above.
type Params struct {
	Nt   int     // number of time frames
	Xdim int     // number of spatial dimensions
	Nv   int     // number of variables
	Dt   float64 // time step

	Window  WindowSpec
	Overlap OverlapSpec
	Mean    MeanSpec

	// Weights are the spatial inner-product weights, length nx*nv.
	// Nil selects uniform weights.
	Weights []float64

	// IsReal forces one-sided (true) or two-sided (false) spectra.
	// Nil infers the answer from the first frame of the source.
	IsReal *bool

	// ConfLevel enables confidence-bound storage at the given level
	ConfLevel *float64

	// NormVar normalizes the pointwise variance inside each block
	NormVar bool

	// SaveFFT keeps FFT block artifacts on disk for reuse across runs;
	// when set, a complete artifact grid short-circuits block computation
	SaveFFT bool

	// SaveDir is the parent of the per-configuration storage root.
	// Empty means the current directory.
	SaveDir string

	// NModesSave is the number of modes retained per frequency.
	// Zero selects the default, nBlocks.
	NModesSave int

	// Variables are the variable names forwarded to data handlers
	Variables []string
}

func (p *Params) validate() error {
	if p.Nt <= 0 {
		return fmt.Errorf("nt must be positive, got %d", p.Nt)
	}
	if p.Xdim <= 0 {
		return fmt.Errorf("xdim must be positive, got %d", p.Xdim)
	}
	if p.Nv <= 0 {
		return fmt.Errorf("nv must be positive, got %d", p.Nv)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", p.Dt)
	}
	if p.NModesSave < 0 {
		return fmt.Errorf("n_modes_save must not be negative, got %d", p.NModesSave)
	}
	if p.ConfLevel != nil && (*p.ConfLevel <= 0 || *p.ConfLevel >= 1) {
		return fmt.Errorf("conf_level must lie in (0, 1), got %g", *p.ConfLevel)
	}
	return nil
}
