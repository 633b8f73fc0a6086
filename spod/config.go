package spod

import (
	"fmt"
	"strings"
)

// Names reported for the resolved window, weights and mean choices
const (
	WindowHamming       = "hamming"
	WindowUserSpecified = "user_specified"

	WeightsUniform       = "uniform"
	WeightsUserSpecified = "user_specified"

	MeanLongTimeName      = "longtime"
	MeanBlockwiseName     = "blockwise"
	MeanZeroName          = "zero"
	MeanUserSpecifiedName = "user_specified"
)

// Config is the fully resolved spectral-estimation configuration of a run.
// It is computed once during construction and read-only thereafter.
type Config struct {
	Window      []float64 // window coefficients, length NDFT
	WindowName  string
	Weights     []float64 // spatial inner-product weights, length nx*nv
	WeightsName string
	NOverlap    int
	NDFT        int
	NBlocks     int
	Mean        []complex128 // length nx*nv; nil under the blockwise and zero policies
	MeanName    string
	Freq        []float64
	NFreq       int
	Dt          float64
	IsReal      bool
}

// freqAxis builds the frequency axis for a window of nDFT samples.
// One-sided (real) spectra hold bins k/(nDFT*dt) for k in [0, ceil(nDFT/2)].
// Two-sided spectra hold all nDFT bins, with every bin at or past the
// Nyquist index wrapped to negative frequency by subtracting 1/dt. The wrap
// starts at floor(nDFT/2)+1 for even nDFT and at (nDFT+1)/2+1 for odd.
func freqAxis(nDFT int, dt float64, isReal bool) []float64 {
	if isReal {
		n := (nDFT+1)/2 + 1 // ceil(nDFT/2) + 1 bins
		freq := make([]float64, n)
		for k := range freq {
			freq[k] = float64(k) / (float64(nDFT) * dt)
		}
		return freq
	}

	freq := make([]float64, nDFT)
	for k := range freq {
		freq[k] = float64(k) / (float64(nDFT) * dt)
	}

	var wrap int
	if nDFT%2 == 0 {
		wrap = nDFT/2 + 1
	} else {
		wrap = (nDFT+1)/2 + 1
	}
	for k := wrap; k < nDFT; k++ {
		freq[k] -= 1 / dt
	}
	return freq
}

// Summary returns a deterministic textual summary of the resolved
// configuration. Purely informational.
func (c *Config) Summary() string {
	var b strings.Builder

	b.WriteString("SPOD parameters\n")
	b.WriteString("------------------------------------\n")
	if c.IsReal {
		b.WriteString("Spectrum type             : one-sided (real-valued signal)\n")
	} else {
		b.WriteString("Spectrum type             : two-sided (complex-valued signal)\n")
	}
	fmt.Fprintf(&b, "No. of snapshots per block: %d\n", c.NDFT)
	fmt.Fprintf(&b, "Block overlap             : %d\n", c.NOverlap)
	fmt.Fprintf(&b, "No. of blocks             : %d\n", c.NBlocks)
	fmt.Fprintf(&b, "Windowing fct. (time)     : %s\n", c.WindowName)
	fmt.Fprintf(&b, "Weighting fct. (space)    : %s\n", c.WeightsName)
	fmt.Fprintf(&b, "Mean                      : %s\n", c.MeanName)
	fmt.Fprintf(&b, "Time-step                 : %g\n", c.Dt)
	fmt.Fprintf(&b, "Number of frequencies     : %d\n", c.NFreq)
	b.WriteString("------------------------------------")

	return b.String()
}
