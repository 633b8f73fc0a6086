package spod

import (
	"fmt"
	"math"

	"github.com/kyleniemeyer/gospod/algorithms/windowing"
	"github.com/kyleniemeyer/gospod/logging"
)

// resolveConfig turns the raw user parameters into a complete, validated
// spectral-estimation configuration. dof is the flattened field size nx*nv.
// The source is consulted only under the longtime mean policy.
func resolveConfig(p Params, dof int, isReal bool, src Source, log logging.Logger) (*Config, error) {
	// weights are checked before any windowing happens
	var weights []float64
	weightsName := WeightsUniform
	if p.Weights != nil {
		if len(p.Weights) != dof {
			return nil, fmt.Errorf("weights must have the same spatial dimensions as the data: got %d values, want nx*nv = %d", len(p.Weights), dof)
		}
		weights = make([]float64, dof)
		copy(weights, p.Weights)
		weightsName = WeightsUserSpecified
	} else {
		weights = make([]float64, dof)
		for i := range weights {
			weights[i] = 1
		}
	}

	// window length and coefficients
	var (
		nDFT       int
		window     []float64
		windowName string
	)
	switch p.Window.kind {
	case windowDefault:
		nDFT = int(math.Pow(2, math.Floor(math.Log2(float64(p.Nt)/10))))
		if nDFT >= 2 {
			window = windowing.NewHamming(nDFT).GetCoefficients()
		}
		windowName = WindowHamming
	case windowFixedLength:
		nDFT = p.Window.length
		if nDFT >= 2 {
			window = windowing.NewHamming(nDFT).GetCoefficients()
		}
		windowName = WindowHamming
	case windowExplicit:
		nDFT = len(p.Window.coeffs)
		window = windowing.NewUser(p.Window.coeffs).GetCoefficients()
		windowName = WindowUserSpecified
	}

	// block overlap
	nOverlap := nDFT / 2
	if p.Overlap.explicit {
		nOverlap = p.Overlap.samples
		if nOverlap > nDFT-1 {
			return nil, fmt.Errorf("overlap of %d samples is too large for a %d-sample window", nOverlap, nDFT)
		}
		if nOverlap < 0 {
			return nil, fmt.Errorf("overlap must not be negative, got %d", nOverlap)
		}
	}

	// number of blocks, then feasibility
	nBlocks := 0
	if nDFT > nOverlap {
		nBlocks = (p.Nt - nOverlap) / (nDFT - nOverlap)
	}
	if nDFT < 4 || nBlocks < 2 {
		return nil, fmt.Errorf("spectral estimation parameters not meaningful: n_DFT = %d (want >= 4), n_blocks = %d (want >= 2)", nDFT, nBlocks)
	}

	// mean-removal policy
	var (
		mean     []complex128
		meanName string
		err      error
	)
	switch p.Mean.kind {
	case meanLongTime:
		mean, err = longtimeMean(src, p.Variables, p.Nt, nBlocks, dof)
		if err != nil {
			return nil, fmt.Errorf("longtime mean: %w", err)
		}
		meanName = MeanLongTimeName
	case meanBlockwise:
		meanName = MeanBlockwiseName
	case meanZero:
		meanName = MeanZeroName
		log.Warn("no mean subtracted; consider providing a longtime mean")
	case meanExplicit:
		if len(p.Mean.field) != dof {
			return nil, fmt.Errorf("explicit mean must flatten to nx*nv = %d values, got %d", dof, len(p.Mean.field))
		}
		mean = make([]complex128, dof)
		copy(mean, p.Mean.field)
		meanName = MeanUserSpecifiedName
	}

	freq := freqAxis(nDFT, p.Dt, isReal)

	cfg := &Config{
		Window:      window,
		WindowName:  windowName,
		Weights:     weights,
		WeightsName: weightsName,
		NOverlap:    nOverlap,
		NDFT:        nDFT,
		NBlocks:     nBlocks,
		Mean:        mean,
		MeanName:    meanName,
		Freq:        freq,
		NFreq:       len(freq),
		Dt:          p.Dt,
		IsReal:      isReal,
	}

	log.Info(cfg.Summary())
	return cfg, nil
}
