package spod

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

// EmulatorData holds the supervised next-block prediction pairs. Every
// tensor has shape (pairs, nFreq, nModesSave); the block axis is the
// sequence axis, so consecutive samples are consecutive time windows.
type EmulatorData struct {
	TrainingInput  [][][]complex128
	TrainingOutput [][][]complex128
	TestingInput   [][][]complex128
	TestingOutput  [][][]complex128
}

// Trainer is the external sequence-model collaborator. This package defines
// only the tensor contract and the split policy, not the model.
type Trainer interface {
	Fit(data *EmulatorData) error
}

// PrepareEmulatorData loads the per-frequency coefficient artifacts,
// reorders them block-first and builds the chronologically split training
// pairs: input[s] is block s, output[s] is block s+1, and the first 70% of
// the pairs train. The split is time-ordered on purpose; shuffling would
// break the causal prediction semantics.
func (a *Analysis) PrepareEmulatorData() (*EmulatorData, error) {
	cfg := a.cfg

	// (nBlocks, nFreq, nModesSave), block axis first
	tensor := make([][][]complex128, cfg.NBlocks)
	for blk := range tensor {
		tensor[blk] = make([][]complex128, cfg.NFreq)
	}

	for freq := 0; freq < cfg.NFreq; freq++ {
		path := a.store.CoeffPath(a.nModesSave, freq)
		flat, err := a.store.ReadComplex(path)
		if err != nil {
			return nil, fmt.Errorf("coefficients for frequency %d: %w", freq, err)
		}
		if len(flat) != cfg.NBlocks*a.nModesSave {
			return nil, fmt.Errorf("coefficient artifact %s holds %d values, want n_blocks*n_modes_save = %d",
				path, len(flat), cfg.NBlocks*a.nModesSave)
		}
		for blk := 0; blk < cfg.NBlocks; blk++ {
			tensor[blk][freq] = flat[blk*a.nModesSave : (blk+1)*a.nModesSave]
		}
	}

	pairs := cfg.NBlocks - 1
	inputs := make([][][]complex128, pairs)
	outputs := make([][][]complex128, pairs)
	for sample := 0; sample < pairs; sample++ {
		inputs[sample] = tensor[sample]
		outputs[sample] = tensor[sample+1]
	}

	numTrain := int(0.7 * float64(pairs))

	return &EmulatorData{
		TrainingInput:  inputs[:numTrain],
		TrainingOutput: outputs[:numTrain],
		TestingInput:   inputs[numTrain:],
		TestingOutput:  outputs[numTrain:],
	}, nil
}

// TrainEmulator prepares the emulator dataset and hands it to the external
// trainer
func (a *Analysis) TrainEmulator(trainer Trainer) error {
	if trainer == nil {
		return fmt.Errorf("trainer must not be nil")
	}
	data, err := a.PrepareEmulatorData()
	if err != nil {
		return err
	}
	return trainer.Fit(data)
}

// ReconstructBlocks maps predicted coefficients back into spectral blocks,
// Q_hat_rec = Psi . A^T. This is the left inverse of the forward projection
// when the retained modes are orthonormal under the weight matrix. coeffs
// rows are blocks of length nModes; the result is (nx*nv, len(coeffs)).
func ReconstructBlocks(psi *mat.CDense, coeffs [][]complex128) (*mat.CDense, error) {
	dof, nModes := psi.Dims()
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("no coefficient rows to reconstruct")
	}

	at := mat.NewCDense(nModes, len(coeffs), nil)
	for blk, row := range coeffs {
		if len(row) != nModes {
			return nil, fmt.Errorf("coefficient row %d has %d values, want n_modes = %d", blk, len(row), nModes)
		}
		for m, v := range row {
			at.Set(m, blk, v)
		}
	}

	rec := mat.NewCDense(dof, len(coeffs), nil)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, psi.RawCMatrix(), at.RawCMatrix(), 0, rec.RawCMatrix())
	return rec, nil
}

// ReconstructAtFrequency loads the mode bank of one frequency and
// reconstructs spectral blocks from predicted coefficients
func (a *Analysis) ReconstructAtFrequency(freqIdx int, coeffs [][]complex128) (*mat.CDense, error) {
	psi, err := a.loadModes(freqIdx)
	if err != nil {
		return nil, err
	}
	return ReconstructBlocks(psi, coeffs)
}
