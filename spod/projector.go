package spod

import (
	"fmt"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

// ComputeCoefficients projects the cached FFT blocks of every frequency
// onto the saved spatial modes and persists the reduced temporal
// coefficients, a_k = (Psi^H (Q_hat_f .* w))^T. The weights multiply the
// block spectra, not the modes, preserving the energy normalization of the
// inner product.
//
// Missing block or mode artifacts are fatal: recomputing them belongs to
// the upstream stages. Rerunning over identical artifacts reproduces
// identical output.
func (a *Analysis) ComputeCoefficients() error {
	cfg := a.cfg

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(cfg.NFreq),
		mpb.PrependDecorators(
			decor.Name("computing coefficients: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)

	for freq := 0; freq < cfg.NFreq; freq++ {
		qw, err := a.loadWeightedBlocks(freq)
		if err != nil {
			return err
		}

		psi, err := a.loadModes(freq)
		if err != nil {
			return err
		}

		// (nModesSave x dof) . (dof x nBlocks)
		prod := mat.NewCDense(a.nModesSave, cfg.NBlocks, nil)
		cblas128.Gemm(blas.ConjTrans, blas.NoTrans, 1, psi.RawCMatrix(), qw.RawCMatrix(), 0, prod.RawCMatrix())

		// flatten block-major: block index varies slowest
		ak := make([]complex128, cfg.NBlocks*a.nModesSave)
		for blk := 0; blk < cfg.NBlocks; blk++ {
			for m := 0; m < a.nModesSave; m++ {
				ak[blk*a.nModesSave+m] = prod.At(m, blk)
			}
		}

		path := a.store.CoeffPath(a.nModesSave, freq)
		if err := a.store.WriteComplex(path, ak); err != nil {
			return fmt.Errorf("coefficients for frequency %d: %w", freq, err)
		}
		bar.Increment()
	}
	p.Wait()

	return nil
}

// loadWeightedBlocks assembles Q_hat_f for one frequency with the spatial
// weights already applied
func (a *Analysis) loadWeightedBlocks(freqIdx int) (*mat.CDense, error) {
	cfg := a.cfg

	qw := mat.NewCDense(a.dof, cfg.NBlocks, nil)
	for blk := 0; blk < cfg.NBlocks; blk++ {
		v, err := a.store.ReadComplex(a.store.BlockPath(blk, freqIdx))
		if err != nil {
			return nil, fmt.Errorf("FFT block %d for frequency %d: %w", blk, freqIdx, err)
		}
		if len(v) != a.dof {
			return nil, fmt.Errorf("FFT block %d for frequency %d holds %d values, want nx*nv = %d",
				blk, freqIdx, len(v), a.dof)
		}
		for j := 0; j < a.dof; j++ {
			qw.Set(j, blk, v[j]*complex(cfg.Weights[j], 0))
		}
	}
	return qw, nil
}
