package spod

import (
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// varianceFloor guards the pointwise variance normalization against
// near-constant points
const varianceFloor = 4 * 2.220446049250313e-16

// ComputeBlocks computes and persists the windowed FFT of every block.
// Each block covers [b*(nDFT-nOverlap), +nDFT) frames; the configured mean
// (or the per-block mean under the blockwise policy) is removed, the window
// applied with gain correction, and the per-frequency coefficients stored
// one artifact per (block, frequency) pair.
//
// When SaveFFT is set and the full artifact grid is already present, the
// computation is skipped and the cached blocks are reused.
func (a *Analysis) ComputeBlocks() error {
	if a.params.SaveFFT && a.BlocksPresent() {
		return nil
	}

	cfg := a.cfg
	hop := cfg.NDFT - cfg.NOverlap
	scale := complex(a.winWeight/float64(cfg.NDFT), 0)
	blockwise := cfg.MeanName == MeanBlockwiseName

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(cfg.NBlocks),
		mpb.PrependDecorators(
			decor.Name("computing blocks: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)

	// one spectrum slab per block, reused across blocks
	spectra := make([]complex128, cfg.NFreq*a.dof)

	for blk := 0; blk < cfg.NBlocks; blk++ {
		offset := blk * hop
		frames, err := a.src.Slice(offset, offset+cfg.NDFT, a.params.Variables)
		if err != nil {
			return fmt.Errorf("block %d: %w", blk, err)
		}
		for t, frame := range frames {
			if len(frame) != a.dof {
				return fmt.Errorf("block %d frame %d has %d values, want nx*nv = %d",
					blk, offset+t, len(frame), a.dof)
			}
		}

		a.transformBlock(frames, blockwise, scale, spectra)

		for freq := 0; freq < cfg.NFreq; freq++ {
			path := a.store.BlockPath(blk, freq)
			if err := a.store.WriteComplex(path, spectra[freq*a.dof:(freq+1)*a.dof]); err != nil {
				return fmt.Errorf("block %d frequency %d: %w", blk, freq, err)
			}
		}
		bar.Increment()
	}
	p.Wait()

	return nil
}

// transformBlock runs the per-point FFTs of one block on a worker pool.
// Columns are independent, so workers share nothing but the job channel and
// disjoint slab regions.
func (a *Analysis) transformBlock(frames [][]complex128, blockwise bool, scale complex128, spectra []complex128) {
	cfg := a.cfg

	numWorkers := runtime.NumCPU()
	if numWorkers > a.dof {
		numWorkers = a.dof
	}

	jobs := make(chan int, a.dof)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// reuse series buffer for this worker
			series := make([]complex128, cfg.NDFT)

			for j := range jobs {
				var pointMean complex128
				switch {
				case blockwise:
					for t := range frames {
						pointMean += frames[t][j]
					}
					pointMean /= complex(float64(cfg.NDFT), 0)
				case cfg.Mean != nil:
					pointMean = cfg.Mean[j]
				}

				for t := range frames {
					series[t] = frames[t][j] - pointMean
				}

				if a.params.NormVar {
					var variance float64
					for t := range series {
						d := cmplx.Abs(series[t])
						variance += d * d
					}
					variance /= float64(cfg.NDFT - 1)
					if variance < varianceFloor {
						variance = varianceFloor
					}
					sd := complex(math.Sqrt(variance), 0)
					for t := range series {
						series[t] /= sd
					}
				}

				for t := range series {
					series[t] *= complex(cfg.Window[t], 0)
				}

				spectrum := a.fft.ComputeComplex(series)
				for freq := 0; freq < cfg.NFreq; freq++ {
					spectra[freq*a.dof+j] = spectrum[freq] * scale
				}
			}
		}()
	}

	for j := 0; j < a.dof; j++ {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
}
