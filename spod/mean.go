package spod

import "fmt"

// longtimeMean computes the mean field over the full time series. The sum
// is accumulated over nBlocks sequential chunks of nt/nBlocks frames plus a
// final remainder chunk, rather than one bulk load, so peak memory stays
// bounded for out-of-core sources.
func longtimeMean(src Source, variables []string, nt, nBlocks, dof int) ([]complex128, error) {
	chunk := nt / nBlocks
	residual := nt % nBlocks

	sum := make([]complex128, dof)
	accumulate := func(frames [][]complex128) error {
		for _, frame := range frames {
			if len(frame) != dof {
				return fmt.Errorf("frame has %d values, want nx*nv = %d", len(frame), dof)
			}
			for j, v := range frame {
				sum[j] += v
			}
		}
		return nil
	}

	for blk := 0; blk < nBlocks; blk++ {
		lb := blk * chunk
		frames, err := src.Slice(lb, lb+chunk, variables)
		if err != nil {
			return nil, err
		}
		if err := accumulate(frames); err != nil {
			return nil, err
		}
	}

	// remainder chunk [nt-residual, nt); empty when nt divides evenly
	if residual > 0 {
		frames, err := src.Slice(nt-residual, nt, variables)
		if err != nil {
			return nil, err
		}
		if err := accumulate(frames); err != nil {
			return nil, err
		}
	}

	for j := range sum {
		sum[j] /= complex(float64(nt), 0)
	}
	return sum, nil
}
