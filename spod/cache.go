package spod

import (
	"github.com/kyleniemeyer/gospod/artifact"
	"github.com/kyleniemeyer/gospod/logging"
)

// BlocksPresent reports whether every (block, frequency) FFT artifact of the
// run already exists in storage, in which case block computation can be
// skipped entirely. Partial presence counts as absent: partially overlapping
// blocks are not independently reusable, so there is no resume below the
// full-grid granularity.
func (a *Analysis) BlocksPresent() bool {
	return blocksPresent(a.store, a.cfg.NBlocks, a.cfg.NFreq, a.log)
}

func blocksPresent(store *artifact.Store, nBlocks, nFreq int, log logging.Logger) bool {
	log.Info("checking if blocks are already present ...")

	allBlocksExist := 0
	for blk := 0; blk < nBlocks; blk++ {
		allFreqExist := 0
		for freq := 0; freq < nFreq; freq++ {
			if store.Exists(store.BlockPath(blk, freq)) {
				allFreqExist++
			}
		}
		if allFreqExist == nFreq {
			log.Info("block is present", logging.Fields{
				"block": blk + 1,
				"of":    nBlocks,
				"dir":   store.Dir(),
			})
			allBlocksExist++
		}
	}

	if allBlocksExist == nBlocks {
		log.Info("... all blocks are present - loading from storage")
		return true
	}
	log.Info("... blocks are not present - proceeding to compute them")
	return false
}
