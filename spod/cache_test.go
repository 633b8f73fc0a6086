package spod

import (
	"testing"

	"github.com/kyleniemeyer/gospod/artifact"
)

func TestBlocksPresentAllOrNothing(t *testing.T) {
	store, err := artifact.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const nBlocks, nFreq = 3, 2
	v := []complex128{1, 2}

	// write 5 of the 6 required artifacts
	for blk := 0; blk < nBlocks; blk++ {
		for freq := 0; freq < nFreq; freq++ {
			if blk == 2 && freq == 1 {
				continue
			}
			if err := store.WriteComplex(store.BlockPath(blk, freq), v); err != nil {
				t.Fatalf("write block %d freq %d: %v", blk, freq, err)
			}
		}
	}

	if blocksPresent(store, nBlocks, nFreq, noLog()) {
		t.Fatal("partial artifact grid reported as present")
	}

	// complete the grid
	if err := store.WriteComplex(store.BlockPath(2, 1), v); err != nil {
		t.Fatalf("write final artifact: %v", err)
	}
	if !blocksPresent(store, nBlocks, nFreq, noLog()) {
		t.Fatal("complete artifact grid reported as absent")
	}
}

func TestBlocksPresentEmptyStore(t *testing.T) {
	store, err := artifact.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if blocksPresent(store, 2, 3, noLog()) {
		t.Fatal("empty store reported as present")
	}
}
