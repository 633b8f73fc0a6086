package spod

import "testing"

func TestLongtimeMeanConstantField(t *testing.T) {
	// the chunked summation must reproduce a constant field exactly,
	// regardless of how nt divides into blocks
	cases := []struct {
		nt      int
		nBlocks int
	}{
		{100, 4},  // divides evenly, empty remainder chunk
		{103, 4},  // remainder of 3
		{101, 10}, // remainder of 1, single-sample boundary chunk
	}

	const c = 3.25
	for _, tc := range cases {
		src := constSource(tc.nt, 5, complex(c, 0))

		mean, err := longtimeMean(src, nil, tc.nt, tc.nBlocks, 5)
		if err != nil {
			t.Fatalf("nt=%d nBlocks=%d: unexpected error: %v", tc.nt, tc.nBlocks, err)
		}
		if len(mean) != 5 {
			t.Fatalf("nt=%d nBlocks=%d: expected 5 values, got %d", tc.nt, tc.nBlocks, len(mean))
		}
		for j, v := range mean {
			if !almostEqualC(v, complex(c, 0), testTolerance) {
				t.Errorf("nt=%d nBlocks=%d point %d: got %v, want %v", tc.nt, tc.nBlocks, j, v, c)
			}
		}
	}
}

func TestLongtimeMeanVaryingField(t *testing.T) {
	// frame t holds value t everywhere: mean over [0, nt) is (nt-1)/2
	const nt = 10
	data := make([][]complex128, nt)
	for tIdx := range data {
		data[tIdx] = []complex128{complex(float64(tIdx), 0), complex(float64(tIdx), 0)}
	}
	src := NewArraySource(data)

	mean, err := longtimeMean(src, nil, nt, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := complex(4.5, 0)
	for j, v := range mean {
		if !almostEqualC(v, want, testTolerance) {
			t.Errorf("point %d: got %v, want %v", j, v, want)
		}
	}
}

func TestLongtimeMeanResolvedIntoConfig(t *testing.T) {
	p := baseParams(100)
	p.Window = FixedWindow(16)
	p.Mean = LongTimeMean()

	cfg, err := resolveConfig(p, 2, true, constSource(100, 2, 2), noLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MeanName != MeanLongTimeName {
		t.Fatalf("got mean %q, want longtime", cfg.MeanName)
	}
	for j, v := range cfg.Mean {
		if !almostEqualC(v, 2, testTolerance) {
			t.Errorf("point %d: got %v, want 2", j, v)
		}
	}
}

func TestBlockwiseMeanLeavesFieldUnset(t *testing.T) {
	p := baseParams(100)
	p.Window = FixedWindow(16)
	p.Mean = BlockwiseMean()

	cfg, err := resolveConfig(p, 2, true, constSource(100, 2, 1), noLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MeanName != MeanBlockwiseName {
		t.Fatalf("got mean %q, want blockwise", cfg.MeanName)
	}
	if cfg.Mean != nil {
		t.Error("blockwise policy must not materialize a mean field")
	}
}
