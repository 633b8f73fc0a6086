// Package spod implements the spectral-estimation pipeline of a Spectral
// Proper Orthogonal Decomposition: parameter resolution, out-of-core data
// access, mean estimation, the disk-backed block/mode artifact cache, the
// modal-coefficient projection and the emulator data preparation. The
// eigendecomposition that produces the mode banks is an external stage; this
// package consumes its artifact files.
package spod

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/mem"
	"gonum.org/v1/gonum/mat"

	"github.com/kyleniemeyer/gospod/algorithms/spectral"
	"github.com/kyleniemeyer/gospod/algorithms/windowing"
	"github.com/kyleniemeyer/gospod/artifact"
	"github.com/kyleniemeyer/gospod/logging"
)

const byteToGB = 9.3132257461548e-10

// Analysis ties a data source to a resolved spectral configuration and the
// artifact store of the run. All state is explicit; nothing is process-global.
type Analysis struct {
	src    Source
	params Params
	cfg    *Config
	store  *artifact.Store
	log    logging.Logger
	fft    *spectral.FFT

	nt  int
	nv  int
	nx  int // spatial points per variable
	dof int // nx * nv, the flattened field size

	winWeight  float64 // window gain correction, 1/mean(window)
	nModesSave int

	confidence bool
	confLevel  float64
	xi2Upper   float64
	xi2Lower   float64
	eigsConf   [][][2]complex128 // per-frequency, per-block confidence bounds
}

// New probes the source, resolves the spectral-estimation parameters and
// prepares the artifact store. A nil logger selects the default logger.
func New(src Source, p Params, log logging.Logger) (*Analysis, error) {
	if log == nil {
		log = logging.NewDefaultLogger()
	}
	if src == nil {
		return nil, fmt.Errorf("data source must not be nil")
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	// probe one frame for the flattened field size and realness
	frames, err := src.Slice(0, 0, p.Variables)
	if err != nil {
		return nil, fmt.Errorf("probe data source: %w", err)
	}
	probe := frames[0]
	dof := len(probe)
	if dof == 0 || dof%p.Nv != 0 {
		return nil, fmt.Errorf("frame size %d is not a multiple of nv = %d", dof, p.Nv)
	}

	isReal := true
	if p.IsReal != nil {
		isReal = *p.IsReal
	} else {
		for _, v := range probe {
			if imag(v) != 0 {
				isReal = false
				break
			}
		}
	}

	cfg, err := resolveConfig(p, dof, isReal, src, log)
	if err != nil {
		return nil, err
	}

	nModesSave := p.NModesSave
	if nModesSave == 0 {
		nModesSave = cfg.NBlocks
	}

	saveDir := p.SaveDir
	if saveDir == "" {
		saveDir = "."
	}
	root := filepath.Join(saveDir, artifact.RootName(cfg.NDFT, cfg.NOverlap, cfg.NBlocks))
	store, err := artifact.NewStore(root)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		src:        src,
		params:     p,
		cfg:        cfg,
		store:      store,
		log:        log,
		fft:        spectral.NewFFT(),
		nt:         p.Nt,
		nv:         p.Nv,
		nx:         dof / p.Nv,
		dof:        dof,
		winWeight:  windowing.GainCorrection(cfg.Window),
		nModesSave: nModesSave,
	}

	if p.ConfLevel != nil {
		upper, lower, err := ConfidenceMultipliers(cfg.NBlocks, *p.ConfLevel)
		if err != nil {
			return nil, err
		}
		a.confidence = true
		a.confLevel = *p.ConfLevel
		a.xi2Upper = upper
		a.xi2Lower = lower
		a.eigsConf = make([][][2]complex128, cfg.NFreq)
		for i := range a.eigsConf {
			a.eigsConf[i] = make([][2]complex128, cfg.NBlocks)
		}
	}

	log.Info("data matrix", logging.Fields{
		"problem_size_gb": float64(p.Nt) * float64(dof) * 16 * byteToGB,
		"nt":              p.Nt,
		"nx":              a.nx,
		"nv":              p.Nv,
		"storage":         store.Dir(),
	})

	return a, nil
}

// Config returns the resolved spectral configuration
func (a *Analysis) Config() *Config {
	return a.cfg
}

// Store returns the artifact store of the run
func (a *Analysis) Store() *artifact.Store {
	return a.store
}

// Freq returns the frequency axis
func (a *Analysis) Freq() []float64 {
	return a.cfg.Freq
}

// NModesSave returns the number of modes retained per frequency
func (a *Analysis) NModesSave() int {
	return a.nModesSave
}

// ConfidenceBounds reports the chi-squared-derived multipliers when a
// confidence level was configured
func (a *Analysis) ConfidenceBounds() (upper, lower float64, ok bool) {
	if !a.confidence {
		return 0, 0, false
	}
	return a.xi2Upper, a.xi2Lower, true
}

// ConfidenceStorage returns the per-frequency, per-block slots the external
// confidence-bound stage fills in, or nil when no confidence level was
// configured
func (a *Analysis) ConfidenceStorage() [][][2]complex128 {
	return a.eigsConf
}

// NearestFreq returns the frequency bin closest to the requested value and
// its index
func (a *Analysis) NearestFreq(required float64) (float64, int) {
	best := 0
	bestDist := math.Inf(1)
	for i, f := range a.cfg.Freq {
		if d := math.Abs(f - required); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return a.cfg.Freq[best], best
}

// ModesAtFrequency loads the mode bank of one frequency as an
// (nx*nv, nModesSave) matrix. Before touching the files it checks that
// materializing every bank up to this frequency fits in available memory,
// mirroring the storage-side access pattern of the mode stage.
func (a *Analysis) ModesAtFrequency(freqIdx int) (*mat.CDense, error) {
	if freqIdx < 0 || freqIdx >= a.cfg.NFreq {
		return nil, fmt.Errorf("frequency index %d out of range [0, %d)", freqIdx, a.cfg.NFreq)
	}

	required := float64(freqIdx) * float64(a.dof) * float64(a.nModesSave) * 16
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("probe available memory: %w", err)
	}
	if required >= float64(vm.Available) {
		return nil, fmt.Errorf("not enough memory to load the stored modes: need ~%.2f GB, %.2f GB available",
			required*byteToGB, float64(vm.Available)*byteToGB)
	}

	return a.loadModes(freqIdx)
}

// loadModes reads and shape-checks the mode bank of one frequency,
// truncated to the first nModesSave columns
func (a *Analysis) loadModes(freqIdx int) (*mat.CDense, error) {
	path := a.store.ModePath(a.nModesSave, freqIdx)
	raw, err := a.store.ReadComplex(path)
	if err != nil {
		return nil, fmt.Errorf("mode bank for frequency %d: %w", freqIdx, err)
	}
	if len(raw)%a.dof != 0 {
		return nil, fmt.Errorf("mode bank %s holds %d values, not a multiple of nx*nv = %d", path, len(raw), a.dof)
	}
	stored := len(raw) / a.dof
	if stored < a.nModesSave {
		return nil, fmt.Errorf("mode bank %s stores %d modes, cannot satisfy n_modes_save = %d", path, stored, a.nModesSave)
	}
	if stored == a.nModesSave {
		return mat.NewCDense(a.dof, a.nModesSave, raw), nil
	}

	trunc := make([]complex128, a.dof*a.nModesSave)
	for i := 0; i < a.dof; i++ {
		copy(trunc[i*a.nModesSave:(i+1)*a.nModesSave], raw[i*stored:i*stored+a.nModesSave])
	}
	return mat.NewCDense(a.dof, a.nModesSave, trunc), nil
}
