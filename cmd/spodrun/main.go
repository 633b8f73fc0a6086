// Command spodrun drives the spectral-estimation pipeline over a dataset
// stored as a NumPy array: it resolves the run configuration, computes (or
// reuses) the FFT block artifacts and, once the external mode-computation
// stage has written its mode banks, projects the blocks onto the modes and
// prepares the emulator training data.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sbinet/npyio"

	"github.com/kyleniemeyer/gospod/logging"
	"github.com/kyleniemeyer/gospod/spod"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the run configuration")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	log := logging.NewDefaultLogger()
	if *verbose {
		log.SetLevel(logging.DebugLevel)
	}

	if err := run(*configPath, log); err != nil {
		log.Fatal(err, "run failed")
	}
}

func run(configPath string, log logging.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.DataFile == "" {
		return fmt.Errorf("config %s: datafile is required", configPath)
	}

	data, err := loadData(cfg.DataFile, cfg.Nt)
	if err != nil {
		return err
	}

	analysis, err := spod.New(spod.NewArraySource(data), cfg.params(), log)
	if err != nil {
		return err
	}

	if err := analysis.ComputeBlocks(); err != nil {
		return err
	}

	store := analysis.Store()
	if !store.Exists(store.ModePath(analysis.NModesSave(), 0)) {
		log.Info("mode banks not found - run the mode-computation stage, then rerun to project coefficients",
			logging.Fields{"dir": store.Dir()})
		return nil
	}

	if err := analysis.ComputeCoefficients(); err != nil {
		return err
	}

	emulator, err := analysis.PrepareEmulatorData()
	if err != nil {
		return err
	}
	log.Info("emulator data prepared", logging.Fields{
		"training_pairs": len(emulator.TrainingInput),
		"testing_pairs":  len(emulator.TestingInput),
		"n_freq":         len(analysis.Freq()),
		"n_modes_save":   analysis.NModesSave(),
	})

	return nil
}

// loadData reads the time-resolved field from a .npy file and reshapes it
// to nt frames. Real and complex dtypes are both accepted.
func loadData(path string, nt int) ([][]complex128, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open datafile %s: %w", path, err)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read npy header of %s: %w", path, err)
	}

	var flat []complex128
	if strings.Contains(r.Header.Descr.Type, "c") {
		if err := r.Read(&flat); err != nil {
			return nil, fmt.Errorf("read datafile %s: %w", path, err)
		}
	} else {
		var raw []float64
		if err := r.Read(&raw); err != nil {
			return nil, fmt.Errorf("read datafile %s: %w", path, err)
		}
		flat = make([]complex128, len(raw))
		for i, v := range raw {
			flat[i] = complex(v, 0)
		}
	}

	if nt <= 0 || len(flat)%nt != 0 {
		return nil, fmt.Errorf("datafile %s holds %d values, not divisible into nt = %d frames", path, len(flat), nt)
	}
	dof := len(flat) / nt

	frames := make([][]complex128, nt)
	for t := range frames {
		frames[t] = flat[t*dof : (t+1)*dof]
	}
	return frames, nil
}
