package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kyleniemeyer/gospod/spod"
)

// windowValue accepts "default", an integer window length, or an explicit
// coefficient sequence
type windowValue struct {
	spec spod.WindowSpec
}

func (w *windowValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var length int
		if err := node.Decode(&length); err == nil {
			w.spec = spod.FixedWindow(length)
			return nil
		}
		var name string
		if err := node.Decode(&name); err != nil {
			return fmt.Errorf("n_fft: %w", err)
		}
		spec, err := spod.ParseWindowPolicy(name)
		if err != nil {
			return err
		}
		w.spec = spec
		return nil
	case yaml.SequenceNode:
		var coeffs []float64
		if err := node.Decode(&coeffs); err != nil {
			return fmt.Errorf("n_fft: %w", err)
		}
		w.spec = spod.ExplicitWindow(coeffs)
		return nil
	}
	return fmt.Errorf("n_fft: unsupported YAML node type %s", node.Tag)
}

// overlapValue accepts "default" or an integer sample count
type overlapValue struct {
	spec spod.OverlapSpec
}

func (o *overlapValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("n_overlap: unsupported YAML node type %s", node.Tag)
	}
	var samples int
	if err := node.Decode(&samples); err == nil {
		o.spec = spod.Overlap(samples)
		return nil
	}
	var name string
	if err := node.Decode(&name); err != nil {
		return fmt.Errorf("n_overlap: %w", err)
	}
	spec, err := spod.ParseOverlapPolicy(name)
	if err != nil {
		return err
	}
	o.spec = spec
	return nil
}

// meanValue accepts a policy keyword or an explicit mean field
type meanValue struct {
	spec spod.MeanSpec
}

func (m *meanValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return fmt.Errorf("mean: %w", err)
		}
		spec, err := spod.ParseMeanPolicy(name)
		if err != nil {
			return err
		}
		m.spec = spec
		return nil
	case yaml.SequenceNode:
		var field []float64
		if err := node.Decode(&field); err != nil {
			return fmt.Errorf("mean: %w", err)
		}
		cfield := make([]complex128, len(field))
		for i, v := range field {
			cfield[i] = complex(v, 0)
		}
		m.spec = spod.ExplicitMean(cfield)
		return nil
	}
	return fmt.Errorf("mean: unsupported YAML node type %s", node.Tag)
}

// runConfig is the YAML surface of a run
type runConfig struct {
	Nt   int     `yaml:"nt"`
	Xdim int     `yaml:"xdim"`
	Nv   int     `yaml:"nv"`
	Dt   float64 `yaml:"dt"`

	NFFT     windowValue  `yaml:"n_fft"`
	NOverlap overlapValue `yaml:"n_overlap"`
	Mean     meanValue    `yaml:"mean"`

	Weights    []float64 `yaml:"weights"`
	IsReal     *bool     `yaml:"isreal"`
	ConfLevel  *float64  `yaml:"conf_level"`
	NormVar    bool      `yaml:"normvar"`
	SaveFFT    bool      `yaml:"savefft"`
	SaveDir    string    `yaml:"savedir"`
	NModesSave int       `yaml:"n_modes_save"`

	Variables []string `yaml:"variables"`
	DataFile  string   `yaml:"datafile"`
}

func loadConfig(path string) (*runConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg runConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *runConfig) params() spod.Params {
	return spod.Params{
		Nt:         c.Nt,
		Xdim:       c.Xdim,
		Nv:         c.Nv,
		Dt:         c.Dt,
		Window:     c.NFFT.spec,
		Overlap:    c.NOverlap.spec,
		Mean:       c.Mean.spec,
		Weights:    c.Weights,
		IsReal:     c.IsReal,
		ConfLevel:  c.ConfLevel,
		NormVar:    c.NormVar,
		SaveFFT:    c.SaveFFT,
		SaveDir:    c.SaveDir,
		NModesSave: c.NModesSave,
		Variables:  c.Variables,
	}
}
