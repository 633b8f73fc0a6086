package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
nt: 1000
xdim: 2
nv: 1
dt: 0.5
n_fft: default
n_overlap: default
mean: longtime
datafile: data.npy
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Nt != 1000 || cfg.Xdim != 2 || cfg.Nv != 1 || cfg.Dt != 0.5 {
		t.Errorf("mandatory parameters parsed wrong: %+v", cfg)
	}
	if cfg.DataFile != "data.npy" {
		t.Errorf("got datafile %q, want data.npy", cfg.DataFile)
	}

	// the resulting params must resolve without error on matching data
	p := cfg.params()
	if p.Nt != 1000 {
		t.Errorf("params nt: got %d, want 1000", p.Nt)
	}
}

func TestLoadConfigWindowVariants(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"integer length", "nt: 100\nxdim: 1\nnv: 1\ndt: 1\nn_fft: 64\n"},
		{"keyword", "nt: 100\nxdim: 1\nnv: 1\ndt: 1\nn_fft: default\n"},
		{"explicit coefficients", "nt: 100\nxdim: 1\nnv: 1\ndt: 1\nn_fft: [0.2, 0.8, 1.0, 0.8, 0.2]\n"},
	}
	for _, c := range cases {
		if _, err := loadConfig(writeConfig(t, c.body)); err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
		}
	}
}

func TestLoadConfigRejectsUnknownKeywords(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"window", "n_fft: hann\n"},
		{"overlap", "n_overlap: half\n"},
		{"mean", "mean: median\n"},
	}
	for _, c := range cases {
		if _, err := loadConfig(writeConfig(t, c.body)); err == nil {
			t.Errorf("%s: expected validation error, got nil", c.name)
		}
	}
}

func TestLoadConfigMeanVariants(t *testing.T) {
	if _, err := loadConfig(writeConfig(t, "mean: blockwise\n")); err != nil {
		t.Errorf("blockwise: unexpected error: %v", err)
	}
	if _, err := loadConfig(writeConfig(t, "mean: [1.0, 2.0, 3.0]\n")); err != nil {
		t.Errorf("explicit field: unexpected error: %v", err)
	}
	// a mapping is not a valid mean
	if _, err := loadConfig(writeConfig(t, "mean: {a: 1}\n")); err == nil {
		t.Error("expected type error for mapping mean, got nil")
	}
}

func TestLoadConfigOptionalKnobs(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, `
nt: 100
xdim: 1
nv: 2
dt: 1
mean: zero
isreal: true
conf_level: 0.95
normvar: true
savefft: true
savedir: /tmp/out
n_modes_save: 8
weights: [1, 1, 1, 1]
variables: [slp]
`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.IsReal == nil || !*cfg.IsReal {
		t.Error("isreal not parsed")
	}
	if cfg.ConfLevel == nil || *cfg.ConfLevel != 0.95 {
		t.Error("conf_level not parsed")
	}
	if !cfg.NormVar || !cfg.SaveFFT {
		t.Error("normvar/savefft not parsed")
	}
	if cfg.NModesSave != 8 {
		t.Errorf("got n_modes_save=%d, want 8", cfg.NModesSave)
	}
	if len(cfg.Weights) != 4 {
		t.Errorf("got %d weights, want 4", len(cfg.Weights))
	}
	if len(cfg.Variables) != 1 || cfg.Variables[0] != "slp" {
		t.Errorf("variables not parsed: %v", cfg.Variables)
	}
}
