// Package artifact persists the per-run spectral artifacts (FFT blocks,
// mode banks, coefficient matrices) as NumPy-compatible .npy files, so the
// store interoperates with the external mode-computation stage.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sbinet/npyio"
)

// RootName derives the storage directory name for a spectral configuration.
// Distinct configurations never collide in storage.
func RootName(nDFT, nOverlap, nBlocks int) string {
	return fmt.Sprintf("nfft%d_novlp%d_nblks%d", nDFT, nOverlap, nBlocks)
}

// Store is a disk-resident artifact cache rooted at a single directory.
// Writes are atomic-or-absent: a key either holds a fully written file or
// nothing.
type Store struct {
	dir string
}

// NewStore creates the storage directory if needed and returns the store
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the storage root
func (s *Store) Dir() string {
	return s.dir
}

// BlockPath returns the file path of a per-(block, frequency) FFT artifact
func (s *Store) BlockPath(blockIdx, freqIdx int) string {
	return filepath.Join(s.dir, fmt.Sprintf("fft_block%04d_freq%04d.npy", blockIdx, freqIdx))
}

// ModePath returns the file path of a per-frequency mode bank
func (s *Store) ModePath(nModesSave, freqIdx int) string {
	return filepath.Join(s.dir, fmt.Sprintf("modes1to%04d_freq%04d.npy", nModesSave, freqIdx))
}

// CoeffPath returns the file path of a per-frequency coefficient matrix
func (s *Store) CoeffPath(nModesSave, freqIdx int) string {
	return filepath.Join(s.dir, fmt.Sprintf("coeffs1to%04d_freq%04d.npy", nModesSave, freqIdx))
}

// Exists reports whether the artifact at path has been fully written
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteComplex persists a complex vector at path. The data is written to a
// temporary file and renamed into place, so readers never observe a partial
// artifact.
func (s *Store) WriteComplex(path string, v []complex128) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", filepath.Base(path), err)
	}
	tmpName := tmp.Name()

	if err := npyio.Write(tmp, v); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadComplex loads a complex artifact at path, flattened in storage order
func (s *Store) ReadComplex(path string) ([]complex128, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	defer f.Close()

	var v []complex128
	if err := npyio.Read(f, &v); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	return v, nil
}

// Remove deletes the artifact at path if it exists
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove artifact %s: %w", path, err)
	}
	return nil
}
