package artifact

import (
	"path/filepath"
	"testing"
)

func TestRootName(t *testing.T) {
	if got, want := RootName(128, 64, 18), "nfft128_novlp64_nblks18"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestArtifactNaming(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		got  string
		want string
	}{
		{s.BlockPath(3, 12), "fft_block0003_freq0012.npy"},
		{s.BlockPath(0, 0), "fft_block0000_freq0000.npy"},
		{s.ModePath(40, 7), "modes1to0040_freq0007.npy"},
		{s.CoeffPath(5, 123), "coeffs1to0005_freq0123.npy"},
	}
	for _, c := range cases {
		if base := filepath.Base(c.got); base != c.want {
			t.Errorf("got %q, want %q", base, c.want)
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := s.BlockPath(0, 1)
	want := []complex128{1 + 2i, -3, 0, 4i, 2.5 - 0.5i}

	if s.Exists(path) {
		t.Fatal("artifact reported present before write")
	}
	if err := s.WriteComplex(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !s.Exists(path) {
		t.Fatal("artifact reported absent after write")
	}

	got, err := s.ReadComplex(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReadMissingArtifact(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.ReadComplex(s.BlockPath(9, 9)); err == nil {
		t.Error("expected error for missing artifact, got nil")
	}
}

func TestRemove(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := s.CoeffPath(2, 0)
	if err := s.WriteComplex(path, []complex128{1, 2}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Exists(path) {
		t.Error("artifact still present after remove")
	}

	// removing an absent artifact is not an error
	if err := s.Remove(path); err != nil {
		t.Errorf("second remove: %v", err)
	}
}
