package spod

import "fmt"

// Source is the uniform data-access contract over time-resolved fields.
// Slice returns frames in [t0, tEnd) as rows of length nx*nv (spatial
// points flattened, variables fastest). When t0 == tEnd the call returns
// exactly one frame, the one at index t0; boundary summations downstream
// rely on this single-sample convention.
//
// Implementations never mutate the backing data, and callers never branch
// on which implementation is in use.
type Source interface {
	Slice(t0, tEnd int, variables []string) ([][]complex128, error)
}

// ArraySource serves slices out of a fully resident array
type ArraySource struct {
	data [][]complex128
}

// NewArraySource wraps a resident array of shape (nt, nx*nv). A
// single-variable source that lacks the trailing variable axis is already
// in this flattened form, since nx*1 == nx.
func NewArraySource(data [][]complex128) *ArraySource {
	return &ArraySource{data: data}
}

// Slice implements Source
func (a *ArraySource) Slice(t0, tEnd int, variables []string) ([][]complex128, error) {
	if t0 == tEnd {
		tEnd = t0 + 1
	}
	if t0 < 0 || tEnd > len(a.data) || t0 > tEnd {
		return nil, fmt.Errorf("slice [%d, %d) out of range for %d frames", t0, tEnd, len(a.data))
	}
	return a.data[t0:tEnd], nil
}

// Handler is a caller-supplied stateless function that reads frames
// [t0, tEnd) from an externally stored dataset. It must satisfy the same
// output-shape contract as Source.Slice, including the single-sample
// convention for t0 == tEnd.
type Handler func(data any, t0, tEnd int, variables []string) ([][]complex128, error)

// HandlerSource adapts a Handler and its opaque dataset reference to the
// Source contract
type HandlerSource struct {
	data    any
	handler Handler
}

// NewHandlerSource wraps an external dataset behind a read handler
func NewHandlerSource(data any, handler Handler) *HandlerSource {
	return &HandlerSource{data: data, handler: handler}
}

// Slice implements Source
func (h *HandlerSource) Slice(t0, tEnd int, variables []string) ([][]complex128, error) {
	frames, err := h.handler(h.data, t0, tEnd, variables)
	if err != nil {
		return nil, err
	}

	want := tEnd - t0
	if want == 0 {
		want = 1
	}
	if len(frames) != want {
		return nil, fmt.Errorf("data handler returned %d frames for [%d, %d), want %d",
			len(frames), t0, tEnd, want)
	}
	return frames, nil
}
