package spod

import (
	"math"
	"math/cmplx"

	"github.com/kyleniemeyer/gospod/logging"
)

const testTolerance = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func almostEqualC(a, b complex128, tol float64) bool {
	return cmplx.Abs(a-b) <= tol
}

// constSource builds a resident source where every point of every frame
// holds the same value
func constSource(nt, dof int, c complex128) *ArraySource {
	data := make([][]complex128, nt)
	for t := range data {
		frame := make([]complex128, dof)
		for j := range frame {
			frame[j] = c
		}
		data[t] = frame
	}
	return NewArraySource(data)
}

// rampSource builds a resident source where frame t, point j holds
// complex(t, j), handy for checking indexing
func rampSource(nt, dof int) *ArraySource {
	data := make([][]complex128, nt)
	for t := range data {
		frame := make([]complex128, dof)
		for j := range frame {
			frame[j] = complex(float64(t), float64(j))
		}
		data[t] = frame
	}
	return NewArraySource(data)
}

func noLog() logging.Logger {
	return &logging.NoOpLogger{}
}
