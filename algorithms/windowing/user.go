package windowing

import "fmt"

// User represents a user-specified window, taken verbatim from explicit
// coefficients. The length is not required to be a power of two.
type User struct {
	coefficients []float64
}

// NewUser creates a window from explicit coefficients
func NewUser(coefficients []float64) *User {
	coeffs := make([]float64, len(coefficients))
	copy(coeffs, coefficients)
	return &User{coefficients: coeffs}
}

// Apply applies the window to a signal (creates new array)
func (u *User) Apply(signal []float64) []float64 {
	if len(signal) != len(u.coefficients) {
		return nil
	}

	windowed := make([]float64, len(signal))
	for i := range signal {
		windowed[i] = signal[i] * u.coefficients[i]
	}

	return windowed
}

// ApplyInPlace applies the window to a signal in-place
func (u *User) ApplyInPlace(signal []float64) error {
	if len(signal) != len(u.coefficients) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(u.coefficients))
	}

	for i := range signal {
		signal[i] *= u.coefficients[i]
	}

	return nil
}

// GetCoefficients returns a copy of the window coefficients
func (u *User) GetCoefficients() []float64 {
	coeffs := make([]float64, len(u.coefficients))
	copy(coeffs, u.coefficients)
	return coeffs
}

// GetSize returns the window size
func (u *User) GetSize() int {
	return len(u.coefficients)
}

// GetType returns the window type
func (u *User) GetType() string {
	return "user_specified"
}

// GainCorrection returns the factor that compensates the amplitude loss of
// a window, 1/mean(coefficients).
func GainCorrection(coefficients []float64) float64 {
	if len(coefficients) == 0 {
		return 1
	}

	var sum float64
	for _, c := range coefficients {
		sum += c
	}

	return float64(len(coefficients)) / sum
}
